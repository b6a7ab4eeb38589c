// Package core runs the widget's mode handlers behind the event bus. The UI
// reducer owns WidgetState; this service owns the external collaborators
// (voice provider, text backends, transcript recorder) and reports back with
// generation-tagged core events.
package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kiaan-ai/voiceorb/internal/config"
	"github.com/kiaan-ai/voiceorb/internal/eventbus"
	"github.com/kiaan-ai/voiceorb/internal/models"
	"github.com/kiaan-ai/voiceorb/internal/text"
	"github.com/kiaan-ai/voiceorb/internal/transcript"
	"github.com/kiaan-ai/voiceorb/internal/voice"
)

// VoiceDialer abstracts the voice provider client so tests can substitute a
// local websocket server or a stub.
type VoiceDialer interface {
	StartSession(ctx context.Context, agentID string) (*voice.Session, error)
}

type WidgetService struct {
	bus        *eventbus.Bus
	resolver   *config.Resolver
	textClient *text.Client
	recognizer voice.Recognizer
	recorder   *transcript.Recorder
	exporter   *transcript.Exporter
	exportDir  string
	log        *zap.Logger
	now        func() time.Time

	// newDialer builds a provider client from the resolved API key at
	// session start, so credential changes apply on the next session.
	newDialer func(apiKey string) VoiceDialer

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	session    *voice.Session
	sessionGen uint64
	meeting    bool
}

type ServiceOption func(*WidgetService)

func WithVoiceDialer(newDialer func(apiKey string) VoiceDialer) ServiceOption {
	return func(s *WidgetService) { s.newDialer = newDialer }
}

func WithRecognizer(r voice.Recognizer) ServiceOption {
	return func(s *WidgetService) { s.recognizer = r }
}

func WithExportDir(dir string) ServiceOption {
	return func(s *WidgetService) { s.exportDir = dir }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *WidgetService) { s.now = now }
}

func NewWidgetService(bus *eventbus.Bus, resolver *config.Resolver, log *zap.Logger, opts ...ServiceOption) *WidgetService {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &WidgetService{
		bus:        bus,
		resolver:   resolver,
		textClient: text.NewClient(resolver, log),
		recognizer: voice.DemoRecognizer{},
		recorder:   transcript.NewRecorder(),
		exporter:   transcript.NewExporter(),
		exportDir:  ".",
		log:        log,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
	s.newDialer = func(apiKey string) VoiceDialer {
		return voice.NewClient(apiKey, log)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *WidgetService) Recorder() *transcript.Recorder {
	return s.recorder
}

// Start runs the core event loop in a goroutine.
func (s *WidgetService) Start() {
	go s.eventLoop()
}

func (s *WidgetService) Stop() {
	s.cancel()
	s.endSession(0, true)
}

func (s *WidgetService) eventLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.bus.UIToCore():
			if !ok {
				return
			}
			s.handleUIEvent(event)
		}
	}
}

func (s *WidgetService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendTextEvent:
		go s.handleSendText(e)
	case eventbus.StartVoiceEvent:
		go s.handleStartVoice(e)
	case eventbus.StopVoiceEvent:
		s.endSession(e.Gen, false)
	case eventbus.StartMeetingEvent:
		s.handleStartMeeting(e)
	case eventbus.StopMeetingEvent:
		s.handleStopMeeting(e)
	case eventbus.ExportTranscriptEvent:
		go s.handleExport(e)
	case eventbus.EndSessionEvent:
		s.endSession(e.Gen, false)
	}
}

func (s *WidgetService) push(event eventbus.CoreEvent) {
	if err := s.bus.SendToUI(event); err != nil {
		s.log.Warn("failed to push core event", zap.Error(err))
	}
}

func (s *WidgetService) notify(title, body string, isErr bool) {
	s.push(eventbus.NotificationEvent{Title: title, Body: body, Error: isErr})
}

func (s *WidgetService) message(gen uint64, msgType models.MessageType, content string) {
	s.push(eventbus.MessageEvent{
		Gen: gen,
		Message: models.Message{
			ID:        uuid.NewString(),
			Content:   content,
			Type:      msgType,
			Timestamp: s.now(),
		},
	})
}

// handleSendText answers one text-mode message. Replies are appended in
// completion order; two in-flight sends may land out of request order, which
// is accepted since every message carries its own timestamp.
func (s *WidgetService) handleSendText(e eventbus.SendTextEvent) {
	s.push(eventbus.WaitingEvent{Gen: e.Gen, Waiting: true})
	defer s.push(eventbus.WaitingEvent{Gen: e.Gen, Waiting: false})

	reply, demo := s.textClient.Send(s.ctx, e.Message, e.Files, e.History)
	if demo {
		s.log.Info("text reply synthesized locally")
	}
	s.message(e.Gen, models.Assistant, reply)
}

func (s *WidgetService) handleStartVoice(e eventbus.StartVoiceEvent) {
	if !s.resolver.HasValidVoiceConfig() {
		// Demo session: pretend to connect, deliver a canned exchange when
		// the session ends.
		s.mu.Lock()
		s.sessionGen = e.Gen
		s.meeting = e.Meeting
		s.mu.Unlock()
		s.push(eventbus.SessionStatusEvent{Gen: e.Gen, Connected: true})
		return
	}

	if err := s.recognizer.Start(s.ctx); err != nil {
		if err == voice.ErrPermissionDenied {
			s.notify("Microphone Access Denied",
				"Please allow microphone access to use voice features.", true)
		} else {
			s.notify("Connection Failed",
				"Failed to start voice conversation. Please try again.", true)
		}
		return
	}

	agentKind := config.ChatAgentID
	if e.Meeting {
		agentKind = config.MeetingAgentID
	}
	agentID := s.resolver.Resolve(agentKind).Value
	apiKey := s.resolver.Resolve(config.ElevenLabsAPIKey).Value

	session, err := s.newDialer(apiKey).StartSession(s.ctx, agentID)
	if err != nil {
		s.recognizer.Stop()
		s.log.Error("voice session failed to start", zap.Error(err))
		s.notify("Connection Error",
			"Failed to connect to the voice provider. Please check your configuration.", true)
		return
	}

	s.mu.Lock()
	s.session = session
	s.sessionGen = e.Gen
	s.meeting = e.Meeting
	s.mu.Unlock()

	s.push(eventbus.SessionStatusEvent{Gen: e.Gen, Connected: true})
	go s.pumpSession(session, e)
}

// pumpSession forwards provider events to the UI and the meeting recorder.
// Only final user transcripts persist; interims are display-only.
func (s *WidgetService) pumpSession(session *voice.Session, e eventbus.StartVoiceEvent) {
	for event := range session.Events() {
		switch {
		case event.Source == voice.SourceUser && !event.Final:
			s.push(eventbus.InterimEvent{Gen: e.Gen, Content: event.Content})
		case event.Source == voice.SourceUser:
			s.message(e.Gen, models.User, event.Content)
			s.record(transcript.SpeakerUser, event.Content)
		default:
			s.message(e.Gen, models.Assistant, event.Content)
			s.record(transcript.SpeakerAI, event.Content)
		}
	}

	err := session.Err()
	if err == nil {
		// Clean End; status already updated by endSession.
		return
	}

	if voice.BenignClose(err) && s.isCurrent(e.Gen) {
		// Ordinary end-of-stream while still connected: restart recognition.
		s.log.Info("voice stream ended, restarting session")
		s.clearSession(e.Gen)
		s.handleStartVoice(e)
		return
	}

	s.log.Error("voice session failed", zap.Error(err))
	s.clearSession(e.Gen)
	s.push(eventbus.SessionStatusEvent{Gen: e.Gen, Connected: false})
	s.notify("Connection Error",
		"Lost connection to the voice provider.", true)
}

func (s *WidgetService) record(speaker transcript.Speaker, content string) {
	if s.recorder.Recording() {
		s.recorder.Append(speaker, content)
	}
}

func (s *WidgetService) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionGen == gen
}

func (s *WidgetService) clearSession(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionGen == gen {
		s.session = nil
	}
}

// endSession terminates the session belonging to gen. Termination happens
// before any state is discarded on the UI side, so a message delivered after
// this point carries a stale generation and is dropped by the reducer.
func (s *WidgetService) endSession(gen uint64, force bool) {
	s.mu.Lock()
	if !force && s.sessionGen != gen {
		s.mu.Unlock()
		return
	}
	session := s.session
	s.session = nil
	wasDemo := session == nil && s.sessionGen == gen
	s.mu.Unlock()

	s.recognizer.Stop()
	if session != nil {
		session.End()
		s.push(eventbus.SessionStatusEvent{Gen: gen, Connected: false})
		return
	}

	if wasDemo && !force {
		// Closing a demo voice session delivers the canned exchange the
		// browser widget shipped with.
		s.push(eventbus.SessionStatusEvent{Gen: gen, Connected: false})
		s.message(gen, models.User, "[Demo] Voice input received")
		demoReply := "Hello! This is a demo of the Kiaan Voice Orb. Configure your " +
			"voice provider credentials to talk to a real agent."
		s.message(gen, models.Assistant, demoReply)
		s.record(transcript.SpeakerUser, "[Demo] Voice input received")
		s.record(transcript.SpeakerAI, demoReply)
	}
}

func (s *WidgetService) handleStartMeeting(e eventbus.StartMeetingEvent) {
	s.recorder.Start(e.Title)
	s.message(e.Gen, models.System,
		"Recording started: "+s.recorder.Title())

	if !s.resolver.HasValidVoiceConfig() {
		go s.seedDemoMeeting(e.Gen)
	}
}

// seedDemoMeeting replays the sample exchange the original widget used when
// recording without provider credentials.
func (s *WidgetService) seedDemoMeeting(gen uint64) {
	exchanges := []struct {
		speaker transcript.Speaker
		msgType models.MessageType
		content string
	}{
		{transcript.SpeakerUser, models.User,
			"Hello everyone, thanks for joining today's meeting."},
		{transcript.SpeakerAI, models.Assistant,
			"Good morning! I'm here to assist with note-taking and action items for this meeting."},
	}

	for _, exchange := range exchanges {
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(time.Second):
		}
		if !s.recorder.Recording() {
			return
		}
		s.recorder.Append(exchange.speaker, exchange.content)
		s.message(gen, exchange.msgType, exchange.content)
	}
}

func (s *WidgetService) handleStopMeeting(e eventbus.StopMeetingEvent) {
	s.recorder.Stop()
	entries := s.recorder.Snapshot()
	if len(entries) > 0 {
		s.message(e.Gen, models.System, entries[len(entries)-1].Content)
	}
	s.notify("Recording Stopped", "Meeting recording has been saved.", false)
}

func (s *WidgetService) handleExport(e eventbus.ExportTranscriptEvent) {
	if s.recorder.Len() == 0 {
		s.notify("Nothing to Export", "Start a meeting recording first.", true)
		return
	}
	path, err := s.exporter.SaveRecorder(s.recorder, s.exportDir, s.now())
	if err != nil {
		s.log.Error("transcript export failed", zap.Error(err))
		s.notify("Download Error", "Failed to export the meeting transcript.", true)
		return
	}

	// The raw log goes next to the PDF so `voiceorb transcript export` can
	// re-render it later.
	logPath := strings.TrimSuffix(path, ".pdf") + ".json"
	if err := transcript.SaveLog(logPath, transcript.Log{
		Title:     s.recorder.Title(),
		StartedAt: s.recorder.StartedAt(),
		Entries:   s.recorder.Snapshot(),
	}); err != nil {
		s.log.Warn("failed to save transcript log", zap.Error(err))
	}

	s.push(eventbus.TranscriptSavedEvent{Gen: e.Gen, Path: path})
}
