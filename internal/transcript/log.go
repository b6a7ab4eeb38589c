package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Sessions are persisted as JSON next to the exported PDF so a transcript
// can be re-rendered later without the recording process.

func (s Speaker) MarshalJSON() ([]byte, error) {
	switch s {
	case SpeakerUser:
		return json.Marshal("user")
	case SpeakerAI:
		return json.Marshal("ai")
	}
	return json.Marshal("system")
}

func (s *Speaker) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "user":
		*s = SpeakerUser
	case "ai":
		*s = SpeakerAI
	case "system":
		*s = SpeakerSystem
	default:
		return fmt.Errorf("unknown speaker %q", name)
	}
	return nil
}

// Log is the serialized form of one recorded session.
type Log struct {
	Title     string    `json:"title"`
	StartedAt time.Time `json:"started_at"`
	Entries   []Entry   `json:"entries"`
}

func SaveLog(path string, log Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func LoadLog(path string) (Log, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Log{}, fmt.Errorf("failed to read transcript log: %w", err)
	}
	var log Log
	if err := json.Unmarshal(raw, &log); err != nil {
		return Log{}, fmt.Errorf("failed to parse transcript log: %w", err)
	}
	return log, nil
}
