package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiaan-ai/voiceorb/internal/transcript"
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Work with recorded meeting transcripts",
}

var exportTranscriptCmd = &cobra.Command{
	Use:   "export [log-file]",
	Short: "Render a saved transcript log to PDF",
	Long: `Render a transcript log (the .json file written alongside an in-widget
export) to a PDF document in the current directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entryLog, err := transcript.LoadLog(args[0])
		if err != nil {
			log.Fatalf("Failed to load transcript: %v", err)
		}

		exporter := transcript.NewExporter()
		data, err := exporter.Export(entryLog.Title, entryLog.StartedAt, entryLog.Entries)
		if err != nil {
			log.Fatalf("Failed to render transcript: %v", err)
		}

		name := transcript.Filename(entryLog.Title, time.Now())
		if err := os.WriteFile(name, data, 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", name, err)
		}

		abs, _ := filepath.Abs(name)
		fmt.Printf("Transcript exported to %s\n", abs)
	},
}

func init() {
	transcriptCmd.AddCommand(exportTranscriptCmd)
}
