package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kiaan-ai/voiceorb/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "voiceorb",
	Short: "A floating voice, text and meeting assistant widget",
	Long: `VoiceOrb embeds a floating assistant orb in your terminal. Click it to pick
an interaction mode: talk to a conversational voice agent, chat over text with
optional file attachments, or record a meeting and export the transcript.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for the VOICEORB_* variables; absence is fine.
		_ = godotenv.Load()
	},
	Run: func(cmd *cobra.Command, args []string) {
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(transcriptCmd)
}
