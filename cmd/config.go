package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kiaan-ai/voiceorb/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage widget configuration overrides",
	Long: `Manage the persisted configuration overrides for agent ids, API keys and
the text webhook. Environment variables always take precedence over stored
overrides, which take precedence over the compiled-in demo defaults.`,
}

func newResolver() *config.Resolver {
	store, err := config.NewFileStore()
	if err != nil {
		log.Fatalf("Failed to open config store: %v", err)
	}
	return config.NewResolver(store, zap.NewNop())
}

func isSecret(kind config.Kind) bool {
	return kind == config.ElevenLabsAPIKey || kind == config.OpenAIAPIKey
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		resolver := newResolver()

		for _, kind := range config.Kinds() {
			eff := resolver.Resolve(kind)

			value := eff.Value
			if isSecret(kind) {
				if value == "" {
					value = "(not set)"
				} else {
					value = "(set, hidden)"
				}
			} else if value == "" {
				value = "(empty)"
			}

			marker := ""
			if eff.IsDefault {
				marker = " [default]"
			}
			fmt.Printf("  %-22s %s  (source: %s)%s\n", kind, value, eff.Source, marker)
		}

		fmt.Println()
		if resolver.HasValidVoiceConfig() {
			fmt.Println("Voice mode: configured")
		} else {
			fmt.Println("Voice mode: demo (set elevenlabs_api_key and both agent ids)")
		}
		if resolver.HasValidTextConfig() {
			fmt.Println("Text mode: configured")
		} else {
			fmt.Println("Text mode: demo (set openai_api_key or webhook_url)")
		}
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set [kind]",
	Short: "Persist a configuration override",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resolver := newResolver()

		kind, err := pickKind(args)
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		prompt := promptui.Prompt{Label: string(kind)}
		if isSecret(kind) {
			prompt.Mask = '*'
		}
		value, err := prompt.Run()
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		if err := resolver.SetOverride(kind, value); err != nil {
			log.Fatalf("Failed to save override: %v", err)
		}

		fmt.Printf("Override for '%s' saved.\n", kind)
		if env := resolver.Resolve(kind); env.Source == config.SourceEnv {
			fmt.Printf("Note: %s is set and takes precedence over the stored override.\n",
				config.EnvVar(kind))
		}
		fmt.Println("A running widget keeps its old configuration until restarted.")
	},
}

var unsetConfigCmd = &cobra.Command{
	Use:   "unset [kind]",
	Short: "Remove a persisted configuration override",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resolver := newResolver()

		kind, err := pickKind(args)
		if err != nil {
			log.Fatalf("Selection failed: %v", err)
		}

		if err := resolver.ClearOverride(kind); err != nil {
			log.Fatalf("Failed to remove override: %v", err)
		}
		fmt.Printf("Override for '%s' removed.\n", kind)
	},
}

func pickKind(args []string) (config.Kind, error) {
	if len(args) > 0 {
		kind, ok := config.ParseKind(args[0])
		if !ok {
			return "", fmt.Errorf("unknown configuration kind %q (one of: %s)",
				args[0], kindList())
		}
		return kind, nil
	}

	items := make([]string, 0, len(config.Kinds()))
	for _, kind := range config.Kinds() {
		items = append(items, string(kind))
	}
	prompt := promptui.Select{
		Label: "Configuration kind",
		Items: items,
	}
	_, chosen, err := prompt.Run()
	if err != nil {
		return "", err
	}
	kind, _ := config.ParseKind(chosen)
	return kind, nil
}

func kindList() string {
	names := make([]string, 0, len(config.Kinds()))
	for _, kind := range config.Kinds() {
		names = append(names, string(kind))
	}
	return strings.Join(names, ", ")
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
	configCmd.AddCommand(unsetConfigCmd)
}
