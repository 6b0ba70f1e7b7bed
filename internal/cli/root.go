package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transfit-backend/internal/shared/telemetry"
)

var (
	// Global flags
	jsonOutput bool
)

// rootCmd is the root command for transfit.
var rootCmd = &cobra.Command{
	Use:     "transfit",
	Version: "dev",
	Short:   "Safety-aware workout plan tooling",
	Long: `transfit generates workout plans against the safety rules document and
manages the rules and exercise catalog the API serves from.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.SetOutput(os.Stderr)
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "plans",
		Title: "Plans:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "data",
		Title: "Rules & Catalog:",
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the transfit CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	generateCmd.GroupID = "plans"
	quickstartCmd.GroupID = "plans"
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(quickstartCmd)

	configCmd.GroupID = "data"
	catalogCmd.GroupID = "data"
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(catalogCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
