package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"transfit-backend/internal/plans"
	"transfit-backend/internal/profile"
)

var (
	generateProfilePath string
	generateStart       string
	generateBlock       int
	generateRulesPath   string
	quickstartStart     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a plan from a profile file",
	Long: `Generate a workout plan for the profile in a JSON or YAML file.

The plan is printed and not stored. Use --rules to try a safety document
before publishing it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateProfilePath == "" {
			return fmt.Errorf("--profile is required")
		}
		p, err := profile.ParseFile(generateProfilePath)
		if err != nil {
			return err
		}
		start, err := parseStart(generateStart)
		if err != nil {
			return err
		}

		ctx := context.Background()
		gen, cleanup, err := newGenerator(ctx, generateRulesPath)
		if err != nil {
			return err
		}
		defer cleanup()

		plan, err := gen.GeneratePlan(ctx, plans.GenerateInput{
			Profile:     p,
			BlockLength: generateBlock,
			StartDate:   start,
		})
		if err != nil {
			var invalid *profile.InvalidProfileError
			if errors.As(err, &invalid) {
				for _, f := range invalid.Fields {
					PrintError(cmd.ErrOrStderr(), fmt.Sprintf("%s: %s", f.Field, f.Issue))
				}
			}
			return err
		}
		return renderPlan(cmd, plan)
	},
}

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Generate the 5 minute onboarding session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseStart(quickstartStart)
		if err != nil {
			return err
		}
		ctx := context.Background()
		gen, cleanup, err := newGenerator(ctx, "")
		if err != nil {
			return err
		}
		defer cleanup()

		plan, err := gen.GenerateQuickStartPlan(ctx, start)
		if err != nil {
			return err
		}
		return renderPlan(cmd, plan)
	},
}

func renderPlan(cmd *cobra.Command, plan plans.Plan) error {
	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), plan)
	}
	printPlan(cmd.OutOrStdout(), plan)
	return nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateProfilePath, "profile", "p", "", "Profile file (.json, .yaml)")
	generateCmd.Flags().StringVar(&generateStart, "start", "", "First day of the plan (YYYY-MM-DD, default today)")
	generateCmd.Flags().IntVar(&generateBlock, "block", 0, "Block length in weeks (1 or 4), overrides the profile")
	generateCmd.Flags().StringVar(&generateRulesPath, "rules", "", "Safety document to use instead of the embedded one")

	quickstartCmd.Flags().StringVar(&quickstartStart, "start", "", "Day of the session (YYYY-MM-DD, default today)")
}
