package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"transfit-backend/internal/catalog"
	"transfit-backend/internal/shared/config"
	"transfit-backend/internal/shared/storage/db"
)

var importDryRun bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the exercise catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Load a staging CSV export into the exercises table",
	Long: `Parse a staging CSV export, normalize equipment and list columns, and
upsert the rows into Postgres by slug. Rows that fail to parse are reported
and skipped. With --dry-run nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		exercises, rowErrs, err := catalog.ParseCSV(f)
		if err != nil {
			return err
		}
		for _, re := range rowErrs {
			PrintWarning(cmd.ErrOrStderr(), re.Error())
		}

		written := 0
		if !importDryRun {
			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required (or use --dry-run)")
			}
			ctx := context.Background()
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := db.RunMigrations(ctx, sqlDB); err != nil {
				return err
			}
			written, err = (&catalog.PGCatalog{DB: sqlDB}).Upsert(ctx, exercises)
			if err != nil {
				return err
			}
		}

		dist := equipmentDistribution(exercises)
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]any{
				"parsed":    len(exercises),
				"skipped":   len(rowErrs),
				"written":   written,
				"dryRun":    importDryRun,
				"equipment": dist,
			})
		}

		out := cmd.OutOrStdout()
		PrintSection(out, "Import")
		PrintLabelValue(out, "Parsed", fmt.Sprintf("%d", len(exercises)))
		PrintLabelValue(out, "Skipped", fmt.Sprintf("%d", len(rowErrs)))
		PrintSection(out, "Equipment")
		keys := make([]string, 0, len(dist))
		for k := range dist {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			PrintLabelValue(out, k, fmt.Sprintf("%d", dist[k]))
		}
		fmt.Fprintln(out)
		if importDryRun {
			PrintWarning(out, "dry run, nothing written")
			return nil
		}
		PrintSuccess(out, fmt.Sprintf("upserted %d exercises", written))
		return nil
	},
}

// equipmentDistribution counts exercises per equipment token.
func equipmentDistribution(exercises []catalog.Exercise) map[string]int {
	dist := make(map[string]int)
	for _, e := range exercises {
		for _, eq := range e.Equipment {
			dist[eq]++
		}
	}
	return dist
}

func init() {
	catalogImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report without writing")
	catalogCmd.AddCommand(catalogImportCmd)
}
