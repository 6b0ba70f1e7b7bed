package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"transfit-backend/internal/bootstrap"
	"transfit-backend/internal/safetyconfig"
	"transfit-backend/internal/shared/config"
	"transfit-backend/internal/shared/util"
)

var publishKey string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate and publish safety rules documents",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check a safety rules document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readSafetyDocument(args[0])
		if err != nil {
			reportLoadError(cmd, err)
			return err
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]any{"valid": true, "version": cfg.Version})
		}
		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s is valid (version %s)", args[0], cfg.Version))
		return nil
	},
}

var configPublishCmd = &cobra.Command{
	Use:   "publish <path>",
	Short: "Validate a rules document and upload it to the object store",
	Long: `Validate a safety rules document and write it to the configured object
store (OBJECT_STORE_TYPE) under --key. Running servers pick it up on their
next cold start or after a reload.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		parsed, err := readSafetyDocument(path)
		if err != nil {
			reportLoadError(cmd, err)
			return err
		}

		cfg := config.Load()
		key := publishKey
		if key == "" {
			key = cfg.SafetyConfigKey
		}
		key, err = util.CleanObjectKey(key)
		if err != nil {
			return err
		}
		if safetyconfig.FormatForKey(key) != safetyconfig.FormatForKey(path) {
			return fmt.Errorf("key %q and file %q use different formats", key, filepath.Base(path))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		ctx := context.Background()
		store, err := bootstrap.NewObjectStore(ctx, cfg)
		if err != nil {
			return err
		}
		contentType := "application/json"
		if safetyconfig.FormatForKey(key) == "yaml" {
			contentType = "application/yaml"
		}
		n, err := store.SaveWithKey(ctx, key, contentType, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("publish %s: %w", key, err)
		}
		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), map[string]any{"key": key, "bytes": n, "version": parsed.Version})
		}
		PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("published version %s to %s (%d bytes)", parsed.Version, key, n))
		return nil
	},
}

func readSafetyDocument(path string) (*safetyconfig.SafetyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return safetyconfig.Parse(data, safetyconfig.FormatForKey(path))
}

func reportLoadError(cmd *cobra.Command, err error) {
	var loadErr *safetyconfig.LoadError
	if !errors.As(err, &loadErr) {
		return
	}
	for _, issue := range loadErr.Issues {
		PrintError(cmd.ErrOrStderr(), issue)
	}
}

func init() {
	configPublishCmd.Flags().StringVar(&publishKey, "key", "", "Object key (default SAFETY_CONFIG_KEY)")
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPublishCmd)
}
