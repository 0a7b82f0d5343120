package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and print a redacted summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		if err := cfg.ValidateUpstreams(); err != nil {
			return err
		}
		identity := store.Get()
		if !identity.Complete() {
			return fmt.Errorf("tenant or client ID is not configured")
		}

		summary := map[string]interface{}{
			"environment":             cfg.Server.Environment,
			"port":                    cfg.Server.Port,
			"tenant_id":               identity.TenantID,
			"client_id":               identity.ClientID,
			"authority_url":           cfg.Auth.AuthorityURL,
			"required_scope":          cfg.Auth.RequiredScope,
			"content_safety_endpoint": cfg.ContentSafety.Endpoint,
			"content_safety_key_set":  cfg.ContentSafety.Key != "",
			"translator_endpoint":     cfg.Translator.Endpoint,
			"translator_key_set":      cfg.Translator.Key != "",
			"thresholds":              cfg.Moderation.Thresholds,
			"shared_key_cache":        cfg.Redis.Enabled(),
			"vault":                   cfg.Vault.Enabled(),
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

//Personal.AI order the ending
