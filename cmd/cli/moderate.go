package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/internal/infrastructure/azure"
	"github.com/turtacn/transgate/pkg/logger"
)

// moderateCmd screens text against the configured content-safety thresholds.
// moderateCmd 使用已配置的内容安全阈值审核文本。
var moderateCmd = &cobra.Command{
	Use:   "moderate <text>",
	Short: "Screen text with the configured moderation thresholds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		if cfg.ContentSafety.Endpoint == "" {
			return fmt.Errorf("content_safety.endpoint is not configured")
		}

		gate := service.NewModerationGate(
			azure.NewContentSafetyClient(&cfg.ContentSafety, nil),
			cfg.Moderation.Thresholds,
			logger.NewNoopLogger(),
		)
		verdict, err := gate.Screen(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		result := map[string]interface{}{
			"flagged": verdict.Flagged(),
			"verdict": verdict,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(moderateCmd)
}

//Personal.AI order the ending
