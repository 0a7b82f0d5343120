package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/internal/infrastructure/kms"
	"github.com/turtacn/transgate/pkg/logger"
)

var configFile string

// rootCmd represents the base command when the `transgate-admin` binary is called without any subcommands.
// It provides the entry point for the entire CLI application.
// rootCmd 代表在没有任何子命令的情况下调用 `transgate-admin` 二进制文件时的基本命令。
// 它为整个 CLI 应用程序提供入口点。
var rootCmd = &cobra.Command{
	Use:   "transgate-admin",
	Short: "Operational tooling for the transgate translation gateway.",
	Long: `transgate-admin runs the gateway's building blocks outside the server:
checking configuration, resolving signing keys, validating access tokens and
screening text against the configured moderation thresholds.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yaml")
}

// Execute is the main entry point for the CLI application.
// It adds all child commands to the root command, parses the command-line arguments,
// and executes the appropriate command. If an error occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。
// 它将所有子命令添加到根命令中，解析命令行参数，并执行相应的命令。
// 如果发生错误，它会打印错误并退出。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime loads configuration the same way the server does, including
// secrets from Vault when configured.
func loadRuntime(ctx context.Context) (*config.Config, *config.Store, error) {
	log := logger.NewNoopLogger()
	cfg, err := config.NewLoader(log, configFile).Load()
	if err != nil {
		return nil, nil, err
	}
	store := config.NewStore(cfg.Identity())
	if cfg.Vault.Enabled() {
		provider, err := kms.NewVaultProvider(cfg.Vault, nil, log)
		if err != nil {
			return nil, nil, fmt.Errorf("vault client: %w", err)
		}
		secrets, err := provider.LoadSecrets(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("vault secrets: %w", err)
		}
		secrets.Apply(cfg, store)
	}
	return cfg, store, nil
}

//Personal.AI order the ending
