package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/turtacn/transgate/internal/infrastructure/kms"
	"github.com/turtacn/transgate/pkg/logger"
)

// keysCmd represents the root command for signing key operations.
// keysCmd 代表所有签名密钥相关操作的根命令。
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Inspect the identity provider's signing keys",
}

var keysResolveCmd = &cobra.Command{
	Use:   "resolve <kid>",
	Short: "Fetch the published key set and resolve one key by kid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		tenantID := store.Get().TenantID
		if tenantID == "" {
			return fmt.Errorf("tenant ID is not configured")
		}

		fetcher, err := kms.NewKeyFetcher(tenantID, kms.KeyFetcherOptions{
			AuthorityURL: cfg.Auth.AuthorityURL,
			Timeout:      cfg.Auth.KeyDiscoveryTimeout,
		}, logger.NewNoopLogger())
		if err != nil {
			return err
		}

		key, err := fetcher.Resolve(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("resolve %s from %s: %w", args[0], fetcher.DiscoveryURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "kid=%s modulus_bits=%d exponent=%d source=%s\n",
			args[0], key.N.BitLen(), key.E, fetcher.DiscoveryURL())
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysResolveCmd)
	rootCmd.AddCommand(keysCmd)
}

//Personal.AI order the ending
