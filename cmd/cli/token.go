package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/internal/infrastructure/kms"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Work with access tokens",
}

var tokenCheckCmd = &cobra.Command{
	Use:   "check [token]",
	Short: "Validate an access token exactly as the gateway would",
	Long:  `Reads the token from the argument, or from stdin when omitted, and prints the verdict.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) == 1 {
			raw = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read token from stdin: %w", err)
			}
			raw = line
		}
		raw = strings.TrimSpace(raw)
		if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			raw = "Bearer " + raw
		}

		cfg, store, err := loadRuntime(cmd.Context())
		if err != nil {
			return err
		}
		log := logger.NewNoopLogger()
		resolvers := kms.NewResolverProvider(kms.KeyFetcherOptions{
			AuthorityURL: cfg.Auth.AuthorityURL,
			Timeout:      cfg.Auth.KeyDiscoveryTimeout,
		}, log)
		validator := service.NewTokenValidator(store, resolvers, service.TokenValidatorOptions{
			AuthorityURL:  cfg.Auth.AuthorityURL,
			RequiredScope: cfg.Auth.RequiredScope,
			Leeway:        cfg.Auth.Leeway,
		}, nil, log)

		principal, err := validator.Validate(cmd.Context(), raw)
		if err != nil {
			appErr := errors.AsAppError(err)
			return fmt.Errorf("rejected with %d %q: %v", appErr.HTTPStatus(), appErr.Description(), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "token accepted")
		fmt.Fprintf(out, "  sub:    %s\n", principal.Subject())
		fmt.Fprintf(out, "  azp:    %s\n", principal.AuthorizedParty())
		fmt.Fprintf(out, "  scopes: %s\n", strings.Join(principal.ScopeList(), " "))
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenCheckCmd)
	rootCmd.AddCommand(tokenCmd)
}

//Personal.AI order the ending
