package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darkshade/shade/internal/cli/ui"
	"github.com/darkshade/shade/pkg/shade"
)

var pingURLFlag string

// NewPingCommand creates the ping command
func NewPingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured database is reachable",
		Long: `Open a session on the configured database url and close it again.

The url comes from --url, SHADE_DATABASE_URL or database.url in shade.yaml.
Credentials come from SHADE_DATABASE_USER and SHADE_DATABASE_PASSWORD.`,
		Example: `  # Ping the configured database
  shade ping

  # Ping a specific database
  shade ping --url postgres://localhost:5432/app
  shade ping --url sqlite3:app.db`,
		RunE: runPing,
	}

	cmd.Flags().StringVar(&pingURLFlag, "url", "", "Override database.url")

	return cmd
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	url := cfg.Database.URL
	if pingURLFlag != "" {
		url = pingURLFlag
	}

	m, err := shade.Open(cmd.Context(), url, cfg.Database.User, cfg.Database.Password, shade.WithLogger(logger))
	if err != nil {
		return report(cmd, err)
	}
	target := m.Session().Target()
	dialect := m.Session().Dialect().Name()

	if err := m.CloseSession(); err != nil {
		return report(cmd, err)
	}

	ui.Success(cmd.OutOrStdout(), fmt.Sprintf("connected to %s (%s)", target, dialect), noColorFlag)
	return nil
}
