package commands

import (
	"errors"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darkshade/shade/internal/cli/config"
	"github.com/darkshade/shade/internal/cli/ui"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var (
	configFlag   string
	noColorFlag  bool
	logLevelFlag string
)

// reported marks an error whose message was already written to the user
type reported struct {
	error
}

func (r reported) Unwrap() error {
	return r.error
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shade",
		Short: "Map tagged Go structs onto relational tables",
		Long: color.CyanString(`Shade - a small object-relational mapper

Shade reads entity declarations from struct tags and persists them
through one transactional session on SQLite, MySQL or PostgreSQL.

Commands:
  • ping     check that a database url is reachable
  • inspect  show how the bundled entities map to tables
  • demo     run a save/find/delete round trip`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file (default ./shade.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override log.level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewPingCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewDemoCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the shade version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), noColorFlag)
			kv.AddRow("Shade version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// loadConfig reads the configuration and builds the logger for it.
// The --log-level flag wins over the configured level.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, err
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// report writes err as a formatted message and marks it as reported
func report(cmd *cobra.Command, err error) error {
	ui.Write(cmd.ErrOrStderr(), ui.ErrorMessage(err, noColorFlag))
	return reported{err}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var r reported
		if !errors.As(err, &r) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}
