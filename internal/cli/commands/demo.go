package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darkshade/shade/internal/cli/ui"
	"github.com/darkshade/shade/pkg/shade"
)

var (
	demoURLFlag  string
	demoKeepFlag bool
)

// NewDemoCommand creates the demo command
func NewDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a save/find/delete round trip on the notes table",
		Long: `Create the notes table if needed, save two notes, update one of them,
read every row back and print it. The rows are removed afterwards unless
--keep is given.

Run with --log-level debug to see the statements shade issues.`,
		Example: `  # Run against an in-memory SQLite database
  shade demo

  # Run against PostgreSQL and keep the rows
  shade demo --url postgres://localhost:5432/app --keep`,
		RunE: runDemo,
	}

	cmd.Flags().StringVar(&demoURLFlag, "url", "", "Override database.url")
	cmd.Flags().BoolVar(&demoKeepFlag, "keep", false, "Keep the saved notes")

	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	url := cfg.Database.URL
	if demoURLFlag != "" {
		url = demoURLFlag
	}

	m, err := shade.Open(ctx, url, cfg.Database.User, cfg.Database.Password, shade.WithLogger(logger))
	if err != nil {
		return report(cmd, err)
	}
	defer func() {
		if err := m.CloseSession(); err != nil {
			logger.Warn("failed to close session", zap.Error(err))
		}
	}()

	ddl, err := notesTable(m.Session().Dialect().Name())
	if err != nil {
		return err
	}
	if _, err := m.Session().Exec(ctx, ddl); err != nil {
		return report(cmd, fmt.Errorf("create notes table: %w", err))
	}
	if err := m.Session().Commit(); err != nil {
		return report(cmd, err)
	}

	notes, err := shade.NewRepository[Note, int64](m)
	if err != nil {
		return report(cmd, err)
	}

	body := "Notes on the analytical engine"
	now := time.Now().UTC().Truncate(time.Second)
	ada := &Note{Title: "Ada", Body: &body, Created: now}
	grace := &Note{Title: "Grace", Created: now}
	if err := notes.SaveAll(ctx, ada, grace); err != nil {
		return report(cmd, err)
	}

	grace.Pinned = true
	if err := notes.Save(ctx, grace); err != nil {
		return report(cmd, err)
	}

	all, err := notes.FindAll(ctx)
	if err != nil {
		return report(cmd, err)
	}

	out := cmd.OutOrStdout()
	ui.Header(out, "Notes", noColorFlag)
	table := ui.NewTable(out, noColorFlag, "Id", "Title", "Body", "Pinned", "Created")
	for _, n := range all {
		text := ""
		if n.Body != nil {
			text = *n.Body
		}
		table.AddRow(strconv.FormatInt(*n.ID, 10), n.Title, text, yesNo(n.Pinned), n.Created.Format(time.DateTime))
	}
	table.Render()

	if demoKeepFlag {
		ui.Success(out, fmt.Sprintf("kept %d notes in %s", len(all), m.Session().Target()), noColorFlag)
		return nil
	}

	for _, n := range []*Note{ada, grace} {
		if err := notes.DeleteEntity(ctx, n); err != nil {
			return report(cmd, err)
		}
	}
	ui.Success(out, "saved, updated and removed both notes", noColorFlag)
	return nil
}
