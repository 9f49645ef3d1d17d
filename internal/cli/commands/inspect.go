package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/darkshade/shade/internal/cli/ui"
	"github.com/darkshade/shade/internal/orm/schema"
)

// ErrUnknownEntity is returned by inspect for a name no bundled entity carries
var ErrUnknownEntity = errors.New("unknown entity")

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [entity]",
		Short: "Show how the bundled entities map to tables",
		Long: `Without arguments, list every bundled entity with its table and key.
With an entity name, show its columns, the member each column is bound to,
the value kind and the nullable and unique flags.`,
		Example: `  # List entities
  shade inspect

  # Show the columns of one entity
  shade inspect Note`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	registry, err := catalog()
	if err != nil {
		return report(cmd, err)
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		ui.Header(out, "Entities", noColorFlag)
		table := ui.NewTable(out, noColorFlag, "Entity", "Table", "Id", "Columns")
		for _, t := range entityTypes {
			meta, _ := registry.Get(t)
			table.AddRow(meta.EntityName(), meta.TableName(), meta.IDColumn(), strconv.Itoa(len(meta.Columns())))
		}
		table.Render()
		return nil
	}

	meta, ok := lookup(registry, args[0])
	if !ok {
		suggestions := ui.Suggest(args[0], registry.List(), 3)
		ui.Write(cmd.ErrOrStderr(), ui.EntityNotFound(args[0], suggestions, noColorFlag))
		return reported{ErrUnknownEntity}
	}

	describe(cmd, meta)
	return nil
}

// describe prints the mapping of one entity
func describe(cmd *cobra.Command, meta *schema.Metadata) {
	out := cmd.OutOrStdout()

	kv := ui.NewKeyValueTable(out, noColorFlag)
	kv.AddRow("Entity", meta.EntityName())
	kv.AddRow("Type", meta.Type().String())
	kv.AddRow("Table", meta.TableName())
	kv.AddRow("Id", meta.IDColumn()+" ("+meta.IDAccessor().Codec().Kind().String()+")")
	kv.Render()

	fmt.Fprintln(out)
	table := ui.NewTable(out, noColorFlag, "Column", "Member", "Kind", "Nullable", "Unique")
	for _, col := range meta.Columns() {
		table.AddRow(
			col.Name,
			col.Accessor.Member(),
			col.Accessor.Codec().Kind().String(),
			yesNo(col.Nullable),
			yesNo(col.Unique),
		)
	}
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
