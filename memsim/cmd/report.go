package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/structs"
	"github.com/sarchlab/memsim/datarecording"
	"github.com/sarchlab/memsim/tracing"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report <recording>",
		Short: "Print the history stored by a --record run.",
		Long: `Reads a SQLite recording back and prints the run information, ` +
			`the process events, the page faults and the executions. The ` +
			`.sqlite3 suffix may be left out.`,
		Example: `  memsim partition --record run && memsim report run --table process_events`,
		Args:    cobra.ExactArgs(1),
		RunE:    runReport,
	}

	reportCmd.Flags().String("table", "", "Only print this table.")
	reportCmd.Flags().String("where", "",
		"SQL condition on the rows, such as \"PageNo = 3\".")
	reportCmd.Flags().Int("limit", 0, "Rows to print per table. 0 prints all.")
	reportCmd.Flags().Int("offset", 0, "Rows to skip per table.")

	return reportCmd
}

func runReport(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	table, _ := flags.GetString("table")
	params := datarecording.QueryParams{OrderBy: "rowid"}
	params.Where, _ = flags.GetString("where")
	params.Limit, _ = flags.GetInt("limit")
	params.Offset, _ = flags.GetInt("offset")

	path := args[0]
	if !strings.HasSuffix(path, ".sqlite3") {
		path += ".sqlite3"
	}

	reader, err := datarecording.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	reader.MapTable(datarecording.ExecInfoTable, datarecording.ExecInfo{})
	tracing.MapTables(reader)

	tables := []string{
		datarecording.ExecInfoTable,
		tracing.ProcessEventTable,
		tracing.PageFaultTable,
		tracing.ExecutionTable,
	}

	if table != "" {
		if !slices.Contains(reader.ListTables(), table) {
			return fmt.Errorf("unknown table %q, expecting one of %s",
				table, strings.Join(reader.ListTables(), ", "))
		}

		tables = []string{table}
	}

	out := cmd.OutOrStdout()
	for i, name := range tables {
		if i > 0 {
			fmt.Fprintln(out)
		}

		rows, total, err := reader.Query(cmd.Context(), name, params)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}

		printRows(out, name, rows, params.Offset, total)
	}

	return nil
}

func printRows(out io.Writer, table string, rows []any, offset, total int) {
	if len(rows) == 0 {
		fmt.Fprintf(out, "%s: no rows of %d\n", table, total)
		return
	}

	fmt.Fprintf(out, "%s: rows %d-%d of %d\n",
		table, offset+1, offset+len(rows), total)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(structs.Names(rows[0]), "\t"))

	for _, row := range rows {
		values := structs.Values(row)
		cells := make([]string, len(values))

		for i, v := range values {
			cells[i] = fmt.Sprint(v)
		}

		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	w.Flush()
}
