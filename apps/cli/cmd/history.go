package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitrelay/packages/execlog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <executionId>",
	Short: "Show the execution log records of an execution",
	Args:  cobra.ExactArgs(1),
	RunE:  historyCommand,
}

func historyCommand(cmd *cobra.Command, args []string) error {
	db, err := openSQLite(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := execlog.History(context.Background(), db, args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records for execution %s", args[0])
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	out := cmd.OutOrStdout()

	overall := "unknown"
	if parent, ok := execlog.Parent(records); ok {
		overall = string(parent.Status)
	}
	fmt.Fprintf(out, "%s %s  %d record(s)\n", bold(args[0]), overall, len(records))
	for _, rec := range records {
		status := "-"
		if rec.ResponseStatus != nil {
			status = strconv.Itoa(*rec.ResponseStatus)
		}
		state := string(rec.Status)
		if state == "" {
			state = "-"
		}
		fmt.Fprintf(out, "%s  %-10s %-4s %s  items=%d last=%t",
			cyan(rec.Timestamp), state, status, rec.RequestURL, rec.ItemsInCurrentPage, rec.IsLast)
		if ids := rec.ItemIDs.Strings(); len(ids) > 0 {
			fmt.Fprintf(out, " ids=%s", strings.Join(ids, ","))
		}
		fmt.Fprintln(out)
	}
	return nil
}
