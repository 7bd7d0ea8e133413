package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdxmph/todolist-tui/internal/todolist"
)

func newAddCmd(flags *globalFlags) *cobra.Command {
	var date, clock string

	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Long: `Add a task and save the list.

The words of TEXT are joined with single spaces. --time needs --date; a date
without a time means midnight.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := flags.loadList()
			if err != nil {
				return err
			}

			added, err := list.AddInput(strings.Join(args, " "), date, clock)
			if err != nil {
				return err
			}
			if err := list.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", added)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "Due time (HH:MM)")
	return cmd
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print tasks in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := flags.loadList()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tasks := list.Tasks()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			for i, t := range tasks {
				fmt.Fprintf(out, "%d. %s\n", i, t)
			}
			return nil
		},
	}
}

func newRemoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "remove INDEX",
		Aliases: []string{"rm"},
		Short:   "Remove the task at a 0-based index",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}

			list, err := flags.loadList()
			if err != nil {
				return err
			}
			removed, err := list.Remove(index)
			if err != nil {
				return err
			}
			if err := list.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed: %s\n", removed)
			return nil
		},
	}
}

func newSampleCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Fill the list with sample tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := flags.loadList()
			if err != nil {
				return err
			}
			if list.Len() > 0 && !force {
				return fmt.Errorf("%s already has %d tasks (use --force to replace them)", list.Backend().Path(), list.Len())
			}

			tasks, err := todolist.SampleTasks(time.Now())
			if err != nil {
				return err
			}
			list.Replace(tasks)
			if err := list.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sample tasks to %s\n", len(tasks), list.Backend().Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace existing tasks")
	return cmd
}
