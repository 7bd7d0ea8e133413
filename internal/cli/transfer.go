package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdxmph/todolist-tui/internal/codec"
)

func formatFor(format, path string) (string, error) {
	if format == "" {
		return codec.FormatFromPath(path), nil
	}
	for _, f := range codec.Formats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(codec.Formats, ", "))
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "export PATH",
		Short: "Write the task list to a file",
		Long: `Write the task list to PATH as text, json, yaml or toml.

The format is taken from the file extension unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := formatFor(formatFlag, path)
			if err != nil {
				return err
			}

			list, err := flags.loadList()
			if err != nil {
				return err
			}
			tasks := list.Tasks()

			data, err := codec.Marshal(format, tasks)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s (%s)\n", len(tasks), path, format)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: "+strings.Join(codec.Formats, ", "))
	return cmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Replace the task list with the contents of a file",
		Long: `Read tasks from PATH and save them as the whole task list.

Nothing is saved if any task in PATH is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := formatFor(formatFlag, path)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			tasks, err := codec.Unmarshal(format, data)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}

			list, _, err := flags.openList()
			if err != nil {
				return err
			}
			list.Replace(tasks)
			if err := list.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks into %s\n", len(tasks), list.Backend().Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Input format: "+strings.Join(codec.Formats, ", "))
	return cmd
}
