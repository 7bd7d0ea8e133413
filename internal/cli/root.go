package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdxmph/todolist-tui/internal/config"
	"github.com/pdxmph/todolist-tui/internal/storage"
	"github.com/pdxmph/todolist-tui/internal/storage/sqlite"
	"github.com/pdxmph/todolist-tui/internal/todolist"
	"github.com/pdxmph/todolist-tui/internal/tui"
)

// debugEnv enables the TUI debug log when set
const debugEnv = "TODOLIST_DEBUG"

const debugLogFile = "todolist-debug.log"

// globalFlags holds the persistent flags shared by every command
type globalFlags struct {
	file       string
	backend    string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "todolist",
		Short: "A small terminal task list",
		Long: `todolist keeps a single list of tasks ordered by date and time.

Run without arguments to open the interactive list. Subcommands work on the
same storage without a terminal UI.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.file, "file", "f", "", "Task storage path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flags.backend, "backend", "b", "", "Storage backend (default from config)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default ~/.config/todolist-tui/config.toml)")

	rootCmd.AddCommand(newAddCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newRemoveCmd(flags))
	rootCmd.AddCommand(newExportCmd(flags))
	rootCmd.AddCommand(newImportCmd(flags))
	rootCmd.AddCommand(newSampleCmd(flags))
	rootCmd.AddCommand(newBackendsCmd())
	rootCmd.AddCommand(newConfigCmd(flags))

	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd := newRootCmd()
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (f *globalFlags) loadConfig() (*config.Config, error) {
	if f.configPath != "" {
		return config.LoadFrom(f.configPath)
	}
	return config.Load()
}

// openList resolves the backend as flag, then config, then default
func (f *globalFlags) openList() (*todolist.List, *config.Config, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	name := cfg.Storage.Backend
	if f.backend != "" {
		name = f.backend
	}
	if name == "" {
		name = storage.DefaultBackend
	}

	path := f.file
	if path == "" {
		path = defaultPath(name)
		if name == cfg.Storage.Backend && cfg.Storage.Path != "" {
			path = cfg.Storage.Path
		}
	}

	backend, err := storage.Open(name, path)
	if err != nil {
		return nil, nil, err
	}
	return todolist.New(backend), cfg, nil
}

// loadList opens the configured list and reads it from storage
func (f *globalFlags) loadList() (*todolist.List, error) {
	list, _, err := f.openList()
	if err != nil {
		return nil, err
	}
	if err := list.Load(); err != nil {
		return nil, err
	}
	return list, nil
}

func defaultPath(backend string) string {
	if backend == "sqlite" {
		return sqlite.DefaultFileName
	}
	return storage.DefaultFileName
}

func runTUI(flags *globalFlags) error {
	list, cfg, err := flags.openList()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	model := tui.New(list, tui.Options{
		ConfirmRemove: cfg.UI.ConfirmRemove,
		ConfirmQuit:   cfg.UI.ConfirmQuit,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

// setupLogging keeps log output off the terminal while the TUI owns it
func setupLogging() (func(), error) {
	if os.Getenv(debugEnv) == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}

	f, err := tea.LogToFile(debugLogFile, "todolist")
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	return func() {
		f.Close()
		log.SetOutput(os.Stderr)
	}, nil
}
