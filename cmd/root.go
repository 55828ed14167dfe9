package cmd

import (
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/cwarden/weekcal/internal/calendar"
	"github.com/cwarden/weekcal/internal/config"
	"github.com/cwarden/weekcal/internal/kv"
	"github.com/cwarden/weekcal/internal/log"
	"github.com/cwarden/weekcal/internal/theme"
	"github.com/cwarden/weekcal/internal/ui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	cfgFile  string
	storeDir string
	backend  string
	debug    bool
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "weekcal",
	Short: "A terminal week calendar",
	Long: `weekcal shows a seven day week as a time grid. Drag on empty space to
create an event, drag an event to move it, or type one in with quick add.
Events are kept in a local store shared with the subcommands below.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: search $WEEKCAL_CONFIG, ~/.config/weekcal/weekcalrc, ~/.weekcalrc)")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", "", "Directory holding the event store")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Store backend: file, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug output to debug.log")
}

// initConfig loads the rc file and applies flag overrides. The log level is
// set here so subcommands get it too; --debug wins over log_level.
func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if debug {
		level = log.LevelDebug
	}
	log.SetLevel(level)

	if storeDir != "" {
		cfg.StoreDir = storeDir
	}
	if backend != "" {
		cfg.StoreBackend = backend
	}
	log.Debug("config loaded", "path", cfg.Path, "store", cfg.StoreDir, "backend", cfg.StoreBackend)
	return nil
}

func openKV() (kv.Store, error) {
	store, err := kv.Open(cfg.StoreBackend, cfg.StoreDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

// openStore opens the configured backend and the event store on top of it.
// The caller closes the returned kv.Store.
func openStore() (kv.Store, *calendar.EventStore, error) {
	store, err := openKV()
	if err != nil {
		return nil, nil, err
	}
	events, err := calendar.NewEventStore(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, events, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// The program owns the terminal, so log lines go to debug.log or nowhere.
	if debug {
		f, err := tea.LogToFile("debug.log", "weekcal")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	} else {
		stdlog.SetOutput(io.Discard)
	}

	store, events, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	themes, err := theme.NewService(store, nil)
	if err != nil {
		return err
	}

	model := ui.NewModel(cfg, events, themes)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watcher, err := ui.WatchStore(store, p.Send, calendar.EventsKey, theme.Key)
	if err != nil {
		// The grid still works without live updates; r reloads by hand.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if watcher != nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
