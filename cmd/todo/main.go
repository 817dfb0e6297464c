// Package main implements the todo CLI and terminal UI.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tasklist/internal/config"
	"tasklist/internal/reconcile"
	"tasklist/internal/storage"
	"tasklist/internal/tasklist"
	"tasklist/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "todo",
	Short:         "A small to-do list for the terminal",
	Long:          "Run without a subcommand on a terminal to open the interactive list.\nOtherwise the current list is printed.",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRoot,
}

var (
	configPath string
	dbPath     string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $"+config.EnvConfigPath+" or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file, overriding db_path from the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}

// session is one invocation's view of the task list.
type session struct {
	cfg   config.Config
	store *storage.Store
	list  *tasklist.List
}

func (s *session) Close() error {
	return s.store.Close()
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openSession opens the database and reads the list under query.
func openSession(ctx context.Context, cfg config.Config, logger *log.Logger, query reconcile.Query) (*session, error) {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Printf("using %s", cfg.DBPath)

	list := tasklist.New(store, tasklist.WithLogger(logger), tasklist.WithQuery(query))
	if err := list.Refresh(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: store, list: list}, nil
}

// withSession runs fn against a freshly loaded list. q may be nil, in which
// case the configured defaults apply.
func withSession(cmd *cobra.Command, q *queryOptions, fn func(s *session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	query, err := q.query(cfg)
	if err != nil {
		return err
	}
	s, err := openSession(cmd.Context(), cfg, newLogger(cmd.ErrOrStderr()), query)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func newLogger(w io.Writer) *log.Logger {
	if !verbose {
		w = io.Discard
	}
	return log.New(w, "todo: ", log.LstdFlags)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return runList(cmd, args)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	query, err := defaultQuery(cfg)
	if err != nil {
		return err
	}

	// stderr belongs to the UI while it runs
	logger := log.New(io.Discard, "", 0)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "todo")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	s, err := openSession(cmd.Context(), cfg, logger, query)
	if err != nil {
		return err
	}
	defer s.Close()
	return ui.Run(cmd.Context(), s.list, s.cfg)
}

// defaultQuery applies the configured filter and sort.
func defaultQuery(cfg config.Config) (reconcile.Query, error) {
	status, err := reconcile.ParseStatus(cfg.DefaultFilter)
	if err != nil {
		return reconcile.Query{}, fmt.Errorf("config default_filter: %w", err)
	}
	sort, err := reconcile.ParseSort(cfg.DefaultSort)
	if err != nil {
		return reconcile.Query{}, fmt.Errorf("config default_sort: %w", err)
	}
	return reconcile.Query{Status: status, Sort: sort}, nil
}
