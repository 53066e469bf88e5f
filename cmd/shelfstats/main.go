// Package main provides the CLI entrypoint for shelfstats.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"shelfstats/internal/config"
	"shelfstats/internal/dashui"
	"shelfstats/internal/engine"
	"shelfstats/internal/library"
	"shelfstats/internal/model"
	"shelfstats/internal/prefs"
	"shelfstats/internal/report"
	"shelfstats/internal/store"
)

var (
	dbPath    string
	prefsPath string

	reportRange string
	reportView  string
	reportWidth int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shelfstats",
		Short:         "Reading statistics dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "library database path")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", config.DefaultPrefsPath(), "preference file path")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newPrefsCmd())

	return rootCmd
}

func runDashboardCmd(_ *cobra.Command, _ []string) error {
	books, err := loadBooks()
	if err != nil {
		return err
	}
	m := dashui.NewModel(books, engine.New(time.Local), prefs.NewFileStore(prefsPath), time.Local)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <export.json>",
		Short: "Import a library export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(_ *cobra.Command, args []string) error {
	books, err := library.DecodeFile(args[0])
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.ReplaceLibrary(context.Background(), books); err != nil {
		return fmt.Errorf("failed to import library: %w", err)
	}
	sessions := 0
	for _, b := range books {
		sessions += len(b.ReadingSessions)
	}
	logErrf("Imported %d books (%d sessions) into %s\n", len(books), sessions, dbPath)
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a text report",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportRange, "range", string(model.DefaultTimeRange), "time range (7d, 30d, 90d, all)")
	cmd.Flags().StringVar(&reportView, "view", string(model.DefaultActivityView), "activity view (bars, line)")
	cmd.Flags().IntVar(&reportWidth, "width", 0, "output width (default: terminal width)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	p := prefs.NewFileStore(prefsPath).Load()
	applyRangeFlag(cmd, "range", &p.TimeRange)
	applyViewFlag(cmd, "view", &p.ActivityView)

	books, err := loadBooks()
	if err != nil {
		return err
	}
	res := engine.New(time.Local).Compute(books, p, time.Now())
	width := reportWidth
	if width <= 0 {
		width = report.AutoWidth()
	}
	return report.Render(cmd.OutOrStdout(), res, p.ActivityView, width)
}

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage display preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print current preferences",
		Args:  cobra.NoArgs,
		RunE:  runPrefsShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset preferences to defaults",
		Args:  cobra.NoArgs,
		RunE:  runPrefsResetCmd,
	})
	return cmd
}

func runPrefsShowCmd(cmd *cobra.Command, _ []string) error {
	p := prefs.NewFileStore(prefsPath).Load()
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "time-range = %s\nlayout = %s\nactivity-view = %s\n",
		p.TimeRange, p.LayoutMode, p.ActivityView); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runPrefsResetCmd(_ *cobra.Command, _ []string) error {
	if err := prefs.NewFileStore(prefsPath).Save(model.DefaultPreferences()); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	logErrf("Reset preferences in %s\n", prefsPath)
	return nil
}

func loadBooks() ([]model.BookRecord, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	books, err := st.ListBooks(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	return books, nil
}

// applyRangeFlag keeps the stored preference unless the flag was set
// explicitly; an invalid flag value falls back to the stored preference.
func applyRangeFlag(cmd *cobra.Command, name string, target *model.TimeRange) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if r := model.TimeRange(reportRange); r.Valid() {
		*target = r
	}
}

func applyViewFlag(cmd *cobra.Command, name string, target *model.ActivityView) {
	if !cmd.Flags().Changed(name) {
		return
	}
	if v := model.ActivityView(reportView); v.Valid() {
		*target = v
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
