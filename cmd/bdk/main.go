package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vanderheijden86/bookdeck/internal/bookmarkstore"
	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/export"
	"github.com/vanderheijden86/bookdeck/pkg/layout"
	"github.com/vanderheijden86/bookdeck/pkg/ratings"
	"github.com/vanderheijden86/bookdeck/pkg/settings"
	"github.com/vanderheijden86/bookdeck/pkg/ui"
	"github.com/vanderheijden86/bookdeck/pkg/version"
	"github.com/vanderheijden86/bookdeck/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	importPath := flag.String("import", "", "Import a Chrome Bookmarks file and exit (empty path auto-detects)")
	exportPath := flag.String("export", "", "Render a board snapshot (.svg or .png) and exit")
	maxPerColumn := flag.Int("max-per-column", 0, "Override max entries per column for this run")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: bdk [options]")
		fmt.Println("\nA bookmark board for the terminal.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("bdk %s\n", version.Version)
		os.Exit(0)
	}

	dbPath, err := bookmarkstore.DatabasePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating database: %v\n", err)
		os.Exit(1)
	}
	store, err := bookmarkstore.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database %s: %v\n", dbPath, err)
		os.Exit(1)
	}
	defer store.Close()

	if flagPassed("import") {
		os.Exit(runImport(store, *importPath))
	}

	// Config and ratings have no ordering dependency; load them in parallel.
	var (
		cfg settings.Config
		rs  *ratings.Store
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		cfg, err = settings.Load()
		if err != nil {
			// Non-fatal: continue with defaults.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			cfg = settings.DefaultConfig()
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rs, err = ratings.Open(ratings.DefaultPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load ratings: %v\n", err)
			rs, err = ratings.Open("")
		}
		return err
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error during startup: %v\n", err)
		os.Exit(1)
	}
	if *maxPerColumn > 0 {
		cfg.MaxEntriesPerColumn = settings.ClampMaxEntries(*maxPerColumn)
	}

	if *exportPath != "" {
		os.Exit(runExport(store, cfg, *exportPath))
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "bdk needs a terminal; use --export for non-interactive output.")
		os.Exit(1)
	}

	w, err := watcher.NewWatcher(store.Path())
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		// Live reload is best-effort; the board still works without it.
		fmt.Fprintf(os.Stderr, "Warning: file watching disabled: %v\n", err)
		w = nil
	}

	m := ui.NewModel(store, rs, cfg, w)
	defer m.Stop()

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running bookmark board: %v\n", err)
		os.Exit(1)
	}
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func runImport(store *bookmarkstore.SQLiteStore, path string) int {
	if path == "" {
		path = bookmarkstore.FindChromeBookmarks()
		if path == "" {
			fmt.Fprintln(os.Stderr, "No Chrome Bookmarks file found; pass --import PATH explicitly.")
			return 1
		}
		fmt.Printf("Importing from %s\n", path)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := store.ImportChrome(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		return 1
	}
	fmt.Printf("Imported %d bookmarks.\n", n)
	return 0
}

func runExport(store *bookmarkstore.SQLiteStore, cfg settings.Config, path string) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	roots, err := store.GetTree(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		return 1
	}
	cols := layout.Partition(bookmarks.Flatten(roots), cfg.MaxEntriesPerColumn)
	if err := export.SaveBoardSnapshot(export.BoardSnapshotOptions{
		Path:    path,
		Title:   "bdk bookmark board",
		Columns: cols,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		return 1
	}
	fmt.Printf("Snapshot written to %s\n", path)
	return 0
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set BDK_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("BDK_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
