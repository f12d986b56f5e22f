package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-circulation/internal/config"
	"library-circulation/internal/logger"
	"library-circulation/library"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		seedPath   string
		logDir     string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:          "library",
		Short:        "Library catalog and circulation tracker",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if seedPath != "" {
				cfg.Seed = seedPath
			}
			if logDir != "" {
				cfg.Log.Dir = logDir
			}
			if debug {
				cfg.Log.Debug = true
			}

			log, cleanup, err := logger.Setup(logger.Config{Dir: cfg.Log.Dir, Debug: cfg.Log.Debug})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %v\n", err)
			}
			defer func() { _ = cleanup() }()

			mgr, err := buildManager(cfg, log)
			if err != nil {
				return err
			}
			defer mgr.Close()

			out := cmd.OutOrStdout()
			if cfg.Seed != "" {
				seed, err := library.LoadSeed(cfg.Seed)
				if err != nil {
					return err
				}
				report := mgr.ApplySeed(seed)
				fmt.Fprintf(out, "Loaded %d books, %d members and %d loans from %s",
					report.Books, report.Members, len(report.Lent), cfg.Seed)
				if n := len(report.Rejected); n > 0 {
					fmt.Fprintf(out, " (%d entries rejected)", n)
				}
				fmt.Fprintln(out)
			}

			in := cmd.InOrStdin()
			return newShell(in, out, mgr, isTerminal(in)).Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (optional)")
	cmd.Flags().StringVarP(&seedPath, "seed", "s", "", "YAML seed catalog to load at startup (overrides config)")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory for library.log (default: no log file)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable verbose logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return cmd
}

// buildManager constructs the process-wide library services from cfg.
func buildManager(cfg config.Config, log *slog.Logger) (*library.LibraryManager, error) {
	base, maxPerBook, err := cfg.FineRates()
	if err != nil {
		return nil, err
	}
	fines, err := library.NewFineCalculator(base, maxPerBook)
	if err != nil {
		return nil, err
	}
	journal, err := library.NewJournal(cfg.Journal.DSN)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	lib := library.New(library.WithLoanDays(cfg.Loans.Days))
	return library.NewLibraryManager(lib, fines, journal, log), nil
}

// isTerminal reports whether r is an interactive terminal; prompts are only
// printed when it is.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
