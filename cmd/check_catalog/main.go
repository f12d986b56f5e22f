// Command check_catalog loads a seed file into an empty library and reports
// which entries the library would reject, without starting the shell.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"library-circulation/library"
)

func main() {
	if err := newCheckCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCheckCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:          "check_catalog <seed.yaml>",
		Short:        "Validate a seed catalog",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := library.LoadSeed(args[0])
			if err != nil {
				return err
			}
			report := library.New().ApplySeed(seed)

			out := cmd.OutOrStdout()
			if asJSON {
				err = writeJSON(out, report)
			} else {
				writeText(out, report)
			}
			if err != nil {
				return err
			}
			if n := len(report.Rejected); n > 0 {
				return fmt.Errorf("%d seed entries rejected", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func writeJSON(w io.Writer, report library.SeedReport) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeText(w io.Writer, report library.SeedReport) {
	fmt.Fprintf(w, "Books accepted:   %d\n", report.Books)
	fmt.Fprintf(w, "Members accepted: %d\n", report.Members)
	fmt.Fprintf(w, "Loans accepted:   %d\n", len(report.Lent))
	fmt.Fprintf(w, "Rejected:         %d\n", len(report.Rejected))

	if len(report.Rejected) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%-8s %-25s %s\n", "Kind", "Key", "Reason")
	fmt.Fprintln(w, strings.Repeat("-", 75))
	for _, r := range report.Rejected {
		fmt.Fprintf(w, "%-8s %-25s %s\n", r.Kind, truncateString(r.Key, 25), r.Reason)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
