package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/pokefinder/internal/engine/cache"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or maintain the entity cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show entry counts and freshness per kind",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sess, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				stats := sess.Cache.Stats()
				if a.jsonOutput() {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				return renderCacheStats(cmd.OutOrStdout(), stats)
			},
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Drop stale entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sess, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				n, err := sess.Cache.Prune()
				if err != nil {
					return err
				}
				newPrinter().Fprintf(cmd.OutOrStdout(), "Pruned %d stale entries.\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop every cached entry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sess, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				if err = sess.Cache.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
				return nil
			},
		},
	)
	return cmd
}

func renderCacheStats(w io.Writer, stats cache.Stats) error {
	pr := newPrinter()
	fmt.Fprintf(w, "TTL: %s\n\n", cache.FormatDuration(stats.TTL))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // Column padding.
	fmt.Fprintln(tw, "KIND\tENTRIES\tFRESH\tSTALE\tOLDEST")
	for _, kind := range cache.Kinds() {
		ks := stats.Kinds[kind]
		oldest := "-"
		if ks.Entries > 0 {
			oldest = cache.FormatDuration(ks.Oldest)
		}
		pr.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", kind, ks.Entries, ks.Fresh, ks.Stale, oldest)
	}
	return tw.Flush()
}
