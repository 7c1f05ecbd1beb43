package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/pokefinder/internal/engine"
	"github.com/rshade/pokefinder/internal/tui"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or edit the search history",
		Long: `Lists the Pokémon you searched for, most recent first.

Removing an entry also drops its cached data; clearing the history drops
every cached Pokémon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, a)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the search history",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runHistoryList(cmd, a)
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove an entry and its cached data",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				sess, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				if err = sess.History.Remove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d from history.\n", id)
				return nil
			},
		},
		newHistoryClearCmd(a),
	)
	return cmd
}

func newHistoryClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the history and every cached Pokémon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmDestructive(cmd.OutOrStdout(), cmd.InOrStdin(), "Clear the search history?", yes) {
				return nil
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err = sess.History.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runHistoryList(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	views := sess.Repo.Resolve(ctx, sess.History.List())
	return writeViews(cmd.OutOrStdout(), a, views, "No searches yet.")
}

// viewOutput is the JSON shape of a listed id.
type viewOutput struct {
	ID     int      `json:"id"`
	Name   string   `json:"name,omitempty"`
	Types  []string `json:"types,omitempty"`
	Origin string   `json:"origin,omitempty"`
	Error  string   `json:"error,omitempty"`
}

func writeViews(w io.Writer, a *app, views []engine.View, empty string) error {
	if a.jsonOutput() {
		out := make([]viewOutput, 0, len(views))
		for _, v := range views {
			o := viewOutput{ID: v.ID}
			if v.Err != nil {
				o.Error = v.Err.Error()
			} else {
				o.Name = v.Pokemon.Name
				o.Types = v.Pokemon.TypeNames()
				o.Origin = string(v.Origin)
			}
			out = append(out, o)
		}
		return writeJSON(w, out)
	}

	if len(views) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}
	for _, v := range views {
		fmt.Fprintln(w, tui.Row(v.ID, v.Pokemon, v.Origin, v.Err))
	}
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: want a positive number", s)
	}
	return id, nil
}
