package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newFavoritesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Show or edit favorite Pokémon",
		Long: `Lists favorite Pokémon. Entries whose cached data expired are fetched
again; an entry that cannot be fetched is shown with its error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFavoritesList(cmd, a)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runFavoritesList(cmd, a)
			},
		},
		&cobra.Command{
			Use:   "toggle <id-or-name>",
			Short: "Add or remove a favorite",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFavoritesToggle(cmd, a, strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a favorite",
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
				if err = sess.Favorites.Remove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d from favorites.\n", id)
				return nil
			},
		},
		newFavoritesClearCmd(a),
	)
	return cmd
}

func newFavoritesClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmDestructive(cmd.OutOrStdout(), cmd.InOrStdin(), "Remove every favorite?", yes) {
				return nil
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err = sess.Favorites.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Favorites cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runFavoritesList(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	views := sess.Repo.Resolve(ctx, sess.Favorites.List())
	return writeViews(cmd.OutOrStdout(), a, views, "No favorites yet.")
}

// runFavoritesToggle accepts an id directly; a name is resolved through the
// cache without touching the history.
func runFavoritesToggle(cmd *cobra.Command, a *app, query string) error {
	ctx := cmd.Context()
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	id, convErr := strconv.Atoi(strings.TrimSpace(query))
	if convErr != nil || id <= 0 {
		res, lookupErr := sess.Repo.LookupPokemon(ctx, query)
		if lookupErr != nil {
			return lookupFailed(lookupErr)
		}
		id = res.Data.ID
	}

	added, err := sess.Favorites.Toggle(id)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(cmd.OutOrStdout(), "Added #%d to favorites.\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed #%d from favorites.\n", id)
	}
	return nil
}
