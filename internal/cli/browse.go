package cli

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/pokefinder/internal/session"
	"github.com/rshade/pokefinder/internal/tui"
)

// Browse targets.
const (
	browseHistory   = "history"
	browseFavorites = "favorites"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "browse [history|favorites]",
		Short:     "Browse the history or favorites interactively",
		Example:   `  pokefinder browse favorites`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{browseHistory, browseFavorites},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := browseHistory
			if len(args) == 1 {
				target = args[0]
			}
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}

			model := tui.NewBrowseModel(ctx, browseTitle(target), browseFuncs(sess, target))
			p := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}
}

func browseTitle(target string) string {
	if target == browseFavorites {
		return "Favorites"
	}
	return "Search history"
}

// browseFuncs binds the browser to one of the id lists.
func browseFuncs(sess *session.Session, target string) tui.BrowseFuncs {
	ids := sess.History.List
	remove := sess.History.Remove
	if target == browseFavorites {
		ids = sess.Favorites.List
		remove = sess.Favorites.Remove
	}

	return tui.BrowseFuncs{
		Load: func(ctx context.Context) ([]tui.Entry, error) {
			views := sess.Repo.Resolve(ctx, ids())
			entries := make([]tui.Entry, 0, len(views))
			for _, v := range views {
				entries = append(entries, tui.Entry{
					ID:       v.ID,
					Pokemon:  v.Pokemon,
					Origin:   v.Origin,
					Err:      v.Err,
					Favorite: sess.Favorites.Has(v.ID),
				})
			}
			return entries, nil
		},
		Detail: func(ctx context.Context, e tui.Entry) (tui.Card, error) {
			if e.Err != nil {
				return tui.Card{}, e.Err
			}
			res, err := sess.Repo.LookupPokemon(ctx, strconv.Itoa(e.ID))
			if err != nil {
				return tui.Card{}, err
			}
			return buildCard(ctx, sess, res), nil
		},
		ToggleFavorite: sess.Favorites.Toggle,
		Remove:         remove,
	}
}
