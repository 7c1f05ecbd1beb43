package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/pokefinder/internal/engine"
	"github.com/rshade/pokefinder/internal/pokeapi"
	"github.com/rshade/pokefinder/internal/session"
	"github.com/rshade/pokefinder/internal/tui"
)

func newSearchCmd(a *app) *cobra.Command {
	var ability bool

	cmd := &cobra.Command{
		Use:   "search <name-or-id>",
		Short: "Look up a Pokémon (or an ability with --ability)",
		Long: `Looks up a Pokémon by name or national dex id and prints its card.

Results are served from the local cache while fresh; stale or missing entries
are fetched again. Every successful Pokémon search is recorded in the history.`,
		Example: `  pokefinder search pikachu
  pokefinder search 25 -o json
  pokefinder search --ability "solar power"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if ability {
				return runAbility(cmd, a, query)
			}
			return runSearch(cmd, a, query)
		},
	}
	cmd.Flags().BoolVar(&ability, "ability", false, "search abilities instead of Pokémon")
	return cmd
}

func runSearch(cmd *cobra.Command, a *app, query string) error {
	ctx := cmd.Context()
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}

	res, err := sess.Repo.GetPokemon(ctx, query)
	if err != nil {
		return lookupFailed(err)
	}
	card := buildCard(ctx, sess, res)

	if a.jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), cardOutput(card))
	}
	renderCard(cmd.OutOrStdout(), card)
	return nil
}

// buildCard assembles a card, degrading a failed evolution lookup to a
// placeholder.
func buildCard(ctx context.Context, sess *session.Session, res engine.Result[*pokeapi.Pokemon]) tui.Card {
	card := tui.Card{
		Pokemon:  res.Data,
		Origin:   res.Origin,
		Favorite: sess.Favorites.Has(res.Data.ID),
	}
	card.Evolution, card.EvolutionErr = sess.Repo.Evolution(ctx, res.Data)
	if card.EvolutionErr != nil {
		logger.Debug().Ctx(ctx).Err(card.EvolutionErr).Int("id", res.Data.ID).Msg("evolution unavailable")
	}
	return card
}

func cardOutput(c tui.Card) pokemonOutput {
	out := pokemonOutput{
		Pokemon:       c.Pokemon,
		Origin:        c.Origin,
		Favorite:      c.Favorite,
		BaseStatTotal: c.Pokemon.BaseStatTotal(),
		Evolution:     c.Evolution,
	}
	if c.EvolutionErr != nil {
		out.Evolution = nil
		out.EvolutionError = c.EvolutionErr.Error()
	}
	return out
}

func newAbilityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "ability <name-or-id>",
		Short:   "Look up an ability",
		Example: `  pokefinder ability static`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAbility(cmd, a, strings.Join(args, " "))
		},
	}
}

func runAbility(cmd *cobra.Command, a *app, query string) error {
	ctx := cmd.Context()
	sess, err := a.session(ctx)
	if err != nil {
		return err
	}
	res, err := sess.Repo.GetAbility(ctx, query)
	if err != nil {
		return lookupFailed(err)
	}
	if a.jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	renderAbility(cmd.OutOrStdout(), res.Data, res.Origin)
	return nil
}

func newTypeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "type <name>",
		Short:   "Show the attacking damage relations of a type",
		Example: `  pokefinder type fire`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			res, err := sess.Repo.GetType(ctx, args[0])
			if err != nil {
				return lookupFailed(err)
			}
			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			renderType(cmd.OutOrStdout(), res.Data, res.Origin)
			return nil
		},
	}
}
