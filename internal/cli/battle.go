package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rshade/pokefinder/internal/battle"
	"github.com/rshade/pokefinder/internal/tui"
)

func newBattleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "battle <pokemon-1> <pokemon-2>",
		Short: "Compare two Pokémon",
		Long: `Scores each Pokémon as its base stat total times the damage multiplier
of its primary type against the opponent's types. The higher score wins;
a tie goes to the first Pokémon. Battles do not touch the search history.`,
		Example: `  pokefinder battle charmander bulbasaur`,
		Args:    cobra.ExactArgs(2), //nolint:mnd // Two fighters.
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.session(ctx)
			if err != nil {
				return err
			}
			if _, _, err = sess.Battle.SelectBoth(ctx, args[0], args[1]); err != nil {
				return lookupFailed(err)
			}
			outcome, err := sess.Battle.Fight(ctx, sess.Repo.GetType)
			if err != nil {
				return lookupFailed(err)
			}
			if a.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), battleOutput(outcome))
			}
			renderBattle(cmd.OutOrStdout(), outcome)
			return nil
		},
	}
}

type fighterOutput struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	BaseTotal   int     `json:"base_total"`
	PrimaryType string  `json:"primary_type"`
	Multiplier  float64 `json:"multiplier"`
	Score       float64 `json:"score"`
}

type outcomeOutput struct {
	Fighters [2]fighterOutput `json:"fighters"`
	Winner   string           `json:"winner"`
	Tie      bool             `json:"tie"`
}

func battleOutput(o battle.Outcome) outcomeOutput {
	var out outcomeOutput
	for i, f := range o.Fighters {
		out.Fighters[i] = fighterOutput{
			ID:          f.Pokemon.ID,
			Name:        f.Pokemon.Name,
			BaseTotal:   f.BaseTotal,
			PrimaryType: f.PrimaryType,
			Multiplier:  f.Multiplier,
			Score:       f.Score,
		}
	}
	out.Winner = o.WinnerFighter().Pokemon.Name
	out.Tie = o.Tie()
	return out
}

func renderBattle(w io.Writer, o battle.Outcome) {
	pr := newPrinter()
	styled := isWriterTerminal(w)

	fmt.Fprintln(w, "Battle analysis")
	for _, f := range o.Fighters {
		typ := f.PrimaryType
		if typ == "" {
			typ = "none"
		}
		pr.Fprintf(w, "  %-14s base total %4d, %s type, x%.2f -> score %.1f\n",
			tui.Title(f.Pokemon.Name), f.BaseTotal, typ, f.Multiplier, f.Score)
	}

	winner := strings.ToUpper(o.WinnerFighter().Pokemon.Name)
	line := "Winner: " + winner
	if o.Tie() {
		line += " (tie, first Pokémon wins)"
	}
	if styled {
		line = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorHighlight).Render(line)
	}
	fmt.Fprintln(w, line)
}
