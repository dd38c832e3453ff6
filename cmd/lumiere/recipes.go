package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lumiere/internal/display"
	"github.com/hammamikhairi/lumiere/internal/domain"
)

type recipeOutput struct {
	Recipe *domain.Recipe `json:"recipe"`
	Saved  *bool          `json:"saved,omitempty"`
}

// finishRecipe toggles the save state when asked and prints the recipe.
func (a *app) finishRecipe(cmd *cobra.Command, r *domain.Recipe, save bool) error {
	out := recipeOutput{Recipe: r}
	human := display.RenderRecipe(r)
	if save {
		saved := a.engine.ToggleSave(cmd.Context())
		out.Saved = &saved
		if saved {
			human += "\n\n  ★ saved to your recipes"
		} else {
			human += "\n\n  could not save, check the logs"
		}
	}
	return a.emit(out, human)
}

func newGenerateCmd(a *app) *cobra.Command {
	var goal, restrictions string
	var save bool
	cmd := &cobra.Command{
		Use:   "generate <ingredients...>",
		Short: "Generate a recipe from the ingredients you have",
		Example: `  lumiere generate rice, eggs, spring onion
  lumiere generate "chicken thighs, lemon" --goal gain --restrictions "no dairy"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			r, err := a.engine.GenerateFromIngredients(cmd.Context(), domain.IngredientsForm{
				Ingredients:  strings.Join(args, " "),
				Goal:         domain.Goal(goal),
				Restrictions: restrictions,
			})
			if err != nil {
				return err
			}
			return a.finishRecipe(cmd, r, save)
		},
	}
	cmd.Flags().StringVar(&goal, "goal", string(domain.GoalMaintain), "dietary goal: loss, maintain or gain")
	cmd.Flags().StringVar(&restrictions, "restrictions", "", "dietary restrictions, free text")
	cmd.Flags().BoolVar(&save, "save", false, "save the recipe once generated")
	return cmd
}

func newChefCmd(a *app) *cobra.Command {
	var (
		mode, budget, goal    string
		guests, pick          int
		cuisine, restrictions []string
		save                  bool
	)
	cmd := &cobra.Command{
		Use:   "chef",
		Short: "Ask the chef for dish ideas and cook one",
		Long: `Du Chef works in two steps. The chef first suggests a few dishes that
fit your table and budget, then generates the full recipe for the one
you pick. Without flags the preferences are asked interactively.`,
		Example: `  lumiere chef --mode group --guests 4 --budget cheap --cuisine italian
  lumiere chef --cuisine japanese --pick 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireUser(ctx); err != nil {
				return err
			}

			prefs := domain.Preferences{
				Mode:         chefMode(mode),
				Guests:       guests,
				Budget:       domain.Budget(budget),
				Goal:         goal,
				Cuisine:      cuisine,
				Restrictions: restrictions,
			}
			if !anyChanged(cmd, "mode", "guests", "budget", "goal", "cuisine", "restriction") && interactive() {
				if err := preferencesForm(&prefs); err != nil {
					return err
				}
			}

			list, err := a.engine.Consult(ctx, prefs)
			if err != nil {
				return err
			}

			index := pick - 1
			if pick == 0 {
				if a.cfg.JSON || !interactive() {
					return a.emit(map[string]any{"suggestions": list}, display.RenderSuggestions(list)+
						"\n\n  run again with --pick N to cook one")
				}
				fmt.Fprintln(a.out, display.RenderSuggestions(list))
				if index, err = pickForm(list); err != nil {
					return err
				}
			}

			if _, err := a.engine.Select(ctx, index); err != nil {
				return err
			}
			r := a.engine.Current()
			if r == nil {
				return domain.ErrNoRecipe
			}
			return a.finishRecipe(cmd, r, save)
		},
	}
	f := cmd.Flags()
	f.StringVar(&mode, "mode", "solo", "who is eating: solo or group")
	f.IntVar(&guests, "guests", 0, "number of guests in group mode")
	f.StringVar(&budget, "budget", string(domain.BudgetMedium), "cheap, medium or expensive")
	f.StringVar(&goal, "goal", "", "dietary goal for solo meals")
	f.StringSliceVar(&cuisine, "cuisine", nil, "preferred cuisines (repeatable)")
	f.StringSliceVar(&restrictions, "restriction", nil, "dietary restrictions (repeatable)")
	f.IntVar(&pick, "pick", 0, "cook suggestion N without asking")
	f.BoolVar(&save, "save", false, "save the recipe once generated")
	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

func chefMode(s string) domain.Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "group", "party":
		return domain.ModeGroup
	case "", "solo", "individual", "me":
		return domain.ModeSolo
	default:
		return domain.Mode(s)
	}
}

func newSavedCmd(a *app) *cobra.Command {
	var open int
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List your saved recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := a.engine.FetchSaved(cmd.Context()); err != nil {
				return err
			}
			if open > 0 {
				r, err := a.engine.OpenSaved(open - 1)
				if err != nil {
					return err
				}
				return a.emit(recipeOutput{Recipe: r}, display.RenderRecipe(r))
			}
			list := a.engine.Saved()
			return a.emit(map[string]any{"recipes": list}, display.RenderSummaries("Saved recipes", list))
		},
	}
	cmd.Flags().IntVar(&open, "open", 0, "show saved recipe N in full")
	return cmd
}

func newVideoCmd(a *app) *cobra.Command {
	var saved, step int
	var text string
	cmd := &cobra.Command{
		Use:     "video",
		Short:   "Film one step of a saved recipe",
		Example: `  lumiere video --saved 1 --step 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireUser(ctx); err != nil {
				return err
			}
			if err := a.engine.FetchSaved(ctx); err != nil {
				return err
			}
			if _, err := a.engine.OpenSaved(saved - 1); err != nil {
				return err
			}
			url, err := a.engine.GenerateStepVideo(ctx, step-1, text)
			if err != nil {
				return err
			}
			human := "The kitchen could not film that step this time."
			if url != "" {
				human = fmt.Sprintf("▶ step %d: %s", step, url)
			}
			return a.emit(map[string]any{"step": step, "url": url}, human)
		},
	}
	cmd.Flags().IntVar(&saved, "saved", 0, "saved recipe number, as listed by \"lumiere saved\"")
	cmd.Flags().IntVar(&step, "step", 0, "step number to film")
	cmd.Flags().StringVar(&text, "text", "", "describe the step yourself instead of using the recipe text")
	cmd.MarkFlagRequired("saved")
	cmd.MarkFlagRequired("step")
	return cmd
}

func newHomeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show your saved recipes, community picks and chef tips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			feed, err := a.engine.Home(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(feed, display.RenderHome(u, feed))
		},
	}
}
