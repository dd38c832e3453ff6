package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lumiere/internal/conversation"
	"github.com/hammamikhairi/lumiere/internal/display"
	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive kitchen",
		Long: `Opens an interactive session. Recipes, suggestions and videos keep
generating in the background while you type; the bar under the prompt
shows what is in flight.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if a.guard.Route() != domain.RouteSignedIn {
				if !interactive() {
					return domain.NewError(domain.KindAuthentication, "not signed in, run \"lumiere login\" first", nil)
				}
				var email, password string
				if err := credentialsForm(nil, &email, &password); err != nil {
					return err
				}
				if _, err := a.sessions.SignIn(ctx, strings.TrimSpace(email), password); err != nil {
					return err
				}
			}

			ui := display.NewUI(a.engine)
			sh := &shell{
				app:      a,
				ui:       ui,
				log:      a.log.Named("shell"),
				parser:   conversation.NewKeywordParser(a.log.Named("parser")),
				notifier: conversation.NewCLINotifier(a.log.Named("notify"), ui.Printf),
			}

			a.guard.OnChange(func(from, to domain.Route) {
				if to == domain.RouteSignedOut {
					sh.log.Info("route %s -> %s, closing shell", from, to)
					ui.Quit()
				}
			})

			fmt.Fprintln(a.out, display.RenderBanner())
			fmt.Fprintln(a.out, display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
			fmt.Fprintln(a.out)

			go func() {
				ui.WaitReady()
				sh.run(ctx)
				ui.Quit()
			}()

			// Bubble Tea owns the terminal until quit.
			err := ui.Run()
			cancel()
			sh.wg.Wait()
			return err
		},
	}
}

type shell struct {
	app      *app
	ui       *display.UI
	log      *logger.Logger
	parser   *conversation.KeywordParser
	notifier *conversation.CLINotifier

	wg sync.WaitGroup
}

func (s *shell) run(ctx context.Context) {
	if u := s.app.sessions.User(); u != nil {
		s.ui.PrintChat(fmt.Sprintf("Bonjour, %s. What are we cooking today?", u.Name))
	}
	s.showHome(ctx)

	uiCh := s.ui.InputChan()
	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case <-s.ui.QuitChan():
			return
		case line, ok := <-uiCh:
			if !ok {
				return
			}
			input = strings.TrimSpace(line)
		}
		if input == "" {
			continue
		}

		intent, err := s.parser.Parse(ctx, input)
		if err != nil {
			s.log.Error("parsing input: %v", err)
			continue
		}
		s.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if quit := s.handle(ctx, intent); quit {
			return
		}
	}
}

// background runs fn without blocking the prompt.
func (s *shell) background(ctx context.Context, fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(ctx)
	}()
}

func (s *shell) handle(ctx context.Context, intent *domain.Intent) (quit bool) {
	eng := s.app.engine

	switch intent.Type {
	case domain.IntentHelp:
		s.showHelp()
	case domain.IntentQuit:
		s.ui.PrintChat("À bientôt.")
		return true
	case domain.IntentHome:
		s.background(ctx, s.showHome)
	case domain.IntentWhoAmI:
		s.ui.PrintBlock(display.RenderUser(s.app.sessions.User()))
	case domain.IntentSignOut:
		s.app.sessions.SignOut(ctx)
		s.ui.PrintChat("Signed out.")
		return true
	case domain.IntentStatus:
		s.ui.PrintBlock(display.RenderActivity(eng.Activity()))
	case domain.IntentShowRecipe:
		s.ui.PrintBlock(display.RenderRecipe(eng.Current()))

	case domain.IntentGenerate:
		form := domain.IngredientsForm{Ingredients: intent.Payload, Goal: domain.GoalMaintain}
		s.ui.PrintHint("Heating the pans...")
		s.background(ctx, func(ctx context.Context) {
			r, err := eng.GenerateFromIngredients(ctx, form)
			if err != nil {
				s.notifier.Fail(ctx, err)
				return
			}
			s.ui.PrintBlock(display.RenderRecipe(r))
			s.ui.PrintHint("'save' to keep it, 'video N' to film step N")
		})

	case domain.IntentConsultChef:
		prefs, err := conversation.ParsePreferences(intent.Payload)
		if err != nil {
			s.notifier.Fail(ctx, err)
			return false
		}
		s.ui.PrintHint("The chef is thinking...")
		s.background(ctx, func(ctx context.Context) {
			list, err := eng.Consult(ctx, prefs)
			if err != nil {
				s.notifier.Fail(ctx, err)
				return
			}
			s.ui.PrintBlock(display.RenderSuggestions(list))
			s.ui.PrintHint("Pick one by number, or 'new' to start over.")
		})

	case domain.IntentPick:
		index, err := conversation.Ordinal(intent.Payload)
		if err != nil {
			s.notifier.Fail(ctx, err)
			return false
		}
		s.background(ctx, func(ctx context.Context) {
			started, err := eng.Select(ctx, index)
			switch {
			case !started && err == nil:
				s.ui.PrintHint("Already cooking " + eng.Activity().SelectingTitle + ", one moment.")
			case err != nil:
				s.notifier.Fail(ctx, err)
			default:
				s.ui.PrintBlock(display.RenderRecipe(eng.Current()))
			}
		})

	case domain.IntentResetChef:
		eng.ResetChef()
		s.ui.PrintHint("Suggestions cleared.")

	case domain.IntentToggleSave:
		if eng.Current() == nil {
			s.notifier.Fail(ctx, domain.ErrNoRecipe)
			return false
		}
		s.background(ctx, func(ctx context.Context) {
			if eng.ToggleSave(ctx) {
				s.notifier.Notify(ctx, "★ saved")
			} else {
				s.ui.PrintHint("Not saved.")
			}
		})

	case domain.IntentListSaved:
		s.background(ctx, func(ctx context.Context) {
			if err := eng.FetchSaved(ctx); err != nil {
				s.notifier.Fail(ctx, err)
				return
			}
			s.ui.PrintBlock(display.RenderSummaries("Saved recipes", eng.Saved()))
			s.ui.PrintHint("'open N' to reopen one.")
		})

	case domain.IntentOpenSaved:
		index, err := conversation.Ordinal(intent.Payload)
		if err == nil {
			var r *domain.Recipe
			if r, err = eng.OpenSaved(index); err == nil {
				s.ui.PrintBlock(display.RenderRecipe(r))
			}
		}
		s.notifier.Fail(ctx, err)

	case domain.IntentStepVideo:
		index, err := conversation.Ordinal(intent.Payload)
		if err != nil {
			s.notifier.Fail(ctx, err)
			return false
		}
		s.background(ctx, func(ctx context.Context) {
			url, err := eng.GenerateStepVideo(ctx, index, "")
			switch {
			case err != nil:
				s.notifier.Fail(ctx, err)
			case url == "":
				s.ui.PrintHint(fmt.Sprintf("No video for step %d this time.", index+1))
			default:
				s.notifier.Notify(ctx, fmt.Sprintf("▶ step %d: %s", index+1, url))
			}
		})

	default:
		s.ui.PrintHint(fmt.Sprintf("I didn't catch %q. Type 'help' for commands.", intent.Payload))
	}
	return false
}

func (s *shell) showHome(ctx context.Context) {
	feed, err := s.app.engine.Home(ctx)
	if err != nil {
		s.notifier.Fail(ctx, err)
		return
	}
	s.ui.PrintBlock(display.RenderHome(s.app.sessions.User(), feed))
}

func (s *shell) showHelp() {
	s.ui.PrintBlock(`  Commands:
    generate <ingredients>   Make a recipe from what you have ("with rice, eggs")
    chef [prefs]             Ask the chef for ideas ("chef group 4 cheap italian no-gluten")
    1, 2, pick N             Cook suggestion N
    new                      Forget the suggestions
    show                     Show the current recipe
    save                     Save or unsave the current recipe
    saved, open N            List saved recipes, reopen one
    video N                  Film step N of the current recipe
    home                     Saved recipes, community picks and tips
    status                   What is cooking right now
    whoami, logout           Account
    help, quit`)
}
