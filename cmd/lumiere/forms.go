package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// credentialsForm asks for whichever credentials are still empty. name is
// nil for sign-in.
func credentialsForm(name, email, password *string) error {
	var fields []huh.Field
	if name != nil && *name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(name).Validate(notBlank("name")))
	}
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email).Validate(notBlank("email")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(notBlank("password")))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run()
}

// preferencesForm collects Du Chef preferences interactively, starting
// from the values already given on the command line.
func preferencesForm(prefs *domain.Preferences) error {
	mode := string(prefs.Mode)
	budget := string(prefs.Budget)
	guests := ""
	if prefs.Guests > 1 {
		guests = strconv.Itoa(prefs.Guests)
	}
	cuisine := strings.Join(prefs.Cuisine, ", ")
	restrictions := strings.Join(prefs.Restrictions, ", ")

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Who is eating?").
				Options(
					huh.NewOption("Just me", string(domain.ModeSolo)),
					huh.NewOption("A group", string(domain.ModeGroup)),
				).
				Value(&mode),
			huh.NewSelect[string]().
				Title("Budget").
				Options(
					huh.NewOption("Cheap", string(domain.BudgetCheap)),
					huh.NewOption("Medium", string(domain.BudgetMedium)),
					huh.NewOption("Expensive", string(domain.BudgetExpensive)),
				).
				Value(&budget),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("How many guests?").
				Value(&guests).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n < 1 || n > 50 {
						return errors.New("enter a number from 1 to 50")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return mode != string(domain.ModeGroup) }),
		huh.NewGroup(
			huh.NewInput().Title("Cuisines (comma separated, optional)").Value(&cuisine),
			huh.NewInput().Title("Restrictions (comma separated, optional)").Value(&restrictions),
		),
	).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		return err
	}

	prefs.Mode = domain.Mode(mode)
	prefs.Budget = domain.Budget(budget)
	if prefs.Mode == domain.ModeGroup {
		prefs.Guests, _ = strconv.Atoi(strings.TrimSpace(guests))
	}
	prefs.Cuisine = splitList(cuisine)
	prefs.Restrictions = splitList(restrictions)
	return nil
}

// pickForm lets the user choose one of the chef's suggestions. It returns
// the zero-based index.
func pickForm(list []domain.Suggestion) (int, error) {
	options := make([]huh.Option[int], 0, len(list))
	for i, s := range list {
		label := s.Title
		if s.Difficulty != "" {
			label = fmt.Sprintf("%s (%s)", s.Title, s.Difficulty)
		}
		options = append(options, huh.NewOption(label, i))
	}

	var pick int
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which one shall we cook?").
				Options(options...).
				Value(&pick),
		),
	).WithTheme(huh.ThemeBase()).Run()
	return pick, err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
