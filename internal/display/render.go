package display

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

// RenderRecipe formats a recipe for the terminal. Steps that have a
// video are marked with their URL.
func RenderRecipe(r *domain.Recipe) string {
	if r == nil {
		return secondaryStyle.Render("  no recipe yet. try \"generate <ingredients>\" or \"chef\"")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("  "+r.Title) + "\n")
	if r.Description != "" {
		b.WriteString(primaryStyle.Render("  "+r.Description) + "\n")
	}

	var meta []string
	for _, kv := range [][2]string{
		{"difficulty", r.Difficulty},
		{"time", r.PrepTime},
		{"portions", r.Portions},
		{"category", r.Category},
	} {
		if kv[1] != "" {
			meta = append(meta, kv[0]+": "+kv[1])
		}
	}
	if len(meta) > 0 {
		b.WriteString(secondaryStyle.Render("  "+strings.Join(meta, " · ")) + "\n")
	}

	if m := r.Macros; m != (domain.Macros{}) {
		b.WriteString(secondaryStyle.Render(fmt.Sprintf("  kcal %s · protein %s · carbs %s · fat %s",
			orDash(m.Calories), orDash(m.Protein), orDash(m.Carbs), orDash(m.Fat))) + "\n")
	}

	if len(r.Ingredients) > 0 {
		b.WriteString("\n" + headingStyle.Render("  Ingredients") + "\n")
		for _, ing := range r.Ingredients {
			b.WriteString(primaryStyle.Render("    • "+ing) + "\n")
		}
	}

	if len(r.Instructions) > 0 {
		b.WriteString("\n" + headingStyle.Render("  Steps") + "\n")
		for i, step := range r.Instructions {
			b.WriteString(primaryStyle.Render(fmt.Sprintf("    %d. %s", i+1, step)) + "\n")
			if url, ok := r.StepVideos[i]; ok {
				b.WriteString(chatStyle.Render("       ▶ "+url) + "\n")
			}
		}
	}

	if r.PlatingTips != "" {
		b.WriteString("\n" + headingStyle.Render("  Plating") + "\n")
		b.WriteString(primaryStyle.Render("    "+r.PlatingTips) + "\n")
	}
	if r.ImageURL != "" {
		b.WriteString(secondaryStyle.Render("  image: "+r.ImageURL) + "\n")
	}
	return b.String()
}

// RenderSuggestions lists Du Chef ideas, numbered from 1.
func RenderSuggestions(list []domain.Suggestion) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("  The chef suggests:") + "\n")
	for i, s := range list {
		line := fmt.Sprintf("    %d. %s", i+1, s.Title)
		if s.Difficulty != "" {
			line += secondaryStyle.Render(" (" + s.Difficulty + ")")
		}
		b.WriteString(primaryStyle.Render(line) + "\n")
		if s.Description != "" {
			b.WriteString(secondaryStyle.Render("       "+s.Description) + "\n")
		}
	}
	b.WriteString(secondaryStyle.Render("  pick one by number, or \"new\" to start over") + "\n")
	return b.String()
}

// RenderSummaries lists recipe summaries, numbered from 1.
func RenderSummaries(heading string, list []domain.RecipeSummary) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("  "+heading) + "\n")
	if len(list) == 0 {
		b.WriteString(secondaryStyle.Render("    nothing here yet") + "\n")
		return b.String()
	}
	for i, s := range list {
		line := fmt.Sprintf("    %d. %s", i+1, s.Title)
		var meta []string
		for _, v := range []string{s.Difficulty, s.PrepTime} {
			if v != "" {
				meta = append(meta, v)
			}
		}
		if len(meta) > 0 {
			line += secondaryStyle.Render(" (" + strings.Join(meta, ", ") + ")")
		}
		b.WriteString(primaryStyle.Render(line) + "\n")
	}
	return b.String()
}

// RenderHome formats the home feed.
func RenderHome(user *domain.User, feed domain.HomeFeed) string {
	var b strings.Builder
	if user != nil {
		b.WriteString(chatStyle.Render("  Bonjour, "+firstName(user.Name)+".") + "\n\n")
	}
	b.WriteString(RenderSummaries("Your saved recipes", feed.Saved))
	b.WriteString("\n")
	b.WriteString(RenderSummaries("From the community", feed.Community))
	if len(feed.Tips) > 0 {
		b.WriteString("\n" + headingStyle.Render("  Chef tips") + "\n")
		for _, t := range feed.Tips {
			b.WriteString(primaryStyle.Render("    "+t.Title+": ") + secondaryStyle.Render(t.Content) + "\n")
		}
	}
	return b.String()
}

// RenderUser formats the signed-in user.
func RenderUser(u *domain.User) string {
	if u == nil {
		return secondaryStyle.Render("  not signed in")
	}
	s := titleStyle.Render("  "+u.Name) + secondaryStyle.Render(" <"+u.Email+"> id="+u.ID)
	if prefs := strings.TrimSpace(string(u.Preferences)); prefs != "" && prefs != "null" {
		s += "\n" + secondaryStyle.Render("  preferences: "+prefs)
	}
	return s
}

// RenderActivity formats an activity snapshot for the "status" command.
func RenderActivity(a domain.Activity) string {
	parts := ActivityParts(a)
	recipe := "none"
	if a.RecipeTitle != "" {
		recipe = a.RecipeTitle
	}
	head := secondaryStyle.Render(fmt.Sprintf("  chef: %s · recipe: %s", a.ChefState, recipe))
	if len(parts) == 0 {
		return head + "\n" + secondaryStyle.Render("  idle")
	}
	return head + "\n" + busyStyle.Render("  "+strings.Join(parts, ", "))
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "chef"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
