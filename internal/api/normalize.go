package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

// NormalizeRecipe flattens a generation response into one Recipe shape.
//
// Precedence:
//  1. If the payload has a "recipe" object, that object is the recipe.
//  2. Otherwise the payload itself is the recipe.
//  3. A top-level "imageUrl" is used only when the recipe has none.
//
// Numeric macros and portions are rendered as strings, and StepVideos is
// always initialized. A recipe without a title is incomplete and returns
// an error wrapping domain.ErrIncomplete.
func NormalizeRecipe(body []byte) (*domain.Recipe, error) {
	if !gjson.ValidBytes(body) {
		return nil, &Error{Kind: FailureMalformed, Message: msgBadBody}
	}

	root := gjson.ParseBytes(body)
	doc := root
	if wrapped := root.Get("recipe"); wrapped.IsObject() {
		doc = wrapped
	}
	if !doc.IsObject() {
		return nil, fmt.Errorf("normalize: %w: response is not a recipe", domain.ErrIncomplete)
	}

	r := &domain.Recipe{
		ID:           textOf(doc.Get("id")),
		Title:        strings.TrimSpace(textOf(doc.Get("title"))),
		Description:  textOf(doc.Get("description")),
		Ingredients:  listOf(doc.Get("ingredients")),
		Instructions: listOf(doc.Get("instructions")),
		Macros: domain.Macros{
			Calories: textOf(doc.Get("macros.calories")),
			Protein:  textOf(doc.Get("macros.protein")),
			Carbs:    textOf(doc.Get("macros.carbs")),
			Fat:      textOf(doc.Get("macros.fat")),
		},
		ImageURL:    textOf(doc.Get("imageUrl")),
		Difficulty:  textOf(doc.Get("difficulty")),
		PrepTime:    textOf(doc.Get("prepTime")),
		PlatingTips: textOf(doc.Get("platingTips")),
		Portions:    textOf(doc.Get("portions")),
		Category:    textOf(doc.Get("category")),
		SavedAt:     textOf(doc.Get("savedAt")),
		StepVideos:  videosOf(doc.Get("stepVideos")),
	}

	if r.ImageURL == "" {
		r.ImageURL = textOf(root.Get("imageUrl"))
	}

	if r.Title == "" {
		return nil, fmt.Errorf("normalize: %w: recipe has no title", domain.ErrIncomplete)
	}
	return r, nil
}

// textOf renders scalars as strings and ignores objects, arrays and null.
func textOf(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	default:
		return ""
	}
}

// listOf reads an array of lines. Object elements are reduced to their
// most descriptive field ("1 cup rice" from {"quantity":"1 cup","name":"rice"}).
func listOf(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	for _, item := range v.Array() {
		var line string
		if item.IsObject() {
			line = objectLine(item)
		} else {
			line = textOf(item)
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func objectLine(item gjson.Result) string {
	for _, key := range []string{"text", "instruction", "step"} {
		if s := textOf(item.Get(key)); s != "" {
			return s
		}
	}
	name := textOf(item.Get("name"))
	if name == "" {
		return ""
	}
	if qty := textOf(item.Get("quantity")); qty != "" {
		return qty + " " + name
	}
	return name
}

// videosOf reads a {"<index>": "<url>"} object. Non-numeric keys and empty
// URLs are skipped.
func videosOf(v gjson.Result) map[int]string {
	out := make(map[int]string)
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(key, value gjson.Result) bool {
		idx, err := strconv.Atoi(key.String())
		if err != nil || idx < 0 {
			return true
		}
		if u := textOf(value); u != "" {
			out[idx] = u
		}
		return true
	})
	return out
}
