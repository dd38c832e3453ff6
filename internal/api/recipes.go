package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

// GenerateRecipe asks the backend for a full recipe built from the
// ingredients form. The form fields are sent as-is, extended with the
// acting user and the locale.
func (c *Client) GenerateRecipe(ctx context.Context, form domain.IngredientsForm, user domain.User) (*domain.Recipe, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("api: marshal generate payload: %w", err)
	}
	payload, err = c.withActor(payload, user)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, pathGenerate, nil, payload)
	if err != nil {
		return nil, err
	}
	return NormalizeRecipe(body)
}

type selectionRequest struct {
	SelectedTitle string             `json:"selectedTitle"`
	ContextData   domain.Preferences `json:"contextData"`
	Locale        string             `json:"locale"`
	UserID        string             `json:"userId"`
	UserName      string             `json:"userName"`
}

// GenerateSelection asks for the full recipe of one Du Chef suggestion,
// passing the original preferences back as context.
func (c *Client) GenerateSelection(ctx context.Context, title string, prefs domain.Preferences, user domain.User) (*domain.Recipe, error) {
	body, err := c.postJSON(ctx, pathGenerate, selectionRequest{
		SelectedTitle: title,
		ContextData:   prefs,
		Locale:        c.locale,
		UserID:        user.ID,
		UserName:      user.Name,
	})
	if err != nil {
		return nil, err
	}
	return NormalizeRecipe(body)
}

// ConsultChef sends the preferences and returns the suggested ideas.
// Suggestions without a title are dropped.
func (c *Client) ConsultChef(ctx context.Context, prefs domain.Preferences) ([]domain.Suggestion, error) {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("api: marshal consult payload: %w", err)
	}
	if payload, err = sjson.SetBytes(payload, "locale", c.locale); err != nil {
		return nil, fmt.Errorf("api: set locale: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, pathConsult, nil, payload)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, "suggestions")
	if !list.IsArray() {
		return nil, fmt.Errorf("consult: %w: no suggestions field", domain.ErrIncomplete)
	}

	var out []domain.Suggestion
	for _, item := range list.Array() {
		title := strings.TrimSpace(textOf(item.Get("title")))
		if title == "" {
			continue
		}
		out = append(out, domain.Suggestion{
			Title:       title,
			Description: textOf(item.Get("description")),
			Difficulty:  textOf(item.Get("difficulty")),
		})
	}
	return out, nil
}

type saveRequest struct {
	UserID string         `json:"userId"`
	Recipe *domain.Recipe `json:"recipe"`
}

// ToggleSave adds or removes the recipe from the user's saved list. The
// backend decides which and reports the resulting state.
func (c *Client) ToggleSave(ctx context.Context, userID string, recipe *domain.Recipe) (bool, error) {
	body, err := c.postJSON(ctx, pathSave, saveRequest{UserID: userID, Recipe: recipe})
	if err != nil {
		return false, err
	}
	return gjson.GetBytes(body, "saved").Bool(), nil
}

// ListRecipes returns the user's saved recipes. Both a bare array and an
// object with a "recipes" array are accepted.
func (c *Client) ListRecipes(ctx context.Context, userID string) ([]domain.RecipeSummary, error) {
	body, err := c.do(ctx, http.MethodGet, pathList, url.Values{"userId": {userID}}, nil)
	if err != nil {
		return nil, err
	}

	raw := gjson.ParseBytes(body)
	if !raw.IsArray() {
		raw = raw.Get("recipes")
	}
	if !raw.IsArray() {
		return nil, &Error{Kind: FailureMalformed, Message: msgBadBody}
	}

	var out []domain.RecipeSummary
	if err := json.Unmarshal([]byte(raw.Raw), &out); err != nil {
		return nil, &Error{Kind: FailureMalformed, Message: msgBadBody, Err: err}
	}
	if out == nil {
		out = []domain.RecipeSummary{}
	}
	return out, nil
}

type videoRequest struct {
	domain.StepVideoRequest
	Locale string `json:"locale"`
}

// GenerateStepVideo asks the backend to film one step. An empty URL means
// the backend accepted the request but produced no video.
func (c *Client) GenerateStepVideo(ctx context.Context, req domain.StepVideoRequest) (string, error) {
	body, err := c.postJSON(ctx, pathVideo, videoRequest{StepVideoRequest: req, Locale: c.locale})
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "videoUrl").String(), nil
}

// withActor merges the acting user and the locale into a JSON object.
func (c *Client) withActor(payload []byte, user domain.User) ([]byte, error) {
	fields := []struct {
		path  string
		value string
	}{
		{"userId", user.ID},
		{"userName", user.Name},
		{"locale", c.locale},
	}
	var err error
	for _, f := range fields {
		if payload, err = sjson.SetBytes(payload, f.path, f.value); err != nil {
			return nil, fmt.Errorf("api: set %s: %w", f.path, err)
		}
	}
	return payload, nil
}
