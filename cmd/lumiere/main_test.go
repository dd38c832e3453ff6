package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

// kitchen is a fake backend that records the paths it served.
type kitchen struct {
	mu    sync.Mutex
	paths []string
	saved []map[string]any
}

func (k *kitchen) hits(path string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for _, p := range k.paths {
		if p == path {
			n++
		}
	}
	return n
}

func (k *kitchen) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	k.mu.Lock()
	k.paths = append(k.paths, r.URL.Path)
	k.mu.Unlock()

	var body map[string]any
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
	}
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/auth/login":
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Credenciais inválidas"}`))
			return
		}
		w.Write([]byte(`{"user":{"id":"u1","name":"Ana Souza","email":"ana@example.com"}}`))
	case "/auth/register":
		fmt.Fprintf(w, `{"user":{"id":"u2","name":%q,"email":%q}}`, body["name"], body["email"])
	case "/ai/generate":
		if title, ok := body["selectedTitle"].(string); ok {
			fmt.Fprintf(w, `{"recipe":{"title":%q,"instructions":["prep","cook"]}}`, title)
			return
		}
		w.Write([]byte(`{"recipe":{"title":"Arroz de Forno","ingredients":["rice","eggs"],"instructions":["boil","bake"],"macros":{"calories":480}}}`))
	case "/ai/personal-chef/consult":
		w.Write([]byte(`{"suggestions":[{"title":"Moqueca"},{"title":"Tarte Tatin"}]}`))
	case "/recipe/save":
		k.mu.Lock()
		k.saved = append(k.saved, body)
		k.mu.Unlock()
		w.Write([]byte(`{"saved":true}`))
	case "/recipe/list":
		w.Write([]byte(`[{"id":"r1","title":"Arroz de Forno","savedAt":"2024-05-01","instructions":["boil","bake"]}]`))
	case "/ai/video":
		w.Write([]byte(`{"videoUrl":"https://cdn.example.com/step.mp4"}`))
	default:
		http.NotFound(w, r)
	}
}

type harness struct {
	t       *testing.T
	kitchen *kitchen
	base    []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	k := &kitchen{}
	server := httptest.NewServer(k)
	t.Cleanup(server.Close)

	prev := interactive
	interactive = func() bool { return false }
	t.Cleanup(func() { interactive = prev })

	return &harness{
		t:       t,
		kitchen: k,
		base: []string{
			"--api-url", server.URL,
			"--storage", "file",
			"--data-dir", t.TempDir(),
			"--log-level", "off",
			"--log-file", "stderr",
		},
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var buf bytes.Buffer
	err := execute(context.Background(), &buf, append(append([]string{}, args...), h.base...))
	return buf.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	_, err := h.run("login", "--email", "ana@example.com", "--password", "secret")
	require.NoError(h.t, err)
}

func TestLoginPersistsSession(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", "ana@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ana Souza")

	// A new process finds the stored session without contacting the backend.
	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Souza")
	assert.Equal(t, 1, h.kitchen.hits("/auth/login"))
}

func TestLoginRejected(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--email", "ana@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.NotErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, "Credenciais inválidas", err.Error())
	assert.Equal(t, 3, exitCode(err))

	_, err = h.run("whoami")
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestLoginRequiresFlagsWithoutTerminal(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("login", "--email", "ana@example.com")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, h.kitchen.hits("/auth/login"))
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("register", "--name", "Bia", "--email", "bia@example.com", "--password", "pw", "--json")
	require.NoError(t, err)

	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "u2", u.ID)
	assert.Equal(t, "Bia", u.Name)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = h.run("whoami")
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestCommandsRequireSignIn(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"generate", "rice"},
		{"chef", "--pick", "1"},
		{"saved"},
		{"video", "--saved", "1", "--step", "1"},
		{"home"},
	} {
		_, err := h.run(args...)
		assert.ErrorIs(t, err, domain.ErrAuthentication, "%v", args)
	}
	assert.Empty(t, h.kitchen.paths)
}

func TestGenerate(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("generate", "rice,", "eggs", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Arroz de Forno")
	assert.Contains(t, out, "saved to your recipes")
	require.Len(t, h.kitchen.saved, 1)
	assert.Equal(t, "u1", h.kitchen.saved[0]["userId"])
	// The save triggers a refresh of the saved list before the process exits.
	assert.Equal(t, 1, h.kitchen.hits("/recipe/list"))
}

func TestGenerateJSON(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("generate", "rice", "eggs", "--json")
	require.NoError(t, err)

	var got recipeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Arroz de Forno", got.Recipe.Title)
	assert.Equal(t, "480", got.Recipe.Macros.Calories)
	assert.Nil(t, got.Saved)
}

func TestGenerateRejectsShortInput(t *testing.T) {
	h := newHarness(t)
	h.login()

	_, err := h.run("generate", "ab")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, h.kitchen.hits("/ai/generate"))
}

func TestChef(t *testing.T) {
	t.Run("lists suggestions without a pick", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		out, err := h.run("chef", "--cuisine", "brazilian", "--json")
		require.NoError(t, err)

		var got struct {
			Suggestions []domain.Suggestion `json:"suggestions"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Len(t, got.Suggestions, 2)
		assert.Equal(t, 0, h.kitchen.hits("/ai/generate"))
	})

	t.Run("cooks the picked suggestion", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		out, err := h.run("chef", "--mode", "group", "--guests", "4", "--pick", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Tarte Tatin")
	})

	t.Run("pick out of range", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		_, err := h.run("chef", "--pick", "9")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 0, h.kitchen.hits("/ai/generate"))
	})

	t.Run("group without guests", func(t *testing.T) {
		h := newHarness(t)
		h.login()

		_, err := h.run("chef", "--mode", "group", "--pick", "1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 0, h.kitchen.hits("/ai/personal-chef/consult"))
	})
}

func TestSaved(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("saved")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Arroz de Forno")

	out, err = h.run("saved", "--open", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2. bake")

	_, err = h.run("saved", "--open", "5")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVideo(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("video", "--saved", "1", "--step", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "https://cdn.example.com/step.mp4")

	_, err = h.run("video", "--saved", "1", "--step", "3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, h.kitchen.hits("/ai/video"))
}

func TestHome(t *testing.T) {
	h := newHarness(t)
	h.login()

	out, err := h.run("home", "--json")
	require.NoError(t, err)

	var feed domain.HomeFeed
	require.NoError(t, json.Unmarshal([]byte(out), &feed))
	assert.Len(t, feed.Saved, 1)
	assert.Len(t, feed.Community, 3)
	assert.Len(t, feed.Tips, 3)
}

func TestBackendDown(t *testing.T) {
	h := newHarness(t)
	h.login()
	h.base[1] = "http://127.0.0.1:1"

	_, err := h.run("generate", "rice", "eggs")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.NotErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{domain.NewError(domain.KindAuthentication, "nope", nil), 3},
		{domain.NewError(domain.KindNetwork, "down", nil), 2},
		{fmt.Errorf("wrapped: %w", domain.NewError(domain.KindGeneration, "burnt", nil)), 2},
		{domain.ErrInvalidInput, 1},
		{errors.New("unknown command"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
