package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/lumiere/internal/logger"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestMemoryCatalogCommunity(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	clock := fixedClock{time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	src := NewMemoryCatalog(clock, log)
	ctx := context.Background()

	recipes, err := src.Community(ctx)
	if err != nil {
		t.Fatalf("community: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}

	wantTitles := []string{"Risoto de Açafrão com Vieiras", "Bife Wellington Desconstruído", "Tarte Tatin de Pera"}
	for i, r := range recipes {
		if r.Title != wantTitles[i] {
			t.Fatalf("recipe %d: expected %q, got %q", i, wantTitles[i], r.Title)
		}
		if r.SavedAt != "2024-05-01T12:00:00.000Z" {
			t.Fatalf("recipe %d: unexpected savedAt %q", i, r.SavedAt)
		}
	}
}

func TestMemoryCatalogTips(t *testing.T) {
	src := NewMemoryCatalog(nil, logger.New(logger.LevelOff, nil))

	tips, err := src.Tips(context.Background())
	if err != nil {
		t.Fatalf("tips: %v", err)
	}
	if len(tips) != 3 || tips[0].Title != "Mise en Place" {
		t.Fatalf("unexpected tips: %+v", tips)
	}

	// Callers get their own copy.
	tips[0].Title = "changed"
	again, _ := src.Tips(context.Background())
	if again[0].Title != "Mise en Place" {
		t.Fatal("tips slice shared with caller")
	}
}

func TestMemoryCatalogCanceled(t *testing.T) {
	src := NewMemoryCatalog(nil, logger.New(logger.LevelOff, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Community(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if _, err := src.Tips(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
