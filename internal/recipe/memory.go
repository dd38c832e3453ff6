// Package recipe provides the built-in home feed catalog.
package recipe

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/lumiere/internal/domain"
	"github.com/hammamikhairi/lumiere/internal/logger"
)

// Compile-time interface check.
var _ domain.Catalog = (*MemoryCatalog)(nil)

// MemoryCatalog holds community recipes and chef tips in memory. Safe for
// concurrent reads.
type MemoryCatalog struct {
	mu        sync.RWMutex
	community map[string]domain.RecipeSummary
	tips      []domain.ChefTip
	clock     domain.Clock
	log       *logger.Logger
}

// NewMemoryCatalog creates a catalog preloaded with the built-in feed.
// Community entries are stamped with the clock's current time.
func NewMemoryCatalog(clock domain.Clock, log *logger.Logger) *MemoryCatalog {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	c := &MemoryCatalog{
		community: make(map[string]domain.RecipeSummary),
		clock:     clock,
		log:       log,
	}
	c.seed()
	return c
}

// Community returns the community recipes ordered by id.
func (c *MemoryCatalog) Community(ctx context.Context) ([]domain.RecipeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.log.Debug("listing community recipes, count=%d", len(c.community))

	out := make([]domain.RecipeSummary, 0, len(c.community))
	for _, r := range c.community {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Tips returns the chef tips in display order.
func (c *MemoryCatalog) Tips(ctx context.Context) ([]domain.ChefTip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.ChefTip(nil), c.tips...), nil
}

func (c *MemoryCatalog) seed() {
	now := c.clock.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	for _, r := range []domain.RecipeSummary{
		{
			ID:          "mock1",
			Title:       "Risoto de Açafrão com Vieiras",
			Description: "Um clássico italiano com um toque sofisticado do mar.",
			ImageURL:    "https://images.unsplash.com/photo-1595295333158-4742f28fbd85?q=80&w=800&auto=format&fit=crop",
			Difficulty:  "Intermediário",
			PrepTime:    "45 min",
		},
		{
			ID:          "mock2",
			Title:       "Bife Wellington Desconstruído",
			Description: "Uma abordagem moderna para um prato tradicional.",
			ImageURL:    "https://images.unsplash.com/photo-1600891964092-4316c288032e?q=80&w=800&auto=format&fit=crop",
			Difficulty:  "Chef",
			PrepTime:    "1h 20m",
		},
		{
			ID:         "mock3",
			Title:      "Tarte Tatin de Pera",
			ImageURL:   "https://images.unsplash.com/photo-1535920527002-b35e96722eb9?q=80&w=800&auto=format&fit=crop",
			Difficulty: "Simples",
			PrepTime:   "40m",
		},
	} {
		r.SavedAt = now
		c.community[r.ID] = r
	}

	c.tips = []domain.ChefTip{
		{ID: "tip1", Title: "Mise en Place", Content: "Organize todos os ingredientes antes de começar.", Icon: "ChefHat"},
		{ID: "tip2", Title: "Selar Carnes", Content: "A frigideira deve estar fumegando para a crosta perfeita.", Icon: "Flame"},
		{ID: "tip3", Title: "Descanso", Content: "Deixe carnes descansarem 5 min após assar.", Icon: "Clock"},
	}
}
