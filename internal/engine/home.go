package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

// Home assembles the home feed. The saved list, community recipes and
// tips are loaded concurrently. The saved section is empty when there is
// no user or the list cannot be fetched; catalog failures are returned.
func (e *Engine) Home(ctx context.Context) (domain.HomeFeed, error) {
	feed := domain.HomeFeed{
		Saved:     []domain.RecipeSummary{},
		Community: []domain.RecipeSummary{},
		Tips:      []domain.ChefTip{},
	}

	g, gctx := errgroup.WithContext(ctx)

	var saved []domain.RecipeSummary
	g.Go(func() error {
		if err := e.FetchSaved(gctx); err != nil {
			e.log.Debug("home: saved section empty: %v", err)
			return nil
		}
		saved = e.Saved()
		return nil
	})

	if e.catalog != nil {
		g.Go(func() error {
			list, err := e.catalog.Community(gctx)
			if err != nil {
				return fmt.Errorf("community recipes: %w", err)
			}
			feed.Community = list
			return nil
		})
		g.Go(func() error {
			tips, err := e.catalog.Tips(gctx)
			if err != nil {
				return fmt.Errorf("chef tips: %w", err)
			}
			feed.Tips = tips
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.HomeFeed{}, err
	}
	if saved != nil {
		feed.Saved = saved
	}
	return feed, nil
}
