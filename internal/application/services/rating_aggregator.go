package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/domain/repositories"
)

// RatingAggregator keeps restaurants.rating equal to the rounded mean of its ratings
type RatingAggregator struct{}

// NewRatingAggregator creates a new rating aggregator
func NewRatingAggregator() *RatingAggregator {
	return &RatingAggregator{}
}

// Recompute refreshes the rating of every given restaurant. A restaurant with no
// ratings keeps whatever value it already has.
func (a *RatingAggregator) Recompute(ctx context.Context, repos *repositories.Repositories, restaurantIDs ...string) error {
	seen := make(map[string]struct{}, len(restaurantIDs))
	for _, id := range restaurantIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		totals, err := repos.Ratings.TotalsForRestaurant(ctx, id)
		if err != nil {
			return err
		}

		mean, ok := totals.Mean()
		if !ok {
			log.Ctx(ctx).Debug().Str("restaurant_id", id).Msg("no ratings left, keeping restaurant rating")
			continue
		}

		if err := repos.Restaurants.UpdateRating(ctx, id, mean); err != nil {
			return err
		}
	}
	return nil
}
