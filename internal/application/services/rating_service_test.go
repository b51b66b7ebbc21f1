package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yangonbites/platform/internal/application/services"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

func TestRatingService_AggregationScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	require.Equal(t, 4.0, *env.restaurantRating(t))

	first := &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 3.0}
	require.NoError(t, env.ratings.Submit(ctx, first))
	assert.Equal(t, 3.0, *env.restaurantRating(t))

	second := &entities.Rating{RestaurantID: restaurantID, CustomerID: bob, Value: 5.0}
	require.NoError(t, env.ratings.Submit(ctx, second))
	assert.Equal(t, 4.0, *env.restaurantRating(t))

	// removing one rating recomputes from the remaining one
	require.NoError(t, env.ratings.Delete(ctx, first.ID, alice))
	assert.Equal(t, 5.0, *env.restaurantRating(t))

	require.NoError(t, env.ratings.Delete(ctx, second.ID, bob))
	assert.Equal(t, 5.0, *env.restaurantRating(t), "last computed mean is kept when no ratings remain")
}

func TestRatingService_DeleteAllKeepsLastMean(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	a := &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 3.0}
	b := &entities.Rating{RestaurantID: restaurantID, CustomerID: bob, Value: 5.0}
	require.NoError(t, env.ratings.Submit(ctx, a))
	require.NoError(t, env.ratings.Submit(ctx, b))
	require.Equal(t, 4.0, *env.restaurantRating(t))

	// delete both in one transaction so no intermediate mean is written
	require.NoError(t, env.store.Do(ctx, func(ctx context.Context, tx repositories.Tx) error {
		repos := tx.Repos()
		require.NoError(t, repos.Ratings.Delete(ctx, a.ID))
		require.NoError(t, repos.Ratings.Delete(ctx, b.ID))
		return services.NewRatingAggregator().Recompute(ctx, repos, restaurantID)
	}))
	assert.Equal(t, 4.0, *env.restaurantRating(t))
}

func TestRatingService_RoundsHalfUp(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.ratings.Submit(ctx, &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 4.2}))
	require.NoError(t, env.ratings.Submit(ctx, &entities.Rating{RestaurantID: restaurantID, CustomerID: bob, Value: 4.3}))
	assert.Equal(t, 4.3, *env.restaurantRating(t))
}

func TestRatingService_UpdateReassignsRestaurant(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.store.AddRestaurant(entities.Restaurant{ID: "rest-2", Name: "Shan Noodles", Rating: floatPtr(2.0)})

	keep := &entities.Rating{RestaurantID: restaurantID, CustomerID: bob, Value: 2.0}
	moving := &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 5.0}
	require.NoError(t, env.ratings.Submit(ctx, keep))
	require.NoError(t, env.ratings.Submit(ctx, moving))
	require.Equal(t, 3.5, *env.restaurantRating(t))

	updated, err := env.ratings.Update(ctx, moving.ID, alice, services.RatingUpdate{RestaurantID: strPtr("rest-2"), Value: floatPtr(4.5)})
	require.NoError(t, err)
	assert.Equal(t, "rest-2", updated.RestaurantID)

	assert.Equal(t, 2.0, *env.restaurantRating(t))
	other, err := env.store.Repos().Restaurants.GetByID(ctx, "rest-2")
	require.NoError(t, err)
	assert.Equal(t, 4.5, *other.Rating)
}

func TestRatingService_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.store.AddOrder(entities.Order{ID: "order-b", RestaurantID: restaurantID, CustomerID: bob, Status: entities.OrderStatusCompleted})

	tests := []struct {
		name   string
		rating *entities.Rating
		want   apperrors.ErrorType
	}{
		{name: "below range", rating: &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 0.5}, want: apperrors.ErrorTypeValidation},
		{name: "two decimals", rating: &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 4.25}, want: apperrors.ErrorTypeValidation},
		{name: "unknown restaurant", rating: &entities.Rating{RestaurantID: "nope", CustomerID: alice, Value: 4}, want: apperrors.ErrorTypeNotFound},
		{name: "someone else's order", rating: &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, OrderID: strPtr("order-b"), Value: 4}, want: apperrors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.ratings.Submit(ctx, tt.rating)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.TypeOf(err))
		})
	}
	assert.Equal(t, 4.0, *env.restaurantRating(t))
}

func TestRatingService_DuplicateAndOwnership(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	rating := &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 5}
	require.NoError(t, env.ratings.Submit(ctx, rating))

	err := env.ratings.Submit(ctx, &entities.Rating{RestaurantID: restaurantID, CustomerID: alice, Value: 1})
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, 5.0, *env.restaurantRating(t))

	err = env.ratings.Delete(ctx, rating.ID, bob)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
}
