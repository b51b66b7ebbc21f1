package main

import (
	"context"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yangonbites/platform/internal/adapters/database"
	"github.com/yangonbites/platform/internal/application/services"
	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/infrastructure/clients/postgres"
	"github.com/yangonbites/platform/internal/infrastructure/observability"
	"github.com/yangonbites/platform/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("seed", cfg.App.Env, cfg.App.LogLevel)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := pgClient.DB()
	dialect := goqu.Dialect("postgres")

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := db.ExecContext(ctx, `
			TRUNCATE TABLE
				owner_notifications,
				customer_notifications,
				ratings,
				orders,
				comments,
				blog_posts,
				restaurants,
				profiles
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	insert := func(table string, rows ...goqu.Record) {
		values := make([]interface{}, len(rows))
		for i, row := range rows {
			values[i] = row
		}
		query, args, err := dialect.Insert(table).Rows(values...).ToSQL()
		if err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("failed to build insert")
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("failed to seed table")
		}
	}

	now := time.Now().UTC()
	ownerID, aliceID, bobID := uuid.NewString(), uuid.NewString(), uuid.NewString()

	// 1. Profiles
	insert("profiles",
		goqu.Record{"id": ownerID, "email": "mya@yangonbistro.example", "full_name": "Daw Mya", "created_at": now, "updated_at": now},
		goqu.Record{"id": aliceID, "email": "alice@example.com", "full_name": "Alice Tun", "created_at": now, "updated_at": now},
		goqu.Record{"id": bobID, "email": "bob@example.com", "full_name": nil, "created_at": now, "updated_at": now},
	)

	// 2. Restaurants and their blog posts
	bistroID, teaShopID := uuid.NewString(), uuid.NewString()
	insert("restaurants",
		goqu.Record{"id": bistroID, "owner_id": ownerID, "name": "Yangon Bistro", "created_at": now, "updated_at": now},
		goqu.Record{"id": teaShopID, "owner_id": ownerID, "name": "Shwe Tea House", "created_at": now, "updated_at": now},
	)

	monsoonPostID, teaPostID := uuid.NewString(), uuid.NewString()
	insert("blog_posts",
		goqu.Record{"id": monsoonPostID, "restaurant_id": bistroID, "title": "Monsoon menu is here", "is_published": true, "created_at": now, "updated_at": now},
		goqu.Record{"id": teaPostID, "restaurant_id": teaShopID, "title": "How we brew laphet yay", "is_published": true, "created_at": now, "updated_at": now},
	)

	// 3. Orders in a few states
	servedOrderID, paidOrderID := uuid.NewString(), uuid.NewString()
	insert("orders",
		goqu.Record{"id": servedOrderID, "restaurant_id": bistroID, "customer_id": aliceID, "status": "served", "total_amount": 18.50, "created_at": now, "updated_at": now},
		goqu.Record{"id": paidOrderID, "restaurant_id": teaShopID, "customer_id": bobID, "status": "paid", "total_amount": 4.20, "created_at": now, "updated_at": now},
	)

	// 4. Activity through the services so notifications and ratings are generated
	uow := database.NewUnitOfWork(pgClient)
	generator := services.NewNotificationGenerator()
	feed := services.NewNotificationFeed(nil, nil)
	comments := services.NewCommentService(uow, generator, feed)
	orders := services.NewOrderService(uow, generator, feed)
	ratings := services.NewRatingService(uow, services.NewRatingAggregator())

	root, err := comments.Create(ctx, &entities.Comment{PostID: monsoonPostID, AuthorID: aliceID, Content: "The mohinga special was perfect on a rainy day."})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create comment")
	}
	parentID := root.Comment.ID
	if _, err := comments.Create(ctx, &entities.Comment{PostID: monsoonPostID, AuthorID: ownerID, Content: "Thank you Alice, see you next week!", ParentID: &parentID}); err != nil {
		log.Fatal().Err(err).Msg("failed to create reply")
	}
	if _, err := comments.Create(ctx, &entities.Comment{PostID: teaPostID, AuthorID: bobID, Content: "Do you sell the tea leaves to take home?"}); err != nil {
		log.Fatal().Err(err).Msg("failed to create comment")
	}

	if _, err := orders.UpdateStatus(ctx, servedOrderID, entities.OrderStatusCompleted); err != nil {
		log.Fatal().Err(err).Msg("failed to complete order")
	}
	if _, err := orders.UpdateStatus(ctx, paidOrderID, entities.OrderStatusPreparing); err != nil {
		log.Fatal().Err(err).Msg("failed to advance order")
	}

	servedOrder := servedOrderID
	seedRatings := []*entities.Rating{
		{RestaurantID: bistroID, CustomerID: aliceID, OrderID: &servedOrder, Value: 4.5},
		{RestaurantID: bistroID, CustomerID: bobID, Value: 4.0},
		{RestaurantID: teaShopID, CustomerID: aliceID, Value: 5.0},
	}
	for _, r := range seedRatings {
		if err := ratings.Submit(ctx, r); err != nil {
			log.Error().Err(err).Str("restaurant_id", r.RestaurantID).Msg("failed to submit rating")
		}
	}

	log.Info().Msg("seeding completed successfully")
}
