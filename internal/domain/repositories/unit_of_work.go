package repositories

import "context"

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Comments              CommentRepository
	Posts                 PostRepository
	Restaurants           RestaurantRepository
	Profiles              ProfileRepository
	Orders                OrderRepository
	Ratings               RatingRepository
	CustomerNotifications CustomerNotificationRepository
	OwnerNotifications    OwnerNotificationRepository
}

// Tx is an open transaction
type Tx interface {
	// Repos returns repositories that read and write inside the transaction
	Repos() *Repositories

	// Savepoint runs fn inside a nested savepoint. When fn fails only its writes are
	// rolled back; the transaction stays usable and fn's error is returned.
	Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// UnitOfWork runs writes and their derived effects atomically
type UnitOfWork interface {
	// Do runs fn in a transaction, committing when fn returns nil
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Repos returns repositories outside of any transaction, for reads
	Repos() *Repositories
}
