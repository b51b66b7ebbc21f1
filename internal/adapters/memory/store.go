// Package memory provides an in-process implementation of the repositories and
// unit of work, used for local development and service tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/yangonbites/platform/internal/domain/entities"
	"github.com/yangonbites/platform/internal/domain/repositories"
)

type dataset struct {
	comments              map[string]entities.Comment
	posts                 map[string]entities.BlogPost
	restaurants           map[string]entities.Restaurant
	profiles              map[string]entities.Profile
	orders                map[string]entities.Order
	ratings               map[string]entities.Rating
	customerNotifications map[string]entities.CustomerNotification
	ownerNotifications    map[string]entities.OwnerNotification
}

func newDataset() *dataset {
	return &dataset{
		comments:              map[string]entities.Comment{},
		posts:                 map[string]entities.BlogPost{},
		restaurants:           map[string]entities.Restaurant{},
		profiles:              map[string]entities.Profile{},
		orders:                map[string]entities.Order{},
		ratings:               map[string]entities.Rating{},
		customerNotifications: map[string]entities.CustomerNotification{},
		ownerNotifications:    map[string]entities.OwnerNotification{},
	}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		comments:              maps.Clone(d.comments),
		posts:                 maps.Clone(d.posts),
		restaurants:           maps.Clone(d.restaurants),
		profiles:              maps.Clone(d.profiles),
		orders:                maps.Clone(d.orders),
		ratings:               maps.Clone(d.ratings),
		customerNotifications: maps.Clone(d.customerNotifications),
		ownerNotifications:    maps.Clone(d.ownerNotifications),
	}
}

// Store keeps all rows in maps guarded by a mutex. Transactions are serialized
// and rolled back by restoring a snapshot taken when they began. Writes made
// outside a transaction wait for the running one, so a rollback never erases them.
type Store struct {
	txMu    sync.Mutex
	mu      sync.RWMutex
	data    *dataset
	repos   *repositories.Repositories
	txRepos *repositories.Repositories
}

// view binds repositories to the store. Direct views take the transaction lock
// for every write; transactional views already hold it.
type view struct {
	store  *Store
	direct bool
}

func (v *view) read(fn func(d *dataset)) {
	v.store.read(fn)
}

func (v *view) write(fn func(d *dataset) error) error {
	if v.direct {
		v.store.txMu.Lock()
		defer v.store.txMu.Unlock()
	}
	return v.store.write(fn)
}

func newRepositories(v *view) *repositories.Repositories {
	return &repositories.Repositories{
		Comments:              &commentRepo{v},
		Posts:                 &postRepo{v},
		Restaurants:           &restaurantRepo{v},
		Profiles:              &profileRepo{v},
		Orders:                &orderRepo{v},
		Ratings:               &ratingRepo{v},
		CustomerNotifications: &customerNotificationRepo{v},
		OwnerNotifications:    &ownerNotificationRepo{v},
	}
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{data: newDataset()}
	s.repos = newRepositories(&view{store: s, direct: true})
	s.txRepos = newRepositories(&view{store: s})
	return s
}

// Repos returns repositories for use outside a transaction. They must not be
// written through from inside Do, which would deadlock.
func (s *Store) Repos() *repositories.Repositories {
	return s.repos
}

// Do runs fn with exclusive write access, restoring the previous state when fn fails
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.snapshot()
	if err := fn(ctx, &memTx{store: s}); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *Store) snapshot() *dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

func (s *Store) restore(d *dataset) {
	s.mu.Lock()
	s.data = d
	s.mu.Unlock()
}

func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type memTx struct {
	store *Store
}

func (t *memTx) Repos() *repositories.Repositories {
	return t.store.txRepos
}

// Savepoint restores the state from before fn when fn fails
func (t *memTx) Savepoint(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	snapshot := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snapshot)
		return err
	}
	return nil
}

// AddRestaurant seeds a restaurant
func (s *Store) AddRestaurant(r entities.Restaurant) {
	_ = s.write(func(d *dataset) error { d.restaurants[r.ID] = r; return nil })
}

// AddProfile seeds a profile
func (s *Store) AddProfile(p entities.Profile) {
	_ = s.write(func(d *dataset) error { d.profiles[p.ID] = p; return nil })
}

// AddPost seeds a blog post
func (s *Store) AddPost(p entities.BlogPost) {
	_ = s.write(func(d *dataset) error { d.posts[p.ID] = p; return nil })
}

// AddOrder seeds an order
func (s *Store) AddOrder(o entities.Order) {
	_ = s.write(func(d *dataset) error { d.orders[o.ID] = o; return nil })
}

// AddComment seeds a comment without running any notification logic
func (s *Store) AddComment(c entities.Comment) {
	_ = s.write(func(d *dataset) error { d.comments[c.ID] = c; return nil })
}

// AddRating seeds a rating without recomputing the restaurant mean
func (s *Store) AddRating(r entities.Rating) {
	_ = s.write(func(d *dataset) error { d.ratings[r.ID] = r; return nil })
}
