package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yangonbites/platform/internal/domain/entities"
	apperrors "github.com/yangonbites/platform/pkg/errors"
)

func notFound(entity, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", entity, id))
}

func conflict(entity, id string) error {
	return apperrors.NewConflictError(fmt.Sprintf("%s %s already exists", entity, id), nil)
}

type commentRepo struct{ s *view }

func (r *commentRepo) Create(_ context.Context, c *entities.Comment) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.comments[c.ID]; ok {
			return conflict("comment", c.ID)
		}
		d.comments[c.ID] = *c
		return nil
	})
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*entities.Comment, error) {
	var (
		c  entities.Comment
		ok bool
	)
	r.s.read(func(d *dataset) { c, ok = d.comments[id] })
	if !ok {
		return nil, notFound("comment", id)
	}
	return &c, nil
}

func (r *commentRepo) Update(_ context.Context, c *entities.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	return r.s.write(func(d *dataset) error {
		existing, ok := d.comments[c.ID]
		if !ok {
			return notFound("comment", c.ID)
		}
		existing.Content = c.Content
		existing.IsDeleted = c.IsDeleted
		existing.IsEdited = c.IsEdited
		existing.UpdatedAt = c.UpdatedAt
		d.comments[c.ID] = existing
		return nil
	})
}

func (r *commentRepo) ListByPost(_ context.Context, postID string) ([]*entities.Comment, error) {
	list := []*entities.Comment{}
	r.s.read(func(d *dataset) {
		for _, c := range d.comments {
			if c.PostID == postID && !c.IsDeleted {
				c := c
				list = append(list, &c)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

type postRepo struct{ s *view }

func (r *postRepo) GetByID(_ context.Context, id string) (*entities.BlogPost, error) {
	var (
		p  entities.BlogPost
		ok bool
	)
	r.s.read(func(d *dataset) { p, ok = d.posts[id] })
	if !ok {
		return nil, notFound("blog post", id)
	}
	return &p, nil
}

type restaurantRepo struct{ s *view }

func (r *restaurantRepo) GetByID(_ context.Context, id string) (*entities.Restaurant, error) {
	var (
		rest entities.Restaurant
		ok   bool
	)
	r.s.read(func(d *dataset) { rest, ok = d.restaurants[id] })
	if !ok {
		return nil, notFound("restaurant", id)
	}
	return &rest, nil
}

func (r *restaurantRepo) UpdateRating(_ context.Context, id string, rating float64) error {
	return r.s.write(func(d *dataset) error {
		rest, ok := d.restaurants[id]
		if !ok {
			return notFound("restaurant", id)
		}
		rest.Rating = &rating
		rest.UpdatedAt = time.Now().UTC()
		d.restaurants[id] = rest
		return nil
	})
}

type profileRepo struct{ s *view }

func (r *profileRepo) GetByID(_ context.Context, id string) (*entities.Profile, error) {
	var (
		p  entities.Profile
		ok bool
	)
	r.s.read(func(d *dataset) { p, ok = d.profiles[id] })
	if !ok {
		return nil, notFound("profile", id)
	}
	return &p, nil
}

type orderRepo struct{ s *view }

func (r *orderRepo) GetByID(_ context.Context, id string) (*entities.Order, error) {
	var (
		o  entities.Order
		ok bool
	)
	r.s.read(func(d *dataset) { o, ok = d.orders[id] })
	if !ok {
		return nil, notFound("order", id)
	}
	return &o, nil
}

// GetForUpdate is GetByID; transactions are already serialized by the store
func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entities.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) UpdateStatus(_ context.Context, id string, status entities.OrderStatus) error {
	return r.s.write(func(d *dataset) error {
		o, ok := d.orders[id]
		if !ok {
			return notFound("order", id)
		}
		o.Status = status
		o.UpdatedAt = time.Now().UTC()
		d.orders[id] = o
		return nil
	})
}

type ratingRepo struct{ s *view }

func sameTriple(r entities.Rating, restaurantID, customerID string, orderID *string) bool {
	if r.RestaurantID != restaurantID || r.CustomerID != customerID {
		return false
	}
	if r.OrderID == nil || orderID == nil {
		return r.OrderID == nil && orderID == nil
	}
	return *r.OrderID == *orderID
}

func (d *dataset) ratingTaken(except, restaurantID, customerID string, orderID *string) bool {
	for id, existing := range d.ratings {
		if id != except && sameTriple(existing, restaurantID, customerID, orderID) {
			return true
		}
	}
	return false
}

func (r *ratingRepo) Create(_ context.Context, rating *entities.Rating) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.ratings[rating.ID]; ok {
			return conflict("rating", rating.ID)
		}
		if d.ratingTaken("", rating.RestaurantID, rating.CustomerID, rating.OrderID) {
			return apperrors.NewConflictError("rating already exists for this customer and order", nil)
		}
		d.ratings[rating.ID] = *rating
		return nil
	})
}

func (r *ratingRepo) GetByID(_ context.Context, id string) (*entities.Rating, error) {
	var (
		rating entities.Rating
		ok     bool
	)
	r.s.read(func(d *dataset) { rating, ok = d.ratings[id] })
	if !ok {
		return nil, notFound("rating", id)
	}
	return &rating, nil
}

func (r *ratingRepo) GetForUpdate(ctx context.Context, id string) (*entities.Rating, error) {
	return r.GetByID(ctx, id)
}

func (r *ratingRepo) Update(_ context.Context, rating *entities.Rating) error {
	return r.s.write(func(d *dataset) error {
		existing, ok := d.ratings[rating.ID]
		if !ok {
			return notFound("rating", rating.ID)
		}
		if d.ratingTaken(rating.ID, rating.RestaurantID, existing.CustomerID, existing.OrderID) {
			return apperrors.NewConflictError("rating already exists for this customer and order", nil)
		}
		existing.RestaurantID = rating.RestaurantID
		existing.Value = rating.Value
		d.ratings[rating.ID] = existing
		return nil
	})
}

func (r *ratingRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.ratings[id]; !ok {
			return notFound("rating", id)
		}
		delete(d.ratings, id)
		return nil
	})
}

func (r *ratingRepo) Exists(_ context.Context, restaurantID, customerID string, orderID *string) (bool, error) {
	var found bool
	r.s.read(func(d *dataset) { found = d.ratingTaken("", restaurantID, customerID, orderID) })
	return found, nil
}

func (r *ratingRepo) TotalsForRestaurant(_ context.Context, restaurantID string) (entities.RatingTotals, error) {
	var totals entities.RatingTotals
	r.s.read(func(d *dataset) {
		for _, rating := range d.ratings {
			if rating.RestaurantID == restaurantID {
				totals.SumTenths += entities.ToTenths(rating.Value)
				totals.Count++
			}
		}
	})
	return totals, nil
}

type customerNotificationRepo struct{ s *view }

func (r *customerNotificationRepo) Create(_ context.Context, n *entities.CustomerNotification) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.customerNotifications[n.ID]; ok {
			return conflict("notification", n.ID)
		}
		d.customerNotifications[n.ID] = *n
		return nil
	})
}

func (r *customerNotificationRepo) GetByID(_ context.Context, id string) (*entities.CustomerNotification, error) {
	var (
		n  entities.CustomerNotification
		ok bool
	)
	r.s.read(func(d *dataset) { n, ok = d.customerNotifications[id] })
	if !ok {
		return nil, notFound("notification", id)
	}
	return &n, nil
}

func (r *customerNotificationRepo) ListByCustomer(_ context.Context, customerID string, limit int) ([]*entities.CustomerNotification, error) {
	list := []*entities.CustomerNotification{}
	r.s.read(func(d *dataset) {
		for _, n := range d.customerNotifications {
			if n.CustomerID == customerID {
				n := n
				list = append(list, &n)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		return newerFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID)
	})
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *customerNotificationRepo) MarkRead(_ context.Context, id string) error {
	return r.s.write(func(d *dataset) error {
		n, ok := d.customerNotifications[id]
		if !ok {
			return notFound("notification", id)
		}
		n.Status = entities.NotificationStatusRead
		d.customerNotifications[id] = n
		return nil
	})
}

func (r *customerNotificationRepo) MarkAllRead(_ context.Context, customerID string) (int64, error) {
	var changed int64
	err := r.s.write(func(d *dataset) error {
		for id, n := range d.customerNotifications {
			if n.CustomerID == customerID && n.Status == entities.NotificationStatusUnread {
				n.Status = entities.NotificationStatusRead
				d.customerNotifications[id] = n
				changed++
			}
		}
		return nil
	})
	return changed, err
}

func (r *customerNotificationRepo) CountUnread(_ context.Context, customerID string) (int, error) {
	count := 0
	r.s.read(func(d *dataset) {
		for _, n := range d.customerNotifications {
			if n.CustomerID == customerID && n.Status == entities.NotificationStatusUnread {
				count++
			}
		}
	})
	return count, nil
}

type ownerNotificationRepo struct{ s *view }

func (r *ownerNotificationRepo) Create(_ context.Context, n *entities.OwnerNotification) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.ownerNotifications[n.ID]; ok {
			return conflict("owner notification", n.ID)
		}
		for _, existing := range d.ownerNotifications {
			if existing.CommentID == n.CommentID {
				return apperrors.NewConflictError(
					fmt.Sprintf("owner notification for comment %s already exists", n.CommentID), nil)
			}
		}
		d.ownerNotifications[n.ID] = *n
		return nil
	})
}

func (r *ownerNotificationRepo) GetByID(_ context.Context, id string) (*entities.OwnerNotification, error) {
	var (
		n  entities.OwnerNotification
		ok bool
	)
	r.s.read(func(d *dataset) { n, ok = d.ownerNotifications[id] })
	if !ok {
		return nil, notFound("owner notification", id)
	}
	return &n, nil
}

func (r *ownerNotificationRepo) ListByRestaurant(_ context.Context, restaurantID string, limit int) ([]*entities.OwnerNotification, error) {
	list := []*entities.OwnerNotification{}
	r.s.read(func(d *dataset) {
		for _, n := range d.ownerNotifications {
			if n.RestaurantID == restaurantID {
				n := n
				list = append(list, &n)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		return newerFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID)
	})
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *ownerNotificationRepo) MarkRead(_ context.Context, id string) error {
	return r.s.write(func(d *dataset) error {
		n, ok := d.ownerNotifications[id]
		if !ok {
			return notFound("owner notification", id)
		}
		n.Status = entities.NotificationStatusRead
		d.ownerNotifications[id] = n
		return nil
	})
}

func (r *ownerNotificationRepo) MarkAllRead(_ context.Context, restaurantID string) (int64, error) {
	var changed int64
	err := r.s.write(func(d *dataset) error {
		for id, n := range d.ownerNotifications {
			if n.RestaurantID == restaurantID && n.Status == entities.NotificationStatusUnread {
				n.Status = entities.NotificationStatusRead
				d.ownerNotifications[id] = n
				changed++
			}
		}
		return nil
	})
	return changed, err
}

func (r *ownerNotificationRepo) CountUnread(_ context.Context, restaurantID string) (int, error) {
	count := 0
	r.s.read(func(d *dataset) {
		for _, n := range d.ownerNotifications {
			if n.RestaurantID == restaurantID && n.Status == entities.NotificationStatusUnread {
				count++
			}
		}
	})
	return count, nil
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA > idB
}
