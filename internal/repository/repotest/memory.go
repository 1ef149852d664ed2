// Package repotest provides in-memory repository implementations for tests.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/postcue/postcue/internal/models"
)

// ContentItems is an in-memory ContentItemRepository preserving insertion
// order for List.
type ContentItems struct {
	mu    sync.Mutex
	order []string
	items map[string]*models.ContentItem
}

func NewContentItems() *ContentItems {
	return &ContentItems{items: make(map[string]*models.ContentItem)}
}

func (r *ContentItems) Create(ctx context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, item.ID)
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *ContentItems) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return item.Clone(), nil
}

func (r *ContentItems) Update(ctx context.Context, item *models.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return &models.NotFoundError{ID: item.ID}
	}
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *ContentItems) List(ctx context.Context, statuses, platformIDs []string) ([]*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.ContentItem
	for _, id := range r.order {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		if !matchAny(item.Status, statuses) {
			continue
		}
		if len(platformIDs) > 0 && !overlaps(item.PlatformIDs, platformIDs) {
			continue
		}
		out = append(out, item.Clone())
	}
	return out, nil
}

func (r *ContentItems) ListScheduledBefore(ctx context.Context, cutoff time.Time) ([]*models.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.ContentItem
	for _, id := range r.order {
		item, ok := r.items[id]
		if !ok || item.Status != models.StatusScheduled || item.ScheduledAt == nil {
			continue
		}
		if !item.ScheduledAt.After(cutoff) {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (r *ContentItems) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return &models.NotFoundError{ID: id}
	}
	delete(r.items, id)
	return nil
}

func matchAny(status string, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func overlaps(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

// Platforms is an in-memory PlatformRepository seeded with known ids.
type Platforms struct {
	mu    sync.Mutex
	known map[string]models.PlatformBinding
}

func NewPlatforms(ids ...string) *Platforms {
	p := &Platforms{known: make(map[string]models.PlatformBinding)}
	for _, id := range ids {
		p.known[id] = models.PlatformBinding{ID: id, Name: id}
	}
	return p
}

func (p *Platforms) List(ctx context.Context) ([]*models.PlatformBinding, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*models.PlatformBinding
	for _, pb := range p.known {
		pb := pb
		out = append(out, &pb)
	}
	return out, nil
}

func (p *Platforms) Exists(ctx context.Context, id string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.known[id]
	return ok, nil
}

func (p *Platforms) Upsert(ctx context.Context, pb *models.PlatformBinding) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.known[pb.ID] = *pb
	return nil
}

// History is an in-memory DeliveryHistoryRepository.
type History struct {
	mu   sync.Mutex
	next int64
	rows []*models.DeliveryHistory
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Create(ctx context.Context, dh *models.DeliveryHistory) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	row := *dh
	row.ID = h.next
	row.CreatedAt = time.Now()
	h.rows = append(h.rows, &row)
	return row.ID, nil
}

func (h *History) ListByItemID(ctx context.Context, itemID string) ([]*models.DeliveryHistory, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*models.DeliveryHistory
	for _, row := range h.rows {
		if row.ItemID == itemID {
			r := *row
			out = append(out, &r)
		}
	}
	return out, nil
}
