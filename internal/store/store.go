// Package store is the authoritative collection of content items. Every
// write goes through it, it alone recomputes the derived title, and it
// notifies subscribers synchronously after each completed write so read-side
// views never have to poll or re-fetch.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/repository"
	"github.com/postcue/postcue/pkg/utils"
)

// Filter narrows List results. Empty slices match everything; an item
// matches the platform filter when it targets any of the listed platforms.
type Filter struct {
	Statuses    []string
	PlatformIDs []string
}

// Patch is a partial update merged over the stored item. Nil fields are left
// untouched. Status and ScheduledAt are deliberately absent: only the
// transition engine may change them, through ApplyTransition.
type Patch struct {
	Caption     *string
	MediaRefs   *[]string
	PlatformIDs *[]string
}

type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes one completed write. Item is nil for deletions.
type Change struct {
	Kind ChangeKind
	ID   string
	Item *models.ContentItem
}

type Listener func(Change)

type Store interface {
	Create(ctx context.Context, caption string, mediaRefs, platformIDs []string) (*models.ContentItem, error)
	Get(ctx context.Context, id string) (*models.ContentItem, error)
	Update(ctx context.Context, id string, patch Patch) (*models.ContentItem, error)
	ApplyTransition(ctx context.Context, id, status string, scheduledAt *time.Time, platformIDs []string) (*models.ContentItem, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*models.ContentItem, error)
	Subscribe(l Listener)
}

type contentStore struct {
	items     repository.ContentItemRepository
	platforms repository.PlatformRepository

	mu        sync.RWMutex
	listeners []Listener
}

func NewStore(items repository.ContentItemRepository, platforms repository.PlatformRepository) Store {
	return &contentStore{items: items, platforms: platforms}
}

func (s *contentStore) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *contentStore) notify(ch Change) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, l := range listeners {
		l(ch)
	}
}

func (s *contentStore) Create(ctx context.Context, caption string, mediaRefs, platformIDs []string) (*models.ContentItem, error) {
	if err := s.checkPlatforms(ctx, platformIDs); err != nil {
		return nil, err
	}

	id, err := utils.NewID()
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}

	now := time.Now()
	item := &models.ContentItem{
		ID:          id,
		Caption:     caption,
		Title:       models.TitleFor(caption),
		MediaRefs:   append([]string(nil), mediaRefs...),
		PlatformIDs: append([]string(nil), platformIDs...),
		Status:      models.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("error creating content item: %w", err)
	}

	s.notify(Change{Kind: ChangeCreated, ID: item.ID, Item: item.Clone()})
	return item, nil
}

func (s *contentStore) Get(ctx context.Context, id string) (*models.ContentItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &models.NotFoundError{ID: id}
	}
	return item, nil
}

func (s *contentStore) Update(ctx context.Context, id string, patch Patch) (*models.ContentItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := item.Clone()
	if patch.Caption != nil {
		merged.Caption = *patch.Caption
		merged.Title = models.TitleFor(merged.Caption)
	}
	if patch.MediaRefs != nil {
		merged.MediaRefs = append([]string(nil), (*patch.MediaRefs)...)
	}
	if patch.PlatformIDs != nil {
		if err := s.checkPlatforms(ctx, *patch.PlatformIDs); err != nil {
			return nil, err
		}
		merged.PlatformIDs = append([]string(nil), (*patch.PlatformIDs)...)
	}
	merged.UpdatedAt = time.Now()

	if err := s.items.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("error updating content item: %w", err)
	}

	s.notify(Change{Kind: ChangeUpdated, ID: merged.ID, Item: merged.Clone()})
	return merged, nil
}

// ApplyTransition writes the status fields on behalf of the transition
// engine. It performs no legality checks itself; the engine has already
// validated the move and holds the item's lock.
func (s *contentStore) ApplyTransition(ctx context.Context, id, status string, scheduledAt *time.Time, platformIDs []string) (*models.ContentItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := item.Clone()
	merged.Status = status
	merged.ScheduledAt = scheduledAt
	if platformIDs != nil {
		if err := s.checkPlatforms(ctx, platformIDs); err != nil {
			return nil, err
		}
		merged.PlatformIDs = append([]string(nil), platformIDs...)
	}
	merged.UpdatedAt = time.Now()

	if err := s.items.Update(ctx, merged); err != nil {
		return nil, fmt.Errorf("error applying transition: %w", err)
	}

	s.notify(Change{Kind: ChangeUpdated, ID: merged.ID, Item: merged.Clone()})
	return merged, nil
}

func (s *contentStore) Delete(ctx context.Context, id string) error {
	if err := s.items.Remove(ctx, id); err != nil {
		return err
	}
	s.notify(Change{Kind: ChangeDeleted, ID: id})
	return nil
}

func (s *contentStore) List(ctx context.Context, f Filter) ([]*models.ContentItem, error) {
	items, err := s.items.List(ctx, f.Statuses, f.PlatformIDs)
	if err != nil {
		return nil, fmt.Errorf("error listing content items: %w", err)
	}
	return items, nil
}

func (s *contentStore) checkPlatforms(ctx context.Context, platformIDs []string) error {
	for _, pid := range platformIDs {
		exists, err := s.platforms.Exists(ctx, pid)
		if err != nil {
			return err
		}
		if !exists {
			slog.Info("unknown platform id", "platform_id", pid)
			return &models.ValidationError{Field: "platformIds"}
		}
	}
	return nil
}
