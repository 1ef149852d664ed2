package store_test

import (
	"context"
	"testing"

	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/repository/repotest"
	"github.com/postcue/postcue/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() store.Store {
	return store.NewStore(repotest.NewContentItems(), repotest.NewPlatforms("instagram", "tiktok", "youtube"))
}

func strPtr(s string) *string { return &s }

func TestCreateStartsAsDraft(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	item, err := st.Create(ctx, "hello world", []string{"m1"}, []string{"instagram"})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.StatusDraft, item.Status)
	assert.Equal(t, "hello world", item.Title)
	assert.Nil(t, item.ScheduledAt)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestCreateRejectsUnknownPlatform(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	_, err := st.Create(ctx, "hello", nil, []string{"myspace"})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "platformIds", ve.Field)
}

func TestUpdateRecomputesTitleFromCaption(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	item, err := st.Create(ctx, "original", nil, nil)
	require.NoError(t, err)

	long := "this caption is well over fifty characters long so the title must truncate"
	updated, err := st.Update(ctx, item.ID, store.Patch{Caption: &long})
	require.NoError(t, err)

	assert.Equal(t, models.TitleFor(long), updated.Title)
	assert.Len(t, []rune(updated.Title), models.TitleLimit)

	empty := ""
	updated, err = st.Update(ctx, item.ID, store.Patch{Caption: &empty})
	require.NoError(t, err)
	assert.Equal(t, models.TitleFallback, updated.Title)
}

func TestUpdateMergesOnlyPatchedFields(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	item, err := st.Create(ctx, "keep me", []string{"a", "b"}, []string{"instagram"})
	require.NoError(t, err)

	refs := []string{"b", "a", "c"}
	updated, err := st.Update(ctx, item.ID, store.Patch{MediaRefs: &refs})
	require.NoError(t, err)

	// Reorder survives and untouched fields are untouched.
	assert.Equal(t, []string{"b", "a", "c"}, updated.MediaRefs)
	assert.Equal(t, "keep me", updated.Caption)
	assert.Equal(t, []string{"instagram"}, updated.PlatformIDs)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	_, err := st.Update(ctx, "missing", store.Patch{Caption: strPtr("x")})
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)

	// Never defaults to creating a new item.
	items, err := st.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	a, err := st.Create(ctx, "a", nil, []string{"instagram"})
	require.NoError(t, err)
	b, err := st.Create(ctx, "b", nil, []string{"tiktok"})
	require.NoError(t, err)
	c, err := st.Create(ctx, "c", nil, []string{"instagram", "youtube"})
	require.NoError(t, err)

	all, err := st.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Platform filter is inclusive-OR over the requested set.
	got, err := st.List(ctx, store.Filter{PlatformIDs: []string{"tiktok", "youtube"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, c.ID, got[1].ID)

	drafts, err := st.List(ctx, store.Filter{Statuses: []string{models.StatusDraft}})
	require.NoError(t, err)
	assert.Len(t, drafts, 3)
	_ = a
}

func TestDeleteIsUnconditional(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	item, err := st.Create(ctx, "gone soon", nil, []string{"instagram"})
	require.NoError(t, err)

	_, err = st.ApplyTransition(ctx, item.ID, models.StatusPublished, &item.CreatedAt, nil)
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, item.ID))

	items, err := st.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = st.Get(ctx, item.ID)
	var nf *models.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestWritesNotifySubscribersSynchronously(t *testing.T) {
	ctx := context.Background()
	st := newTestStore()

	var changes []store.Change
	st.Subscribe(func(ch store.Change) {
		changes = append(changes, ch)
	})

	item, err := st.Create(ctx, "watch me", nil, nil)
	require.NoError(t, err)
	_, err = st.Update(ctx, item.ID, store.Patch{Caption: strPtr("edited")})
	require.NoError(t, err)
	require.NoError(t, st.Delete(ctx, item.ID))

	require.Len(t, changes, 3)
	assert.Equal(t, store.ChangeCreated, changes[0].Kind)
	assert.Equal(t, store.ChangeUpdated, changes[1].Kind)
	assert.Equal(t, "edited", changes[1].Item.Caption)
	assert.Equal(t, store.ChangeDeleted, changes[2].Kind)
	assert.Nil(t, changes[2].Item)
	for _, ch := range changes {
		assert.Equal(t, item.ID, ch.ID)
	}
}
