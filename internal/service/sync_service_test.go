package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/workerpool"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maxUpdatedAt(d *dto.SyncDTO) *time.Time {
	var out time.Time
	for _, c := range d.CategoriesChanged {
		if t := c.UpdatedAt.Time(); t.After(out) {
			out = t
		}
	}
	for _, n := range d.NotesChanged {
		if t := n.UpdatedAt.Time(); t.After(out) {
			out = t
		}
	}
	for _, i := range d.NoteItemsChanged {
		if t := i.UpdatedAt.Time(); t.After(out) {
			out = t
		}
	}
	if out.IsZero() {
		return nil
	}
	return &out
}

func deltaSize(d *dto.SyncDTO) int {
	return len(d.CategoriesChanged) + len(d.NotesChanged) + len(d.NoteItemsChanged)
}

func TestSync_Scenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	work := f.mustCategory(t, alice, "Work", 1)
	meeting := f.mustNote(t, alice, work.ID, "Meeting Notes")
	milk := f.mustItem(t, alice, meeting.ID, "Buy milk", 0)
	f.mustCategory(t, bob, "Bob's", 0)

	cursor := f.store.clock.Add(-time.Minute)
	d, err := f.sync.Sync(ctx, alice, &cursor)
	require.NoError(t, err)
	require.Len(t, d.CategoriesChanged, 1)
	require.Len(t, d.NotesChanged, 1)
	require.Len(t, d.NoteItemsChanged, 1)
	assert.False(t, d.ServerTime.Time().IsZero())

	require.NoError(t, f.categories.Delete(ctx, alice, work.ID))

	d, err = f.sync.Sync(ctx, alice, &cursor)
	require.NoError(t, err)
	require.Len(t, d.CategoriesChanged, 1)
	assert.True(t, d.CategoriesChanged[0].IsDeleted)
	require.Len(t, d.NotesChanged, 1)
	assert.Equal(t, meeting.ID, d.NotesChanged[0].ID)
	assert.False(t, d.NotesChanged[0].IsDeleted)
	require.Len(t, d.NoteItemsChanged, 1)
	assert.Equal(t, milk.ID, d.NoteItemsChanged[0].ID)
	assert.False(t, d.NoteItemsChanged[0].IsDeleted)
}

func TestSync_StrictCursor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c := f.mustCategory(t, alice, "Work", 0)
	at := c.UpdatedAt.Time()

	d, err := f.sync.Sync(ctx, alice, &at)
	require.NoError(t, err)
	assert.Zero(t, deltaSize(d))

	before := at.Add(-time.Nanosecond)
	d, err = f.sync.Sync(ctx, alice, &before)
	require.NoError(t, err)
	assert.Len(t, d.CategoriesChanged, 1)
}

func TestSync_FailsTogether(t *testing.T) {
	f := newFixture()
	f.mustCategory(t, alice, "Work", 0)
	f.store.failWith = errors.New("connection reset")

	_, err := f.sync.Sync(context.Background(), alice, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorDBQuery)
}

func TestSync_ThroughWorkerPool(t *testing.T) {
	f := newFixture()
	pool := workerpool.New(workerpool.Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer pool.Shutdown(context.Background())
	svc := NewSyncService(f.store.categoryRepo(), f.store.noteRepo(), f.store.itemRepo(), pool, nil)

	f.mustCategory(t, alice, "Work", 0)
	d, err := svc.Sync(context.Background(), alice, nil)
	require.NoError(t, err)
	assert.Len(t, d.CategoriesChanged, 1)

	require.NoError(t, pool.Shutdown(context.Background()))
	_, err = svc.Sync(context.Background(), alice, nil)
	assert.ErrorIs(t, err, code.ErrorServerBusy)
}

// applyOps drives a random workload; each op picks an action and a user
func applyOps(t *testing.T, f *fixture, ops []int) {
	ctx := context.Background()
	cats := map[int64][]string{}
	notes := map[int64][]string{}
	items := map[int64][]string{}

	pick := func(ids []string, n int) (string, bool) {
		if len(ids) == 0 {
			return "", false
		}
		return ids[n%len(ids)], true
	}

	for step, op := range ops {
		uid := alice
		if (op/7)%2 == 1 {
			uid = bob
		}
		switch op % 7 {
		case 0:
			c, err := f.categories.Create(ctx, uid, &dto.CategoryCreateRequest{Name: strp("c"), OrderIndex: step % 3})
			if err == nil {
				cats[uid] = append(cats[uid], c.ID)
			}
		case 1:
			if id, ok := pick(cats[uid], step); ok {
				if n, err := f.notes.Create(ctx, uid, id, &dto.NoteCreateRequest{Title: strp("n")}); err == nil {
					notes[uid] = append(notes[uid], n.ID)
				}
			}
		case 2:
			if id, ok := pick(notes[uid], step); ok {
				if i, err := f.items.Create(ctx, uid, id, &dto.NoteItemCreateRequest{Title: strp("i")}); err == nil {
					items[uid] = append(items[uid], i.ID)
				}
			}
		case 3:
			if id, ok := pick(cats[uid], step); ok {
				_ = f.categories.Delete(ctx, uid, id)
			}
		case 4:
			if id, ok := pick(notes[uid], step); ok {
				_, _ = f.notes.Update(ctx, uid, id, &dto.NoteUpdateRequest{Title: strp("u")})
			}
		case 5:
			if id, ok := pick(items[uid], step); ok {
				_, _ = f.items.Patch(ctx, uid, id, &dto.NoteItemPatchRequest{IsCompleted: boolp(true)})
			}
		case 6:
			if id, ok := pick(items[uid], step); ok {
				_ = f.items.Delete(ctx, uid, id)
			}
		}
	}
}

func TestSync_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)
	ctx := context.Background()

	opsGen := gen.SliceOf(gen.IntRange(0, 13))

	properties.Property("full sync returns every owned row, tombstones included", prop.ForAll(
		func(ops []int) bool {
			f := newFixture()
			applyOps(t, f, ops)

			for _, uid := range []int64{alice, bob} {
				d, err := f.sync.Sync(ctx, uid, nil)
				if err != nil {
					return false
				}
				want := 0
				for _, c := range f.store.categories {
					if c.UID == uid {
						want++
					}
				}
				for _, n := range f.store.notes {
					if n.UID == uid {
						want++
					}
				}
				for _, i := range f.store.items {
					if f.store.notes[i.NoteID].UID == uid {
						want++
					}
				}
				if deltaSize(d) != want {
					return false
				}
			}
			return true
		},
		opsGen,
	))

	properties.Property("sync from max(updated_at) is empty without new writes", prop.ForAll(
		func(ops []int) bool {
			f := newFixture()
			applyOps(t, f, ops)

			first, err := f.sync.Sync(ctx, alice, nil)
			if err != nil {
				return false
			}
			cursor := maxUpdatedAt(first)
			if cursor == nil {
				return deltaSize(first) == 0
			}
			second, err := f.sync.Sync(ctx, alice, cursor)
			return err == nil && deltaSize(second) == 0
		},
		opsGen,
	))

	properties.Property("deltas never leak another user's rows", prop.ForAll(
		func(ops []int) bool {
			f := newFixture()
			applyOps(t, f, ops)

			d, err := f.sync.Sync(ctx, bob, nil)
			if err != nil {
				return false
			}
			for _, c := range d.CategoriesChanged {
				if f.store.categories[c.ID].UID != bob {
					return false
				}
			}
			for _, n := range d.NotesChanged {
				if f.store.notes[n.ID].UID != bob {
					return false
				}
			}
			for _, i := range d.NoteItemsChanged {
				if f.store.notes[i.Note].UID != bob {
					return false
				}
			}

			cats, err := f.categories.List(ctx, bob)
			if err != nil {
				return false
			}
			for _, c := range cats {
				if f.store.categories[c.ID].UID != bob || c.IsDeleted {
					return false
				}
			}
			return true
		},
		opsGen,
	))

	properties.Property("every created child resolves to its creator", prop.ForAll(
		func(ops []int) bool {
			f := newFixture()
			applyOps(t, f, ops)

			for _, n := range f.store.notes {
				if f.store.categories[n.CategoryID].UID != n.UID {
					return false
				}
			}
			for _, i := range f.store.items {
				if _, ok := f.store.notes[i.NoteID]; !ok {
					return false
				}
			}
			return true
		},
		opsGen,
	))

	properties.TestingRun(t)
}
