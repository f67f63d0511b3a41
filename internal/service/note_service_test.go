package service

import (
	"context"
	"errors"
	"testing"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dto"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/code"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice int64 = 1
	bob   int64 = 2
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
func boolp(b bool) *bool    { return &b }

func (f *fixture) mustCategory(t *testing.T, uid int64, name string, order int) *dto.CategoryDTO {
	t.Helper()
	c, err := f.categories.Create(context.Background(), uid, &dto.CategoryCreateRequest{Name: strp(name), OrderIndex: order})
	require.NoError(t, err)
	return c
}

func (f *fixture) mustNote(t *testing.T, uid int64, categoryID, title string) *dto.NoteDTO {
	t.Helper()
	n, err := f.notes.Create(context.Background(), uid, categoryID, &dto.NoteCreateRequest{Title: strp(title)})
	require.NoError(t, err)
	return n
}

func (f *fixture) mustItem(t *testing.T, uid int64, noteID, title string, order int) *dto.NoteItemDTO {
	t.Helper()
	i, err := f.items.Create(context.Background(), uid, noteID, &dto.NoteItemCreateRequest{Title: strp(title), OrderIndex: order})
	require.NoError(t, err)
	return i
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var c *code.Code
	require.True(t, errors.As(err, &c), "not a code: %v", err)
	fe, ok := c.Fault().(code.FieldErrors)
	require.True(t, ok, "fault is not field errors: %v", err)
	first, _ := fe.First()
	return first.Field
}

func TestOwnershipResolver(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	live := f.mustCategory(t, alice, "live", 0)
	gone := f.mustCategory(t, alice, "gone", 0)
	require.NoError(t, f.categories.Delete(ctx, alice, gone.ID))
	note := f.mustNote(t, alice, live.ID, "n")

	got, err := f.resolver.ResolveCategory(ctx, alice, live.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got.UID)

	tests := []struct {
		name string
		uid  int64
		id   string
	}{
		{"missing", alice, uuid.NewString()},
		{"tombstoned", alice, gone.ID},
		{"foreign", bob, live.ID},
		{"not a uuid", alice, "../etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.resolver.ResolveCategory(ctx, tt.uid, tt.id)
			assert.ErrorIs(t, err, code.ErrorNotFound)
		})
	}

	_, err = f.resolver.ResolveNote(ctx, alice, note.ID)
	require.NoError(t, err)
	_, err = f.resolver.ResolveNote(ctx, bob, note.ID)
	assert.ErrorIs(t, err, code.ErrorNotFound)
}

func TestCategoryService_CreateIDs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id := uuid.NewString()
	c, err := f.categories.Create(ctx, alice, &dto.CategoryCreateRequest{ID: id, Name: strp("Work"), OrderIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.False(t, c.IsDeleted)

	generated := f.mustCategory(t, alice, "auto", 0)
	_, err = uuid.Parse(generated.ID)
	assert.NoError(t, err)

	// 大写形式视为同一 id
	_, err = f.categories.Create(ctx, bob, &dto.CategoryCreateRequest{ID: uuidUpper(id), Name: strp("clash")})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.ErrorDuplicateID)
	assert.Equal(t, "id", fieldOf(t, err))

	_, err = f.categories.Create(ctx, alice, &dto.CategoryCreateRequest{ID: "nope", Name: strp("x")})
	assert.Equal(t, "id", fieldOf(t, err))
}

func uuidUpper(id string) string {
	out := []byte(id)
	for i, b := range out {
		if b >= 'a' && b <= 'f' {
			out[i] = b - 'a' + 'A'
		}
	}
	return string(out)
}

func TestCategoryService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.categories.Create(ctx, alice, &dto.CategoryCreateRequest{Name: strp("Work"), Description: strp("d"), OrderIndex: 3})
	require.NoError(t, err)

	// 缺省的可选字段保留原值
	u, err := f.categories.Update(ctx, alice, c.ID, &dto.CategoryUpdateRequest{Name: strp("Job")})
	require.NoError(t, err)
	assert.Equal(t, "Job", u.Name)
	assert.Equal(t, "d", *u.Description)
	assert.Equal(t, 3, u.OrderIndex)
	assert.True(t, u.UpdatedAt.Time().After(c.UpdatedAt.Time()))
	assert.Equal(t, c.CreatedAt, u.CreatedAt)

	// 显式 null 清空描述
	u, err = f.categories.Update(ctx, alice, c.ID, &dto.CategoryUpdateRequest{
		Name:        strp("Job"),
		Description: dto.NewNullableString(nil),
		OrderIndex:  intp(0),
	})
	require.NoError(t, err)
	assert.Nil(t, u.Description)
	assert.Equal(t, 0, u.OrderIndex)

	_, err = f.categories.Update(ctx, bob, c.ID, &dto.CategoryUpdateRequest{Name: strp("mine")})
	assert.ErrorIs(t, err, code.ErrorNotFound)

	require.NoError(t, f.categories.Delete(ctx, alice, c.ID))
	_, err = f.categories.Update(ctx, alice, c.ID, &dto.CategoryUpdateRequest{Name: strp("back")})
	assert.ErrorIs(t, err, code.ErrorNotFound)
}

func TestCategoryService_ListOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b := f.mustCategory(t, alice, "b", 1)
	a := f.mustCategory(t, alice, "a", 0)
	c := f.mustCategory(t, alice, "c", 1)
	f.mustCategory(t, bob, "bob", 0)
	gone := f.mustCategory(t, alice, "gone", 0)
	require.NoError(t, f.categories.Delete(ctx, alice, gone.ID))

	list, err := f.categories.List(ctx, alice)
	require.NoError(t, err)
	var ids []string
	for _, x := range list {
		ids = append(ids, x.ID)
	}
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids)
}

func TestDelete_IdempotentAndScoped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c := f.mustCategory(t, alice, "Work", 0)

	assert.ErrorIs(t, f.categories.Delete(ctx, bob, c.ID), code.ErrorNotFound)
	assert.ErrorIs(t, f.categories.Delete(ctx, alice, uuid.NewString()), code.ErrorNotFound)
	assert.ErrorIs(t, f.categories.Delete(ctx, alice, "not-a-uuid"), code.ErrorNotFound)

	require.NoError(t, f.categories.Delete(ctx, alice, c.ID))
	first := f.store.categories[c.ID].UpdatedAt
	require.NoError(t, f.categories.Delete(ctx, alice, c.ID))
	assert.True(t, f.store.categories[c.ID].UpdatedAt.After(first))
	assert.True(t, f.store.categories[c.ID].IsDeleted)
}

func TestNoteService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	work := f.mustCategory(t, alice, "Work", 0)
	n := f.mustNote(t, alice, work.ID, "Meeting Notes")
	assert.Equal(t, work.ID, n.Category)
	assert.Equal(t, alice, f.store.notes[n.ID].UID)

	// 他人的分类
	_, err := f.notes.Create(ctx, bob, work.ID, &dto.NoteCreateRequest{Title: strp("x")})
	assert.ErrorIs(t, err, code.ErrorNotFound)

	// 已删除的分类
	require.NoError(t, f.categories.Delete(ctx, alice, work.ID))
	_, err = f.notes.Create(ctx, alice, work.ID, &dto.NoteCreateRequest{Title: strp("late")})
	assert.ErrorIs(t, err, code.ErrorNotFound)
	assert.Len(t, f.store.notes, 1)

	// 分类删除不影响已有笔记
	got, err := f.notes.Get(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestNoteService_ListAndGet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	work := f.mustCategory(t, alice, "Work", 0)
	home := f.mustCategory(t, alice, "Home", 0)
	n1 := f.mustNote(t, alice, work.ID, "1")
	n2 := f.mustNote(t, alice, work.ID, "2")
	f.mustNote(t, alice, home.ID, "elsewhere")

	list, err := f.notes.List(ctx, alice, work.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, n1.ID, list[0].ID)
	assert.Equal(t, n2.ID, list[1].ID)

	for _, categoryID := range []string{work.ID, uuid.NewString(), "garbage"} {
		list, err = f.notes.List(ctx, bob, categoryID)
		require.NoError(t, err)
		assert.Empty(t, list)
	}

	_, err = f.notes.Get(ctx, bob, n1.ID)
	assert.ErrorIs(t, err, code.ErrorNotFound)

	u, err := f.notes.Update(ctx, alice, n1.ID, &dto.NoteUpdateRequest{Title: strp("renamed"), Description: dto.NewNullableString(strp("d"))})
	require.NoError(t, err)
	assert.Equal(t, "renamed", u.Title)
	assert.Equal(t, work.ID, u.Category)

	require.NoError(t, f.notes.Delete(ctx, alice, n1.ID))
	_, err = f.notes.Get(ctx, alice, n1.ID)
	assert.ErrorIs(t, err, code.ErrorNotFound)
}

func TestNoteItemService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	work := f.mustCategory(t, alice, "Work", 0)
	note := f.mustNote(t, alice, work.ID, "Meeting Notes")

	second := f.mustItem(t, alice, note.ID, "second", 1)
	first := f.mustItem(t, alice, note.ID, "first", 0)
	assert.Equal(t, note.ID, first.Note)
	assert.False(t, first.IsCompleted)

	_, err := f.items.Create(ctx, bob, note.ID, &dto.NoteItemCreateRequest{Title: strp("intruder")})
	assert.ErrorIs(t, err, code.ErrorNotFound)
	assert.Len(t, f.store.items, 2)

	list, err := f.items.List(ctx, alice, note.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	list, err = f.items.List(ctx, bob, note.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// PATCH 只修改出现的字段
	p, err := f.items.Patch(ctx, alice, first.ID, &dto.NoteItemPatchRequest{IsCompleted: boolp(true)})
	require.NoError(t, err)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, "first", p.Title)
	assert.Equal(t, 0, p.OrderIndex)

	p, err = f.items.Patch(ctx, alice, first.ID, &dto.NoteItemPatchRequest{Content: dto.NewNullableString(strp("milk"))})
	require.NoError(t, err)
	assert.Equal(t, "milk", *p.Content)
	assert.True(t, p.IsCompleted)

	u, err := f.items.Update(ctx, alice, first.ID, &dto.NoteItemUpdateRequest{Title: strp("only title")})
	require.NoError(t, err)
	assert.Equal(t, "only title", u.Title)
	assert.Equal(t, "milk", *u.Content)
	assert.True(t, u.IsCompleted)

	_, err = f.items.Patch(ctx, bob, first.ID, &dto.NoteItemPatchRequest{Title: strp("x")})
	assert.ErrorIs(t, err, code.ErrorNotFound)

	require.NoError(t, f.items.Delete(ctx, alice, first.ID))
	_, err = f.items.Patch(ctx, alice, first.ID, &dto.NoteItemPatchRequest{Title: strp("x")})
	assert.ErrorIs(t, err, code.ErrorNotFound)
	require.NoError(t, f.items.Delete(ctx, alice, first.ID))
}

func TestNoteItemService_CreateUnderDeletedNote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	work := f.mustCategory(t, alice, "Work", 0)
	note := f.mustNote(t, alice, work.ID, "n")
	item := f.mustItem(t, alice, note.ID, "kept", 0)
	require.NoError(t, f.notes.Delete(ctx, alice, note.ID))

	_, err := f.items.Create(ctx, alice, note.ID, &dto.NoteItemCreateRequest{Title: strp("late")})
	assert.ErrorIs(t, err, code.ErrorNotFound)

	// 条目不随笔记删除
	assert.False(t, f.store.items[item.ID].IsDeleted)
}

func TestRepoError(t *testing.T) {
	assert.NoError(t, repoError(nil, code.ErrorDBQuery))
	assert.ErrorIs(t, repoError(domain.ErrNotFound, code.ErrorDBQuery), code.ErrorNotFound)

	err := repoError(&domain.DuplicateKeyError{Field: "email"}, code.ErrorDBWrite)
	assert.ErrorIs(t, err, code.ErrorUserEmailExists)
	assert.Equal(t, "email", fieldOf(t, err))

	boom := errors.New("disk full")
	err = repoError(boom, code.ErrorDBWrite)
	assert.ErrorIs(t, err, code.ErrorDBWrite)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, repoError(context.DeadlineExceeded, code.ErrorDBQuery), code.ErrorServerBusy)
}
