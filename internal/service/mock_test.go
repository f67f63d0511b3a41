package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NguyenHai-LETI/Sync-Note/internal/domain"
)

// memStore is an in-memory entity store with the same scoping rules as the dao package
type memStore struct {
	mu         sync.Mutex
	clock      time.Time
	categories map[string]*domain.Category
	notes      map[string]*domain.Note
	items      map[string]*domain.NoteItem
	users      map[int64]*domain.User
	nextUID    int64
	failWith   error
}

func newMemStore() *memStore {
	return &memStore{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		categories: map[string]*domain.Category{},
		notes:      map[string]*domain.Note{},
		items:      map[string]*domain.NoteItem{},
		users:      map[int64]*domain.User{},
	}
}

// tick advances the fake clock so every write gets a distinct timestamp
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *memStore) taken(id string) bool {
	_, c := m.categories[id]
	_, n := m.notes[id]
	_, i := m.items[id]
	return c || n || i
}

func (m *memStore) categoryRepo() domain.CategoryRepository { return &memCategoryRepo{m} }
func (m *memStore) noteRepo() domain.NoteRepository         { return &memNoteRepo{m} }
func (m *memStore) itemRepo() domain.NoteItemRepository     { return &memItemRepo{m} }
func (m *memStore) userRepo() domain.UserRepository         { return &memUserRepo{m} }

func after(t time.Time, since *time.Time) bool {
	return since == nil || t.After(*since)
}

func dupID() error {
	return &domain.DuplicateKeyError{Field: "id"}
}

type memCategoryRepo struct{ m *memStore }

func (r *memCategoryRepo) GetByID(ctx context.Context, id string, uid int64) (*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.categories[id]
	if !ok || c.UID != uid {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) List(ctx context.Context, uid int64) ([]*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Category
	for _, c := range r.m.categories {
		if c.UID == uid && !c.IsDeleted {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memCategoryRepo) ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	var out []*domain.Category
	for _, c := range r.m.categories {
		if c.UID == uid && after(c.UpdatedAt, since) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) Create(ctx context.Context, c *domain.Category, uid int64) (*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.taken(c.ID) {
		return nil, dupID()
	}
	ts := r.m.tick()
	cp := *c
	cp.UID, cp.CreatedAt, cp.UpdatedAt, cp.IsDeleted = uid, ts, ts, false
	r.m.categories[c.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memCategoryRepo) Update(ctx context.Context, c *domain.Category, uid int64) (*domain.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.categories[c.ID]
	if !ok || cur.UID != uid || cur.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cur.Name, cur.Description, cur.OrderIndex, cur.UpdatedAt = c.Name, c.Description, c.OrderIndex, r.m.tick()
	out := *cur
	return &out, nil
}

func (r *memCategoryRepo) SoftDelete(ctx context.Context, id string, uid int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.categories[id]
	if !ok || cur.UID != uid {
		return domain.ErrNotFound
	}
	cur.IsDeleted, cur.UpdatedAt = true, r.m.tick()
	return nil
}

func (r *memCategoryRepo) Count(ctx context.Context) (domain.EntityCount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n domain.EntityCount
	for _, c := range r.m.categories {
		if c.IsDeleted {
			n.Tombstoned++
		} else {
			n.Live++
		}
	}
	return n, nil
}

type memNoteRepo struct{ m *memStore }

func (r *memNoteRepo) GetByID(ctx context.Context, id string, uid int64) (*domain.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n, ok := r.m.notes[id]
	if !ok || n.UID != uid {
		return nil, domain.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memNoteRepo) List(ctx context.Context, uid int64, categoryID *string) ([]*domain.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Note
	for _, n := range r.m.notes {
		if n.UID == uid && !n.IsDeleted && (categoryID == nil || n.CategoryID == *categoryID) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memNoteRepo) ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*domain.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Note
	for _, n := range r.m.notes {
		if n.UID == uid && after(n.UpdatedAt, since) {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memNoteRepo) Create(ctx context.Context, n *domain.Note, uid int64) (*domain.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.taken(n.ID) {
		return nil, dupID()
	}
	ts := r.m.tick()
	cp := *n
	cp.UID, cp.CreatedAt, cp.UpdatedAt, cp.IsDeleted = uid, ts, ts, false
	r.m.notes[n.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memNoteRepo) Update(ctx context.Context, n *domain.Note, uid int64) (*domain.Note, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.notes[n.ID]
	if !ok || cur.UID != uid || cur.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cur.Title, cur.Description, cur.UpdatedAt = n.Title, n.Description, r.m.tick()
	out := *cur
	return &out, nil
}

func (r *memNoteRepo) SoftDelete(ctx context.Context, id string, uid int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.notes[id]
	if !ok || cur.UID != uid {
		return domain.ErrNotFound
	}
	cur.IsDeleted, cur.UpdatedAt = true, r.m.tick()
	return nil
}

func (r *memNoteRepo) Count(ctx context.Context) (domain.EntityCount, error) {
	return domain.EntityCount{}, nil
}

type memItemRepo struct{ m *memStore }

// ownerOf resolves the item owner through its note, tombstoned notes included
func (r *memItemRepo) ownerOf(i *domain.NoteItem) int64 {
	if n, ok := r.m.notes[i.NoteID]; ok {
		return n.UID
	}
	return 0
}

func (r *memItemRepo) GetByID(ctx context.Context, id string, uid int64) (*domain.NoteItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	i, ok := r.m.items[id]
	if !ok || r.ownerOf(i) != uid {
		return nil, domain.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *memItemRepo) List(ctx context.Context, uid int64, noteID *string) ([]*domain.NoteItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.NoteItem
	for _, i := range r.m.items {
		if r.ownerOf(i) == uid && !i.IsDeleted && (noteID == nil || i.NoteID == *noteID) {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].OrderIndex != out[b].OrderIndex {
			return out[a].OrderIndex < out[b].OrderIndex
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}

func (r *memItemRepo) ListChangedSince(ctx context.Context, uid int64, since *time.Time) ([]*domain.NoteItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.NoteItem
	for _, i := range r.m.items {
		if r.ownerOf(i) == uid && after(i.UpdatedAt, since) {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memItemRepo) Create(ctx context.Context, i *domain.NoteItem, uid int64) (*domain.NoteItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.taken(i.ID) {
		return nil, dupID()
	}
	ts := r.m.tick()
	cp := *i
	cp.CreatedAt, cp.UpdatedAt, cp.IsDeleted = ts, ts, false
	r.m.items[i.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memItemRepo) Update(ctx context.Context, i *domain.NoteItem, uid int64) (*domain.NoteItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.items[i.ID]
	if !ok || r.ownerOf(cur) != uid || cur.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cur.Title, cur.Content, cur.IsCompleted, cur.OrderIndex = i.Title, i.Content, i.IsCompleted, i.OrderIndex
	cur.UpdatedAt = r.m.tick()
	out := *cur
	return &out, nil
}

func (r *memItemRepo) SoftDelete(ctx context.Context, id string, uid int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.items[id]
	if !ok || r.ownerOf(cur) != uid {
		return domain.ErrNotFound
	}
	cur.IsDeleted, cur.UpdatedAt = true, r.m.tick()
	return nil
}

func (r *memItemRepo) Count(ctx context.Context) (domain.EntityCount, error) {
	return domain.EntityCount{}, nil
}

type memUserRepo struct{ m *memStore }

func (r *memUserRepo) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[uid]
	if !ok || u.IsDeleted {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == strings.ToLower(email) && !u.IsDeleted {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == strings.ToLower(u.Email) {
			return nil, &domain.DuplicateKeyError{Field: "email"}
		}
	}
	r.m.nextUID++
	ts := r.m.tick()
	cp := *u
	cp.UID, cp.Email, cp.CreatedAt, cp.UpdatedAt = r.m.nextUID, strings.ToLower(u.Email), ts, ts
	r.m.users[cp.UID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, password string, uid int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[uid]
	if !ok {
		return domain.ErrNotFound
	}
	u.Password, u.UpdatedAt = password, r.m.tick()
	return nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.users)), nil
}

func (r *memUserRepo) ListUIDs(ctx context.Context, afterUID int64, limit int) ([]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	uids := make([]int64, 0)
	for uid, u := range r.m.users {
		if uid > afterUID && !u.IsDeleted {
			uids = append(uids, uid)
		}
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	if len(uids) > limit {
		uids = uids[:limit]
	}
	return uids, nil
}

// fixture wires every service over one memStore
type fixture struct {
	store      *memStore
	resolver   OwnershipResolver
	categories CategoryService
	notes      NoteService
	items      NoteItemService
	sync       SyncService
}

func newFixture() *fixture {
	m := newMemStore()
	resolver := NewOwnershipResolver(m.categoryRepo(), m.noteRepo())
	return &fixture{
		store:      m,
		resolver:   resolver,
		categories: NewCategoryService(m.categoryRepo()),
		notes:      NewNoteService(m.noteRepo(), resolver),
		items:      NewNoteItemService(m.itemRepo(), resolver),
		sync:       NewSyncService(m.categoryRepo(), m.noteRepo(), m.itemRepo(), nil, nil),
	}
}
