// Package memstore implements the repository contracts in memory.  It backs
// STORE=memory for local development and the handler and service tests.
// Unique keys and the member cascade are emulated; transactions are not,
// so WithinTx simply runs the function.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/repository"
)

// Store holds every table.  Obtain the per-table views with the accessor
// methods.
type Store struct {
	mu  sync.Mutex
	seq uint64

	users     map[uint64]model.User
	tokens    map[string]model.RefreshToken
	salons    map[uint64]model.Salon // keyed by owner
	members   map[string]row[model.Member]
	histories map[string]row[model.SynthesisHistory]
}

type row[T any] struct {
	seq uint64
	v   T
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:     make(map[uint64]model.User),
		tokens:    make(map[string]model.RefreshToken),
		salons:    make(map[uint64]model.Salon),
		members:   make(map[string]row[model.Member]),
		histories: make(map[string]row[model.SynthesisHistory]),
	}
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() *Users                     { return &Users{s} }
func (s *Store) Tokens() *Tokens                   { return &Tokens{s} }
func (s *Store) Salons() *Salons                   { return &Salons{s} }
func (s *Store) Members() *Members                 { return &Members{s} }
func (s *Store) Histories() *Histories             { return &Histories{s} }
func (s *Store) Transactor() repository.Transactor { return tx{} }

type tx struct{}

func (tx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func now() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// Users implements repository.Users.
type Users struct{ s *Store }

func (r *Users) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.s.next()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = repository.NormalizeEmail(email)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// Tokens implements repository.RefreshTokens.
type Tokens struct{ s *Store }

func (r *Tokens) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tokens[tokenHash]; ok {
		return repository.ErrDuplicate
	}
	r.s.tokens[tokenHash] = model.RefreshToken{
		ID:        r.s.next(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: now(),
	}
	return nil
}

func (r *Tokens) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *Tokens) Revoke(ctx context.Context, tokenHash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[tokenHash]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	r.s.tokens[tokenHash] = t
	return true, nil
}

// Salons implements repository.Salons.
type Salons struct{ s *Store }

func (r *Salons) GetByOwner(ctx context.Context, ownerID uint64) (*model.Salon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.salons[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sl, nil
}

func (r *Salons) EnsureForOwner(ctx context.Context, ownerID uint64, name string) (*model.Salon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.salons[ownerID]
	if !ok {
		sl = model.Salon{ID: r.s.next(), Name: name, OwnerID: ownerID, CreatedAt: now()}
		r.s.salons[ownerID] = sl
	}
	return &sl, nil
}

// Members implements repository.Members.
type Members struct{ s *Store }

func (r *Members) ListBySalon(ctx context.Context, salonID uint64, skip, limit int) ([]model.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []row[model.Member]
	for _, m := range r.s.members {
		if m.v.SalonID == salonID {
			rows = append(rows, m)
		}
	}
	return page(rows, skip, limit, func(m model.Member) time.Time { return m.CreatedAt }), nil
}

func (r *Members) GetInSalon(ctx context.Context, salonID uint64, id string) (*model.Member, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok || m.v.SalonID != salonID {
		return nil, repository.ErrNotFound
	}
	v := m.v
	return &v, nil
}

func (r *Members) Create(ctx context.Context, m *model.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.members[m.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.members[m.ID] = row[model.Member]{seq: r.s.next(), v: *m}
	return nil
}

func (r *Members) Update(ctx context.Context, m *model.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.members[m.ID]
	if !ok || cur.v.SalonID != m.SalonID {
		return repository.ErrNotFound
	}
	cur.v = *m
	r.s.members[m.ID] = cur
	return nil
}

// Delete removes the member and, like the foreign key cascade, its history.
func (r *Members) Delete(ctx context.Context, salonID uint64, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[id]
	if !ok || m.v.SalonID != salonID {
		return repository.ErrNotFound
	}
	delete(r.s.members, id)
	for hid, h := range r.s.histories {
		if h.v.MemberID != nil && *h.v.MemberID == id {
			delete(r.s.histories, hid)
		}
	}
	return nil
}

// Histories implements repository.SynthesisHistories.
type Histories struct{ s *Store }

// visible must be called with the lock held.
func (r *Histories) visible(salonID uint64, h model.SynthesisHistory) bool {
	if h.MemberID == nil {
		return true
	}
	m, ok := r.s.members[*h.MemberID]
	return ok && m.v.SalonID == salonID
}

// owned must be called with the lock held.
func (r *Histories) owned(salonID uint64, h model.SynthesisHistory) bool {
	if h.SalonID == salonID {
		return true
	}
	if h.MemberID == nil {
		return false
	}
	m, ok := r.s.members[*h.MemberID]
	return ok && m.v.SalonID == salonID
}

func (r *Histories) ListVisible(ctx context.Context, salonID uint64, skip, limit int) ([]model.SynthesisHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []row[model.SynthesisHistory]
	for _, h := range r.s.histories {
		if r.visible(salonID, h.v) {
			rows = append(rows, h)
		}
	}
	return page(rows, skip, limit, func(h model.SynthesisHistory) time.Time { return h.CreatedAt }), nil
}

func (r *Histories) GetOwned(ctx context.Context, salonID uint64, id string) (*model.SynthesisHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.histories[id]
	if !ok || !r.owned(salonID, h.v) {
		return nil, repository.ErrNotFound
	}
	v := h.v
	return &v, nil
}

func (r *Histories) Create(ctx context.Context, h *model.SynthesisHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.histories[h.ID]; ok {
		return repository.ErrDuplicate
	}
	if h.MemberID != nil {
		if _, ok := r.s.members[*h.MemberID]; !ok {
			return repository.ErrNotFound
		}
	}
	r.s.histories[h.ID] = row[model.SynthesisHistory]{seq: r.s.next(), v: *h}
	return nil
}

func (r *Histories) UpdateOwned(ctx context.Context, salonID uint64, h *model.SynthesisHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.histories[h.ID]
	if !ok || !r.owned(salonID, cur.v) {
		return repository.ErrNotFound
	}
	cur.v.ResultPhotoPath = h.ResultPhotoPath
	cur.v.IsSynced = h.IsSynced
	r.s.histories[h.ID] = cur
	return nil
}

func (r *Histories) DeleteOwned(ctx context.Context, salonID uint64, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.histories[id]
	if !ok || !r.owned(salonID, h.v) {
		return repository.ErrNotFound
	}
	delete(r.s.histories, id)
	return nil
}

// page orders rows newest first, breaking ties by reverse insertion order,
// and applies skip/limit.  The result is never nil.
func page[T any](rows []row[T], skip, limit int, created func(T) time.Time) []T {
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := created(rows[i].v), created(rows[j].v)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]T, 0)
	for i := skip; i < len(rows) && len(out) < limit; i++ {
		out = append(out, rows[i].v)
	}
	return out
}

var (
	_ repository.Users              = (*Users)(nil)
	_ repository.RefreshTokens      = (*Tokens)(nil)
	_ repository.Salons             = (*Salons)(nil)
	_ repository.Members            = (*Members)(nil)
	_ repository.SynthesisHistories = (*Histories)(nil)
)
