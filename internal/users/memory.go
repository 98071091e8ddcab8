package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository. It enforces the same unique
// email rule as the users_email_key index.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryRepository constructs an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]User),
		byEmail: make(map[string]uuid.UUID),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *MemoryRepository) EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	return ok && id != exclude, nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Email != nil && *update.Email != user.Email {
		if owner, taken := r.byEmail[*update.Email]; taken && owner != id {
			return nil, ErrDuplicateEmail
		}
		delete(r.byEmail, user.Email)
		user.Email = *update.Email
		r.byEmail[user.Email] = id
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if !update.Empty() {
		user.UpdatedAt = r.now()
	}
	r.byID[id] = user
	return &user, nil
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.mutate(id, func(u *User) { u.PasswordHash = passwordHash })
}

func (r *MemoryRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	at = at.UTC()
	return r.mutate(id, func(u *User) { u.LastLogin = &at })
}

func (r *MemoryRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*User, error) {
	if err := r.mutate(id, func(u *User) { u.Status = status }); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) Promote(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if err := r.mutate(id, func(u *User) {
		u.Role = RoleAdmin
		u.Status = StatusActive
	}); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) List(ctx context.Context, filter ListFilter) ([]User, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if filter.Offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if filter.Limit > 0 && filter.Limit < end-filter.Offset {
		end = filter.Offset + filter.Limit
	}
	return all[filter.Offset:end], nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// Delete removes a user. Used by tooling and tests that simulate an account
// disappearing after a token was issued.
func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byEmail, user.Email)
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) mutate(id uuid.UUID, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	user.UpdatedAt = r.now()
	r.byID[id] = user
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
