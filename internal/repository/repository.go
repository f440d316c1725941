package repository

import (
	"context"
	"time"

	"github.com/iliyamo/hairfit-server/internal/model"
)

// Users persists accounts.
type Users interface {
	// Create inserts u and fills u.ID.  ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// RefreshTokens persists refresh token digests.
type RefreshTokens interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	// Revoke flips the revoked flag and reports whether this call did it.
	// Unknown or already revoked tokens yield (false, nil).
	Revoke(ctx context.Context, tokenHash string) (bool, error)
}

// Salons persists ownership scopes.
type Salons interface {
	GetByOwner(ctx context.Context, ownerID uint64) (*model.Salon, error)
	// EnsureForOwner inserts a salon unless the owner already has one, then
	// returns whichever row exists.  Safe under concurrent callers.
	EnsureForOwner(ctx context.Context, ownerID uint64, name string) (*model.Salon, error)
}

// Members persists salon client records.  Every method is filtered by salon.
type Members interface {
	ListBySalon(ctx context.Context, salonID uint64, skip, limit int) ([]model.Member, error)
	GetInSalon(ctx context.Context, salonID uint64, id string) (*model.Member, error)
	Create(ctx context.Context, m *model.Member) error
	// Update writes m's mutable columns.  ErrNotFound when m.SalonID has no
	// member m.ID.
	Update(ctx context.Context, m *model.Member) error
	Delete(ctx context.Context, salonID uint64, id string) error
}

// SynthesisHistories persists synthesis records.  "Visible" rows, used for
// listing, are those whose member belongs to the salon plus every row
// without a member.  "Owned" rows, used for everything else, are those the
// salon recorded or whose member belongs to it.
type SynthesisHistories interface {
	ListVisible(ctx context.Context, salonID uint64, skip, limit int) ([]model.SynthesisHistory, error)
	GetOwned(ctx context.Context, salonID uint64, id string) (*model.SynthesisHistory, error)
	Create(ctx context.Context, h *model.SynthesisHistory) error
	UpdateOwned(ctx context.Context, salonID uint64, h *model.SynthesisHistory) error
	DeleteOwned(ctx context.Context, salonID uint64, id string) error
}

// Transactor runs fn inside one transaction; repositories called with the
// context passed to fn take part in it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
