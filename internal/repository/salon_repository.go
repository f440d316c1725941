package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hairfit-server/internal/database"
	"github.com/iliyamo/hairfit-server/internal/model"
)

// SalonRepo encapsulates queries on the salons table.  The table has a
// unique key on owner_id.
type SalonRepo struct {
	db *sql.DB
}

func NewSalonRepo(db *sql.DB) *SalonRepo { return &SalonRepo{db: db} }

// GetByOwner returns the salon owned by ownerID or ErrNotFound.
func (r *SalonRepo) GetByOwner(ctx context.Context, ownerID uint64) (*model.Salon, error) {
	const q = "SELECT id, name, owner_id, created_at FROM salons WHERE owner_id = ? LIMIT 1"
	var s model.Salon
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, q, ownerID).Scan(&s.ID, &s.Name, &s.OwnerID, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// EnsureForOwner inserts a salon for ownerID, ignoring the insert when one
// already exists, and re-reads the surviving row.  Two concurrent callers
// end up with the same salon.
func (r *SalonRepo) EnsureForOwner(ctx context.Context, ownerID uint64, name string) (*model.Salon, error) {
	const q = "INSERT INTO salons (name, owner_id) VALUES (?, ?) ON DUPLICATE KEY UPDATE owner_id = owner_id"
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, q, name, ownerID); err != nil {
		return nil, err
	}
	return r.GetByOwner(ctx, ownerID)
}
