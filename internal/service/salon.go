package service

import (
	"context"
	"errors"

	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/repository"
)

// SalonResolver maps a user to the single salon they own, provisioning one
// on first use.
type SalonResolver struct {
	salons repository.Salons
}

func NewSalonResolver(salons repository.Salons) *SalonResolver {
	return &SalonResolver{salons: salons}
}

// ResolveSalon reads the owner's salon and falls back to an idempotent
// insert.  Concurrent calls for the same user return the same salon.
func (r *SalonResolver) ResolveSalon(ctx context.Context, u *model.User) (*model.Salon, error) {
	s, err := r.salons.GetByOwner(ctx, u.ID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return r.salons.EnsureForOwner(ctx, u.ID, model.DefaultSalonName(u.Username))
}
