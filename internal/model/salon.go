package model

import (
	"fmt"
	"time"
)

// Salon is the ownership scope for members and synthesis history.  The
// `salons` table carries a unique key on owner_id, so a user has at most one.
type Salon struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultSalonName is the name given to salons provisioned without an
// explicit name.
func DefaultSalonName(username string) string {
	return fmt.Sprintf("%s's Salon", username)
}
