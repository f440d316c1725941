package model

import "time"

// Member is a salon's client record (`members` table).  IDs are random
// UUID strings assigned by the service layer.
type Member struct {
	ID        string    `json:"id"`
	SalonID   uint64    `json:"salon_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Memo      *string   `json:"memo"`
	PhotoPath *string   `json:"photo_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemberPatch carries a partial update.  Name and phone are required
// columns, so a nil or null value leaves them untouched; memo and photo_path
// are cleared by an explicit null.
type MemberPatch struct {
	Name      *string          `json:"name"`
	Phone     *string          `json:"phone"`
	Memo      Optional[string] `json:"memo"`
	PhotoPath Optional[string] `json:"photo_path"`
}

// Apply assigns every present field of p to m.
func (p MemberPatch) Apply(m *Member) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.Memo.Set {
		m.Memo = p.Memo.Value
	}
	if p.PhotoPath.Set {
		m.PhotoPath = p.PhotoPath.Value
	}
}
