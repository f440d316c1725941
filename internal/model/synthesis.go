package model

import "time"

// SynthesisHistory records one virtual-haircut attempt.  MemberID is
// optional: a synthesis done for a walk-in has no member.  SalonID is the
// salon that recorded the row (0 for rows written before it was tracked).
type SynthesisHistory struct {
	ID                string    `json:"id"`
	SalonID           uint64    `json:"-"`
	MemberID          *string   `json:"member_id"`
	OriginalPhotoPath string    `json:"original_photo_path"`
	ReferenceStyleID  string    `json:"reference_style_id"`
	ResultPhotoPath   *string   `json:"result_photo_path"`
	IsSynced          bool      `json:"is_synced"`
	CreatedAt         time.Time `json:"created_at"`
}

// HistoryPatch carries a partial update of a synthesis history row.
// An explicit null result_photo_path clears it.
type HistoryPatch struct {
	ResultPhotoPath Optional[string] `json:"result_photo_path"`
	IsSynced        *bool            `json:"is_synced"`
}

// Apply assigns every present field of p to h.
func (p HistoryPatch) Apply(h *SynthesisHistory) {
	if p.ResultPhotoPath.Set {
		h.ResultPhotoPath = p.ResultPhotoPath.Value
	}
	if p.IsSynced != nil {
		h.IsSynced = *p.IsSynced
	}
}
