package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hairfit-server/internal/database"
	"github.com/iliyamo/hairfit-server/internal/model"
)

// SynthesisRepo persists synthesis history.  Rows record the salon that
// created them; rows with a member are also scoped through that member.
type SynthesisRepo struct {
	db *sql.DB
}

func NewSynthesisRepo(db *sql.DB) *SynthesisRepo { return &SynthesisRepo{db: db} }

const historySelect = `SELECT h.id, h.salon_id, h.member_id, h.original_photo_path, h.reference_style_id,
       h.result_photo_path, h.is_synced, h.created_at
  FROM synthesis_history h
  LEFT JOIN members m ON m.id = h.member_id`

// visibleTo matches rows linked to the salon and rows with no member.  It
// only governs listing.
const visibleTo = "(h.member_id IS NULL OR m.salon_id = ?)"

// ownedBy matches rows the salon recorded or whose member it owns.  It
// governs get, update and delete.
const ownedBy = "(h.salon_id = ? OR m.salon_id = ?)"

// ListVisible returns a page of rows visible to salonID, newest first.
func (r *SynthesisRepo) ListVisible(ctx context.Context, salonID uint64, skip, limit int) ([]model.SynthesisHistory, error) {
	const q = historySelect + " WHERE " + visibleTo + " ORDER BY h.created_at DESC, h.id DESC LIMIT ? OFFSET ?"
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, salonID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SynthesisHistory, 0)
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOwned fetches one row owned by salonID.
func (r *SynthesisRepo) GetOwned(ctx context.Context, salonID uint64, id string) (*model.SynthesisHistory, error) {
	const q = historySelect + " WHERE h.id = ? AND " + ownedBy
	h, err := scanHistory(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id, salonID, salonID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

// Create inserts h as given; the caller assigns ID, SalonID and CreatedAt.
func (r *SynthesisRepo) Create(ctx context.Context, h *model.SynthesisHistory) error {
	const q = `INSERT INTO synthesis_history
	           (id, salon_id, member_id, original_photo_path, reference_style_id, result_photo_path, is_synced, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, q,
		h.ID, h.SalonID, nullString(h.MemberID), h.OriginalPhotoPath, h.ReferenceStyleID, nullString(h.ResultPhotoPath), h.IsSynced, h.CreatedAt)
	return err
}

// UpdateOwned writes the mutable columns of h if salonID owns the row.
func (r *SynthesisRepo) UpdateOwned(ctx context.Context, salonID uint64, h *model.SynthesisHistory) error {
	const q = `UPDATE synthesis_history h
	           LEFT JOIN members m ON m.id = h.member_id
	           SET h.result_photo_path = ?, h.is_synced = ?
	           WHERE h.id = ? AND ` + ownedBy
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, nullString(h.ResultPhotoPath), h.IsSynced, h.ID, salonID, salonID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteOwned removes a row if salonID owns it.
func (r *SynthesisRepo) DeleteOwned(ctx context.Context, salonID uint64, id string) error {
	const q = `DELETE h FROM synthesis_history h
	           LEFT JOIN members m ON m.id = h.member_id
	           WHERE h.id = ? AND ` + ownedBy
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id, salonID, salonID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanHistory(s scanner) (*model.SynthesisHistory, error) {
	var (
		h        model.SynthesisHistory
		salonID  sql.NullInt64
		memberID sql.NullString
		result   sql.NullString
	)
	if err := s.Scan(&h.ID, &salonID, &memberID, &h.OriginalPhotoPath, &h.ReferenceStyleID, &result, &h.IsSynced, &h.CreatedAt); err != nil {
		return nil, err
	}
	if salonID.Valid {
		h.SalonID = uint64(salonID.Int64)
	}
	h.MemberID = stringPtr(memberID)
	h.ResultPhotoPath = stringPtr(result)
	return &h, nil
}
