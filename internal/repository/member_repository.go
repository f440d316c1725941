package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hairfit-server/internal/database"
	"github.com/iliyamo/hairfit-server/internal/model"
)

// MemberRepo provides salon-scoped CRUD over the members table.
type MemberRepo struct {
	db *sql.DB
}

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberColumns = "id, salon_id, name, phone, memo, photo_path, created_at, updated_at"

// ListBySalon returns a page of members, newest first.
func (r *MemberRepo) ListBySalon(ctx context.Context, salonID uint64, skip, limit int) ([]model.Member, error) {
	const q = "SELECT " + memberColumns + ` FROM members
	           WHERE salon_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, salonID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInSalon fetches a member by id but only if it belongs to salonID.
func (r *MemberRepo) GetInSalon(ctx context.Context, salonID uint64, id string) (*model.Member, error) {
	const q = "SELECT " + memberColumns + " FROM members WHERE id = ? AND salon_id = ?"
	m, err := scanMember(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id, salonID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Create inserts m as given; the caller assigns ID and timestamps.
func (r *MemberRepo) Create(ctx context.Context, m *model.Member) error {
	const q = `INSERT INTO members (id, salon_id, name, phone, memo, photo_path, created_at, updated_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, q,
		m.ID, m.SalonID, m.Name, m.Phone, nullString(m.Memo), nullString(m.PhotoPath), m.CreatedAt, m.UpdatedAt)
	return err
}

// Update writes every mutable column of m, filtered by id and salon.  The
// DSN sets clientFoundRows, so an unchanged row still counts as affected.
func (r *MemberRepo) Update(ctx context.Context, m *model.Member) error {
	const q = `UPDATE members SET name = ?, phone = ?, memo = ?, photo_path = ?, updated_at = ?
	           WHERE id = ? AND salon_id = ?`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q,
		m.Name, m.Phone, nullString(m.Memo), nullString(m.PhotoPath), m.UpdatedAt, m.ID, m.SalonID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a member of salonID.  Dependent synthesis history rows go
// with it through the foreign key cascade.
func (r *MemberRepo) Delete(ctx context.Context, salonID uint64, id string) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, "DELETE FROM members WHERE id = ? AND salon_id = ?", id, salonID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(s scanner) (*model.Member, error) {
	var (
		m     model.Member
		memo  sql.NullString
		photo sql.NullString
	)
	if err := s.Scan(&m.ID, &m.SalonID, &m.Name, &m.Phone, &memo, &photo, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Memo = stringPtr(memo)
	m.PhotoPath = stringPtr(photo)
	return &m, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
