package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/repository"
)

// MemberInput is the body of POST /members.
type MemberInput struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Memo      *string `json:"memo"`
	PhotoPath *string `json:"photo_path"`
}

// MemberService is CRUD over a salon's members.  A member of another salon
// is reported as not found.
type MemberService struct {
	members repository.Members
	tx      repository.Transactor
	now     func() time.Time
}

func NewMemberService(members repository.Members, tx repository.Transactor) *MemberService {
	return &MemberService{members: members, tx: tx, now: stamp}
}

func stamp() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

var errMemberNotFound = fail(ErrNotFound, "Member not found")

func (s *MemberService) List(ctx context.Context, salonID uint64, p Page) ([]model.Member, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return s.members.ListBySalon(ctx, salonID, p.Skip, p.Limit)
}

func (s *MemberService) Get(ctx context.Context, salonID uint64, id string) (*model.Member, error) {
	m, err := s.members.GetInSalon(ctx, salonID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errMemberNotFound
	}
	return m, err
}

func (s *MemberService) Create(ctx context.Context, salonID uint64, in MemberInput) (*model.Member, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, fail(ErrValidation, "name and phone are required")
	}
	now := s.now()
	m := &model.Member{
		ID:        uuid.NewString(),
		SalonID:   salonID,
		Name:      in.Name,
		Phone:     in.Phone,
		Memo:      in.Memo,
		PhotoPath: in.PhotoPath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update applies the present fields of patch and restamps updated_at.  The
// read and the write share one transaction; a row deleted in between is
// reported as not found.
func (s *MemberService) Update(ctx context.Context, salonID uint64, id string, patch model.MemberPatch) (*model.Member, error) {
	var m *model.Member
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if m, err = s.Get(ctx, salonID, id); err != nil {
			return err
		}
		patch.Apply(m)
		m.UpdatedAt = s.now()
		if err := s.members.Update(ctx, m); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errMemberNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MemberService) Delete(ctx context.Context, salonID uint64, id string) error {
	err := s.members.Delete(ctx, salonID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errMemberNotFound
	}
	return err
}
