package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/queue"
	"github.com/iliyamo/hairfit-server/internal/repository"
)

// HistoryInput is the body of POST /synthesis-history.
type HistoryInput struct {
	MemberID          *string `json:"member_id"`
	OriginalPhotoPath string  `json:"original_photo_path"`
	ReferenceStyleID  string  `json:"reference_style_id"`
	ResultPhotoPath   *string `json:"result_photo_path"`
}

// EventPublisher delivers domain events.  Delivery is best effort.
type EventPublisher interface {
	PublishSynthesisRecorded(ctx context.Context, ev queue.SynthesisRecordedEvent) error
}

// NopPublisher drops every event; used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) PublishSynthesisRecorded(context.Context, queue.SynthesisRecordedEvent) error {
	return nil
}

// HistoryService is CRUD over synthesis history.  A salon lists rows linked
// to its own members plus every row that has no member, but it can only
// read, change or remove one row if it recorded it or owns its member.
type HistoryService struct {
	histories repository.SynthesisHistories
	members   repository.Members
	tx        repository.Transactor
	events    EventPublisher
	logger    logging.Logger
	now       func() time.Time
}

func NewHistoryService(histories repository.SynthesisHistories, members repository.Members, tx repository.Transactor, events EventPublisher, logger logging.Logger) *HistoryService {
	if events == nil {
		events = NopPublisher{}
	}
	return &HistoryService{histories: histories, members: members, tx: tx, events: events, logger: logger, now: stamp}
}

var errHistoryNotFound = fail(ErrNotFound, "Synthesis history not found")

func (s *HistoryService) List(ctx context.Context, salonID uint64, p Page) ([]model.SynthesisHistory, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return s.histories.ListVisible(ctx, salonID, p.Skip, p.Limit)
}

func (s *HistoryService) Get(ctx context.Context, salonID uint64, id string) (*model.SynthesisHistory, error) {
	h, err := s.histories.GetOwned(ctx, salonID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errHistoryNotFound
	}
	return h, err
}

// Create stores a row and announces it.  A member_id must name a member of
// the caller's salon.
func (s *HistoryService) Create(ctx context.Context, salon *model.Salon, in HistoryInput) (*model.SynthesisHistory, error) {
	if strings.TrimSpace(in.OriginalPhotoPath) == "" || strings.TrimSpace(in.ReferenceStyleID) == "" {
		return nil, fail(ErrValidation, "original_photo_path and reference_style_id are required")
	}
	if in.MemberID != nil {
		if _, err := s.members.GetInSalon(ctx, salon.ID, *in.MemberID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errMemberNotFound
			}
			return nil, err
		}
	}

	h := &model.SynthesisHistory{
		ID:                uuid.NewString(),
		SalonID:           salon.ID,
		MemberID:          in.MemberID,
		OriginalPhotoPath: in.OriginalPhotoPath,
		ReferenceStyleID:  in.ReferenceStyleID,
		ResultPhotoPath:   in.ResultPhotoPath,
		CreatedAt:         s.now(),
	}
	if err := s.histories.Create(ctx, h); err != nil {
		return nil, err
	}

	ev := queue.SynthesisRecordedEvent{
		HistoryID:         h.ID,
		SalonID:           salon.ID,
		UserID:            salon.OwnerID,
		MemberID:          h.MemberID,
		ReferenceStyleID:  h.ReferenceStyleID,
		OriginalPhotoPath: h.OriginalPhotoPath,
		ResultPhotoPath:   h.ResultPhotoPath,
		RecordedAt:        h.CreatedAt.Format(time.RFC3339),
	}
	go s.publish(context.WithoutCancel(ctx), ev)
	return h, nil
}

func (s *HistoryService) publish(ctx context.Context, ev queue.SynthesisRecordedEvent) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.events.PublishSynthesisRecorded(ctx, ev); err != nil {
		s.logger.Warn(ctx, "synthesis event dropped", "history_id", ev.HistoryID, "error", err)
	}
}

func (s *HistoryService) Update(ctx context.Context, salonID uint64, id string, patch model.HistoryPatch) (*model.SynthesisHistory, error) {
	var h *model.SynthesisHistory
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if h, err = s.Get(ctx, salonID, id); err != nil {
			return err
		}
		patch.Apply(h)
		if err := s.histories.UpdateOwned(ctx, salonID, h); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errHistoryNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *HistoryService) Delete(ctx context.Context, salonID uint64, id string) error {
	err := s.histories.DeleteOwned(ctx, salonID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return errHistoryNotFound
	}
	return err
}
