// Package queue carries domain events over RabbitMQ: a publisher used by the
// synthesis history service and a background consumer that appends each
// event to an audit log file.
package queue

// SynthesisQueueName is the durable queue synthesis events travel on.
const SynthesisQueueName = "synthesis.recorded"

// SynthesisRecordedEvent is published after a synthesis history row is
// stored.  It carries enough context for audit logging without a database
// round trip.
type SynthesisRecordedEvent struct {
	HistoryID         string  `json:"history_id"`
	SalonID           uint64  `json:"salon_id"`
	UserID            uint64  `json:"user_id"`
	MemberID          *string `json:"member_id,omitempty"`
	ReferenceStyleID  string  `json:"reference_style_id"`
	OriginalPhotoPath string  `json:"original_photo_path"`
	ResultPhotoPath   *string `json:"result_photo_path,omitempty"`
	RecordedAt        string  `json:"recorded_at"`
}
