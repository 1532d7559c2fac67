package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// READING STATUS
// =====================================================

// Status is the reading state of a library entry. It drives which
// timestamp and progress side effects apply on update.
type Status string

const (
	StatusWantToRead Status = "want_to_read"
	StatusReading    Status = "reading"
	StatusFinished   Status = "finished"
	StatusDNF        Status = "dnf" // did not finish; keeps whatever progress was reached
)

// ValidStatuses lists every accepted status value, in display order.
var ValidStatuses = []Status{StatusWantToRead, StatusReading, StatusFinished, StatusDNF}

func (s Status) IsValid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusFinished, StatusDNF:
		return true
	}
	return false
}

// AutoFinishOnPageComplete controls the one automatic status transition:
// the page-based progress path promotes an entry to finished when the
// computed percentage reaches 100. Direct percentage updates never
// auto-finish; callers must request the transition explicitly.
const AutoFinishOnPageComplete = true

// =====================================================
// LIBRARY ENTRY
// =====================================================

// Entry is one user's tracking record for one catalog book.
// Exactly one entry exists per (user_id, book_id) pair.
type Entry struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	BookID uuid.UUID `json:"book_id"`

	Status             Status  `json:"status"`
	ProgressPercentage int     `json:"progress_percentage"` // always in [0,100]
	ProgressLocation   *string `json:"progress_location"`   // opaque reader position

	// Reference to a user-supplied file; opaque to this component
	FilePath   *string `json:"file_path"`
	FileFormat *string `json:"file_format"`

	StartedAt  *time.Time `json:"started_at"`  // set once, first entry into reading
	FinishedAt *time.Time `json:"finished_at"` // refreshed on every entry into finished/dnf
	AddedAt    time.Time  `json:"added_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewEntry builds an entry for creation. started_at is set iff the
// entry is created directly in the reading state.
func NewEntry(userID, bookID uuid.UUID, status Status, filePath, fileFormat *string, now time.Time) *Entry {
	e := &Entry{
		ID:                 uuid.New(),
		UserID:             userID,
		BookID:             bookID,
		Status:             status,
		ProgressPercentage: 0,
		FilePath:           filePath,
		FileFormat:         fileFormat,
		AddedAt:            now,
		UpdatedAt:          now,
	}

	if status == StatusReading {
		e.StartedAt = &now
	}

	return e
}

// clampProgress keeps a percentage inside [0,100].
func clampProgress(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// applyStatusEffects applies the fixed, ordered side effects of a
// status transition:
//  1. reading     -> set started_at only if currently null
//  2. finished    -> refresh finished_at; force progress to 100
//  3. dnf         -> refresh finished_at; leave progress as is
//  4. want_to_read -> no timestamp side effect
func (e *Entry) applyStatusEffects(now time.Time) {
	switch e.Status {
	case StatusReading:
		if e.StartedAt == nil {
			started := now
			e.StartedAt = &started
		}
	case StatusFinished:
		finished := now
		e.FinishedAt = &finished
		e.ProgressPercentage = 100
	case StatusDNF:
		finished := now
		e.FinishedAt = &finished
	}
}

// Apply mutates the entry with the supplied fields of a partial update.
// Omitted fields keep their prior values. A progress value supplied
// together with status=finished is overridden by the forced 100.
func (e *Entry) Apply(upd UpdateEntryRequest, now time.Time) error {
	if upd.Status != nil {
		status := Status(*upd.Status)
		if !status.IsValid() {
			return ErrInvalidStatus
		}
		e.Status = status
	}

	if upd.ProgressPercentage != nil {
		e.ProgressPercentage = clampProgress(*upd.ProgressPercentage)
	}

	if upd.Status != nil {
		e.applyStatusEffects(now)
	}

	if upd.ProgressLocation != nil {
		e.ProgressLocation = upd.ProgressLocation
	}
	if upd.FilePath != nil {
		e.FilePath = upd.FilePath
	}
	if upd.FileFormat != nil {
		e.FileFormat = upd.FileFormat
	}

	e.UpdatedAt = now
	return nil
}

// ApplyPageProgress converts a page position into a percentage and
// stores it. When the book is fully read this path additionally
// finishes the entry (see AutoFinishOnPageComplete). A total of 0
// means the page count is unknown and the percentage is defined as 0.
func (e *Entry) ApplyPageProgress(currentPage, totalPages int, location *string, now time.Time) error {
	if currentPage < 0 || totalPages < 0 || currentPage > totalPages {
		return ErrInvalidPageProgress
	}

	pct := 0
	if totalPages > 0 {
		pct = int(math.Round(float64(currentPage) / float64(totalPages) * 100))
	}
	e.ProgressPercentage = clampProgress(pct)

	if location != nil {
		e.ProgressLocation = location
	}

	if pct >= 100 && totalPages > 0 && AutoFinishOnPageComplete {
		e.Status = StatusFinished
		e.applyStatusEffects(now)
	}

	e.UpdatedAt = now
	return nil
}
