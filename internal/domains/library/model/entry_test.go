package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNewEntry_Defaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	bookID := uuid.New()

	entry := NewEntry(userID, bookID, StatusWantToRead, nil, nil, now)

	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, bookID, entry.BookID)
	assert.Equal(t, StatusWantToRead, entry.Status)
	assert.Equal(t, 0, entry.ProgressPercentage)
	assert.Nil(t, entry.StartedAt)
	assert.Nil(t, entry.FinishedAt)
	assert.Equal(t, now, entry.AddedAt)
	assert.Equal(t, now, entry.UpdatedAt)
}

func TestNewEntry_ReadingSetsStartedAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, now)

	require.NotNil(t, entry.StartedAt)
	assert.Equal(t, now, *entry.StartedAt)
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status string
		valid  bool
	}{
		{"want_to_read", true},
		{"reading", true},
		{"finished", true},
		{"dnf", true},
		{"", false},
		{"read", false},
		{"FINISHED", false},
		{"currently_reading", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.valid, Status(tt.status).IsValid())
		})
	}
}

func TestApply_ReadingSetsStartedAtOnce(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusWantToRead, nil, nil, t0)

	t1 := t0.Add(time.Hour)
	require.NoError(t, entry.Apply(UpdateEntryRequest{Status: strPtr("reading")}, t1))
	require.NotNil(t, entry.StartedAt)
	assert.Equal(t, t1, *entry.StartedAt)

	// A later transition back into reading must not clobber started_at.
	t2 := t1.Add(time.Hour)
	require.NoError(t, entry.Apply(UpdateEntryRequest{Status: strPtr("want_to_read")}, t2))
	t3 := t2.Add(time.Hour)
	require.NoError(t, entry.Apply(UpdateEntryRequest{Status: strPtr("reading")}, t3))

	assert.Equal(t, t1, *entry.StartedAt)
	assert.Equal(t, t3, entry.UpdatedAt)
}

func TestApply_FinishedForcesFullProgress(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, t0)

	// Progress supplied in the same call is overridden by the forced 100.
	err := entry.Apply(UpdateEntryRequest{
		Status:             strPtr("finished"),
		ProgressPercentage: intPtr(40),
	}, t0.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, StatusFinished, entry.Status)
	assert.Equal(t, 100, entry.ProgressPercentage)
	require.NotNil(t, entry.FinishedAt)
	assert.Equal(t, t0.Add(time.Hour), *entry.FinishedAt)
}

func TestApply_DNFKeepsProgress(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, t0)
	entry.ProgressPercentage = 37

	require.NoError(t, entry.Apply(UpdateEntryRequest{Status: strPtr("dnf")}, t0.Add(time.Hour)))

	assert.Equal(t, StatusDNF, entry.Status)
	assert.Equal(t, 37, entry.ProgressPercentage)
	require.NotNil(t, entry.FinishedAt)
}

func TestApply_FinishedAtRefreshedOnReentry(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, t0)

	t1 := t0.Add(time.Hour)
	require.NoError(t, entry.Apply(UpdateEntryRequest{Status: strPtr("finished")}, t1))
	first := *entry.FinishedAt

	t2 := t1.Add(time.Hour)
	require.NoError(t, entry.Apply(UpdateEntryRequest{Status: strPtr("reading")}, t2))

	t3 := t2.Add(time.Hour)
	require.NoError(t, entry.Apply(UpdateEntryRequest{Status: strPtr("dnf")}, t3))

	require.NotNil(t, entry.FinishedAt)
	assert.True(t, entry.FinishedAt.After(first))
}

func TestApply_ProgressClamped(t *testing.T) {
	tests := []struct {
		name     string
		supplied int
		want     int
	}{
		{"negative clamps to zero", -10, 0},
		{"zero stays", 0, 0},
		{"in range stays", 55, 55},
		{"hundred stays", 100, 100},
		{"over hundred clamps", 250, 100},
	}

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, t0)

			require.NoError(t, entry.Apply(UpdateEntryRequest{ProgressPercentage: intPtr(tt.supplied)}, t0))
			assert.Equal(t, tt.want, entry.ProgressPercentage)
		})
	}
}

func TestApply_FullDirectProgressDoesNotAutoFinish(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, t0)

	require.NoError(t, entry.Apply(UpdateEntryRequest{ProgressPercentage: intPtr(100)}, t0.Add(time.Hour)))

	// The explicit transition must still be requested by the caller.
	assert.Equal(t, StatusReading, entry.Status)
	assert.Nil(t, entry.FinishedAt)
	assert.Equal(t, 100, entry.ProgressPercentage)
}

func TestApply_InvalidStatusRejected(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusWantToRead, nil, nil, t0)

	err := entry.Apply(UpdateEntryRequest{Status: strPtr("abandoned")}, t0)

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusWantToRead, entry.Status)
}

func TestApply_OmittedFieldsKeepValues(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusReading, strPtr("/books/dune.epub"), strPtr("epub"), t0)
	entry.ProgressPercentage = 42

	require.NoError(t, entry.Apply(UpdateEntryRequest{ProgressPercentage: intPtr(50)}, t0.Add(time.Hour)))

	assert.Equal(t, StatusReading, entry.Status)
	assert.Equal(t, 50, entry.ProgressPercentage)
	require.NotNil(t, entry.FilePath)
	assert.Equal(t, "/books/dune.epub", *entry.FilePath)
	require.NotNil(t, entry.FileFormat)
	assert.Equal(t, "epub", *entry.FileFormat)
}

func TestApplyPageProgress(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalPages  int
		wantErr     bool
		wantPct     int
		wantStatus  Status
	}{
		{"start of book", 0, 300, false, 0, StatusReading},
		{"mid book rounds", 100, 300, false, 33, StatusReading},
		{"rounds up", 200, 300, false, 67, StatusReading},
		{"last page finishes", 300, 300, false, 100, StatusFinished},
		{"unknown total means zero", 0, 0, false, 0, StatusReading},
		{"negative page", -1, 300, true, 0, StatusReading},
		{"page beyond total", 301, 300, true, 0, StatusReading},
	}

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, t0)

			err := entry.ApplyPageProgress(tt.currentPage, tt.totalPages, nil, t0.Add(time.Hour))

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPageProgress)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, entry.ProgressPercentage)
			assert.Equal(t, tt.wantStatus, entry.Status)
		})
	}
}

func TestApplyPageProgress_FinishSideEffects(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := NewEntry(uuid.New(), uuid.New(), StatusReading, nil, nil, t0)

	t1 := t0.Add(time.Hour)
	require.NoError(t, entry.ApplyPageProgress(300, 300, strPtr("page-300"), t1))

	assert.Equal(t, StatusFinished, entry.Status)
	assert.Equal(t, 100, entry.ProgressPercentage)
	require.NotNil(t, entry.FinishedAt)
	assert.Equal(t, t1, *entry.FinishedAt)
	require.NotNil(t, entry.ProgressLocation)
	assert.Equal(t, "page-300", *entry.ProgressLocation)
	// started_at set at creation must survive the automatic finish
	require.NotNil(t, entry.StartedAt)
	assert.Equal(t, t0, *entry.StartedAt)
}
