package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

type rosterStub struct {
	roster *Roster
	err    error
}

func (r rosterStub) Roster(ctx context.Context, sessionID int64, date string) (*Roster, error) {
	return r.roster, r.err
}

func sampleRoster() *Roster {
	note := "left at 11"
	at := time.Date(2024, 5, 2, 9, 3, 0, 0, time.UTC)
	return &Roster{
		Session: exampleSession(),
		Room:    exampleRoom(),
		Date:    "2024-05-02",
		Registrations: []models.Registration{
			{ID: "b", Name: "Lee", Grade: 1, ClassNumber: 2, StudentNumber: 3, StudentID: "1-2-3", SeatRow: "0", SeatCol: "3", RegisteredAt: at, Note: &note},
			{ID: "a", Name: "Kim", Grade: 2, ClassNumber: 3, StudentNumber: 14, StudentID: "2-3-14", SeatRow: "0", SeatCol: "1", RegisteredAt: at},
		},
	}
}

func TestBuildRosterDatasetOrdersBySeat(t *testing.T) {
	ds := BuildRosterDataset(sampleRoster())

	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Morning", ds.Title)
	assert.Contains(t, ds.Subtitle, "Library")
	assert.Equal(t, []string{"2", "0", "1", "2-3-14", "Kim", "2", "3", "14", "2024-05-02T09:03:00Z", "", ""}, ds.Rows[0])
	assert.Equal(t, "3", ds.Rows[1][0])
	assert.Equal(t, "left at 11", ds.Rows[1][10])
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(rosterStub{roster: sampleRoster()}, nil, nil, nil)

	file, err := svc.Export(context.Background(), 1, "2024-05-02", "")
	require.NoError(t, err)
	assert.Equal(t, "roster-1-2024-05-02.csv", file.Filename)
	assert.True(t, strings.HasPrefix(file.ContentType, "text/csv"))
	assert.Contains(t, string(file.Body), "2-3-14")
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(rosterStub{roster: sampleRoster()}, nil, nil, nil)

	file, err := svc.Export(context.Background(), 1, "2024-05-02", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF"))
}

func TestExportServiceErrors(t *testing.T) {
	svc := NewExportService(rosterStub{roster: sampleRoster()}, nil, nil, nil)
	_, err := svc.Export(context.Background(), 1, "2024-05-02", "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	svc = NewExportService(rosterStub{err: appErrors.Clone(appErrors.ErrSessionNotFound, "")}, nil, nil, nil)
	_, err = svc.Export(context.Background(), 1, "2024-05-02", FormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}
