// ABOUTME: Tests for the sync runner using a fake gateway
// ABOUTME: Covers happy path, partial failure, and retry after failure
package sheets

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
)

// fakeGateway records submissions and fails the IDs it is told to reject.
type fakeGateway struct {
	submitted []models.DealRecord
	rejectIDs map[string]bool
}

func (f *fakeGateway) Submit(_ context.Context, rec *models.DealRecord) SubmitResult {
	if f.rejectIDs[rec.ID] {
		return SubmitResult{Reason: "quota exceeded"}
	}
	f.submitted = append(f.submitted, *rec)
	return SubmitResult{OK: true}
}

func (f *fakeGateway) List(_ context.Context) ([]models.DealRecord, error) {
	return f.submitted, nil
}

func setupSyncTest(t *testing.T, ids ...string) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.InitSchema(conn))

	for _, id := range ids {
		rec := &models.DealRecord{
			ID:                id,
			SubmittedAt:       "2026-09-01",
			ResellerCountry:   "Singapore",
			ResellerName:      "Lionstone Geo Pte Ltd",
			ResellerContact:   "Mei Ling Tan",
			ResellerEmail:     "meiling@lionstone.example.com",
			CustomerName:      "Customer " + id,
			CustomerLocation:  "Singapore, Singapore",
			City:              "Singapore",
			Country:           "Singapore",
			Currency:          "SGD",
			Value:             48500,
			Solution:          "Xgrids L2 PRO",
			Stage:             models.StageProposal,
			Probability:       55,
			ExpectedCloseDate: "2026-10-01",
			Status:            models.StatusPending,
			Attachments: []models.Attachment{
				{Name: "quote.pdf", MimeType: "application/pdf", SizeBytes: 9, Content: "cGRmLWJ5dGVz"},
			},
		}
		require.NoError(t, db.CreateDeal(conn, rec))
	}
	return conn
}

func TestSyncerRunPushesAllUnsynced(t *testing.T) {
	conn := setupSyncTest(t, "deal-a", "deal-b")
	gw := &fakeGateway{}
	s := &Syncer{DB: conn, Gateway: gw}

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pushed)
	assert.Equal(t, 0, res.Failed)

	// Pushed records carry attachment payloads, the transport view.
	require.Len(t, gw.submitted, 2)
	require.Len(t, gw.submitted[0].Attachments, 1)
	assert.Equal(t, "cGRmLWJ5dGVz", gw.submitted[0].Attachments[0].Content)

	remaining, err := db.UnsyncedDeals(conn)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	state, err := db.GetSyncState(conn, "sheets")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
}

func TestSyncerRunPartialFailure(t *testing.T) {
	conn := setupSyncTest(t, "deal-a", "deal-b")
	gw := &fakeGateway{rejectIDs: map[string]bool{"deal-b": true}}
	s := &Syncer{DB: conn, Gateway: gw}

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pushed)
	assert.Equal(t, 1, res.Failed)

	// The failed deal stays queued for the next run.
	remaining, err := db.UnsyncedDeals(conn)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "deal-b", remaining[0].ID)

	state, err := db.GetSyncState(conn, "sheets")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusError, state.Status)
	require.NotNil(t, state.ErrorMessage)
	assert.Contains(t, *state.ErrorMessage, "quota exceeded")
}

func TestSyncerRetryAfterFailure(t *testing.T) {
	conn := setupSyncTest(t, "deal-a")
	gw := &fakeGateway{rejectIDs: map[string]bool{"deal-a": true}}
	s := &Syncer{DB: conn, Gateway: gw}

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	gw.rejectIDs = nil
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pushed)

	state, err := db.GetSyncState(conn, "sheets")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	assert.Nil(t, state.ErrorMessage)
}

func TestPushDealNotFound(t *testing.T) {
	conn := setupSyncTest(t)
	s := &Syncer{DB: conn, Gateway: &fakeGateway{}}

	err := s.PushDeal(context.Background(), "missing")
	assert.Error(t, err)
}
