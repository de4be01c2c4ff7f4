// ABOUTME: Sync runner pushing locally stored deals to the spreadsheet
// ABOUTME: Tracks progress in sync_state so failures are visible and retryable
package sheets

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/models"
)

const syncSource = "sheets"

// Syncer pushes unsynced deals through a Gateway and marks them synced on
// success. Per-deal failures are counted, not fatal.
type Syncer struct {
	DB      *sql.DB
	Gateway Gateway
}

// Result summarizes one sync run.
type Result struct {
	Pushed int
	Failed int
}

// Run pushes every unsynced deal, oldest first. The run fails only when the
// deal list itself cannot be read; individual push failures are recorded in
// sync_state and retried on the next run.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	if err := db.UpdateSyncStatus(s.DB, syncSource, models.SyncStatusSyncing, nil); err != nil {
		return Result{}, err
	}

	deals, err := db.UnsyncedDeals(s.DB)
	if err != nil {
		msg := err.Error()
		_ = db.UpdateSyncStatus(s.DB, syncSource, models.SyncStatusError, &msg)
		return Result{}, fmt.Errorf("failed to list unsynced deals: %w", err)
	}

	var res Result
	var lastErr string
	for i := range deals {
		if err := s.pushOne(ctx, &deals[i]); err != nil {
			log.Printf("Sync failed for deal %s: %v", deals[i].ID, err)
			lastErr = err.Error()
			res.Failed++
			continue
		}
		res.Pushed++
	}

	if res.Failed > 0 {
		if err := db.UpdateSyncStatus(s.DB, syncSource, models.SyncStatusError, &lastErr); err != nil {
			return res, err
		}
		return res, nil
	}
	return res, db.MarkSyncComplete(s.DB, syncSource)
}

// PushDeal pushes a single stored deal by ID, regardless of its sync state.
func (s *Syncer) PushDeal(ctx context.Context, id string) error {
	rec, err := db.GetDeal(s.DB, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("deal not found: %s", id)
	}
	return s.pushOne(ctx, rec)
}

func (s *Syncer) pushOne(ctx context.Context, rec *models.DealRecord) error {
	attachments, err := db.LoadAttachments(s.DB, rec.ID)
	if err != nil {
		return err
	}
	rec.Attachments = attachments

	result := s.Gateway.Submit(ctx, rec)
	if !result.OK {
		return fmt.Errorf("gateway rejected deal %s: %s", rec.ID, result.Reason)
	}

	return db.MarkSynced(s.DB, rec.ID, dates.Today())
}
