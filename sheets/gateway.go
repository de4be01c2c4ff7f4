// ABOUTME: Sync gateway contract for the external spreadsheet store
// ABOUTME: The core depends on this interface, never on the transport
package sheets

import (
	"context"

	"github.com/harperreed/dealreg/models"
)

// SubmitResult reports one push attempt. Reason is surfaced to the user
// verbatim on failure.
type SubmitResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Gateway is the external spreadsheet collaborator. Submit receives the
// transport view of a record (attachment payloads included) and is
// best-effort: local persistence has already happened and is never rolled
// back on failure.
type Gateway interface {
	Submit(ctx context.Context, rec *models.DealRecord) SubmitResult
	List(ctx context.Context) ([]models.DealRecord, error)
}
