// ABOUTME: Builds persistable deal records from validated drafts
// ABOUTME: Handles ID stamping, attachment encoding, and local/transport views
package register

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/harperreed/dealreg/dates"
	"github.com/harperreed/dealreg/models"
)

// MaxAttachmentBytes caps the combined decoded size of all attachments on a
// single submission.
const MaxAttachmentBytes = 20 << 20 // 20 MiB

// File is raw evidence as received from the form, before encoding.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Codec transforms validated drafts into persistable DealRecords.
type Codec struct {
	IDs IDGenerator
	Ref *models.Reference
}

func NewCodec(ids IDGenerator, ref *models.Reference) *Codec {
	return &Codec{IDs: ids, Ref: ref}
}

// Build materializes a record from a validated draft. The caller is expected
// to have run Validate first; Build does not re-check field rules.
func (c *Codec) Build(draft *models.Draft, attachments []models.Attachment) *models.DealRecord {
	value, _ := CoerceValue(draft)

	rec := &models.DealRecord{
		ID:          c.IDs.Next(),
		SubmittedAt: dates.Today(),

		ResellerCountry:  draft.ResellerCountry,
		ResellerLocation: draft.ResellerLocation,
		ResellerName:     draft.ResellerName,
		ResellerContact:  draft.ResellerContact,
		ResellerEmail:    draft.ResellerEmail,
		ResellerPhone:    draft.ResellerPhone,

		CustomerName:     draft.CustomerName,
		CustomerLocation: draft.CustomerLocation(),
		City:             draft.City,
		Country:          draft.Country,
		Lat:              draft.Lat,
		Lng:              draft.Lng,

		Industry:          draft.Industry,
		Currency:          draft.Currency,
		Value:             value,
		Solution:          draft.Solution,
		Stage:             draft.Stage,
		Probability:       draft.Probability,
		ExpectedCloseDate: draft.ExpectedCloseDate,

		Supports:    draft.Supports,
		Competitors: draft.Competitors,
		Notes:       draft.Notes,

		EvidenceLinks: nonEmpty(draft.EvidenceLinks),
		Attachments:   attachments,

		Status:         models.StatusPending,
		Confidential:   draft.Confidential,
		RemindersOptIn: draft.RemindersOptIn,
	}

	return rec
}

// EncodeAttachments encodes every file to a base64 payload. Per-file encoding
// runs in parallel but joins into one completed set; any single failure, or
// blowing the combined size ceiling, aborts the whole operation with no
// partial result.
func EncodeAttachments(files []File) ([]models.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var total int64
	for _, f := range files {
		total += int64(len(f.Data))
	}
	if total > MaxAttachmentBytes {
		return nil, &EncodingError{
			Op:      "encode attachments",
			Message: fmt.Sprintf("combined attachment size %d bytes exceeds the %d byte limit", total, MaxAttachmentBytes),
		}
	}

	attachments := make([]models.Attachment, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := files[i]
			if f.Name == "" {
				errs[i] = &EncodingError{Op: "encode attachments", Message: "file has no name"}
				return
			}
			if len(f.Data) == 0 {
				errs[i] = &EncodingError{Op: "encode attachments", Message: fmt.Sprintf("file %q is empty or unreadable", f.Name)}
				return
			}
			mime := f.MimeType
			if mime == "" {
				mime = "application/octet-stream"
			}
			attachments[i] = models.Attachment{
				Name:      f.Name,
				MimeType:  mime,
				SizeBytes: int64(len(f.Data)),
				Content:   base64.StdEncoding.EncodeToString(f.Data),
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return attachments, nil
}

// LocalView returns the record without bulky attachment payloads, for list
// display and local storage reads.
func LocalView(rec *models.DealRecord) *models.DealRecord {
	out := *rec
	if len(rec.Attachments) > 0 {
		out.Attachments = make([]models.Attachment, len(rec.Attachments))
		for i, a := range rec.Attachments {
			a.Content = ""
			out.Attachments[i] = a
		}
	}
	return &out
}

// TransportView returns the record with attachment payloads included, for
// handoff to the sync gateway. Shares the identifier and core fields with
// the local view.
func TransportView(rec *models.DealRecord) *models.DealRecord {
	out := *rec
	return &out
}
