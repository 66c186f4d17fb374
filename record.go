package unfurl

import (
	"context"
	"time"
)

// Record is a stored unfurl result.
type Record struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Variant     string    `json:"variant"`
	Metadata    *Metadata `json:"metadata"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	if r.Metadata == nil {
		return Errorf(EINVALID, "record metadata required")
	}
	return nil
}

// RecordService represents a service for managing stored unfurl results.
type RecordService interface {
	// CreateRecord stores a new record, setting its ID, hash and fetch time.
	CreateRecord(ctx context.Context, rec *Record) error

	// FindRecordByURL retrieves the most recent record for url that was
	// unfurled with options of the given variant (see Options.Variant).
	// Returns ENOTFOUND if no record exists.
	FindRecordByURL(ctx context.Context, url, variant string) (*Record, error)

	// FindRecords retrieves records matching the filter.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)

	// DeleteRecord permanently removes a record.
	// Returns ENOTFOUND if the record does not exist.
	DeleteRecord(ctx context.Context, id string) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	URL     *string `json:"url"`
	Variant *string `json:"variant"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
