package sqlite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dashkite/unfurl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ unfurl.RecordService = (*RecordService)(nil)

// RecordService implements unfurl.RecordService using SQLite. Metadata is
// stored as a JSON document.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// hashContent computes the xxHash of content as a 16 digit hex string.
func hashContent(content []byte) string {
	h := strconv.FormatUint(xxhash.Sum64(content), 16)
	return strings.Repeat("0", 16-len(h)) + h
}

// CreateRecord stores a new record.
func (s *RecordService) CreateRecord(ctx context.Context, rec *unfurl.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(rec.Metadata)
	if err != nil {
		return unfurl.Errorf(unfurl.EINVALID, "encoding metadata: %v", err)
	}

	rec.ID = uuid.New().String()
	rec.FetchedAt = time.Now().UTC().Truncate(time.Second)
	rec.ContentHash = hashContent(data)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, url, variant, metadata, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.URL, rec.Variant, string(data), rec.ContentHash, rec.FetchedAt.Format(time.RFC3339))

	return err
}

// FindRecordByURL retrieves the most recently fetched record for url and
// variant.
func (s *RecordService) FindRecordByURL(ctx context.Context, url, variant string) (*unfurl.Record, error) {
	recs, err := s.FindRecords(ctx, unfurl.RecordFilter{URL: &url, Variant: &variant, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, unfurl.Errorf(unfurl.ENOTFOUND, "record not found")
	}
	return recs[0], nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter unfurl.RecordFilter) ([]*unfurl.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, variant, metadata, content_hash, fetched_at FROM records WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Variant != nil {
		query.WriteString(" AND variant = ?")
		args = append(args, *filter.Variant)
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*unfurl.Record
	for rows.Next() {
		var rec unfurl.Record
		var metadata, fetchedAt string

		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Variant, &metadata, &rec.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		if rec.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		if rec.Metadata, err = decodeMetadata([]byte(metadata)); err != nil {
			return nil, err
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

// DeleteRecord permanently removes a record.
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return unfurl.Errorf(unfurl.ENOTFOUND, "record not found")
	}

	return nil
}

// decodeMetadata restores a stored metadata document. Numbers stay
// json.Number and the favicon map gets its unfurl.Favicons type back.
func decodeMetadata(data []byte) (*unfurl.Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m unfurl.Metadata
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	if raw, ok := m.Vanilla[unfurl.KeyFavicon].(map[string]any); ok {
		favicons := make(unfurl.Favicons, len(raw))
		for size, href := range raw {
			if s, ok := href.(string); ok {
				favicons[size] = s
			}
		}
		m.Vanilla[unfurl.KeyFavicon] = favicons
	}

	return &m, nil
}
