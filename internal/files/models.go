package files

import (
	"encoding/json"
	"fmt"

	"telelink-go/internal/validation"
)

// FileRecord is the unit of persistence, one per ingested file, keyed in
// the registry by PublicID. BackingURL goes stale at some point after
// creation; staleness is only discovered on use and repaired in place.
type FileRecord struct {
	PublicID  string `json:"public_id" validate:"required,publicid"`
	Filename  string `json:"filename" validate:"required"`
	Extension string `json:"extension"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`

	TelegramFileID string `json:"telegram_file_id" validate:"required"`
	BackingURL     string `json:"backing_url" validate:"required"`

	CreatedAt     int64 `json:"created_at" validate:"gt=0"`      // epoch milliseconds
	LastRefreshAt int64 `json:"last_refresh_at" validate:"gt=0"` // epoch milliseconds
	RefreshCount  int   `json:"refresh_count" validate:"gte=0"`

	SourceMessageID int64 `json:"source_message_id"`
}

// FileSummary is the public projection of a record for listings. It omits
// the backing URL and the Telegram file handle.
type FileSummary struct {
	PublicID      string `json:"public_id"`
	Filename      string `json:"filename"`
	Extension     string `json:"extension"`
	SizeBytes     int64  `json:"size_bytes"`
	CreatedAt     int64  `json:"created_at"`
	LastRefreshAt int64  `json:"last_refresh_at"`
	RefreshCount  int    `json:"refresh_count"`
}

// Summary projects the record onto its public listing shape.
func (r *FileRecord) Summary() FileSummary {
	return FileSummary{
		PublicID:      r.PublicID,
		Filename:      r.Filename,
		Extension:     r.Extension,
		SizeBytes:     r.SizeBytes,
		CreatedAt:     r.CreatedAt,
		LastRefreshAt: r.LastRefreshAt,
		RefreshCount:  r.RefreshCount,
	}
}

// ParseRecord decodes and validates a serialized registry value.
func ParseRecord(data []byte) (*FileRecord, error) {
	var record FileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding file record: %w", err)
	}
	if err := validation.Validate(&record); err != nil {
		return nil, fmt.Errorf("validating file record: %w", err)
	}
	return &record, nil
}
