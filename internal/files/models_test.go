package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	data := []byte(`{
		"public_id": "tl_m1abc5fk_9x2x",
		"filename": "report.pdf",
		"extension": ".pdf",
		"size_bytes": 2048,
		"telegram_file_id": "abc123",
		"backing_url": "https://api.telegram.org/file/bot123/documents/x.pdf",
		"created_at": 1700000000000,
		"last_refresh_at": 1700000000000,
		"refresh_count": 0,
		"source_message_id": 77
	}`)

	record, err := ParseRecord(data)
	require.NoError(t, err)
	assert.Equal(t, "tl_m1abc5fk_9x2x", record.PublicID)
	assert.Equal(t, int64(2048), record.SizeBytes)
}

func TestParseRecordRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{nope"},
		{"missing public id", `{"filename":"a.pdf","telegram_file_id":"x","backing_url":"u","created_at":1,"last_refresh_at":1}`},
		{"bad public id", `{"public_id":"nope","filename":"a.pdf","telegram_file_id":"x","backing_url":"u","created_at":1,"last_refresh_at":1}`},
		{"missing backing url", `{"public_id":"tl_a_0000","filename":"a.pdf","telegram_file_id":"x","created_at":1,"last_refresh_at":1}`},
		{"negative size", `{"public_id":"tl_a_0000","filename":"a.pdf","telegram_file_id":"x","backing_url":"u","size_bytes":-1,"created_at":1,"last_refresh_at":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSummaryOmitsInternalFields(t *testing.T) {
	record := &FileRecord{
		PublicID:       "tl_a_0000",
		Filename:       "report.pdf",
		Extension:      ".pdf",
		SizeBytes:      2048,
		TelegramFileID: "abc123",
		BackingURL:     "https://secret",
		CreatedAt:      1,
		LastRefreshAt:  2,
		RefreshCount:   3,
	}

	summary := record.Summary()
	assert.Equal(t, record.PublicID, summary.PublicID)
	assert.Equal(t, record.Filename, summary.Filename)
	assert.Equal(t, record.RefreshCount, summary.RefreshCount)
}
