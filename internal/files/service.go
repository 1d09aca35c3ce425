package files

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"telelink-go/internal/config"
	"telelink-go/internal/registry"
	"telelink-go/internal/telegram"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// listConcurrency bounds the registry fan-out when building a listing.
const listConcurrency = 16

// BotAPI is the slice of the Telegram client the service depends on:
// resolving file handles to download URLs and replying to channel posts.
type BotAPI interface {
	GetFileURL(ctx context.Context, fileID string) (string, error)
	SendMessage(ctx context.Context, chatID int64, text string, replyToMessageID int64) error
}

// Service implements ingestion of channel posts, resolution of public ids
// to file bytes with lazy URL refresh, and the public listing.
type Service struct {
	store      registry.Store
	bot        BotAPI
	config     *config.Config
	httpClient *http.Client

	// Concurrent resolutions of the same stale record share one refresh.
	refreshGroup singleflight.Group
}

func NewService(store registry.Store, bot BotAPI, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		bot:        bot,
		config:     cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// attachment is the file payload extracted from a channel post.
type attachment struct {
	fileID   string
	filename string
	size     int64
}

// extractAttachment picks the first recognized attachment in priority
// order: document, video, photo (largest variant), audio. Filenames are
// synthesized for kinds that carry none.
func extractAttachment(msg *telegram.Message) *attachment {
	now := time.Now().UnixMilli()

	switch {
	case msg.Document != nil:
		filename := msg.Document.FileName
		if filename == "" {
			filename = "document"
		}
		return &attachment{
			fileID:   msg.Document.FileID,
			filename: filename,
			size:     msg.Document.FileSize,
		}
	case msg.Video != nil:
		return &attachment{
			fileID:   msg.Video.FileID,
			filename: fmt.Sprintf("video_%d.mp4", now),
			size:     msg.Video.FileSize,
		}
	case len(msg.Photo) > 0:
		// Variants arrive smallest to largest.
		largest := msg.Photo[len(msg.Photo)-1]
		return &attachment{
			fileID:   largest.FileID,
			filename: fmt.Sprintf("photo_%d.jpg", now),
			size:     largest.FileSize,
		}
	case msg.Audio != nil:
		filename := msg.Audio.FileName
		if filename == "" {
			filename = fmt.Sprintf("audio_%d.mp3", now)
		}
		return &attachment{
			fileID:   msg.Audio.FileID,
			filename: filename,
			size:     msg.Audio.FileSize,
		}
	}

	return nil
}

// IngestUpdate creates and persists one FileRecord for a channel post
// carrying a file. Posts without a recognized attachment, and posts from
// other channels, are skipped without error. The confirmation reply to the
// channel is fire-and-forget.
func (s *Service) IngestUpdate(ctx context.Context, update *telegram.Update) (*FileRecord, error) {
	if update == nil || update.ChannelPost == nil {
		return nil, nil
	}

	msg := update.ChannelPost
	if msg.Chat.ID != s.config.Telegram.ChannelID {
		log.Debug().
			Int64("chat_id", msg.Chat.ID).
			Msg("ignoring post from unmonitored channel")
		return nil, nil
	}

	att := extractAttachment(msg)
	if att == nil || att.fileID == "" {
		log.Debug().
			Int64("message_id", msg.MessageID).
			Msg("no supported file in message")
		return nil, nil
	}

	publicID, err := GeneratePublicID()
	if err != nil {
		return nil, fmt.Errorf("generating public id: %w", err)
	}

	backingURL, err := s.bot.GetFileURL(ctx, att.fileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file url: %w", err)
	}

	now := time.Now().UnixMilli()
	record := &FileRecord{
		PublicID:        publicID,
		Filename:        att.filename,
		Extension:       FileExtension(att.filename),
		SizeBytes:       att.size,
		TelegramFileID:  att.fileID,
		BackingURL:      backingURL,
		CreatedAt:       now,
		LastRefreshAt:   now,
		RefreshCount:    0,
		SourceMessageID: msg.MessageID,
	}

	if err := s.putRecord(ctx, record); err != nil {
		return nil, err
	}

	log.Info().
		Str("public_id", record.PublicID).
		Str("filename", record.Filename).
		Int64("size_bytes", record.SizeBytes).
		Msg("file ingested")

	// Best-effort confirmation reply. Runs detached from the request
	// context so webhook acknowledgment never waits on it.
	go s.sendConfirmation(record, msg)

	return record, nil
}

func (s *Service) sendConfirmation(record *FileRecord, msg *telegram.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	link := s.PermanentLink(record)
	text := fmt.Sprintf(
		"🔗 *Permanent Link Generated!*\n\n"+
			"📁 *File:* %s\n"+
			"💾 *Size:* %s\n"+
			"🌐 *Link:* %s\n"+
			"⬇️ *Download:* %s?dl=1\n\n"+
			"✨ *Auto-refreshing • Never expires*",
		record.Filename,
		humanize.Bytes(uint64(record.SizeBytes)),
		link,
		link,
	)

	if err := s.bot.SendMessage(ctx, msg.Chat.ID, text, msg.MessageID); err != nil {
		log.Warn().
			Err(err).
			Str("public_id", record.PublicID).
			Msg("failed to send confirmation reply")
	}
}

// PermanentLink builds the stable public URL for a record.
func (s *Service) PermanentLink(record *FileRecord) string {
	return fmt.Sprintf("%s/files/%s%s", s.config.BaseURL, record.PublicID, record.Extension)
}

// Resolved is a successful resolution: the (possibly refreshed) record and
// the open upstream response to stream from.
type Resolved struct {
	Record   *FileRecord
	Response *http.Response
}

// isExpiryStatus reports whether a backing-store status means the URL went
// stale rather than a terminal failure.
func isExpiryStatus(status int) bool {
	return status == http.StatusForbidden ||
		status == http.StatusNotFound ||
		status == http.StatusGone
}

// Resolve looks up a public id and fetches the file bytes from the backing
// URL, refreshing it exactly once when it has expired. The caller owns the
// returned response body. rangeHeader, when non-empty, is forwarded
// upstream so range handling stays delegated to the backing store.
func (s *Service) Resolve(ctx context.Context, publicID, rangeHeader string) (*Resolved, error) {
	data, err := s.store.Get(ctx, publicID)
	if errors.Is(err, registry.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading record: %w", err)
	}

	record, err := ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", publicID, err)
	}

	resp, err := s.fetch(ctx, record.BackingURL, rangeHeader)
	if err != nil {
		return nil, fmt.Errorf("fetching file: %w", err)
	}

	if isExpiryStatus(resp.StatusCode) {
		staleStatus := resp.StatusCode
		resp.Body.Close()

		refreshed, err := s.refresh(ctx, record)
		if err != nil {
			log.Error().
				Err(err).
				Str("public_id", publicID).
				Int("stale_status", staleStatus).
				Msg("failed to refresh backing url")
			return nil, ErrTemporarilyUnavailable
		}
		record = refreshed

		resp, err = s.fetch(ctx, record.BackingURL, rangeHeader)
		if err != nil {
			return nil, ErrTemporarilyUnavailable
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, ErrTemporarilyUnavailable
		}
		return &Resolved{Record: record, Response: resp}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := resp.StatusCode
		resp.Body.Close()
		return nil, &UpstreamError{StatusCode: status}
	}

	return &Resolved{Record: record, Response: resp}, nil
}

// refresh re-resolves the record's file handle and persists the updated
// record before the caller retries the fetch. Concurrent refreshes of the
// same public id collapse into one resolver call and one write.
func (s *Service) refresh(ctx context.Context, record *FileRecord) (*FileRecord, error) {
	result, err, shared := s.refreshGroup.Do(record.PublicID, func() (interface{}, error) {
		backingURL, err := s.bot.GetFileURL(ctx, record.TelegramFileID)
		if err != nil {
			return nil, fmt.Errorf("re-resolving file url: %w", err)
		}

		updated := *record
		updated.BackingURL = backingURL
		updated.LastRefreshAt = time.Now().UnixMilli()
		updated.RefreshCount = record.RefreshCount + 1

		if err := s.putRecord(ctx, &updated); err != nil {
			return nil, err
		}

		log.Info().
			Str("public_id", updated.PublicID).
			Int("refresh_count", updated.RefreshCount).
			Msg("backing url refreshed")

		return &updated, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().
			Str("public_id", record.PublicID).
			Msg("refresh shared with concurrent resolution")
	}

	return result.(*FileRecord), nil
}

func (s *Service) fetch(ctx context.Context, url, rangeHeader string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	return s.httpClient.Do(req)
}

func (s *Service) putRecord(ctx context.Context, record *FileRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := s.store.Put(ctx, record.PublicID, data); err != nil {
		return fmt.Errorf("persisting record: %w", err)
	}
	return nil
}

// ListFiles enumerates all records and projects them onto their public
// shape, newest first. Records that fail to load or parse are skipped.
func (s *Service) ListFiles(ctx context.Context) ([]FileSummary, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing registry keys: %w", err)
	}

	results := make([]*FileSummary, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)

	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			data, err := s.store.Get(gctx, key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("skipping unreadable record")
				return nil
			}
			record, err := ParseRecord(data)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("skipping malformed record")
				return nil
			}
			summary := record.Summary()
			results[i] = &summary
			return nil
		})
	}

	// Workers never return errors; failures are skipped per record.
	_ = g.Wait()

	summaries := make([]FileSummary, 0, len(results))
	for _, summary := range results {
		if summary != nil {
			summaries = append(summaries, *summary)
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})

	return summaries, nil
}
