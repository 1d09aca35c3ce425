package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"telelink-go/internal/telegram"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListResponse is the JSON envelope of the listing endpoint.
type ListResponse struct {
	Success bool          `json:"success"`
	Files   []FileSummary `json:"files,omitempty"`
	Total   int           `json:"total"`
	Error   string        `json:"error,omitempty"`
}

// HandleServeFile streams a stored file. The path segment is the public id,
// optionally suffixed with the file extension; a dl query parameter forces
// attachment disposition.
func (h *Handler) HandleServeFile(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	// Links carry the extension for nicer previews: /files/tl_x_y.pdf
	if idx := strings.Index(publicID, "."); idx > 0 {
		publicID = publicID[:idx]
	}

	resolved, err := h.service.Resolve(r.Context(), publicID, r.Header.Get("Range"))
	if err != nil {
		h.serveError(w, publicID, err)
		return
	}
	defer resolved.Response.Body.Close()

	record := resolved.Record
	upstream := resolved.Response

	contentType := ContentTypeForExtension(record.Extension)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.service.config.CacheMaxAge.Seconds())))
	w.Header().Set("Accept-Ranges", "bytes")

	if contentLength := upstream.Header.Get("Content-Length"); contentLength != "" {
		w.Header().Set("Content-Length", contentLength)
	}
	if contentRange := upstream.Header.Get("Content-Range"); contentRange != "" {
		w.Header().Set("Content-Range", contentRange)
	}

	forceDownload := r.URL.Query().Has("dl")
	if forceDownload || !IsInlineType(contentType) {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, record.Filename))
	} else {
		w.Header().Set("Content-Disposition", "inline")
	}

	// Range handling is delegated upstream; pass its status through.
	w.WriteHeader(upstream.StatusCode)

	if _, err := io.Copy(w, upstream.Body); err != nil {
		log.Debug().
			Err(err).
			Str("public_id", publicID).
			Msg("streaming interrupted")
	}
}

func (h *Handler) serveError(w http.ResponseWriter, publicID string, err error) {
	var upstreamErr *UpstreamError

	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "File not found", http.StatusNotFound)
	case errors.Is(err, ErrTemporarilyUnavailable):
		http.Error(w, "File temporarily unavailable", http.StatusServiceUnavailable)
	case errors.As(err, &upstreamErr):
		http.Error(w, "Failed to fetch file", upstreamErr.StatusCode)
	default:
		log.Error().
			Err(err).
			Str("public_id", publicID).
			Msg("file serve error")
		http.Error(w, fmt.Sprintf("Server error: %v", err), http.StatusInternalServerError)
	}
}

// HandleListFiles returns the public listing of all stored files.
func (h *Handler) HandleListFiles(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListFiles(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("files list error")
		h.sendListResponse(w, http.StatusInternalServerError, ListResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.sendListResponse(w, http.StatusOK, ListResponse{
		Success: true,
		Files:   summaries,
		Total:   len(summaries),
	})
}

func (h *Handler) sendListResponse(w http.ResponseWriter, status int, response ListResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("failed to encode list response")
	}
}

// HandleWebhook is the Telegram ingestion entry point. It always
// acknowledges with 200 so the platform never retry-storms; ingestion
// failures are logged and swallowed. Non-POST requests are accepted and
// ignored.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.acknowledge(w)
		return
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("webhook: undecodable update")
		h.acknowledge(w)
		return
	}

	if _, err := h.service.IngestUpdate(r.Context(), &update); err != nil {
		log.Error().
			Err(err).
			Int64("update_id", update.UpdateID).
			Msg("webhook: ingestion failed")
	}

	h.acknowledge(w)
}

func (h *Handler) acknowledge(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
