package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a minimal Telegram Bot API client covering the two calls this
// service needs: resolving a file handle to a download URL and replying to
// a channel post.
type Client struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// New creates a Bot API client. apiURL is the API base without a trailing
// slash; httpClient may be nil.
func New(token, apiURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		token:      token,
		apiURL:     apiURL,
		httpClient: httpClient,
	}
}

type getFileResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		FilePath string `json:"file_path"`
	} `json:"result"`
	Description string `json:"description,omitempty"`
}

// GetFileURL resolves a file handle to a time-limited download URL. The
// returned URL expires after a while; callers re-resolve on demand.
func (c *Client) GetFileURL(ctx context.Context, fileID string) (string, error) {
	endpoint := fmt.Sprintf("%s/bot%s/getFile?file_id=%s",
		c.apiURL, c.token, url.QueryEscape(fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating getFile request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling getFile: %w", err)
	}
	defer resp.Body.Close()

	var parsed getFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding getFile response: %w", err)
	}

	if !parsed.OK || parsed.Result.FilePath == "" {
		return "", fmt.Errorf("getFile failed for %s: %s", fileID, parsed.Description)
	}

	return fmt.Sprintf("%s/file/bot%s/%s", c.apiURL, c.token, parsed.Result.FilePath), nil
}

type sendMessageRequest struct {
	ChatID           int64  `json:"chat_id"`
	Text             string `json:"text"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
	ParseMode        string `json:"parse_mode,omitempty"`
}

// SendMessage posts a Markdown reply to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyToMessageID int64) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ReplyToMessageID: replyToMessageID,
		ParseMode:        "Markdown",
	})
	if err != nil {
		return fmt.Errorf("encoding sendMessage request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendMessage returned %d: %s", resp.StatusCode, body)
	}

	return nil
}
