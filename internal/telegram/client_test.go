package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken123/getFile", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("file_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"file_path":"documents/file_42.pdf"}}`))
	}))
	defer server.Close()

	client := New("token123", server.URL, nil)
	url, err := client.GetFileURL(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/file/bottoken123/documents/file_42.pdf", url)
}

func TestGetFileURLNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: file not found"}`))
	}))
	defer server.Close()

	client := New("token123", server.URL, nil)
	_, err := client.GetFileURL(context.Background(), "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestGetFileURLEmptyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	client := New("token123", server.URL, nil)
	_, err := client.GetFileURL(context.Background(), "abc123")
	assert.Error(t, err)
}

func TestSendMessage(t *testing.T) {
	var got sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bottoken123/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New("token123", server.URL, nil)
	err := client.SendMessage(context.Background(), -100123, "hello", 7)
	require.NoError(t, err)

	assert.Equal(t, int64(-100123), got.ChatID)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, int64(7), got.ReplyToMessageID)
	assert.Equal(t, "Markdown", got.ParseMode)
}

func TestSendMessageUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := New("token123", server.URL, nil)
	err := client.SendMessage(context.Background(), 1, "hello", 0)
	assert.Error(t, err)
}
