package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

const (
	importExcerptLen = 100
	exportExcerptLen = 200
)

// NonJSONError is returned when the endpoint answers with something other
// than JSON, typically a sign-in or permission page of a wrongly deployed
// script.
type NonJSONError struct {
	Excerpt string
}

func (e *NonJSONError) Error() string {
	return "phản hồi không phải JSON hợp lệ: " + e.Excerpt
}

// RemoteError is a well-formed refusal from the endpoint.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "bảng tính từ chối dữ liệu: " + e.Message
}

// Client talks to the remote spreadsheet endpoint. It never retries.
type Client struct {
	http *http.Client
}

// NewClient returns a client; a zero timeout leaves requests bounded only by
// their context.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Pull fetches the full dataset body without interpreting it.
func (c *Client) Pull(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Push overwrites every remote table with ds. The body goes out as
// text/plain, which script hosts accept without a CORS preflight.
func (c *Client) Push(ctx context.Context, url string, ds sheets.Dataset) error {
	body, err := json.Marshal(sheets.PushRequest{Action: sheets.ActionSyncAll, Data: ds})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	ack := struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{}
	if err := json.Unmarshal(text, &ack); err != nil {
		return &NonJSONError{Excerpt: excerpt(string(text), exportExcerptLen)}
	}
	if !ack.Success {
		msg := ack.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return &RemoteError{Message: msg}
	}

	return nil
}

// excerpt keeps the first n characters of s.
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
