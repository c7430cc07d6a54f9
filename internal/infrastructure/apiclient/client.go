package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// Client talks to the Facts Finder API on behalf of the form CLI.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ExportQuery はエクスポート時のクエリパラメータ。空文字は未指定として送らない。
type ExportQuery struct {
	StartDate string
	EndDate   string
	Name      string
}

type messageResponse struct {
	Message string `json:"message"`
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Submit posts a draft to the create-record endpoint. Any failure wraps ErrPersistence.
func (c *Client) Submit(ctx context.Context, draft domain.Draft) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: encode draft: %v", domain.ErrPersistence, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/factsfinders", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", domain.ErrPersistence, resp.StatusCode, readMessage(resp.Body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Export downloads the workbook into w and returns the number of bytes written.
// A 404 maps to ErrNotFound.
func (c *Client) Export(ctx context.Context, query ExportQuery, w io.Writer) (int64, error) {
	values := url.Values{}
	if query.StartDate != "" {
		values.Set("startDate", query.StartDate)
	}
	if query.EndDate != "" {
		values.Set("endDate", query.EndDate)
	}
	if query.Name != "" {
		values.Set("name", query.Name)
	}

	endpoint := c.baseURL + "/api/factsfinders/excel"
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("export request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", domain.ErrNotFound, readMessage(resp.Body))
	case resp.StatusCode == http.StatusBadRequest:
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidPayload, readMessage(resp.Body))
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("export failed: status %d: %s", resp.StatusCode, readMessage(resp.Body))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download workbook: %w", err)
	}
	return n, nil
}

func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return ""
	}
	var payload messageResponse
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
