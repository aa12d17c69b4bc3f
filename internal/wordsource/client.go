package wordsource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"vocab-exam/internal/vocab"
)

// Client fetches book CSV files from a static file host.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) FetchRows(ctx context.Context, book vocab.BookKey) ([]vocab.Row, error) {
	name, err := FileName(book)
	if err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("word source returned status %d for %s", resp.StatusCode, name)
	}

	return ParseCSV(resp.Body)
}
