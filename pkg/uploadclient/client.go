// Package uploadclient talks to the upload relay endpoint.
package uploadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type File struct {
	Name string
	Data []byte
}

type Options struct {
	Type   string
	Prefix string
}

type Result struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// StatusError is a non-200 reply from the relay.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upload failed with status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) Upload(ctx context.Context, f File, opts Options) (*Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", f.Name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if opts.Type != "" {
		_ = mw.WriteField("type", opts.Type)
	}
	if opts.Prefix != "" {
		_ = mw.WriteField("prefix", opts.Prefix)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// UploadAll uploads files one at a time and stops at the first failure,
// returning the results gathered so far together with that error.
func (c *Client) UploadAll(ctx context.Context, files []File, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(files))
	for _, f := range files {
		res, err := c.Upload(ctx, f, opts)
		if err != nil {
			return results, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		results = append(results, *res)
	}
	return results, nil
}
