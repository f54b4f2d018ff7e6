// Package client talks to the music library API and drives the list view.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"musiclib/model"
)

// CSRFHeader carries the anti-forgery token on mutating requests.
const CSRFHeader = "X-CSRF-TOKEN"

// TokenSource returns the current anti-forgery token, or "" if none is known.
type TokenSource func() string

// Asset is an audio file chosen for upload.
type Asset struct {
	Name string
	Body io.Reader
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
	Errors     map[string][]string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("music api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("music api: status %d: %s", e.StatusCode, e.Message)
}

// Client is a typed client for /api/musics.
type Client struct {
	baseURL    string
	httpClient *http.Client
	bearer     string
	csrf       TokenSource
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetBearer sets the credential sent as Authorization: Bearer.
func (c *Client) SetBearer(token string) {
	c.bearer = token
}

// SetCSRFSource sets where the anti-forgery token is read from. It is consulted
// on every mutating request.
func (c *Client) SetCSRFSource(src TokenSource) {
	c.csrf = src
}

// AudioSource returns the playback URL of entry's asset.
func (c *Client) AudioSource(entry model.MusicEntry) string {
	return c.baseURL + "/storage/music/" + url.PathEscape(entry.Filename)
}

// List fetches every entry.
func (c *Client) List(ctx context.Context) ([]model.MusicEntry, error) {
	var entries []model.MusicEntry
	if err := c.do(ctx, http.MethodGet, "/api/musics", nil, "", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Read fetches a single entry.
func (c *Client) Read(ctx context.Context, id int64) (*model.MusicEntry, error) {
	var entry model.MusicEntry
	if err := c.do(ctx, http.MethodGet, entryPath(id), nil, "", &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create uploads asset and registers it under title.
func (c *Client) Create(ctx context.Context, title string, asset Asset) (*model.MusicEntry, error) {
	body, contentType, err := encodeForm(title, &asset)
	if err != nil {
		return nil, err
	}
	var entry model.MusicEntry
	if err := c.do(ctx, http.MethodPost, "/api/musics", body, contentType, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update changes the title of entry id. filename and file are sent only when
// asset is non-nil.
func (c *Client) Update(ctx context.Context, id int64, title string, asset *Asset) (*model.MusicEntry, error) {
	body, contentType, err := encodeForm(title, asset)
	if err != nil {
		return nil, err
	}
	var entry model.MusicEntry
	if err := c.do(ctx, http.MethodPost, entryPath(id), body, contentType, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes entry id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, entryPath(id), nil, "", nil)
}

func entryPath(id int64) string {
	return "/api/musics/" + strconv.FormatInt(id, 10)
}

func encodeForm(title string, asset *Asset) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", title); err != nil {
		return nil, "", err
	}
	if asset != nil {
		if err := mw.WriteField("filename", asset.Name); err != nil {
			return nil, "", err
		}
		fw, err := mw.CreateFormFile("file", asset.Name)
		if err != nil {
			return nil, "", err
		}
		if asset.Body != nil {
			if _, err := io.Copy(fw, asset.Body); err != nil {
				return nil, "", fmt.Errorf("read asset %s: %w", asset.Name, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	if method != http.MethodGet {
		token := ""
		if c.csrf != nil {
			token = c.csrf()
		}
		req.Header.Set(CSRFHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string              `json:"message"`
			Errors  map[string][]string `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			serr.Message = payload.Message
			serr.Errors = payload.Errors
		}
		return serr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
