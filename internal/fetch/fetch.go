// Package fetch implements the network collaborator of the sync pipeline:
// fetching the version document, the speaker feed, the per-conference
// schedule documents, and downloading speaker images.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	// Registered decoders for image bounds detection.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Remote document names, relative to the server base URL.
const (
	versionDoc  = "version.json"
	speakersDoc = "speaker.json"
)

// Client fetches feed documents over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// New creates a client for the given server base URL (no trailing slash
// required). If httpClient is nil a client with a 30 second timeout is
// used; if logger is nil a stderr logger is used.
func New(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[fetch] ", log.LstdFlags)
	}
	return &Client{baseURL: baseURL, http: httpClient, logger: logger}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: got not OK: %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

// FetchVersion retrieves the raw version document.
func (c *Client) FetchVersion(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.baseURL+"/"+versionDoc)
}

// FetchSpeakers retrieves the raw speaker feed.
func (c *Client) FetchSpeakers(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.baseURL+"/"+speakersDoc)
}

// FetchSchedule retrieves the raw schedule document for one conference.
func (c *Client) FetchSchedule(ctx context.Context, conferenceID int) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("%s/schedule_%d.json", c.baseURL, conferenceID))
}

// DownloadImage retrieves an image and reports its pixel bounds. The
// bounds decide which scaled variants the image pipeline produces.
func (c *Client) DownloadImage(ctx context.Context, url string) (data []byte, width, height int, err error) {
	data, err = c.get(ctx, url)
	if err != nil {
		return nil, 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image %s: %w", url, err)
	}
	return data, cfg.Width, cfg.Height, nil
}
