package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHost        = "https://cdn.contentful.com"
	defaultEnvironment = "master"
	defaultTimeout     = 15 * time.Second

	// includeDepth resolves linked assets in the same response.
	includeDepth = 10
	// pageLimit is the largest page the delivery API serves.
	pageLimit = 1000

	maxDetailsLength = 600
)

// ErrTruncated means the space holds more entries than one page returns.
var ErrTruncated = errors.New("contentful entries exceed one page")

type Config struct {
	SpaceID     string
	AccessToken string
	Environment string
	// Host is either a bare host name (preview.contentful.com) or a base URL.
	Host    string
	Timeout time.Duration
}

// ConfigError reports missing credentials. Nothing is fetched when it is returned.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "Missing Contentful env vars: " + strings.Join(e.Missing, " / ")
}

// UpstreamError is a failed delivery API call. StatusCode is zero for
// transport failures.
type UpstreamError struct {
	StatusCode int
	Details    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return "Contentful request failed"
	}
	return fmt.Sprintf("Contentful error %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Environment == "" {
		cfg.Environment = defaultEnvironment
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if !strings.Contains(cfg.Host, "://") {
		cfg.Host = "https://" + cfg.Host
	}
	cfg.Host = strings.TrimSuffix(cfg.Host, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) IsConfigured() bool {
	return c.cfg.SpaceID != "" && c.cfg.AccessToken != ""
}

// FetchSnapshot reads every entry of the space together with its linked
// assets in a single request. It never returns a partial snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var missing []string
	if c.cfg.SpaceID == "" {
		missing = append(missing, "CONTENTFUL_SPACE_ID")
	}
	if c.cfg.AccessToken == "" {
		missing = append(missing, "CONTENTFUL_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return nil, &ConfigError{Missing: missing}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.entriesURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Details: truncate(err.Error()), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Details: truncate(err.Error()), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("contentful request rejected",
			"status", resp.StatusCode,
			"space", c.cfg.SpaceID,
			"environment", c.cfg.Environment)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Details: truncate(string(body))}
	}

	var payload entriesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Details:    truncate("decode entries: " + err.Error()),
			Err:        err,
		}
	}

	if payload.Total > len(payload.Items) {
		details := fmt.Sprintf("space has %d entries, only %d returned in one page",
			payload.Total, len(payload.Items))
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Details:    truncate(details),
			Err:        ErrTruncated,
		}
	}

	snapshot := &Snapshot{
		Entries: payload.Items,
		Assets:  make(map[string]Asset, len(payload.Includes.Asset)),
	}
	for _, asset := range payload.Includes.Asset {
		if asset.Sys.ID != "" {
			snapshot.Assets[asset.Sys.ID] = asset
		}
	}

	slog.Debug("contentful snapshot fetched",
		"entries", len(snapshot.Entries),
		"assets", len(snapshot.Assets),
		"duration", time.Since(start))

	return snapshot, nil
}

func (c *Client) entriesURL() string {
	q := url.Values{}
	q.Set("include", fmt.Sprint(includeDepth))
	q.Set("limit", fmt.Sprint(pageLimit))

	return fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.cfg.Host,
		url.PathEscape(c.cfg.SpaceID),
		url.PathEscape(c.cfg.Environment),
		q.Encode())
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetailsLength {
		return s
	}
	return string(r[:maxDetailsLength])
}
