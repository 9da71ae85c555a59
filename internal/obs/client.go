package obs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/time/rate"

	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
)

// DefaultServerURL is the API endpoint of the public openSUSE build service.
const DefaultServerURL = "https://api.opensuse.org"

const defaultUserAgent = "obssync"

// Client talks to the source API of a build service instance.
// It is safe to reuse across calls; it holds no per-call state.
type Client struct {
	baseURL    *url.URL
	authToken  string
	httpClient *http.Client
	fs         billy.Filesystem
	limiter    *rate.Limiter
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithFilesystem sets the filesystem local artifacts are read from.
// Defaults to the OS filesystem.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(c *Client) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithRateLimit paces requests to at most rps per second with the given burst.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the build service at serverURL.
// The authorization token is derived once from id and password.
func New(serverURL, id, password string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host are required", serverURL)
	}

	c := &Client{
		baseURL:    u,
		authToken:  EncodeCredentials(id, password),
		httpClient: http.DefaultClient,
		fs:         osfs.New("/"),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ServerURL returns the base URL requests are issued against.
func (c *Client) ServerURL() string {
	return c.baseURL.String()
}

// packageURL returns {base}/source/{project}/{package}[/{file}].
func (c *Client) packageURL(ref model.PackageRef, file string) *url.URL {
	segments := []string{"source", url.PathEscape(ref.Project), url.PathEscape(ref.Package)}
	if file != "" {
		segments = append(segments, url.PathEscape(file))
	}
	return c.baseURL.JoinPath(segments...)
}

// sourceQuery returns the query shared by source mutations.
func sourceQuery(mode model.RevisionMode, comment string) url.Values {
	q := url.Values{}
	if mode == model.Commit {
		q.Set("cmd", "commit")
	} else {
		q.Set("rev", "upload")
	}
	q.Set("meta", "0")
	q.Set("keeplink", "0")
	q.Set("comment", comment)
	return q
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Body       []byte
}

// do sends an authenticated request and reads the whole response body.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body io.Reader, contentType string) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("Authorization", "Basic "+c.authToken)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	logging.WithContext(ctx).Debug("sending request",
		slog.String("method", method),
		slog.String("url", u.String()),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &response{StatusCode: resp.StatusCode, Body: data}, nil
}

