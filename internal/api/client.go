package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/FlowFeed/feed-client/internal/config"
	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the single gateway to the remote REST API. Every request carries
// the configured timeout; the bearer token is read from the supplier at the
// moment a request is built, never cached across calls.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	origin     string
	token      func() string
}

func New(logger *zap.Logger, cfg *config.Config, token func() string) *Client {
	return &Client{
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		origin: strings.TrimRight(cfg.APIOrigin, "/"),
		token:  token,
	}
}

func (c *Client) newRequest(ctx context.Context, method string, path string, query url.Values, body io.Reader, contentType string, authed bool) (*http.Request, error) {
	endpoint := c.origin + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req, nil
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// do executes the request. A non-nil error means the call never produced a
// usable response (transport failure, unreadable or malformed body). A status
// >= 300 comes back with the server's msg field extracted from the body; out
// is only filled on success.
func (c *Client) do(req *http.Request, out interface{}) (int, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}

	if resp.StatusCode >= 300 {
		var basic dto.BasicResponse
		if err := json.Unmarshal(body, &basic); err != nil {
			return resp.StatusCode, "", nil
		}
		return resp.StatusCode, basic.Msg, nil
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, "", err
		}
	}

	return resp.StatusCode, "", nil
}
