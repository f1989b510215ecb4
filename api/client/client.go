package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/vocdoni/pod2-sandbox/api"
	"github.com/vocdoni/pod2-sandbox/log"
)

const (
	// DefaultRetries is the number of attempts made when the connection to
	// the node fails.
	DefaultRetries = 3
	// DefaultTimeout bounds a single request. Plonky jobs are polled, so no
	// request waits for a proof.
	DefaultTimeout = 10 * time.Second

	retryDelay   = 500 * time.Millisecond
	maxLoggedLen = 512
)

// HTTPclient is the POD node API HTTP client.
type HTTPclient struct {
	c       *http.Client
	host    *url.URL
	retries int
}

// New connects to the node API at host and pings it.
func New(host string) (*HTTPclient, error) {
	hostURL, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	c := &HTTPclient{
		c:       &http.Client{Timeout: DefaultTimeout},
		host:    hostURL,
		retries: DefaultRetries,
	}
	log.Debugw("http client created", "host", hostURL.String())
	if err := c.call(http.MethodGet, nil, nil, api.PingEndpoint); err != nil {
		return nil, err
	}
	return c, nil
}

// Request sends body as JSON to urlPath under the node host, retrying on
// connection errors. It returns the raw response body and status.
func (c *HTTPclient) Request(method string, body any, urlPath string) ([]byte, int, error) {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return nil, 0, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}
	u := *c.host
	u.Path = path.Join(u.Path, urlPath)
	log.Debugw("http client request", "method", method, "url", u.String(), "body", truncate(data))

	var (
		resp *http.Response
		err  error
	)
	for i := 1; i <= c.retries; i++ {
		var req *http.Request
		req, err = http.NewRequest(method, u.String(), bytes.NewReader(data))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		if resp, err = c.c.Do(req); err == nil {
			break
		}
		log.Warnw("http request failed", "error", err.Error(), "attempt", i, "retries", c.retries)
		time.Sleep(retryDelay)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("http request failed after %d attempts: %w", c.retries, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warnw("failed to close response body", "error", err.Error())
		}
	}()
	res, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return res, resp.StatusCode, nil
}

// call performs a request and decodes a 200 response into out, if not nil.
// Error responses are returned as api.Error, so callers can match them with
// errors.Is against the api error definitions.
func (c *HTTPclient) call(method string, body, out any, urlPath string) error {
	data, status, err := c.Request(method, body, urlPath)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		apiErr := api.Error{HTTPstatus: status}
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Err == nil {
			return fmt.Errorf("unexpected status %d: %s", status, truncate(data))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

func truncate(b []byte) string {
	if len(b) > maxLoggedLen {
		return string(b[:maxLoggedLen]) + "..."
	}
	return string(b)
}
