package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/infra/httpclient"
)

const (
	restPrefix       = "/rest/v1/"
	maxResponseBytes = 2 * 1024 * 1024
)

type Config struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

// Client talks to a hosted PostgREST endpoint with the service role key. Every request
// runs with full table privileges.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

type RequestError struct {
	Op         string
	Table      string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	op := e.Op
	if e.Table != "" {
		op = e.Op + " " + e.Table
	}
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d: %v", op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", op, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d", op, e.StatusCode)
	default:
		return op
	}
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	serviceKey := strings.TrimSpace(cfg.ServiceKey)
	if baseURL == "" || serviceKey == "" {
		return nil, &RequestError{
			Op:  "create postgrest client",
			Err: errors.New("datastore url or service key is empty"),
		}
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &RequestError{Op: "parse datastore url", Err: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RequestError{
			Op:  "validate datastore url",
			Err: fmt.Errorf("invalid datastore url: %s", baseURL),
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: httpclient.New(cfg.Timeout),
	}, nil
}

// selectOne fetches at most one row of table matching filter into out. It reports
// false when no row matched.
func (c *Client) selectOne(ctx context.Context, table string, filter url.Values, out any) (bool, error) {
	query := url.Values{}
	for key, values := range filter {
		query[key] = append([]string(nil), values...)
	}
	query.Set("limit", "1")

	body, err := c.do(ctx, http.MethodGet, table, query, nil, nil)
	if err != nil {
		return false, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return false, &RequestError{Op: "decode select", Table: table, Err: err}
	}
	if len(rows) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(rows[0], out); err != nil {
		return false, &RequestError{Op: "decode row", Table: table, Err: err}
	}
	return true, nil
}

func (c *Client) insert(ctx context.Context, table string, row any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return &RequestError{Op: "marshal insert", Table: table, Err: err}
	}

	headers := http.Header{}
	headers.Set("Prefer", "return=minimal")

	_, err = c.do(ctx, http.MethodPost, table, nil, payload, headers)
	return err
}

func (c *Client) do(ctx context.Context, method string, table string, query url.Values, body []byte, headers http.Header) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, &RequestError{Op: "do request", Table: table, Err: errors.New("postgrest client is not initialized")}
	}

	fullURL := c.baseURL + restPrefix + url.PathEscape(table)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, &RequestError{Op: "create http request", Table: table, Err: err}
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Op: "execute http request", Table: table, Err: err}
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestError{Op: "read http response", Table: table, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(responseBytes))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &RequestError{
			Op:         "unexpected http status",
			Table:      table,
			StatusCode: resp.StatusCode,
			Err:        errors.New(message),
		}
	}

	return responseBytes, nil
}
