package mercadopago

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/infra/httpclient"
)

const (
	DefaultBaseURL = "https://api.mercadopago.com"

	defaultTimeout   = 5 * time.Second
	maxResponseBytes = 2 * 1024 * 1024
)

var ErrMissingAccessToken = errors.New("mercadopago access token is empty")

type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
}

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	tracer      trace.Tracer
}

type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Err != nil && e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: status=%d", e.Op, e.StatusCode)
	default:
		return e.Op
	}
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewClient never fails on a missing token so the service can boot without payment
// credentials; every call then returns ErrMissingAccessToken.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &RequestError{Op: "parse mercadopago base url", Err: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &RequestError{
			Op:  "validate mercadopago base url",
			Err: fmt.Errorf("invalid base url: %s", baseURL),
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: strings.TrimSpace(cfg.AccessToken),
		httpClient:  httpclient.New(timeout),
		tracer:      otel.Tracer("bayekverse/mercadopago"),
	}, nil
}

func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (Preference, error) {
	ctx, span := c.tracer.Start(ctx, "mercadopago.create_preference",
		trace.WithAttributes(
			attribute.Int("items.count", len(req.Items)),
		),
	)
	defer span.End()

	var pref Preference
	if err := c.doJSON(ctx, http.MethodPost, "/checkout/preferences", req, &pref); err != nil {
		recordError(span, err)
		return Preference{}, err
	}

	span.SetAttributes(attribute.String("preference.id", pref.ID))
	return pref, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	ctx, span := c.tracer.Start(ctx, "mercadopago.get_payment",
		trace.WithAttributes(
			attribute.String("payment.id", paymentID),
		),
	)
	defer span.End()

	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		err := &RequestError{Op: "get payment", Err: errors.New("payment id is empty")}
		recordError(span, err)
		return Payment{}, err
	}

	var payment Payment
	if err := c.doJSON(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &payment); err != nil {
		recordError(span, err)
		return Payment{}, err
	}

	span.SetAttributes(attribute.String("payment.status", payment.Status))
	return payment, nil
}

func (c *Client) doJSON(ctx context.Context, method string, path string, requestBody any, responseBody any) error {
	if c == nil || c.httpClient == nil {
		return &RequestError{Op: "do json request", Err: errors.New("mercadopago client is not initialized")}
	}
	if c.accessToken == "" {
		return &RequestError{Op: "do json request", Err: ErrMissingAccessToken}
	}

	var bodyReader io.Reader
	if requestBody != nil {
		payload, err := json.Marshal(requestBody)
		if err != nil {
			return &RequestError{Op: "marshal request body", Err: err}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &RequestError{Op: "create http request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: "execute http request", Err: err}
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RequestError{Op: "read http response", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(responseBytes))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &RequestError{
			Op:         "unexpected http status",
			StatusCode: resp.StatusCode,
			Err:        errors.New(message),
		}
	}

	if responseBody == nil || len(responseBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBytes, responseBody); err != nil {
		return &RequestError{Op: "decode http response", StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode > 0 {
		span.SetAttributes(attribute.Int("http.status_code", reqErr.StatusCode))
	}
}
