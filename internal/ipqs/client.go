package ipqs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cartshield/cartshield/internal/version"
)

const (
	// DefaultBaseURL is the production provider endpoint.
	DefaultBaseURL = "https://ipqualityscore.com"
	// DefaultTimeout bounds every provider call.
	DefaultTimeout = 20 * time.Second

	ipReputationPath    = "/api/json/ip"
	emailReputationPath = "/api/json/email"
	postbackPath        = "/api/json/postback"
)

// Client is a thin typed HTTP client for the reputation provider.
type Client struct {
	baseURL    string
	apiKey     string
	keyFunc    func() string
	userAgent  string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (stubs, proxies).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTimeout overrides the default call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithKeyFunc resolves the API key per call, so key rotation in settings
// takes effect without a restart.
func WithKeyFunc(keyFunc func() string) Option {
	return func(c *Client) { c.keyFunc = keyFunc }
}

// NewClient creates a provider client signing requests with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		userAgent:  version.Name + "/" + version.Version,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetIPReputation scores an IP address with the provided query parameters.
func (c *Client) GetIPReputation(ctx context.Context, ipAddress string, query *Query) (*IPReputationResponse, error) {
	if ipAddress == "" {
		return nil, fmt.Errorf("ipqs: ip address is required")
	}

	var out IPReputationResponse
	path := fmt.Sprintf("%s/%s/%s", ipReputationPath, c.key(), url.PathEscape(ipAddress))
	if err := c.get(ctx, "GetIPReputation", path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEmailReputation scores an email address with the provided query parameters.
func (c *Client) GetEmailReputation(ctx context.Context, email string, query *Query) (*EmailReputationResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("ipqs: email is required")
	}

	var out EmailReputationResponse
	path := fmt.Sprintf("%s/%s/%s", emailReputationPath, c.key(), url.PathEscape(email))
	if err := c.get(ctx, "GetEmailReputation", path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupRequest queries the postback endpoint, used for device-fingerprint
// lookups keyed by a tracking variable.
func (c *Client) LookupRequest(ctx context.Context, query *Query) (*PostbackResponse, error) {
	var out PostbackResponse
	path := fmt.Sprintf("%s/%s", postbackPath, c.key())
	if err := c.get(ctx, "LookupRequest", path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) key() string {
	if c.keyFunc != nil {
		return c.keyFunc()
	}
	return c.apiKey
}

func (c *Client) get(ctx context.Context, op, path string, query *Query, out interface{}) error {
	requestURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("ipqs: create %s request: %w", op, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Status: http.StatusInternalServerError, Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: http.StatusInternalServerError, Op: op, Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Op: op, Message: "provider returned an error status"}
		var errBody Response
		if json.Unmarshal(body, &errBody) == nil {
			apiErr.Body = &errBody
		}
		return apiErr
	}

	// A successful status with an unparseable body is a defect, not a
	// business outcome; keep it distinct from APIError.
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("ipqs: decode %s response: %w", op, err)
	}

	return nil
}
