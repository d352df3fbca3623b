package getwvkeys

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://getwvkeys.cc"
	APIVersion    = "5"
	ScriptVersion = "5.1"
	Product       = "GetWVKeys Generic"

	apiPath      = "/pywidevine"
	apiKeyHeader = "X-API-Key"
	// CacheHeader marks a response served from the key cache.
	CacheHeader = "X-Cache"
)

// VersionString is the line printed by --version.
func VersionString() string {
	return fmt.Sprintf("%s v%s for API Version %s", Product, ScriptVersion, APIVersion)
}

type CachedKeys struct {
	Keys []string
}

type Challenge struct {
	SessionID string
	Data      []byte
}

// ChallengeResponse carries exactly one of Cached or Challenge.
type ChallengeResponse struct {
	Cached    *CachedKeys
	Challenge *Challenge
}

type DecryptResult struct {
	Keys      []string
	SessionID string
	// Raw is the response body as received.
	Raw []byte
}

type challengeRequest struct {
	PSSH       string `json:"pssh"`
	BuildInfo  string `json:"buildInfo"`
	Force      bool   `json:"force"`
	LicenseURL string `json:"license_url"`
}

type decryptRequest struct {
	PSSH       string            `json:"pssh"`
	Response   string            `json:"response"`
	LicenseURL string            `json:"license_url"`
	Headers    map[string]string `json:"headers"`
	BuildInfo  string            `json:"buildInfo"`
	Force      bool              `json:"force"`
	SessionID  string            `json:"session_id"`
}

// Client talks to the key derivation API.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	log      *zap.Logger
}

// NewClient creates a client for the API rooted at baseURL. An empty baseURL
// selects DefaultAPIURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	o := newOptions(DefaultAPITimeout, opts)

	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + apiPath,
		http:     o.httpClient,
		timeout:  o.timeout,
		log:      o.log,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// GenerateChallenge asks the API for a license challenge, or for cached keys
// when the API already knows the PSSH.
func (c *Client) GenerateChallenge(ctx context.Context, p Params) (*ChallengeResponse, error) {
	header, body, err := c.post(ctx, opGenerate, p.APIKey, challengeRequest{
		PSSH:       p.PSSH,
		BuildInfo:  p.BuildInfo,
		Force:      p.Force,
		LicenseURL: p.LicenseURL,
	})
	if err != nil {
		return nil, err
	}

	doc, err := parseBody(opGenerate, body)
	if err != nil {
		return nil, err
	}

	if _, ok := header[http.CanonicalHeaderKey(CacheHeader)]; ok {
		keys, err := parseKeys(opGenerate, doc)
		if err != nil {
			return nil, err
		}
		c.log.Debug("keys served from cache", zap.Int("keys", len(keys)))
		return &ChallengeResponse{Cached: &CachedKeys{Keys: keys}}, nil
	}

	sessionID, err := requireString(opGenerate, doc, "session_id")
	if err != nil {
		return nil, err
	}
	encoded, err := requireString(opGenerate, doc, "challenge")
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &ProtocolError{Op: opGenerate, Field: "challenge", Reason: fmt.Sprintf("is not valid base64: %v", err)}
	}

	return &ChallengeResponse{Challenge: &Challenge{SessionID: sessionID, Data: data}}, nil
}

// Decrypt sends the base64 encoded license response back to the API and
// returns the content keys.
func (c *Client) Decrypt(ctx context.Context, sessionID, license string, p Params) (*DecryptResult, error) {
	_, body, err := c.post(ctx, opDecrypt, p.APIKey, decryptRequest{
		PSSH:       p.PSSH,
		Response:   license,
		LicenseURL: p.LicenseURL,
		Headers:    p.LicenseHeaders(),
		BuildInfo:  p.BuildInfo,
		Force:      p.Force,
		SessionID:  sessionID,
	})
	if err != nil {
		return nil, err
	}

	doc, err := parseBody(opDecrypt, body)
	if err != nil {
		return nil, err
	}

	keys, err := parseKeys(opDecrypt, doc)
	if err != nil {
		return nil, err
	}
	returned, err := requireString(opDecrypt, doc, "session_id")
	if err != nil {
		return nil, err
	}

	return &DecryptResult{
		Keys:      keys,
		SessionID: returned,
		Raw:       body,
	}, nil
}

func (c *Client) post(ctx context.Context, op, apiKey string, payload any) (http.Header, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set(apiKeyHeader, apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &NetworkError{Op: op, URL: c.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &NetworkError{Op: op, URL: c.endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("key service responded",
		zap.String("url", c.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if !statusOK(resp.StatusCode) {
		return nil, nil, newAPIError(op, resp.StatusCode, body)
	}

	return resp.Header, body, nil
}

func statusOK(code int) bool {
	return code >= 200 && code < 300
}

func parseBody(op string, body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &ProtocolError{Op: op, Reason: "response is not valid JSON"}
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, &ProtocolError{Op: op, Reason: "response is not a JSON object"}
	}
	return doc, nil
}

func requireString(op string, doc gjson.Result, field string) (string, error) {
	v := doc.Get(field)
	if !v.Exists() {
		return "", &ProtocolError{Op: op, Field: field, Reason: "is missing"}
	}
	if v.Type != gjson.String || v.String() == "" {
		return "", &ProtocolError{Op: op, Field: field, Reason: "is not a non-empty string"}
	}
	return v.String(), nil
}

// parseKeys accepts both ["kid:key"] and [{"key": "kid:key"}].
func parseKeys(op string, doc gjson.Result) ([]string, error) {
	list := doc.Get("keys")
	if !list.Exists() {
		return nil, &ProtocolError{Op: op, Field: "keys", Reason: "is missing"}
	}
	if !list.IsArray() {
		return nil, &ProtocolError{Op: op, Field: "keys", Reason: "is not an array"}
	}

	keys := make([]string, 0)
	for i, k := range list.Array() {
		if k.IsObject() {
			k = k.Get("key")
		}
		if k.Type != gjson.String || k.String() == "" {
			return nil, &ProtocolError{Op: op, Field: fmt.Sprintf("keys.%d", i), Reason: "has no key value"}
		}
		keys = append(keys, k.String())
	}

	return keys, nil
}
