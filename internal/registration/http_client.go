package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ahwlsqja/ts-pass-claims/internal/common/errors"
)

const maxResponseBytes = 1 << 20

// HTTPClient talks to the claims API. It is both the NonceSource and the
// authoritative Registrar of a Machine.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var (
	_ NonceSource = (*HTTPClient)(nil)
	_ Registrar   = (*HTTPClient)(nil)
)

// NewHTTPClient creates a client for the API rooted at baseURL (e.g. http://host/api/v1)
func NewHTTPClient(baseURL string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type nonceRequest struct {
	WalletAddress string `json:"wallet_address"`
	Email         string `json:"email,omitempty"`
	Discord       string `json:"discord,omitempty"`
}

type nonceResponse struct {
	Data struct {
		Nonce   string `json:"nonce"`
		Message string `json:"message"`
	} `json:"data"`
}

// envelopeError is the {error:{code,message}} shape
type envelopeError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// flatError is the {error, code, field} shape of the registration endpoint
type flatError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field"`
}

type registerResponse struct {
	Success        bool   `json:"success"`
	AlreadyExisted bool   `json:"alreadyExisted"`
	Email          string `json:"email"`
	Discord        string `json:"discord"`
}

// Challenge requests a nonce and the registration message built around it
func (c *HTTPClient) Challenge(ctx context.Context, address string, details Details) (*Challenge, error) {
	var out nonceResponse
	resp, err := c.post(ctx, "/claims/nonce", nonceRequest{
		WalletAddress: address,
		Email:         details.Email,
		Discord:       details.Discord,
	})
	if err != nil {
		return nil, errors.StorageUnavailable(err, 0)
	}
	if resp.status != http.StatusOK {
		return nil, resp.envelopeError()
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, errors.StorageUnavailable(fmt.Errorf("decode nonce response: %w", err), 0)
	}
	if out.Data.Nonce == "" || out.Data.Message == "" {
		return nil, errors.StorageUnavailable(fmt.Errorf("nonce response is empty"), 0)
	}
	return &Challenge{Nonce: out.Data.Nonce, Message: out.Data.Message}, nil
}

// Submit posts a signed registration
func (c *HTTPClient) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	resp, err := c.post(ctx, "/register", sub)
	if err != nil {
		return nil, errors.PersistFailed(err, 0)
	}
	if resp.status != http.StatusOK {
		return nil, resp.flatError()
	}

	var out registerResponse
	if err := json.Unmarshal(resp.body, &out); err != nil || !out.Success {
		return nil, errors.PersistFailed(fmt.Errorf("unexpected register response: %s", truncate(resp.body)), 0)
	}
	return &Receipt{
		AlreadyExisted: out.AlreadyExisted,
		Email:          out.Email,
		Discord:        out.Discord,
	}, nil
}

type response struct {
	status     int
	body       []byte
	retryAfter time.Duration
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (*response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	out := &response{status: resp.StatusCode, body: body}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		out.retryAfter = time.Duration(secs) * time.Second
	}
	return out, nil
}

func (r *response) envelopeError() error {
	var e envelopeError
	if err := json.Unmarshal(r.body, &e); err != nil || e.Error.Code == "" {
		return r.appError("", truncate(r.body), "")
	}
	return r.appError(e.Error.Code, e.Error.Message, "")
}

func (r *response) flatError() error {
	var e flatError
	if err := json.Unmarshal(r.body, &e); err != nil || e.Error == "" {
		return r.appError("", truncate(r.body), "")
	}
	return r.appError(e.Code, e.Error, e.Field)
}

// appError rebuilds an AppError from a response, falling back to the status code
func (r *response) appError(code, message, field string) *errors.AppError {
	if code == "" {
		code = codeForStatus(r.status)
	}
	appErr := &errors.AppError{Code: code, Message: message, StatusCode: r.status}
	if field != "" {
		appErr.Details = map[string]any{errors.DetailField: field}
	}
	if r.retryAfter > 0 {
		appErr.WithRetryAfter(r.retryAfter)
	}
	return appErr
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return errors.CodeInvalidInput
	case status == http.StatusForbidden:
		return errors.CodeVerificationFailed
	case status == http.StatusConflict:
		return errors.CodeDuplicateField
	case status == http.StatusTooManyRequests:
		return errors.CodeThrottled
	case status == http.StatusServiceUnavailable:
		return errors.CodeStorageUnavailable
	case status == http.StatusMethodNotAllowed:
		return errors.CodeMethodNotAllowed
	case status >= 500:
		return errors.CodePersistFailed
	default:
		return errors.CodeInternal
	}
}

func truncate(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
