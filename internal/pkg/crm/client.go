// Package crm implements a client for the federal medical council
// registry used to verify physician licenses before registration.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/medresidency/logbook/internal/pkg/apperrors"
)

// DefaultTimeout bounds a single registry lookup.
const DefaultTimeout = 10 * time.Second

// Verifier checks a medical license against the public registry.
type Verifier interface {
	LookupLicense(ctx context.Context, state, number string) (*LookupResult, error)
}

// LookupResult carries what the registry reported for a license.
type LookupResult struct {
	Found  bool
	Status string
	Count  int
}

// Eligible reports whether the license may be used to register:
// exactly one match with a regular standing.
func (r *LookupResult) Eligible() bool {
	return r.Count == 1 && r.Status == "Regular"
}

// Config holds the registry client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the council registry over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a registry client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// lookupPayload mirrors the registry's search request body. The API
// expects the payload wrapped in a one-element JSON array.
type lookupPayload struct {
	Physician struct {
		LicenseNumber string `json:"crmMedico"`
		LicenseState  string `json:"ufMedico"`
	} `json:"medico"`
	Page       int `json:"page"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

type lookupResponse struct {
	Records []struct {
		Count  json.Number `json:"COUNT"`
		Status string      `json:"SITUACAO"`
	} `json:"dados"`
}

// LookupLicense queries the registry for the given license.
// Transport failures and non-2xx responses surface as ErrExternalService.
func (c *Client) LookupLicense(ctx context.Context, state, number string) (*LookupResult, error) {
	var payload lookupPayload
	payload.Physician.LicenseNumber = number
	payload.Physician.LicenseState = state
	payload.Page = 1
	payload.PageNumber = 1
	payload.PageSize = 10

	body, err := json.Marshal([]lookupPayload{payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode registry payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: registry request failed: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: registry returned status %d", apperrors.ErrExternalService, resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: failed to decode registry response: %v", apperrors.ErrExternalService, err)
	}

	if len(decoded.Records) == 0 {
		return &LookupResult{Found: false}, nil
	}

	record := decoded.Records[0]
	count, err := record.Count.Int64()
	if err != nil {
		count = 0
	}

	return &LookupResult{
		Found:  count > 0,
		Status: record.Status,
		Count:  int(count),
	}, nil
}
