package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreybb/checkin/models"
	"github.com/coreybb/checkin/webutil"
)

const maxErrorBody = 4 << 10

// AirtableStore appends records to one table of an Airtable base.
type AirtableStore struct {
	baseURL string
	apiKey  string
	baseID  string
	table   string
	client  HTTPDoer
}

// NewAirtableStore creates a store for table in baseID. A nil client falls
// back to http.DefaultClient.
func NewAirtableStore(baseURL, apiKey, baseID, table string, client HTTPDoer) *AirtableStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &AirtableStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		baseID:  baseID,
		table:   table,
		client:  client,
	}
}

func (s *AirtableStore) Name() string { return "airtable" }

func (s *AirtableStore) Insert(ctx context.Context, fields models.Fields) error {
	payload := atCreatePayload{Records: []atRecord{{Fields: fields}}}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Airtable payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tableURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create Airtable request: %w", err)
	}
	req.Header.Set(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)

	return s.do(req)
}

func (s *AirtableStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tableURL()+"?maxRecords=1", nil)
	if err != nil {
		return fmt.Errorf("failed to create Airtable request: %w", err)
	}
	return s.do(req)
}

func (s *AirtableStore) tableURL() string {
	return fmt.Sprintf("%s/v0/%s/%s", s.baseURL, url.PathEscape(s.baseID), url.PathEscape(s.table))
}

func (s *AirtableStore) do(req *http.Request) error {
	req.Header.Set(webutil.HeaderAuthorization, "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Airtable request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Backend: s.Name(), Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Airtable create-records payload types.
type atCreatePayload struct {
	Records []atRecord `json:"records"`
}

type atRecord struct {
	Fields models.Fields `json:"fields"`
}
