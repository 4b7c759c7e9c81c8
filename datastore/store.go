package datastore

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreybb/checkin/models"
)

// RecordStore is the tabular data store that check-in records are appended to.
type RecordStore interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string
	// Insert appends one record. Records are never updated or merged.
	Insert(ctx context.Context, fields models.Fields) error
	// Ping performs a read-only call against the target table.
	Ping(ctx context.Context) error
}

// HTTPDoer is the subset of *http.Client used by HTTP-backed stores.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when an HTTP-backed store answers with a non-2xx
// status. Body holds the start of the response for logs; it is not meant for
// end users.
type StatusError struct {
	Backend string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Backend, e.Code, e.Body)
}
