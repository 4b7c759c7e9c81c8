package webutil

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// MaxFormBytes bounds the size of an inbound webhook body.
const MaxFormBytes = 1 << 20

// ReadForm reads a form-urlencoded body and flattens it to one value per
// field, keeping the first value of repeated fields. On a malformed body the
// pairs decoded before the error are returned along with it.
func ReadForm(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxFormBytes))
	if err != nil {
		return map[string]string{}, fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	values, parseErr := url.ParseQuery(string(raw))
	form := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			form[key] = vals[0]
		}
	}
	if parseErr != nil {
		return form, fmt.Errorf("failed to parse form body: %w", parseErr)
	}
	return form, nil
}
