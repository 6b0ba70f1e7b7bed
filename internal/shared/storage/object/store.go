package object

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// MaxDocumentBytes caps a single stored document. Safety-rule documents are a
// few kilobytes; anything near this size is a mistake.
const MaxDocumentBytes = 1 << 20

var (
	// ErrNotFound is returned by Open when no object exists at the key.
	ErrNotFound = errors.New("object not found")
	// ErrTooLarge is returned by SaveWithKey when the body exceeds MaxDocumentBytes.
	ErrTooLarge = errors.New("object too large")
)

// ObjectStore reads and writes documents by key. The safety-rules document
// and published revisions of it live here.
type ObjectStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	SaveWithKey(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
}

// ReadDocument reads r fully, failing with ErrTooLarge past MaxDocumentBytes.
func ReadDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if len(data) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, MaxDocumentBytes)
	}
	return data, nil
}
