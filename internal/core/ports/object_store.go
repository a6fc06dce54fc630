package ports

import (
	"context"
	"io"
	"time"
)

// ObjectRef points at one object in a prediction store.
type ObjectRef struct {
	Key          string
	LastModified time.Time
}

// PredictionSource provides the candidate datasets written by the prediction step.
type PredictionSource interface {
	// Latest returns the most recently modified CSV object.
	// Returns errs.ErrObjectNotFound when there is none.
	Latest(ctx context.Context) (ObjectRef, error)

	// Open streams the object body. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a consumed object.
	Delete(ctx context.Context, key string) error
}

// ResultSink persists the serialized output of a batch.
type ResultSink interface {
	// Write stores body under name and returns the full key or path written.
	Write(ctx context.Context, name string, body []byte) (string, error)
}
