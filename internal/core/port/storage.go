package port

import (
	"context"
	"io"
)

// FileStorage stores uploaded binary objects and returns a public URL for
// serving them. Used for profile images.
type FileStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
