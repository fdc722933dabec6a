package schema

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches raw configuration documents.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures the default loader implementation.
type LoaderOptions struct {
	FileSystem     fs.FS
	HTTPClient     *http.Client
	AllowHTTP      bool
	RequestTimeout time.Duration
}

// Load fetches src through loader and parses it.
func Load(ctx context.Context, loader Loader, src Source) (Schema, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return Schema{}, err
	}
	return Parse(doc)
}
