package render

import (
	"context"

	"github.com/goliatone/go-dynform/pkg/form"
)

// Renderer turns a mounted form into a byte representation (HTML, a terminal
// transcript, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error)
}
