package form

import (
	"context"
	"fmt"
	"io"

	"github.com/cristalhq/base64"

	"github.com/goliatone/go-dynform/pkg/schema"
)

// SetFile reads r in the background, base64 encodes its content and commits
// the result as the value of a file field. The channel yields the outcome
// once and is then closed.
func (f *Form) SetFile(ctx context.Context, name string, r io.Reader) <-chan error {
	out := make(chan error, 1)

	d, ok := f.store.Descriptor(name)
	switch {
	case !ok:
		out <- fmt.Errorf("%w: %q", ErrUnknownField, name)
		close(out)
		return out
	case d.Type != schema.FieldTypeFile:
		out <- fmt.Errorf("%w: %q", ErrNotFileField, name)
		close(out)
		return out
	}

	go func() {
		defer close(out)
		data, err := io.ReadAll(r)
		if err != nil {
			out <- fmt.Errorf("form: read file for %q: %w", name, err)
			return
		}
		if err := ctx.Err(); err != nil {
			out <- err
			return
		}
		_, err = f.store.Update(name, EncodeFile(data))
		out <- err
	}()
	return out
}

// EncodeFile renders file content the way file fields store it.
func EncodeFile(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
