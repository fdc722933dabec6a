package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-dynform/pkg/widgets"
)

// RenderOptions describe per-request data that renderers can use without
// touching form state.
type RenderOptions struct {
	// Action is the URL a rendered HTML form posts to.
	Action string
	// Method overrides the submission method, POST by default.
	Method string
	// Widgets overrides widget selection. Nil uses the built-in widgets.
	Widgets *widgets.Registry
	// Theme carries resolved go-theme tokens and CSS variables.
	Theme *theme.RendererConfig
	// Hidden adds hidden inputs such as CSRF tokens.
	Hidden map[string]string
	// Errors surfaces server-side validation feedback keyed by field name or
	// JSON pointer. Unknown keys become form-level errors.
	Errors map[string][]string
	// Subset limits rendering to some fields.
	Subset FieldSubset
	// Locale and Translator localise labels, messages and button text.
	Locale     string
	Translator Translator
	// OnMissing decides the text used when a translation is missing.
	OnMissing MissingTranslationHandler
}
