package render

import (
	"errors"
	"strings"
)

// Translation keys looked up by renderers. Field labels use
// "fields.<name>.label".
const (
	KeySubmit        = "form.submit"
	KeySubmitting    = "form.submitting"
	KeyRequired      = "validation.required"
	KeyMinLength     = "validation.minLength"
	KeyEmail         = "validation.email"
	KeyNumber        = "validation.number"
	keyActionPrefix  = "actions."
	keyFieldPrefix   = "fields."
	keyFieldLabelSfx = ".label"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls fn.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text to use when key could not be
// translated. fallback is the untranslated default.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

// Localize translates key with the options' translator, falling back to
// fallback through OnMissing.
func (o RenderOptions) Localize(key, fallback string) string {
	onMissing := o.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if o.Translator == nil {
		return onMissing(o.Locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := o.Translator.Translate(o.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(o.Locale, key, fallback, err)
	}
	return msg
}

// FieldLabelKey is the translation key of a field label.
func FieldLabelKey(field string) string {
	return keyFieldPrefix + field + keyFieldLabelSfx
}

// ActionLabelKey is the translation key of an action button.
func ActionLabelKey(action string) string {
	return keyActionPrefix + action
}
