// Package html renders a dynamic form as server-side HTML through pongo2
// templates.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/render"
	rendertemplate "github.com/goliatone/go-dynform/pkg/render/template"
	"github.com/goliatone/go-dynform/pkg/render/template/pongo"
	"github.com/goliatone/go-dynform/pkg/widgets"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	logger           *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain form.tpl at its root.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer is the HTML render.Renderer.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	logger    *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer, logger: cfg.logger}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the form as it is right now: inline errors for fields with
// errors, a save button disabled while the form is invalid or submitting and
// action buttons only for persisted targets.
func (r *Renderer) Render(_ context.Context, f *form.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	view, err := render.BuildView(f, options)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	page := buildPage(view)

	result, err := r.templates.RenderTemplate("form", map[string]any{
		"form":  page,
		"theme": buildThemeContext(options.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	r.logger.Debug("form rendered",
		zap.Int("fields", len(page.Fields)),
		zap.Bool("submitEnabled", page.SubmitEnabled),
	)
	return []byte(result), nil
}

type pageField struct {
	Name        string   `json:"name"`
	Widget      string   `json:"widget"`
	InputType   string   `json:"inputType"`
	LabelHTML   string   `json:"labelHtml"`
	Placeholder string   `json:"placeholder,omitempty"`
	Display     string   `json:"display,omitempty"`
	Checked     bool     `json:"checked"`
	Required    bool     `json:"required"`
	MinLength   string   `json:"minLength,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

type page struct {
	render.FormView
	Fields []pageField `json:"fields"`
}

// buildPage converts a FormView into template data. Browsers only submit GET
// and POST, other verbs travel as a hidden _method input.
func buildPage(view render.FormView) page {
	out := page{FormView: view}
	if view.Method != http.MethodGet && view.Method != http.MethodPost {
		out.Hidden = append(out.Hidden, render.Hidden("_method", view.Method))
		sort.Slice(out.Hidden, func(i, j int) bool { return out.Hidden[i].Name < out.Hidden[j].Name })
		out.Method = http.MethodPost
	}

	out.Fields = make([]pageField, 0, len(view.Fields))
	for _, field := range view.Fields {
		pf := pageField{
			Name:        field.Name,
			Widget:      field.Widget,
			InputType:   inputType(field.Widget),
			LabelHTML:   sanitizeLabel(field.Label),
			Placeholder: field.Placeholder,
			Required:    field.Required,
			Errors:      field.Errors,
		}
		if field.MinLength > 0 {
			pf.MinLength = strconv.Itoa(field.MinLength)
		}
		switch field.Widget {
		case widgets.WidgetCheckbox:
			pf.Checked = truthy(field.Value)
		case widgets.WidgetPasswordInput, widgets.WidgetFileInput:
			// secrets and file payloads are never echoed back
		default:
			pf.Display = displayValue(field.Value)
		}
		out.Fields = append(out.Fields, pf)
	}
	return out
}

func inputType(widget string) string {
	switch widget {
	case widgets.WidgetNumberInput:
		return "number"
	case widgets.WidgetPasswordInput:
		return "password"
	case widgets.WidgetEmailInput:
		return "email"
	case widgets.WidgetFileInput:
		return "file"
	default:
		return "text"
	}
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

type themeContext struct {
	Name         string `json:"name,omitempty"`
	Variant      string `json:"variant,omitempty"`
	CSSVarsStyle string `json:"cssVarsStyle,omitempty"`
	Stylesheet   string `json:"stylesheet,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	ctx := themeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL(StylesheetAsset)
	}
	return ctx
}

var cssVarName = regexp.MustCompile(`^--[A-Za-z0-9_-]+$`)

// cssVarsStyle renders theme variables as a :root block. Entries whose name is
// not a custom property or whose value could end the declaration or the
// <style> element are skipped.
func cssVarsStyle(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key, value := range vars {
		if !cssVarName.MatchString(key) || !safeCSSValue(value) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		fmt.Fprintf(&b, " %s: %s;", key, strings.TrimSpace(vars[key]))
	}
	b.WriteString(" }")
	return b.String()
}

func safeCSSValue(value string) bool {
	return strings.TrimSpace(value) != "" && !strings.ContainsAny(value, ";{}<>\\\"'`\r\n")
}
