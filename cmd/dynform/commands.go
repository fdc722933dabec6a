package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dynform/internal/loader"
	"github.com/goliatone/go-dynform/pkg/form"
	"github.com/goliatone/go-dynform/pkg/orchestrator"
	"github.com/goliatone/go-dynform/pkg/render"
	"github.com/goliatone/go-dynform/pkg/renderers/tui"
	"github.com/goliatone/go-dynform/pkg/schema"
	"github.com/goliatone/go-dynform/pkg/sink/httpsink"
)

func (a *app) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		orchestrator.WithLogger(a.log()),
		orchestrator.WithLoader(loader.New(schema.LoaderOptions{
			AllowHTTP:      true,
			RequestTimeout: a.timeout,
		})),
	)
}

func newFieldsCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Print the field descriptors derived from a schema and target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := in.build(cmd.Context(), a)
			if err != nil {
				return err
			}
			descriptors := f.Descriptors()

			switch strings.ToLower(format) {
			case "json":
				out, err := json.MarshalIndent(descriptors, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			case "yaml", "":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(descriptors); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a target document against a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := in.build(cmd.Context(), a)
			if err != nil {
				return err
			}

			err = f.Validate()
			var invalid *form.ValidationError
			if !errors.As(err, &invalid) {
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return err
			}

			names := make([]string, 0, len(invalid.Fields))
			for name := range invalid.Fields {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				for _, message := range render.ErrorMessages(invalid.Fields[name], render.RenderOptions{}) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, message)
				}
			}
			return invalid
		},
	}
	in.register(cmd)
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		in        inputFlags
		output    string
		action    string
		method    string
		csrf      string
		themeName string
		variant   string
		only      []string
		exclude   []string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, gen, err := in.build(cmd.Context(), a)
			if err != nil {
				return err
			}

			opts := render.RenderOptions{
				Action: action,
				Method: method,
				Subset: render.FieldSubset{Only: only, Exclude: exclude},
			}
			if csrf != "" {
				opts = opts.WithHidden(render.CSRFToken("_csrf", csrf))
			}
			if id := f.Target().ID; id != "" {
				opts = opts.WithHidden(render.TargetIDField(id))
			}
			if themeName != "" {
				opts.Theme = &theme.RendererConfig{Theme: themeName, Variant: variant}
			}

			out, err := gen.Render(cmd.Context(), f, "html", opts)
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, out, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				a.log().Info("form written", zap.String("path", output))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	in.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	flags.StringVar(&action, "action", "", "Form action URL")
	flags.StringVar(&method, "method", "POST", "Form method; non GET/POST methods use a _method override")
	flags.StringVar(&csrf, "csrf", "", "CSRF token emitted as a hidden field")
	flags.StringVar(&themeName, "theme", "", "Theme name exposed to the template")
	flags.StringVar(&variant, "variant", "", "Theme variant")
	flags.StringSliceVar(&only, "only", nil, "Render only these fields (name is always kept)")
	flags.StringSliceVar(&exclude, "exclude", nil, "Fields to leave out")
	return cmd
}

func newFillCmd(a *app) *cobra.Command {
	var (
		in        inputFlags
		format    string
		submitURL string
		method    string
		headers   []string
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively and print the resulting values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := tui.ParseOutputFormat(format)
			if err != nil {
				return err
			}

			var formOpts []form.Option
			if submitURL != "" {
				sink, err := a.httpSink(submitURL, method, headers)
				if err != nil {
					return err
				}
				formOpts = append(formOpts,
					form.WithSink(sink),
					form.WithNotifier(form.LogNotifier(a.log())),
				)
			}

			f, _, err := in.build(cmd.Context(), a, formOpts...)
			if err != nil {
				return err
			}

			renderer, err := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithOutputFormat(outputFormat),
				tui.WithSubmit(submitURL != ""),
				tui.WithLogger(a.log()),
			)
			if err != nil {
				return err
			}
			out, err := renderer.Render(cmd.Context(), f, render.RenderOptions{})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	in.register(cmd)
	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	flags.StringVar(&submitURL, "submit-url", "", "Submit the values to this endpoint after filling")
	flags.StringVar(&method, "submit-method", http.MethodPost, "HTTP method used with --submit-url")
	flags.StringArrayVarP(&headers, "header", "H", nil, "Extra submission header (Key: Value, repeatable)")
	return cmd
}

func (a *app) httpSink(url, method string, headers []string) (*httpsink.Sink, error) {
	opts := []httpsink.Option{
		httpsink.WithMethod(method),
		httpsink.WithHTTPClient(&http.Client{Timeout: a.timeout}),
		httpsink.WithLogger(a.log()),
	}
	for _, header := range headers {
		key, value, ok := strings.Cut(header, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q, expected Key: Value", header)
		}
		opts = append(opts, httpsink.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}
	return httpsink.New(url, opts...)
}
