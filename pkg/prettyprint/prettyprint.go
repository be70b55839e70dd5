// Package prettyprint renders command results as a tab-aligned template, JSON or YAML.
package prettyprint

import (
	"encoding/json"
	"io"
	"text/tabwriter"
	"text/template"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Format is an output format for pretty printing
type Format string

const (
	// TemplateFormat executes a text/template, tab separated cells are aligned
	TemplateFormat Format = "template"
	// JSONFormat produces indented JSON without HTML escaping
	JSONFormat Format = "json"
	// YAMLFormat produces YAML with two-space indentation
	YAMLFormat Format = "yaml"
)

// Formats lists all supported output formats
var Formats = []Format{TemplateFormat, JSONFormat, YAMLFormat}

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", xerrors.Errorf("unknown output format %q, supported are %v", s, Formats)
}

// Writer renders values in one format. FormatString is only used by TemplateFormat.
type Writer struct {
	Out          io.Writer
	Format       Format
	FormatString string
}

// Write renders in to the writer's output
func (w *Writer) Write(in interface{}) error {
	switch w.Format {
	case TemplateFormat:
		return w.writeTemplate(in)
	case JSONFormat:
		enc := json.NewEncoder(w.Out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	case YAMLFormat:
		enc := yaml.NewEncoder(w.Out)
		enc.SetIndent(2)
		if err := enc.Encode(in); err != nil {
			return err
		}
		return enc.Close()
	}
	return xerrors.Errorf("unknown output format %q", w.Format)
}

func (w *Writer) writeTemplate(in interface{}) error {
	tpl, err := template.New("output").Parse(w.FormatString)
	if err != nil {
		return xerrors.Errorf("invalid format string: %w", err)
	}

	tw := tabwriter.NewWriter(w.Out, 0, 0, 2, ' ', 0)
	if err := tpl.Execute(tw, in); err != nil {
		return err
	}
	return tw.Flush()
}
