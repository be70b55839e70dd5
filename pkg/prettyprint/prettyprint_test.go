package prettyprint

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type rule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	IsRegex bool   `json:"regex" yaml:"regex"`
}

func TestWrite(t *testing.T) {
	in := []rule{{Pattern: "^lodash@.*$", IsRegex: true}, {Pattern: "pkg:npm/zod@4.1.11"}}

	tests := []struct {
		Name         string
		Format       Format
		FormatString string
		Expectation  string
		Error        bool
	}{
		{
			Name:   "json",
			Format: JSONFormat,
			Expectation: `[
  {
    "pattern": "^lodash@.*$",
    "regex": true
  },
  {
    "pattern": "pkg:npm/zod@4.1.11",
    "regex": false
  }
]
`,
		},
		{
			Name:   "yaml",
			Format: YAMLFormat,
			Expectation: `- pattern: ^lodash@.*$
  regex: true
- pattern: pkg:npm/zod@4.1.11
  regex: false
`,
		},
		{
			Name:         "template",
			Format:       TemplateFormat,
			FormatString: "{{ range . }}{{ .Pattern }}\t{{ .IsRegex }}\n{{ end }}",
			Expectation:  "^lodash@.*$         true\npkg:npm/zod@4.1.11  false\n",
		},
		{
			Name:         "invalid template",
			Format:       TemplateFormat,
			FormatString: "{{ range . }",
			Error:        true,
		},
		{
			Name:   "unknown",
			Format: Format("xml"),
			Error:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			var buf bytes.Buffer
			w := &Writer{Out: &buf, Format: test.Format, FormatString: test.FormatString}
			err := w.Write(in)
			if (err != nil) != test.Error {
				t.Fatalf("Write() error = %v, expected error: %v", err, test.Error)
			}
			if test.Error {
				return
			}
			if diff := cmp.Diff(test.Expectation, buf.String()); diff != "" {
				t.Errorf("Write() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		act, err := ParseFormat(string(f))
		if err != nil || act != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, act, err)
		}
	}
	if _, err := ParseFormat("XML"); err == nil {
		t.Errorf("expected an error for an unknown format")
	}
}
