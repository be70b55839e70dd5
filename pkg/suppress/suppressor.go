package suppress

import (
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// FormatJSON is the report format that selects the JSON annotator
	FormatJSON = "JSON"
	// FormatHTML is the report format that selects the HTML annotator
	FormatHTML = "HTML"
)

// Options configure a suppression run
type Options struct {
	// SuppressionFile is the path of the suppression file. Empty disables annotation.
	SuppressionFile string
	// OutDir is the directory dependency-check wrote its reports into
	OutDir string
	// Formats are the report formats requested from dependency-check, case-insensitive
	Formats []string
}

// Result describes what a suppression run did. Fields of annotators that did
// not run are nil.
type Result struct {
	Entries int        `json:"entries" yaml:"entries"`
	JSON    *int       `json:"json,omitempty" yaml:"json,omitempty"`
	HTML    *HTMLStats `json:"html,omitempty" yaml:"html,omitempty"`
}

// Process annotates the reports in opts.OutDir according to the suppression file.
// Nothing happens if no suppression file is configured or neither JSON nor HTML
// reports were requested. The JSON annotator runs before the HTML annotator, a failure
// of one does not keep the other from running and all failures are returned together.
func Process(fs afero.Fs, opts Options) (*Result, error) {
	res := &Result{}
	if opts.SuppressionFile == "" {
		return res, nil
	}

	var hasJSON, hasHTML bool
	for _, f := range opts.Formats {
		switch strings.ToUpper(f) {
		case FormatJSON:
			hasJSON = true
		case FormatHTML:
			hasHTML = true
		}
	}
	if !hasJSON && !hasHTML {
		log.WithField("formats", opts.Formats).Debug("no JSON or HTML report requested, skipping suppression annotation")
		return res, nil
	}

	log.WithField("file", opts.SuppressionFile).Info("Processing suppression file")
	entries, err := ReadRules(fs, opts.SuppressionFile)
	if err != nil {
		return res, err
	}
	res.Entries = len(entries)

	var errs []error
	if hasJSON {
		marked, err := ProcessJSON(fs, opts.OutDir, entries)
		if err != nil {
			errs = append(errs, err)
		} else {
			res.JSON = &marked
		}
	}
	if hasHTML {
		stats, err := ProcessHTML(fs, opts.OutDir, entries)
		if err != nil {
			errs = append(errs, err)
		} else {
			res.HTML = &stats
		}
	}

	return res, errors.Join(errs...)
}
