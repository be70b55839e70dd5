package suppress

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/atwupack/owasp-dependency-check/pkg/internal/jsonmap"
)

const (
	// JSONReportFile is the name of the JSON report dependency-check writes into its output directory
	JSONReportFile = "dependency-check-report.json"

	jsonIndent = "  "
)

// AnnotateJSON sets isSuppressed=true on every dependency of the report whose packages
// match the suppression entries. Dependencies that do not match are left untouched, in
// particular isSuppressed is never set to false. It returns the number of dependencies
// marked by this call.
func AnnotateJSON(report *jsonmap.OrderedMap, entries []Entry) int {
	deps, ok := report.GetArray("dependencies")
	if !ok {
		return 0
	}

	var marked int
	for _, d := range deps {
		dep, ok := d.(*jsonmap.OrderedMap)
		if !ok {
			continue
		}
		ids := dependencyPackageIDs(dep)
		if !IsSuppressed(ids, entries) {
			continue
		}

		dep.Set("isSuppressed", true)
		marked++
		if fn, ok := dep.GetString("fileName"); ok {
			log.WithField("dependency", fn).Debug("dependency is suppressed")
		}
	}
	return marked
}

// dependencyPackageIDs collects packages[].id of a dependency. Anything that is not
// shaped like the scanner's output counts as no identifier.
func dependencyPackageIDs(dep *jsonmap.OrderedMap) []string {
	pkgs, ok := dep.GetArray("packages")
	if !ok {
		return nil
	}

	res := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		pkg, ok := p.(*jsonmap.OrderedMap)
		if !ok {
			continue
		}
		id, ok := pkg.GetString("id")
		if !ok {
			continue
		}
		res = append(res, id)
	}
	return res
}

// ProcessJSON annotates the JSON report in outDir. A missing report is not an error,
// a report that is not valid JSON is.
func ProcessJSON(fs afero.Fs, outDir string, entries []Entry) (marked int, err error) {
	fn := filepath.Join(outDir, JSONReportFile)
	exists, err := afero.Exists(fs, fn)
	if err != nil {
		return 0, xerrors.Errorf("cannot check for JSON report: %w", err)
	}
	if !exists {
		log.WithField("file", fn).Warn("JSON output file not found")
		return 0, nil
	}

	fc, err := afero.ReadFile(fs, fn)
	if err != nil {
		return 0, xerrors.Errorf("cannot read JSON report %s: %w", fn, err)
	}

	var report jsonmap.OrderedMap
	err = json.Unmarshal(fc, &report)
	if err != nil {
		return 0, xerrors.Errorf("cannot parse JSON report %s: %w", fn, err)
	}

	marked = AnnotateJSON(&report, entries)

	out, err := jsonmap.MarshalJSON(&report, jsonIndent, false)
	if err != nil {
		return 0, xerrors.Errorf("cannot serialize JSON report: %w", err)
	}
	out = bytes.TrimSuffix(out, []byte("\n"))
	err = afero.WriteFile(fs, fn, out, 0644)
	if err != nil {
		return 0, xerrors.Errorf("cannot write JSON report %s: %w", fn, err)
	}

	log.WithField("file", fn).Infof("Marked %d dependencies as suppressed.", marked)
	return marked, nil
}
