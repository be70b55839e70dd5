package suppress

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

const (
	// HTMLReportFile is the name of the HTML report dependency-check writes into its output directory
	HTMLReportFile = "dependency-check-report.html"

	summaryTableStart = `<table id="summaryTable"`
	tableEnd          = "</table>"
	theadEnd          = "</thead>"
	rowEnd            = "</tr>"

	suppressedHeader = "\n                        " +
		`<th class="sortable" data-sort="string" title="Whether the dependency is suppressed">Suppressed</th>` +
		"\n                    "
	suppressedCell = "\n                        " +
		`<td data-sort-value="true" style="text-align:center"><input type="checkbox" onclick="return false;" checked></td>`
	notSuppressedCell = "\n                        " +
		`<td data-sort-value="false" style="text-align:center"><input type="checkbox" onclick="return false;"></td>`
)

var (
	tableRowRegex    = regexp.MustCompile(`(?s)(<tr[^>]*>)(.*?)(</tr>)`)
	rowPackageURLRef = regexp.MustCompile(`data-sort-value="(pkg:[^"]+)"`)
)

// HTMLStats summarises what AnnotateHTML did to the summary table
type HTMLStats struct {
	Patched    bool `json:"patched" yaml:"patched"`
	Rows       int  `json:"rows" yaml:"rows"`
	Suppressed int  `json:"suppressed" yaml:"suppressed"`
}

// AnnotateHTML adds a "Suppressed" column to the summary table of a dependency-check
// HTML report. Each data row gets a read-only checkbox which is checked if the row's
// package URL is suppressed. Markup outside the summary table is not touched. If the
// table or one of its anchors cannot be found the input is returned unchanged.
//
// Annotating the same document twice adds a second column.
func AnnotateHTML(html string, entries []Entry) string {
	res, _ := annotateHTML(html, entries)
	return res
}

func annotateHTML(html string, entries []Entry) (string, HTMLStats) {
	var stats HTMLStats

	start := strings.Index(html, summaryTableStart)
	if start == -1 {
		log.Debug("no summary table found in HTML report")
		return html, stats
	}
	end := strings.Index(html[start:], tableEnd)
	if end == -1 {
		log.Debug("summary table in HTML report is not closed")
		return html, stats
	}
	end = start + end + len(tableEnd)
	table := html[start:end]

	theadPos := strings.Index(table, theadEnd)
	if theadPos == -1 {
		log.Debug("summary table in HTML report has no header")
		return html, stats
	}
	head := table[:theadPos]
	body := table[theadPos+len(theadEnd):]

	headRowEnd := strings.LastIndex(head, rowEnd)
	if headRowEnd == -1 {
		log.Debug("summary table header has no row")
		return html, stats
	}
	head = head[:headRowEnd] + suppressedHeader + head[headRowEnd:]

	body = tableRowRegex.ReplaceAllStringFunc(body, func(row string) string {
		m := tableRowRegex.FindStringSubmatch(row)
		open, content, closing := m[1], m[2], m[3]

		suppressed := isRowSuppressed(content, entries)
		stats.Rows++
		cell := notSuppressedCell
		if suppressed {
			stats.Suppressed++
			cell = suppressedCell
		}
		return open + content + cell + closing
	})
	stats.Patched = true

	return html[:start] + head + theadEnd + body + html[end:], stats
}

// isRowSuppressed looks for the URL-encoded package URL the report stores as sort value
// of the package cell. Rows without one are never suppressed.
func isRowSuppressed(row string, entries []Entry) bool {
	m := rowPackageURLRef.FindStringSubmatch(row)
	if m == nil {
		return false
	}

	purl, err := url.PathUnescape(m[1])
	if err != nil {
		log.WithError(err).WithField("purl", m[1]).Debug("cannot decode package URL, matching it as is")
		purl = m[1]
	}
	return IsSuppressed([]string{purl}, entries)
}

// ProcessHTML annotates the HTML report in outDir. A missing report is not an error.
func ProcessHTML(fs afero.Fs, outDir string, entries []Entry) (HTMLStats, error) {
	fn := filepath.Join(outDir, HTMLReportFile)
	exists, err := afero.Exists(fs, fn)
	if err != nil {
		return HTMLStats{}, xerrors.Errorf("cannot check for HTML report: %w", err)
	}
	if !exists {
		log.WithField("file", fn).Warn("HTML output file not found")
		return HTMLStats{}, nil
	}

	fc, err := afero.ReadFile(fs, fn)
	if err != nil {
		return HTMLStats{}, xerrors.Errorf("cannot read HTML report %s: %w", fn, err)
	}

	res, stats := annotateHTML(string(fc), entries)
	err = afero.WriteFile(fs, fn, []byte(res), 0644)
	if err != nil {
		return HTMLStats{}, xerrors.Errorf("cannot write HTML report %s: %w", fn, err)
	}

	log.WithFields(log.Fields{
		"file":       fn,
		"rows":       stats.Rows,
		"suppressed": stats.Suppressed,
	}).Info("Updated HTML report with suppression status.")
	return stats, nil
}
