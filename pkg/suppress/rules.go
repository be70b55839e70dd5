// Package suppress marks dependencies in OWASP Dependency-Check reports that are
// covered by a suppression file, independent of the scanner's own suppression
// handling. It understands the <packageUrl> part of the suppression dialect and
// annotates the JSON and HTML reports in place.
package suppress

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

var (
	suppressBlockRegex = regexp.MustCompile(`(?s)<suppress(?:\s[^>]*)?>.*?</suppress>`)
	packageURLRegex    = regexp.MustCompile(`(?s)<packageUrl([^>]*)>(.*?)</packageUrl>`)
	regexAttrRegex     = regexp.MustCompile(`(?i)regex\s*=\s*"true"`)
)

// PackageURLPattern is a single <packageUrl> element of a suppression
type PackageURLPattern struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	IsRegex bool   `json:"regex" yaml:"regex"`

	re *regexp2.Regexp
}

// NewPackageURLPattern creates a pattern and compiles it if it is a regular expression.
// Patterns use ECMAScript syntax, lookarounds and backreferences included. A regular
// expression that does not compile is kept, but never matches anything.
func NewPackageURLPattern(pattern string, isRegex bool) PackageURLPattern {
	res := PackageURLPattern{Pattern: pattern, IsRegex: isRegex}
	if !isRegex {
		return res
	}

	re, err := compilePattern(pattern)
	if err != nil {
		log.WithError(err).WithField("pattern", pattern).Warn("invalid packageUrl regex, it will never match")
		return res
	}
	res.re = re
	return res
}

func compilePattern(pattern string) (*regexp2.Regexp, error) {
	return regexp2.Compile(pattern, regexp2.ECMAScript)
}

// Entry is a single <suppress> block. Only blocks that carry at least one
// packageUrl become entries.
type Entry struct {
	PackageURLs []PackageURLPattern `json:"packageUrls" yaml:"packageUrls"`
}

// ParseRules extracts the suppression entries from the content of a suppression file.
// The content does not have to be well-formed XML: every <suppress> block is scanned
// for <packageUrl> elements and everything else is ignored. ParseRules never fails,
// input without usable blocks yields an empty result.
func ParseRules(xml string) []Entry {
	res := make([]Entry, 0)
	for _, block := range suppressBlockRegex.FindAllString(xml, -1) {
		var urls []PackageURLPattern
		for _, m := range packageURLRegex.FindAllStringSubmatch(block, -1) {
			attrs, pattern := m[1], strings.TrimSpace(m[2])
			urls = append(urls, NewPackageURLPattern(pattern, regexAttrRegex.MatchString(attrs)))
		}
		if len(urls) == 0 {
			continue
		}
		res = append(res, Entry{PackageURLs: urls})
	}

	log.WithField("entries", len(res)).Debug("parsed suppression rules")
	return res
}

// ReadRules reads a suppression file and parses it. Only I/O problems are reported
// as errors, the content itself is parsed tolerantly.
func ReadRules(fs afero.Fs, fn string) ([]Entry, error) {
	fc, err := afero.ReadFile(fs, fn)
	if err != nil {
		return nil, xerrors.Errorf("cannot read suppression file %s: %w", fn, err)
	}
	return ParseRules(string(fc)), nil
}
