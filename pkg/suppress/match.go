package suppress

import (
	"regexp"

	"github.com/dlclark/regexp2"
	log "github.com/sirupsen/logrus"
)

var purlTypePrefix = regexp.MustCompile(`^pkg:[^/]+/`)

// ShortForm strips the leading "pkg:<type>/" of a package URL, leaving roughly
// name@version. Identifiers without such a prefix are returned unchanged.
func ShortForm(purl string) string {
	return purlTypePrefix.ReplaceAllLiteralString(purl, "")
}

// Matches returns true if the package URL or its short form satisfies the pattern.
// Regular expressions are not anchored implicitly, exact patterns must equal one of
// both forms. The comparison is case-sensitive and purl is expected to be decoded already.
func (p PackageURLPattern) Matches(purl string) bool {
	short := ShortForm(purl)
	if !p.IsRegex {
		return purl == p.Pattern || short == p.Pattern
	}

	re := p.re
	if re == nil {
		// patterns built as literals have not been compiled yet
		var err error
		re, err = compilePattern(p.Pattern)
		if err != nil {
			return false
		}
	}
	return matchString(re, purl) || matchString(re, short)
}

// matchString treats a match that fails at runtime as no match
func matchString(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	if err != nil {
		log.WithError(err).WithField("pattern", re.String()).Debug("cannot match packageUrl regex")
		return false
	}
	return ok
}

// Matches returns true if any of the entry's package URL patterns matches purl.
func (e Entry) Matches(purl string) bool {
	_, ok := e.firstMatch(purl)
	return ok
}

func (e Entry) firstMatch(purl string) (PackageURLPattern, bool) {
	for _, p := range e.PackageURLs {
		if p.Matches(purl) {
			return p, true
		}
	}
	return PackageURLPattern{}, false
}

// IsSuppressed returns true if at least one package id matches at least one pattern
// of at least one entry.
func IsSuppressed(packageIDs []string, entries []Entry) bool {
	_, ok := FindMatch(packageIDs, entries)
	return ok
}

// FindMatch returns the first pattern that matches any of the package ids.
func FindMatch(packageIDs []string, entries []Entry) (PackageURLPattern, bool) {
	for _, e := range entries {
		for _, id := range packageIDs {
			if p, ok := e.firstMatch(id); ok {
				return p, true
			}
		}
	}
	return PackageURLPattern{}, false
}
