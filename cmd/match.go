package cmd

import (
	"net/url"

	"github.com/package-url/packageurl-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atwupack/owasp-dependency-check/pkg/prettyprint"
	"github.com/atwupack/owasp-dependency-check/pkg/suppress"
)

const matchTemplate = `PURL{{"\t"}}SHORT FORM{{"\t"}}SUPPRESSED{{"\t"}}PATTERN
{{ range . -}}
{{ .PURL }}{{"\t"}}{{ .ShortForm }}{{"\t"}}{{ if .Suppressed }}yes{{ else }}no{{ end }}{{"\t"}}{{ .Pattern }}
{{ end -}}`

// matchResult describes how a single package URL fares against the suppression file
type matchResult struct {
	PURL       string `json:"purl" yaml:"purl"`
	ShortForm  string `json:"shortForm" yaml:"shortForm"`
	Valid      bool   `json:"valid" yaml:"valid"`
	Suppressed bool   `json:"suppressed" yaml:"suppressed"`
	Pattern    string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <purl> [purl...]",
	Short: "Checks which package URLs a suppression file suppresses",
	Long: `Evaluates package URLs against the suppression file the same way the reports are annotated.
URL-encoded package URLs, as found in the HTML report, are decoded first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	addMatchFlags(matchCmd)
}

func addMatchFlags(cmd *cobra.Command) {
	addSuppressionFlag(cmd)
	addFormatFlags(cmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	entries, err := loadRules(cmd)
	if err != nil {
		return err
	}

	res := make([]matchResult, 0, len(args))
	for _, arg := range args {
		res = append(res, matchPURL(arg, entries))
	}

	w, err := getWriterFromFlags(cmd)
	if err != nil {
		return err
	}
	if w.Format == prettyprint.TemplateFormat && w.FormatString == "" {
		w.FormatString = matchTemplate
	}
	return w.Write(res)
}

func matchPURL(arg string, entries []suppress.Entry) matchResult {
	purl, err := url.PathUnescape(arg)
	if err != nil {
		log.WithError(err).WithField("purl", arg).Debug("cannot decode package URL, matching it as is")
		purl = arg
	}

	res := matchResult{
		PURL:      purl,
		ShortForm: suppress.ShortForm(purl),
		Valid:     true,
	}
	if _, err := packageurl.FromString(purl); err != nil {
		log.WithError(err).WithField("purl", purl).Warn("not a valid package URL")
		res.Valid = false
	}

	if p, ok := suppress.FindMatch([]string{purl}, entries); ok {
		res.Suppressed = true
		res.Pattern = p.Pattern
	}
	return res
}
