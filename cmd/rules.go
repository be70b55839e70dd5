package cmd

import (
	"fmt"

	"github.com/disiqueira/gotree"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/atwupack/owasp-dependency-check/pkg/prettyprint"
	"github.com/atwupack/owasp-dependency-check/pkg/suppress"
)

const rulesTemplate = `{{ range $i, $e := . -}}
{{ range $e.PackageURLs -}}
{{ $i }}{{"\t"}}{{ if .IsRegex }}regex{{ else }}exact{{ end }}{{"\t"}}{{ .Pattern }}
{{ end -}}
{{ end -}}`

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Prints the packageUrl rules found in a suppression file",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	addRulesFlags(rulesCmd)
}

func addRulesFlags(cmd *cobra.Command) {
	addSuppressionFlag(cmd)
	addFormatFlags(cmd)
	cmd.Flags().Bool("tree", false, "print the rules as a tree of suppress entries")
}

func runRules(cmd *cobra.Command, args []string) error {
	entries, err := loadRules(cmd)
	if err != nil {
		return err
	}

	if asTree, _ := cmd.Flags().GetBool("tree"); asTree {
		fn, _ := cmd.Flags().GetString("suppression")
		_, err = fmt.Fprint(cmd.OutOrStdout(), rulesTree(fn, entries).Print())
		return err
	}

	w, err := getWriterFromFlags(cmd)
	if err != nil {
		return err
	}
	if w.Format == prettyprint.TemplateFormat && w.FormatString == "" {
		w.FormatString = rulesTemplate
	}
	return w.Write(entries)
}

// loadRules reads the suppression file a command was configured with. Unlike annotate,
// commands that inspect rules cannot do anything useful without one.
func loadRules(cmd *cobra.Command) ([]suppress.Entry, error) {
	fn, err := getSuppressionFile(cmd)
	if err != nil {
		return nil, err
	}
	if fn == "" {
		return nil, xerrors.Errorf("%s needs a suppression file, use --suppression or %s", cmd.Name(), EnvvarSuppressionFile)
	}
	return suppress.ReadRules(fsys, fn)
}

func rulesTree(name string, entries []suppress.Entry) gotree.Tree {
	tree := gotree.New(name)
	for i, e := range entries {
		node := tree.Add(fmt.Sprintf("suppress #%d", i))
		for _, p := range e.PackageURLs {
			kind := "exact"
			if p.IsRegex {
				kind = "regex"
			}
			node.Add(fmt.Sprintf("%s %s", kind, p.Pattern))
		}
	}
	return tree
}
