package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atwupack/owasp-dependency-check/pkg/suppress"
)

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Marks suppressed dependencies in the JSON and HTML reports of a dependency-check run",
	Long: `Reads the suppression file once and annotates the reports found in the output directory:
dependency-check-report.json gets "isSuppressed": true on matching dependencies and
dependency-check-report.html gets a "Suppressed" column in its summary table.

Nothing happens without a suppression file or if neither JSON nor HTML reports were generated.`,
	Args: cobra.NoArgs,
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	addAnnotateFlags(annotateCmd)
}

func addAnnotateFlags(cmd *cobra.Command) {
	outDir := os.Getenv(EnvvarOutDir)
	if outDir == "" {
		outDir = defaultOutDir
	}

	cmd.Flags().StringP("out", "o", outDir, "the directory the generated reports were written into")
	cmd.Flags().StringSliceP("format", "f", defaultFormatsFromEnv(), "the formats of the generated reports")
	cmd.Flags().Bool("ignore-errors", false, "always exit with code 0")
	addSuppressionFlag(cmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	ignoreErrors, _ := cmd.Flags().GetBool("ignore-errors")
	err := annotate(cmd)
	if err != nil && ignoreErrors {
		log.WithError(err).Error("cannot annotate reports")
		return nil
	}
	return err
}

func annotate(cmd *cobra.Command) error {
	suppressionFile, err := getSuppressionFile(cmd)
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out")
	formats, _ := cmd.Flags().GetStringSlice("format")

	if suppressionFile == "" {
		log.Debug("no suppression file configured, nothing to annotate")
	}

	res, err := suppress.Process(fsys, suppress.Options{
		SuppressionFile: suppressionFile,
		OutDir:          outDir,
		Formats:         formats,
	})
	if err != nil {
		return err
	}

	fields := log.Fields{"entries": res.Entries}
	if res.JSON != nil {
		fields["jsonSuppressed"] = *res.JSON
	}
	if res.HTML != nil {
		fields["htmlRows"] = res.HTML.Rows
		fields["htmlSuppressed"] = res.HTML.Suppressed
	}
	log.WithFields(fields).Debug("annotation done")
	return nil
}
