package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/segmentio/textio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/atwupack/owasp-dependency-check/pkg/prettyprint"
)

const (
	// EnvvarOutDir names the environment variable we check for the report directory
	EnvvarOutDir = "ODC_OUT_DIR"

	// EnvvarFormats names the environment variable with a comma separated list of report formats
	EnvvarFormats = "ODC_FORMATS"

	// EnvvarSuppressionFile names the environment variable we check for the suppression file
	EnvvarSuppressionFile = "ODC_SUPPRESSION_FILE"
)

const (
	defaultOutDir = "dependency-check-reports"
	logPrefix     = "[owasp-dependency-check] "
)

var defaultFormats = []string{"HTML", "JSON"}

var (
	// version is set during the build using ldflags
	version string = "unknown"

	verbose bool

	// fsys is the filesystem reports and suppression files are read from
	fsys afero.Fs = afero.NewOsFs()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "owasp-dependency-check",
	Short: "Marks suppressed dependencies in OWASP Dependency-Check reports",
	Long: color.Render(`<light_yellow>owasp-dependency-check annotates the reports of an OWASP Dependency-Check scan</> with the
entries of a suppression file, independent of the suppression handling of the scanner itself.

  JSON report:  every dependency with a package matching a <packageUrl> of the suppression file
                gets "isSuppressed": true.
  HTML report:  the summary table gets a "Suppressed" column with a read-only checkbox per dependency.

<white>Configuration</>
The following environment variables have an effect on owasp-dependency-check:
           <light_blue>ODC_OUT_DIR</>  Directory dependency-check wrote its reports into. Can also be set using --out.
           <light_blue>ODC_FORMATS</>  Comma separated list of report formats that were generated. Can also be set using --format.
  <light_blue>ODC_SUPPRESSION_FILE</>  Path to the suppression XML file. Can also be set using --suppression.
`),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	logOut := textio.NewPrefixWriter(os.Stderr, logPrefix)
	log.SetOutput(logOut)
	defer logOut.Flush()

	if err := rootCmd.Execute(); err != nil {
		logOut.Flush()
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enables verbose logging")
}

func addSuppressionFlag(cmd *cobra.Command) {
	cmd.Flags().String("suppression", os.Getenv(EnvvarSuppressionFile), "path to a suppression XML file")
}

// getSuppressionFile returns the absolute path of the suppression file, or an empty string
// if none was configured. A configured file that does not exist is an error.
func getSuppressionFile(cmd *cobra.Command) (string, error) {
	fn, _ := cmd.Flags().GetString("suppression")
	if fn == "" {
		return "", nil
	}

	abs, err := filepath.Abs(fn)
	if err != nil {
		return "", xerrors.Errorf("invalid suppression file path %s: %w", fn, err)
	}
	stat, err := fsys.Stat(abs)
	if err != nil || stat.IsDir() {
		return "", xerrors.Errorf("the file \"%s\" does not exist", fn)
	}
	return abs, nil
}

func defaultFormatsFromEnv() []string {
	env := os.Getenv(EnvvarFormats)
	if env == "" {
		return defaultFormats
	}

	var res []string
	for _, f := range strings.Split(env, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		res = append(res, f)
	}
	return res
}

func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-format", string(prettyprint.TemplateFormat), "the output format (template, json, yaml)")
	cmd.Flags().String("format-string", "", "the template to use with --output-format template")
}

func getWriterFromFlags(cmd *cobra.Command) (*prettyprint.Writer, error) {
	f, _ := cmd.Flags().GetString("output-format")
	format, err := prettyprint.ParseFormat(f)
	if err != nil {
		return nil, err
	}
	formatString, _ := cmd.Flags().GetString("format-string")

	return &prettyprint.Writer{
		Out:          cmd.OutOrStdout(),
		Format:       format,
		FormatString: formatString,
	}, nil
}
