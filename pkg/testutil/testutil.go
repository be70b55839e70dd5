package testutil

import (
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Setup describes a dependency-check output directory and the suppression file
// used to annotate it.
type Setup struct {
	OutDir       string            `yaml:"outDir"`
	Suppressions string            `yaml:"suppressions"`
	Reports      map[string]string `yaml:"reports"`
}

// SuppressionFile is the name the suppression file is materialized as
const SuppressionFile = "suppressions.xml"

// LoadFromYAML loads a report setup from a YAML file
func LoadFromYAML(in io.Reader) (*Setup, error) {
	fc, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	var res Setup
	err = yaml.Unmarshal(fc, &res)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// Materialize writes the setup into root on fs. It returns the path of the output
// directory and of the suppression file. The suppression file is only written if the
// setup has suppressions, otherwise suppressionFile is empty.
func (s Setup) Materialize(fs afero.Fs, root string) (outDir, suppressionFile string, err error) {
	outDir = filepath.Join(root, s.OutDir)
	err = fs.MkdirAll(outDir, 0755)
	if err != nil {
		return
	}

	for name, content := range s.Reports {
		err = afero.WriteFile(fs, filepath.Join(outDir, name), []byte(content), 0644)
		if err != nil {
			return
		}
	}

	if s.Suppressions == "" {
		return
	}
	suppressionFile = filepath.Join(root, SuppressionFile)
	err = afero.WriteFile(fs, suppressionFile, []byte(s.Suppressions), 0644)
	return
}
