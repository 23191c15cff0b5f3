package compile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up when no
// explicit path is given.
const DefaultConfigFile = ".templc.yaml"

// Config is the compiler configuration, read from a yaml file and
// overridable by CLI flags.
type Config struct {
	Suffix   string `yaml:"suffix"`   // template file suffix
	Package  string `yaml:"package"`  // package name of the root output directory
	Module   string `yaml:"module"`   // import path of the root output package
	Header   string `yaml:"header"`   // first-line comment of generated files
	Workers  int    `yaml:"workers"`  // parallel file compilations; 0 = NumCPU
	Progress bool   `yaml:"progress"` // show a progress bar for directory compiles
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Suffix:  ".html.tpl",
		Package: "templates",
		Module:  "templates",
		Header:  "Code generated by templc. DO NOT EDIT.",
	}
}

// LoadConfig reads a yaml configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig creates or overwrites a configuration file with the defaults.
func WriteConfig(path string) error {
	if path == "" {
		path = DefaultConfigFile
	}

	d, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
