package migrator

import (
	"os"
)

// MigrationFlags are the go-flags options shared by every command. Embed it
// in the command's option struct and call Init before parsing.
type MigrationFlags struct {
	File    string `long:"file" description:"Read migrations YAML from the file, rather than stdin" value-name:"migrations_file" default:"-"`
	DryRun  bool   `long:"dry-run" description:"Don't run the statements but just show them"`
	Down    bool   `long:"down" description:"Revert migrations, deriving down steps when they are not written"`
	Target  int64  `long:"target" description:"Apply up to this version, or revert the versions above it" value-name:"version"`
	Check   bool   `long:"check" description:"Only list the features the migrations need that the database lacks"`
	Debug   bool   `long:"debug" description:"Dump the decoded migrations to stderr"`
	Help    bool   `long:"help" description:"Show this help"`
	Version bool   `long:"version" description:"Show this version"`

	// Custom handlers for config flags to preserve order
	Config       func(string) error `long:"config" description:"YAML file to specify: default_schema, compatibility, max_identifier_length, concurrency, working_directory (can be specified multiple times)"`
	ConfigInline func(string)       `long:"config-inline" description:"YAML object with the same keys as --config (can be specified multiple times)"`

	configs []string
}

func (f *MigrationFlags) Init() {
	f.Config = func(path string) error {
		buf, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		f.configs = append(f.configs, string(buf))
		return nil
	}
	f.ConfigInline = func(yaml string) {
		f.configs = append(f.configs, yaml)
	}
}

// Options merges the --config and --config-inline documents in the order given.
func (f *MigrationFlags) Options() (*Options, error) {
	config, err := MergeGeneratorConfigs(GeneratorConfig{}, f.configs...)
	if err != nil {
		return nil, err
	}
	return &Options{
		MigrationFile: f.File,
		DryRun:        f.DryRun,
		Down:          f.Down,
		Target:        f.Target,
		Check:         f.Check,
		Debug:         f.Debug,
		Config:        config,
	}, nil
}
