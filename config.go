package migrator

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/sqldef/migrator/conventions"
	"github.com/sqldef/migrator/generator"
	"gopkg.in/yaml.v2"
)

type GeneratorConfig struct {
	DefaultSchema       string
	Compatibility       generator.CompatibilityMode
	MaxIdentifierLength int
	// Concurrency bounds parallel generation: 0 is sequential, negative is unbounded.
	Concurrency      int
	WorkingDirectory string
}

type generatorConfigDoc struct {
	DefaultSchema       *string `yaml:"default_schema"`
	Compatibility       *string `yaml:"compatibility"`
	MaxIdentifierLength *int    `yaml:"max_identifier_length"`
	Concurrency         *int    `yaml:"concurrency"`
	WorkingDirectory    *string `yaml:"working_directory"`
}

func ParseGeneratorConfig(configFile string) (GeneratorConfig, error) {
	if configFile == "" {
		return GeneratorConfig{}, nil
	}

	buf, err := os.ReadFile(configFile)
	if err != nil {
		return GeneratorConfig{}, err
	}
	config, err := ParseGeneratorConfigString(string(buf))
	if err != nil {
		return GeneratorConfig{}, fmt.Errorf("%s: %w", configFile, err)
	}
	return config, nil
}

func ParseGeneratorConfigString(yamlString string) (GeneratorConfig, error) {
	return GeneratorConfig{}.merge(yamlString)
}

// MergeGeneratorConfigs applies YAML documents in order, later keys winning.
func MergeGeneratorConfigs(base GeneratorConfig, yamlStrings ...string) (GeneratorConfig, error) {
	config := base
	for _, s := range yamlStrings {
		var err error
		if config, err = config.merge(s); err != nil {
			return GeneratorConfig{}, err
		}
	}
	return config, nil
}

func (c GeneratorConfig) merge(yamlString string) (GeneratorConfig, error) {
	var doc generatorConfigDoc
	if err := yaml.UnmarshalStrict([]byte(yamlString), &doc); err != nil {
		return GeneratorConfig{}, err
	}

	if doc.DefaultSchema != nil {
		c.DefaultSchema = *doc.DefaultSchema
	}
	if doc.Compatibility != nil {
		mode, err := generator.ParseCompatibilityMode(*doc.Compatibility)
		if err != nil {
			return GeneratorConfig{}, err
		}
		c.Compatibility = mode
	}
	if doc.MaxIdentifierLength != nil {
		if *doc.MaxIdentifierLength < 0 {
			return GeneratorConfig{}, fmt.Errorf("max_identifier_length must not be negative, got %d", *doc.MaxIdentifierLength)
		}
		c.MaxIdentifierLength = *doc.MaxIdentifierLength
	}
	if doc.Concurrency != nil {
		c.Concurrency = *doc.Concurrency
	}
	if doc.WorkingDirectory != nil {
		c.WorkingDirectory = *doc.WorkingDirectory
	}
	return c, nil
}

func (c GeneratorConfig) GeneratorOptions() generator.Options {
	return generator.Options{Compatibility: c.Compatibility}
}

func (c GeneratorConfig) Conventions(resources fs.FS) *conventions.Set {
	return &conventions.Set{
		DefaultSchema:       c.DefaultSchema,
		MaxIdentifierLength: c.MaxIdentifierLength,
		WorkingDirectory:    c.WorkingDirectory,
		Resources:           resources,
	}
}
