// Package config loads and validates the .release.yaml project
// configuration. Validation is structural and runs at startup, before
// any subprocess: a release must fail on a missing secret mapping long
// before it touches git or the network.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/all4-dev/gradle-release-plugin/pkg/publish"
	"github.com/all4-dev/gradle-release-plugin/pkg/vault"
)

// Filename is the project configuration file looked up in the root.
const Filename = ".release.yaml"

// Defaults for every optional field; a repository with no .release.yaml
// at all is still releasable to the local destination.
const (
	DefaultDescriptor     = "build.gradle.kts"
	DefaultGradle         = "./gradlew"
	DefaultRemote         = "origin"
	DefaultTagPrefix      = "v"
	DefaultChangelogFile  = "CHANGELOG.md"
	DefaultLocalCache     = ".m2/repository" // relative to $HOME
	DefaultPortalBaseURL  = "https://plugins.gradle.org/plugin"
	DefaultCentralBaseURL = "https://repo1.maven.org/maven2"
)

// Config is the .release.yaml format.
type Config struct {
	Descriptor string          `yaml:"descriptor"`
	Gradle     string          `yaml:"gradle"`
	Remote     string          `yaml:"remote"`
	TagPrefix  string          `yaml:"tagPrefix"`
	Artifact   string          `yaml:"artifact"` // artifactId for report paths
	Changelog  ChangelogConfig `yaml:"changelog"`
	Commit     CommitConfig    `yaml:"commit"`
	URLs       URLConfig       `yaml:"urls"`

	// Secrets maps destination name -> env var name -> vault reference.
	Secrets map[string]map[string]string `yaml:"secrets"`

	// Set by the loader, not from YAML.
	Dir string `yaml:"-"`
}

// ChangelogConfig configures changelog generation.
type ChangelogConfig struct {
	File string `yaml:"file"`
}

// CommitConfig configures the release commit.
type CommitConfig struct {
	// ExtraFiles are glob patterns (doublestar syntax) for additional
	// files staged with the release commit, e.g. nested
	// gradle.properties carrying version references.
	ExtraFiles []string `yaml:"extraFiles"`
}

// URLConfig overrides the destination location conventions used in the
// publish report.
type URLConfig struct {
	LocalCache string `yaml:"localCache"` // relative to $HOME
	Portal     string `yaml:"portal"`
	Central    string `yaml:"central"`
}

// Load reads dir/.release.yaml, applies defaults and validates. A
// missing file yields a pure-defaults Config with no secret mappings.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	cfg.Dir = absDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Descriptor == "" {
		c.Descriptor = DefaultDescriptor
	}
	if c.Gradle == "" {
		c.Gradle = DefaultGradle
	}
	if c.Remote == "" {
		c.Remote = DefaultRemote
	}
	if c.TagPrefix == "" {
		c.TagPrefix = DefaultTagPrefix
	}
	if c.Artifact == "" {
		c.Artifact = filepath.Base(c.Dir)
	}
	if c.Changelog.File == "" {
		c.Changelog.File = DefaultChangelogFile
	}
	if c.URLs.LocalCache == "" {
		c.URLs.LocalCache = DefaultLocalCache
	}
	if c.URLs.Portal == "" {
		c.URLs.Portal = DefaultPortalBaseURL
	}
	if c.URLs.Central == "" {
		c.URLs.Central = DefaultCentralBaseURL
	}
}

// Validate rejects unknown destinations and malformed references. It
// does not require mappings to exist: a repository may never publish to
// a secret-bearing destination. HasSecretsFor is the hard gate the
// workflow applies per destination before resolving anything.
func (c *Config) Validate() error {
	for destName, mapping := range c.Secrets {
		if _, ok := publish.ByName(destName); !ok {
			return fmt.Errorf("unknown destination %q in secrets (valid: local, portal, central)", destName)
		}
		for key, ref := range mapping {
			if key == "" {
				return fmt.Errorf("destination %q: empty secret key", destName)
			}
			if err := vault.ValidateRef(ref); err != nil {
				return fmt.Errorf("destination %q, key %s: %w", destName, key, err)
			}
		}
	}
	return nil
}

// HasSecretsFor verifies every required secret of dest has a mapping
// entry, naming the first missing key.
func (c *Config) HasSecretsFor(dest publish.Destination) error {
	mapping := c.Secrets[dest.Name]
	for _, key := range dest.RequiredSecrets {
		if _, ok := mapping[key]; !ok {
			return fmt.Errorf("no secret reference configured for %s (destination %q); add it under secrets.%s in %s",
				key, dest.Name, dest.Name, Filename)
		}
	}
	return nil
}

// DescriptorPath returns the absolute path of the build descriptor.
func (c *Config) DescriptorPath() string {
	return filepath.Join(c.Dir, c.Descriptor)
}
