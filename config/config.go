package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/ohsu-comp-bio/yatamana/logger"
)

// Config describes configuration for yatamana.
type Config struct {
	// Manager selects the backend: local, sge (or gridengine) or slurm.
	Manager string `json:"manager"`
	// SubmitCommand overrides the backend's submission command.
	SubmitCommand string `json:"submit_command"`
	// Salt is substituted for %(salt)s. A random token is used when empty.
	Salt string `json:"salt"`
	// SharedTmp is the base directory of runner scripts and logs. It must
	// be visible from the compute nodes.
	SharedTmp string `json:"shared_tmp"`
	DryRun    bool   `json:"dry_run"`
	// StrictOptions makes options the backend cannot map fail the
	// submission. Otherwise they are logged and dropped.
	StrictOptions bool `json:"strict_options"`
	// SubmitRate limits submissions per second. Zero means unlimited.
	SubmitRate float64 `json:"submit_rate"`
	// SubmitTimeout bounds a single run of the submission command.
	SubmitTimeout Duration `json:"submit_timeout"`
	// Vars are extra values for format strings.
	Vars map[string]string `json:"vars"`
	// JobStore is the path of the job journal. Empty disables it.
	JobStore string `json:"job_store"`
	// MetricsFile receives submission metrics in the Prometheus text
	// format. Empty disables it.
	MetricsFile string        `json:"metrics_file"`
	Logger      logger.Config `json:"logger"`
	Runner      *Runner       `json:"runner"`
	// Tasks holds per-class default options, keyed by task class.
	Tasks map[string]map[string]interface{} `json:"tasks"`
}

// Runner describes the runner script wrapping every submitted command.
type Runner struct {
	// Template lines are joined with newlines. They may reference
	// %(command)s and %(modules)s.
	Template []string `json:"template"`
	// Opts are default options of every task.
	Opts map[string]interface{} `json:"opts"`
}

// ConfigurationError reports a missing or invalid configuration section.
type ConfigurationError struct {
	Section string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Section, e.Reason)
}

// Parse parses a YAML (or JSON) doc into the given Config instance.
func Parse(raw []byte, conf *Config) error {
	err := yaml.Unmarshal(raw, conf)
	if err != nil {
		return err
	}
	return nil
}

// ParseFile parses a yatamana config file, which is formatted in YAML,
// and returns a Config struct.
func ParseFile(relpath string, conf *Config) error {
	if relpath == "" {
		return nil
	}

	// Try to get absolute path. If it fails, fall back to relative path.
	path, abserr := filepath.Abs(relpath)
	if abserr != nil {
		path = relpath
	}

	// Read file
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: \n%v", path, err)
	}

	// Parse file
	err = Parse(source, conf)
	if err != nil {
		return fmt.Errorf("failed to parse config at path %s: \n%v", path, err)
	}
	return nil
}

// ToYaml formats the configuration into YAML and returns the bytes.
func ToYaml(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// ToYamlFile writes the configuration to a YAML file.
func ToYamlFile(c Config, path string) error {
	b, err := ToYaml(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// RunnerDir is the directory receiving runner scripts: run/ below
// SharedTmp, or run/ in the working directory. Environment variables are
// expanded.
func (c Config) RunnerDir() string {
	if c.SharedTmp == "" {
		return "run"
	}
	return os.ExpandEnv(filepath.Join(c.SharedTmp, "run"))
}

// RunnerTemplate returns the runner template lines joined with newlines.
func (c Config) RunnerTemplate() (string, error) {
	if c.Runner == nil {
		return "", &ConfigurationError{"runner", "missing a runner section"}
	}
	if len(c.Runner.Template) == 0 {
		return "", &ConfigurationError{"runner.template", "missing a runner.template section"}
	}
	return strings.Join(c.Runner.Template, "\n"), nil
}
