package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no gantry workspace found (run 'gantry init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the gantry workspace configuration.
type Config struct {
	Version     int             `yaml:"version"`
	Workspace   WorkspaceConfig `yaml:"workspace"`
	TasksDir    string          `yaml:"tasks_dir"`
	ProjectsDir string          `yaml:"projects_dir"`
	TriggersDir string          `yaml:"triggers_dir"`
	Parser      ParserConfig    `yaml:"parser"`
	Dispatch    DispatchConfig  `yaml:"dispatch"`

	// NextTaskID and NextProjectID are the id counters for new entities.
	// Guarded by the workspace lock during allocation.
	NextTaskID    int `yaml:"next_task_id"`
	NextProjectID int `yaml:"next_project_id"`

	// dir is the absolute path to the workspace directory (not serialized).
	dir string `yaml:"-"`
}

// WorkspaceConfig holds workspace metadata.
type WorkspaceConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// PriorityRule maps a signal keyword to a target priority with a weight.
type PriorityRule struct {
	Keyword  string `yaml:"keyword" json:"keyword"`
	Priority string `yaml:"priority" json:"priority"`
	Weight   int    `yaml:"weight" json:"weight"`
}

// ParserConfig holds the data-driven rule sets for the requirement parser.
type ParserConfig struct {
	TitleMaxLen      int            `yaml:"title_max_len"`
	PriorityRules    []PriorityRule `yaml:"priority_rules"`
	TagVocabulary    []string       `yaml:"tag_vocabulary"`
	RequirementVerbs []string       `yaml:"requirement_verbs"`
	FillerWords      []string       `yaml:"filler_words"`
}

// DispatchConfig tunes the trigger dispatch worker.
// Durations are stored as strings (e.g. "1s", "30s") and parsed on access.
type DispatchConfig struct {
	Workers        int    `yaml:"workers"`
	MaxAttempts    int    `yaml:"max_attempts"`
	InitialBackoff string `yaml:"initial_backoff"`
	MaxBackoff     string `yaml:"max_backoff"`
	PollInterval   string `yaml:"poll_interval"`
}

// Dir returns the absolute path to the workspace directory.
func (c *Config) Dir() string {
	return c.dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ProjectsPath returns the absolute path to the projects directory.
func (c *Config) ProjectsPath() string {
	return filepath.Join(c.dir, c.ProjectsDir)
}

// TriggersPath returns the absolute path to the triggers directory.
func (c *Config) TriggersPath() string {
	return filepath.Join(c.dir, c.TriggersDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:     CurrentVersion,
		Workspace:   WorkspaceConfig{Name: name},
		TasksDir:    DefaultTasksDir,
		ProjectsDir: DefaultProjectsDir,
		TriggersDir: DefaultTriggersDir,
		Parser: ParserConfig{
			TitleMaxLen:      DefaultTitleMaxLen,
			PriorityRules:    append([]PriorityRule{}, DefaultPriorityRules...),
			TagVocabulary:    append([]string{}, DefaultTagVocabulary...),
			RequirementVerbs: append([]string{}, DefaultRequirementVerbs...),
			FillerWords:      append([]string{}, DefaultFillerWords...),
		},
		Dispatch: DispatchConfig{
			Workers:        DefaultWorkers,
			MaxAttempts:    DefaultMaxAttempts,
			InitialBackoff: DefaultInitialBackoff,
			MaxBackoff:     DefaultMaxBackoff,
			PollInterval:   DefaultPollInterval,
		},
		NextTaskID:    1,
		NextProjectID: 1,
	}
}

// SetDir sets the workspace directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Workspace.Name == "" {
		return fmt.Errorf("%w: workspace.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if c.ProjectsDir == "" {
		return fmt.Errorf("%w: projects_dir is required", ErrInvalid)
	}
	if c.TriggersDir == "" {
		return fmt.Errorf("%w: triggers_dir is required", ErrInvalid)
	}
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateDispatch(); err != nil {
		return err
	}
	if c.NextTaskID < 1 {
		return fmt.Errorf("%w: next_task_id must be >= 1", ErrInvalid)
	}
	if c.NextProjectID < 1 {
		return fmt.Errorf("%w: next_project_id must be >= 1", ErrInvalid)
	}
	return nil
}

func (c *Config) validateParser() error {
	const minTitleLen, maxTitleLen = 16, 200
	if c.Parser.TitleMaxLen < minTitleLen || c.Parser.TitleMaxLen > maxTitleLen {
		return fmt.Errorf("%w: parser.title_max_len must be between %d and %d",
			ErrInvalid, minTitleLen, maxTitleLen)
	}
	for i, r := range c.Parser.PriorityRules {
		if r.Keyword == "" {
			return fmt.Errorf("%w: parser.priority_rules[%d].keyword is required", ErrInvalid, i)
		}
		if !task.ValidPriority(r.Priority) {
			return fmt.Errorf("%w: parser.priority_rules[%d] references unknown priority %q",
				ErrInvalid, i, r.Priority)
		}
		if r.Weight < 1 {
			return fmt.Errorf("%w: parser.priority_rules[%d].weight must be >= 1", ErrInvalid, i)
		}
	}
	if hasDuplicates(c.Parser.TagVocabulary) {
		return fmt.Errorf("%w: parser.tag_vocabulary contains duplicates", ErrInvalid)
	}
	return nil
}

func (c *Config) validateDispatch() error {
	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("%w: dispatch.workers must be >= 1", ErrInvalid)
	}
	if c.Dispatch.MaxAttempts < 1 {
		return fmt.Errorf("%w: dispatch.max_attempts must be >= 1", ErrInvalid)
	}
	for _, field := range []struct{ name, value string }{
		{"initial_backoff", c.Dispatch.InitialBackoff},
		{"max_backoff", c.Dispatch.MaxBackoff},
		{"poll_interval", c.Dispatch.PollInterval},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			return fmt.Errorf("%w: invalid dispatch.%s %q: %w", ErrInvalid, field.name, field.value, err)
		}
	}
	return nil
}

// InitialBackoffDuration parses the initial_backoff string into a duration.
// Falls back to the default when the field is empty or unparseable.
func (c *Config) InitialBackoffDuration() time.Duration {
	return parseDurationOr(c.Dispatch.InitialBackoff, DefaultInitialBackoff)
}

// MaxBackoffDuration parses the max_backoff string into a duration.
func (c *Config) MaxBackoffDuration() time.Duration {
	return parseDurationOr(c.Dispatch.MaxBackoff, DefaultMaxBackoff)
}

// PollIntervalDuration parses the poll_interval string into a duration.
func (c *Config) PollIntervalDuration() time.Duration {
	return parseDurationOr(c.Dispatch.PollInterval, DefaultPollInterval)
}

func parseDurationOr(value, fallback string) time.Duration {
	if value == "" {
		value = fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// Init creates a new workspace in the given directory with default settings.
// It creates the workspace directory, the tasks/projects/triggers
// subdirectories, and the config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	for _, p := range []string{cfg.TasksPath(), cfg.ProjectsPath(), cfg.TriggersPath()} {
		if err := os.MkdirAll(p, dirMode); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Base(p), err)
		}
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given workspace directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a workspace directory
// containing config.yml. Returns the absolute path to the workspace directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the workspace directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.WorkspaceNotFound,
				"no gantry workspace found (run 'gantry init' to create one)")
		}
		dir = parent
	}
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
