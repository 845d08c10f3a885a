// Package config handles gantry workspace configuration.
package config

const (
	// DefaultDir is the default workspace directory name.
	DefaultDir = "gantry"
	// DefaultTasksDir is the default tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultProjectsDir is the default projects subdirectory name.
	DefaultProjectsDir = "projects"
	// DefaultTriggersDir is the default triggers subdirectory name.
	DefaultTriggersDir = "triggers"

	// DefaultWorkers is the default dispatch worker count.
	DefaultWorkers = 2
	// DefaultMaxAttempts is the default attempt cap per trigger dispatch.
	DefaultMaxAttempts = 3
	// DefaultInitialBackoff is the first retry delay as a duration string.
	DefaultInitialBackoff = "1s"
	// DefaultMaxBackoff caps the exponential retry delay.
	DefaultMaxBackoff = "30s"
	// DefaultPollInterval is how often the dispatch worker scans for
	// pending triggers when no file events arrive.
	DefaultPollInterval = "2s"

	// DefaultTitleMaxLen is the length cap for parser-extracted titles.
	DefaultTitleMaxLen = 72

	// ConfigFileName is the name of the config file within the workspace directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1
)

// Default rule sets for the requirement parser (slices cannot be const).
// These are plain data so deployments can tune them in config.yml without
// code changes.
var (
	// DefaultPriorityRules maps signal keywords to a target priority with a
	// weight. Weights for each target are summed over all matches; the
	// heaviest target wins, severity breaking ties.
	DefaultPriorityRules = []PriorityRule{
		{Keyword: "critical", Priority: "critical", Weight: 3},
		{Keyword: "urgent", Priority: "critical", Weight: 3},
		{Keyword: "emergency", Priority: "critical", Weight: 3},
		{Keyword: "outage", Priority: "critical", Weight: 3},
		{Keyword: "data loss", Priority: "critical", Weight: 3},
		{Keyword: "security", Priority: "high", Weight: 2},
		{Keyword: "vulnerability", Priority: "high", Weight: 2},
		{Keyword: "asap", Priority: "high", Weight: 2},
		{Keyword: "blocker", Priority: "high", Weight: 2},
		{Keyword: "important", Priority: "high", Weight: 1},
		{Keyword: "minor", Priority: "low", Weight: 2},
		{Keyword: "trivial", Priority: "low", Weight: 2},
		{Keyword: "nice to have", Priority: "low", Weight: 2},
		{Keyword: "someday", Priority: "low", Weight: 1},
		{Keyword: "when possible", Priority: "low", Weight: 1},
	}

	// DefaultTagVocabulary lists domain terms promoted to tags when they
	// appear (word-bounded, case-insensitive) in the input.
	DefaultTagVocabulary = []string{
		"security",
		"backend",
		"frontend",
		"database",
		"api",
		"authentication",
		"email",
		"testing",
		"performance",
		"infrastructure",
		"deployment",
		"mobile",
	}

	// DefaultRequirementVerbs mark clauses that describe a technical requirement.
	DefaultRequirementVerbs = []string{
		"implement",
		"use",
		"integrate",
		"support",
		"add",
		"build",
		"create",
		"provide",
		"handle",
		"ensure",
		"validate",
	}

	// DefaultFillerWords are stripped from the front of extracted titles.
	DefaultFillerWords = []string{
		"please",
		"kindly",
		"hey",
		"hi",
		"we",
		"i",
		"you",
		"need",
		"want",
		"would",
		"like",
		"to",
		"can",
		"could",
		"should",
	}
)
