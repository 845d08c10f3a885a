// Package parse implements the requirement parser: a deterministic,
// rule-driven mapping from natural-language text to a structured task
// draft. All rules are data from the workspace config; no IO, no
// network, same input same output.
package parse

import (
	"sort"
	"strings"

	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/task"
)

// Draft is the structured task proposal produced from free text.
type Draft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Priority       string   `json:"priority"`
	Tags           []string `json:"tags,omitempty"`
	Requirements   []string `json:"technical_requirements,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
}

// Complexity is the bounded 1-10 report returned alongside the draft.
// It is informative only and never feeds back into the priority.
type Complexity struct {
	Score        int `json:"score"`
	WordCount    int `json:"word_count"`
	Requirements int `json:"requirements"`
	Tags         int `json:"tags"`
}

// Result is the full parser output.
type Result struct {
	Draft         Draft      `json:"draft"`
	Complexity    Complexity `json:"complexity_analysis"`
	LowConfidence bool       `json:"low_confidence,omitempty"`
}

const placeholderTitle = "Untitled task"

// minConfidentWords is the input size below which the parser flags the
// result as low confidence.
const minConfidentWords = 3

// Parse maps text (plus optional free-form context) to a task draft.
// The title comes from the text only; priority, tags, and requirements
// consider text and context together. Parse never fails: empty input
// yields a placeholder draft flagged low-confidence.
func Parse(rules config.ParserConfig, text, context string) Result {
	combined := strings.TrimSpace(text)
	if ctx := strings.TrimSpace(context); ctx != "" {
		combined += "\n" + ctx
	}

	tags := matchTags(combined, rules.TagVocabulary)
	requirements := extractRequirements(combined, rules.RequirementVerbs)
	words := len(strings.Fields(combined))

	r := Result{
		Draft: Draft{
			Title:        extractTitle(text, rules),
			Description:  strings.TrimSpace(text),
			Priority:     inferPriority(combined, rules.PriorityRules),
			Tags:         tags,
			Requirements: requirements,
		},
		Complexity: Complexity{
			Score:        complexityScore(words, len(requirements), len(tags)),
			WordCount:    words,
			Requirements: len(requirements),
			Tags:         len(tags),
		},
		LowConfidence: words < minConfidentWords,
	}
	r.Draft.EstimatedHours = suggestedHours(r.Complexity.Score)

	if r.Draft.Title == "" {
		r.Draft.Title = placeholderTitle
		r.LowConfidence = true
	}

	return r
}

// Task converts the draft into an unsaved task for persistence.
func (d Draft) Task() *task.Task {
	return &task.Task{
		Title:          d.Title,
		Description:    d.Description,
		Priority:       d.Priority,
		Tags:           append([]string(nil), d.Tags...),
		Requirements:   append([]string(nil), d.Requirements...),
		EstimatedHours: d.EstimatedHours,
	}
}

// inferPriority scores every keyword rule against the input and picks
// the priority with the highest summed weight. A tie goes to the more
// urgent priority; no signal at all defaults to medium.
func inferPriority(text string, rules []config.PriorityRule) string {
	lower := strings.ToLower(text)

	scores := make(map[string]int)
	for _, rule := range rules {
		if containsTerm(lower, strings.ToLower(rule.Keyword)) {
			scores[rule.Priority] += rule.Weight
		}
	}
	if len(scores) == 0 {
		return task.PriorityMedium
	}

	best := ""
	for priority, score := range scores {
		if best == "" || score > scores[best] ||
			(score == scores[best] && task.PriorityIndex(priority) > task.PriorityIndex(best)) {
			best = priority
		}
	}
	return best
}

// matchTags returns every vocabulary term appearing in the input on a
// word boundary, case-insensitive, deduplicated, sorted.
func matchTags(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)

	seen := make(map[string]bool)
	var tags []string
	for _, term := range vocabulary {
		t := strings.ToLower(term)
		if seen[t] || !containsTerm(lower, t) {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// extractRequirements keeps every clause carrying a requirement verb,
// in input order.
func extractRequirements(text string, verbs []string) []string {
	seen := make(map[string]bool)
	var requirements []string
	for _, clause := range splitClauses(text) {
		lower := strings.ToLower(clause)
		for _, verb := range verbs {
			if !containsTerm(lower, strings.ToLower(verb)) {
				continue
			}
			if !seen[lower] {
				seen[lower] = true
				requirements = append(requirements, clause)
			}
			break
		}
	}
	return requirements
}

// complexityScore folds input length, requirement count, and tag count
// into a 1-10 score. The caps make 10 the natural maximum.
func complexityScore(words, requirements, tags int) int {
	score := 1
	score += min(3, words/50)
	score += min(4, requirements)
	score += min(2, tags)
	if score > 10 {
		score = 10
	}
	return score
}

// suggestedHours maps a complexity score to an estimate band. A
// suggestion only; it is reported on the draft and never applied to
// an existing task.
func suggestedHours(score int) float64 {
	switch {
	case score <= 3:
		return 2
	case score <= 6:
		return 8
	case score <= 8:
		return 16
	default:
		return 40
	}
}
