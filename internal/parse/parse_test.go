package parse

import (
	"strings"
	"testing"

	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/task"
)

func defaultRules() config.ParserConfig {
	return config.NewDefault("test").Parser
}

func TestParseCriticalBugReport(t *testing.T) {
	text := "We need to fix the critical login bug ASAP. Users cannot authenticate and we are losing signups."
	r := Parse(defaultRules(), text, "")

	if r.Draft.Title != "Fix the critical login bug ASAP" {
		t.Errorf("title = %q", r.Draft.Title)
	}
	if r.Draft.Priority != task.PriorityCritical {
		t.Errorf("priority = %q, want critical", r.Draft.Priority)
	}
	if r.LowConfidence {
		t.Error("a full sentence should not be low confidence")
	}
	if r.Draft.Description != text {
		t.Errorf("description should carry the original text, got %q", r.Draft.Description)
	}
}

func TestParseSecuritySignals(t *testing.T) {
	r := Parse(defaultRules(), "Review the security vulnerability report for the api gateway", "")

	if r.Draft.Priority != task.PriorityHigh {
		t.Errorf("priority = %q, want high", r.Draft.Priority)
	}
	wantTags := []string{"api", "security"}
	if len(r.Draft.Tags) != 2 || r.Draft.Tags[0] != wantTags[0] || r.Draft.Tags[1] != wantTags[1] {
		t.Errorf("tags = %v, want %v", r.Draft.Tags, wantTags)
	}
}

func TestParsePriorityWeightsAccumulate(t *testing.T) {
	rules := defaultRules()

	// "minor" scores low 2; "outage" scores critical 3.
	r := Parse(rules, "A minor change uncovered an outage in production", "")
	if r.Draft.Priority != task.PriorityCritical {
		t.Errorf("priority = %q, want critical", r.Draft.Priority)
	}

	// "asap" (high 2) against "minor" (low 2): the tie goes to the
	// more urgent priority.
	r = Parse(rules, "Fix the minor typo asap", "")
	if r.Draft.Priority != task.PriorityHigh {
		t.Errorf("tie priority = %q, want high", r.Draft.Priority)
	}

	// No signal at all defaults to medium.
	r = Parse(rules, "Rename the customer export column", "")
	if r.Draft.Priority != task.PriorityMedium {
		t.Errorf("default priority = %q, want medium", r.Draft.Priority)
	}
}

func TestParseMultiWordKeyword(t *testing.T) {
	r := Parse(defaultRules(), "Investigate the data loss reported by the billing team", "")
	if r.Draft.Priority != task.PriorityCritical {
		t.Errorf("priority = %q, want critical", r.Draft.Priority)
	}
}

func TestParseContextInfluencesPriorityNotTitle(t *testing.T) {
	r := Parse(defaultRules(), "Update the welcome email template", "This is urgent, the emergency banner is wrong")

	if r.Draft.Priority != task.PriorityCritical {
		t.Errorf("priority = %q, want critical from context", r.Draft.Priority)
	}
	if strings.Contains(r.Draft.Title, "urgent") {
		t.Errorf("context leaked into the title: %q", r.Draft.Title)
	}
	if r.Draft.Title != "Update the welcome email template" {
		t.Errorf("title = %q", r.Draft.Title)
	}
}

func TestParseTagsRespectWordBoundaries(t *testing.T) {
	rules := defaultRules()

	r := Parse(rules, "Harden the api endpoints", "")
	if len(r.Draft.Tags) != 1 || r.Draft.Tags[0] != "api" {
		t.Errorf("tags = %v, want [api]", r.Draft.Tags)
	}

	// "cybersecurity" and "rapid" embed vocabulary terms but are not
	// word-boundary matches.
	r = Parse(rules, "Improve cybersecurity training at a rapid pace", "")
	if len(r.Draft.Tags) != 0 {
		t.Errorf("tags = %v, want none", r.Draft.Tags)
	}

	// Case-insensitive and deduplicated.
	r = Parse(rules, "DATABASE migration; the database needs an index", "")
	if len(r.Draft.Tags) != 1 || r.Draft.Tags[0] != "database" {
		t.Errorf("tags = %v, want [database]", r.Draft.Tags)
	}
}

func TestParseRequirementExtraction(t *testing.T) {
	text := "Implement rate limiting for the public api; use Redis for the counters. The dashboard can wait."
	r := Parse(defaultRules(), text, "")

	want := []string{
		"Implement rate limiting for the public api",
		"use Redis for the counters",
	}
	if len(r.Draft.Requirements) != len(want) {
		t.Fatalf("requirements = %v, want %v", r.Draft.Requirements, want)
	}
	for i, req := range want {
		if r.Draft.Requirements[i] != req {
			t.Errorf("requirement[%d] = %q, want %q", i, r.Draft.Requirements[i], req)
		}
	}
}

func TestParseRequirementsDeduplicate(t *testing.T) {
	r := Parse(defaultRules(), "Use connection pooling. use connection pooling!", "")
	if len(r.Draft.Requirements) != 1 {
		t.Errorf("requirements = %v, want one entry", r.Draft.Requirements)
	}
}

func TestParseEmptyInput(t *testing.T) {
	r := Parse(defaultRules(), "", "")

	if r.Draft.Title != "Untitled task" {
		t.Errorf("title = %q, want placeholder", r.Draft.Title)
	}
	if !r.LowConfidence {
		t.Error("empty input must be low confidence")
	}
	if r.Draft.Priority != task.PriorityMedium {
		t.Errorf("priority = %q, want medium", r.Draft.Priority)
	}
	if r.Complexity.Score != 1 {
		t.Errorf("score = %d, want 1", r.Complexity.Score)
	}
}

func TestParseShortInputLowConfidence(t *testing.T) {
	r := Parse(defaultRules(), "fix bug", "")
	if !r.LowConfidence {
		t.Error("two words should be low confidence")
	}

	r = Parse(defaultRules(), "fix the login bug", "")
	if r.LowConfidence {
		t.Error("four words should not be low confidence")
	}
}

func TestParseTitleStripsLeadingFillers(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Please add user authentication to the portal.", "Add user authentication to the portal"},
		{"We need to support exporting reports", "Support exporting reports"},
		{"hey can you deploy the staging branch", "Deploy the staging branch"},
		// A sentence of nothing but fillers keeps its words rather
		// than collapsing to nothing.
		{"please please please", "Please please please"},
	}
	for _, tc := range cases {
		r := Parse(defaultRules(), tc.text, "")
		if r.Draft.Title != tc.want {
			t.Errorf("Parse(%q) title = %q, want %q", tc.text, r.Draft.Title, tc.want)
		}
	}
}

func TestParseTitleUsesFirstSentenceAndCap(t *testing.T) {
	rules := defaultRules()
	r := Parse(rules, "Migrate the billing service.\nThen update the runbooks.", "")
	if r.Draft.Title != "Migrate the billing service" {
		t.Errorf("title = %q", r.Draft.Title)
	}

	long := "Rebuild the ingestion pipeline so that every incoming record is validated against the published schema before it reaches the warehouse"
	r = Parse(rules, long, "")
	if len(r.Draft.Title) > rules.TitleMaxLen {
		t.Errorf("title length %d exceeds cap %d: %q", len(r.Draft.Title), rules.TitleMaxLen, r.Draft.Title)
	}
	if strings.HasSuffix(r.Draft.Title, " ") || strings.HasSuffix(r.Draft.Title, ",") {
		t.Errorf("title has dangling separator: %q", r.Draft.Title)
	}
	// The cap cuts on a word boundary, never mid-word.
	lastWord := r.Draft.Title[strings.LastIndex(r.Draft.Title, " ")+1:]
	if !strings.Contains(long, lastWord) {
		t.Errorf("cap split a word: %q", lastWord)
	}
}

func TestComplexityScoreBounds(t *testing.T) {
	rules := defaultRules()

	// Minimal input floors at 1.
	r := Parse(rules, "x", "")
	if r.Complexity.Score != 1 {
		t.Errorf("minimal score = %d, want 1", r.Complexity.Score)
	}

	// Saturate every component: >150 words, >=4 requirements, >=2 tags.
	var b strings.Builder
	b.WriteString("Build the security and database layer. ")
	b.WriteString("Implement the ingestion service; add schema validation; create the retry queue; provide an admin api; handle malformed rows. ")
	for i := 0; i < 160; i++ {
		b.WriteString("detail ")
	}
	r = Parse(rules, b.String(), "")
	if r.Complexity.Score != 10 {
		t.Errorf("saturated score = %d, want 10", r.Complexity.Score)
	}
	if r.Complexity.WordCount < 150 {
		t.Errorf("word count = %d", r.Complexity.WordCount)
	}

	// The score is always within 1..10.
	if r.Complexity.Score < 1 || r.Complexity.Score > 10 {
		t.Errorf("score out of bounds: %d", r.Complexity.Score)
	}
}

func TestSuggestedHoursBands(t *testing.T) {
	r := Parse(defaultRules(), "small fix", "")
	if r.Draft.EstimatedHours != 2 {
		t.Errorf("low-complexity estimate = %v, want 2", r.Draft.EstimatedHours)
	}

	// Score drives the estimate band monotonically.
	if suggestedHours(3) != 2 || suggestedHours(6) != 8 || suggestedHours(8) != 16 || suggestedHours(10) != 40 {
		t.Error("estimate bands out of line with complexity scores")
	}
}

func TestDraftTask(t *testing.T) {
	r := Parse(defaultRules(), "Implement audit logging for the backend service", "")
	tk := r.Draft.Task()

	if tk.Title != r.Draft.Title {
		t.Errorf("task title = %q", tk.Title)
	}
	if tk.Priority != r.Draft.Priority {
		t.Errorf("task priority = %q", tk.Priority)
	}
	if len(tk.Tags) != len(r.Draft.Tags) {
		t.Errorf("task tags = %v", tk.Tags)
	}
	if tk.ID != 0 || tk.Version != 0 {
		t.Error("draft task must be unsaved (no id or version)")
	}

	// The conversion copies slices so later draft edits cannot alias
	// the stored task.
	if len(tk.Tags) > 0 {
		tk.Tags[0] = "changed"
		if r.Draft.Tags[0] == "changed" {
			t.Error("task tags alias the draft slice")
		}
	}
}

func TestParseDeterminism(t *testing.T) {
	text := "Integrate the payment provider; ensure idempotent retries. This is important for the mobile release."
	first := Parse(defaultRules(), text, "")
	for i := 0; i < 5; i++ {
		again := Parse(defaultRules(), text, "")
		if again.Draft.Title != first.Draft.Title ||
			again.Draft.Priority != first.Draft.Priority ||
			again.Complexity.Score != first.Complexity.Score ||
			len(again.Draft.Requirements) != len(first.Draft.Requirements) {
			t.Fatalf("parse is not deterministic: %+v vs %+v", again, first)
		}
	}
}
