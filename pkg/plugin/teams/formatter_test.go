package teams

import (
	"strings"
	"testing"
	"time"

	"github.com/gitlumen/gitlumen/pkg/core"
)

func factValue(facts []Fact, name string) (string, bool) {
	for _, fact := range facts {
		if fact.Name == name {
			return fact.Value, true
		}
	}
	return "", false
}

func TestFormatMergeRequestCard(t *testing.T) {
	f := NewFormatter(Config{BotName: "GitLumen"})
	msg := f.Format(sampleEvent())

	if !strings.Contains(msg.Title, "Fix the bug") {
		t.Fatalf("unexpected title: %q", msg.Title)
	}
	if msg.Summary != "Fix the bug" {
		t.Fatalf("unexpected summary: %q", msg.Summary)
	}
	if msg.ThemeColor != defaultColorScheme().Info {
		t.Fatalf("unexpected color: %q", msg.ThemeColor)
	}
	if len(msg.Sections) != 1 {
		t.Fatalf("expected one section, got %d", len(msg.Sections))
	}
	facts := msg.Sections[0].Facts
	if got, ok := factValue(facts, "Source Branch"); !ok || got != "fix/bug" {
		t.Fatalf("unexpected source branch fact: %q %v", got, ok)
	}
	if got, ok := factValue(facts, "Target Branch"); !ok || got != "main" {
		t.Fatalf("unexpected target branch fact: %q %v", got, ok)
	}
	if got, ok := factValue(facts, "Branch"); !ok || got != "fix/bug" {
		t.Fatalf("unexpected branch fact: %q %v", got, ok)
	}
	if len(msg.PotentialAction) != 1 || msg.PotentialAction[0].Type != "OpenUri" {
		t.Fatalf("expected one OpenUri action, got %+v", msg.PotentialAction)
	}
}

func TestFormatSkipsBranchSentinel(t *testing.T) {
	event := sampleEvent()
	event.Kind = core.KindIssue
	event.Branch = core.NoBranch
	event.Metadata = core.IssueMetadata{State: "opened"}

	msg := NewFormatter(Config{}).Format(event)
	if _, ok := factValue(msg.Sections[0].Facts, "Branch"); ok {
		t.Fatalf("expected no branch fact for sentinel branch")
	}
	if msg.ThemeColor != defaultColorScheme().Warning {
		t.Fatalf("expected issue color, got %q", msg.ThemeColor)
	}
}

func TestFormatOmitsActionForPlaceholderURL(t *testing.T) {
	event := sampleEvent()
	event.URL = "#"
	msg := NewFormatter(Config{}).Format(event)
	if msg.PotentialAction != nil {
		t.Fatalf("expected no actions for placeholder url, got %+v", msg.PotentialAction)
	}
}

func TestFormatMentions(t *testing.T) {
	f := NewFormatter(Config{EnableMentions: true, MentionUsers: []string{"alice", "bob"}})
	msg := f.Format(sampleEvent())
	if !strings.HasPrefix(msg.Text, "@alice @bob") {
		t.Fatalf("expected mentions prefix, got %q", msg.Text)
	}

	quiet := NewFormatter(Config{MentionUsers: []string{"alice"}})
	if strings.Contains(quiet.Format(sampleEvent()).Text, "@alice") {
		t.Fatalf("expected mentions disabled by default")
	}
}

func TestFormatCustomColorScheme(t *testing.T) {
	scheme := &ColorScheme{Success: "#111111", Warning: "#222222", Error: "#333333", Info: "#444444"}
	event := sampleEvent()
	event.Kind = core.KindDeployment
	event.Metadata = core.GenericMetadata{EventType: "deployment"}

	msg := NewFormatter(Config{ColorScheme: scheme}).Format(event)
	if msg.ThemeColor != "#111111" {
		t.Fatalf("expected custom success color, got %q", msg.ThemeColor)
	}
}

func TestEventTypeLabel(t *testing.T) {
	tests := []struct {
		kind core.EventKind
		want string
	}{
		{core.KindMergeRequest, "Merge Request"},
		{core.KindTagPush, "Tag Push"},
		{core.KindPipeline, "Pipeline"},
	}
	for _, tt := range tests {
		if got := eventTypeLabel(tt.kind); got != tt.want {
			t.Fatalf("eventTypeLabel(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFormatFactsTimestamp(t *testing.T) {
	event := sampleEvent()
	event.Timestamp = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	msg := NewFormatter(Config{}).Format(event)
	got, ok := factValue(msg.Sections[0].Facts, "Timestamp")
	if !ok || !strings.Contains(got, "2024-06-01") {
		t.Fatalf("unexpected timestamp fact: %q", got)
	}
}
