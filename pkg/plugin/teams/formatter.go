package teams

import (
	"fmt"
	"strings"

	"github.com/gitlumen/gitlumen/pkg/core"
)

// ColorScheme maps outcome classes to card theme colors.
type ColorScheme struct {
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`
}

func defaultColorScheme() ColorScheme {
	return ColorScheme{
		Success: "#107C10",
		Warning: "#FF8C00",
		Error:   "#D13438",
		Info:    "#0078D4",
	}
}

// Formatter renders canonical events as Teams message cards.
type Formatter struct {
	cfg Config
}

// NewFormatter creates a Formatter for one plugin config.
func NewFormatter(cfg Config) *Formatter {
	return &Formatter{cfg: cfg}
}

// Format builds the card for one event.
func (f *Formatter) Format(event core.Event) Message {
	return Message{
		Title:      fmt.Sprintf("%s %s", eventEmoji(event.Kind), event.Title),
		Text:       f.formatText(event),
		Summary:    event.Title,
		ThemeColor: f.eventColor(event.Kind),
		Sections: []Section{
			{
				ActivityTitle:    event.Title,
				ActivitySubtitle: fmt.Sprintf("%s • %s", event.ProjectName, event.Author),
				ActivityText:     event.Description,
				Facts:            f.formatFacts(event),
				Markdown:         true,
			},
		},
		PotentialAction: formatActions(event),
	}
}

func (f *Formatter) formatText(event core.Event) string {
	var b strings.Builder
	if f.cfg.EnableMentions && len(f.cfg.MentionUsers) > 0 {
		mentions := make([]string, 0, len(f.cfg.MentionUsers))
		for _, user := range f.cfg.MentionUsers {
			mentions = append(mentions, "@"+user)
		}
		b.WriteString(strings.Join(mentions, " "))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "**Project:** %s\n", event.ProjectName)
	fmt.Fprintf(&b, "**Author:** %s\n", event.Author)
	if event.Description != "" {
		fmt.Fprintf(&b, "**Description:** %s\n", event.Description)
	}
	fmt.Fprintf(&b, "**Time:** %s", event.Timestamp.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

func (f *Formatter) formatFacts(event core.Event) []Fact {
	facts := []Fact{
		{Name: "Project", Value: event.ProjectName},
		{Name: "Author", Value: event.Author},
		{Name: "Type", Value: eventTypeLabel(event.Kind)},
		{Name: "Timestamp", Value: event.Timestamp.Format("2006-01-02 15:04:05 MST")},
	}
	if event.Branch != "" && event.Branch != core.NoBranch {
		facts = append(facts, Fact{Name: "Branch", Value: event.Branch})
	}
	switch md := event.Metadata.(type) {
	case core.MergeRequestMetadata:
		facts = append(facts,
			Fact{Name: "Source Branch", Value: md.SourceBranch},
			Fact{Name: "Target Branch", Value: md.TargetBranch},
			Fact{Name: "State", Value: md.State},
			Fact{Name: "Merge Status", Value: md.MergeStatus},
		)
	case core.PipelineMetadata:
		facts = append(facts,
			Fact{Name: "Status", Value: md.Status},
			Fact{Name: "Ref", Value: md.Ref},
		)
	case core.IssueMetadata:
		facts = append(facts, Fact{Name: "State", Value: md.State})
	case core.PushMetadata:
		facts = append(facts, Fact{Name: "Commits", Value: fmt.Sprintf("%d", len(md.Commits))})
	case core.TagPushMetadata:
		facts = append(facts, Fact{Name: "Tag", Value: md.Tag})
	case core.NoteMetadata:
		facts = append(facts, Fact{Name: "Target", Value: md.NoteableType})
	}
	return facts
}

func formatActions(event core.Event) []Action {
	if event.URL == "" || event.URL == "#" {
		return nil
	}
	return []Action{
		{
			Type:    "OpenUri",
			Name:    "View in GitLab",
			Targets: []Target{{OS: "default", URI: event.URL}},
		},
	}
}

func (f *Formatter) eventColor(kind core.EventKind) string {
	scheme := defaultColorScheme()
	if f.cfg.ColorScheme != nil {
		scheme = *f.cfg.ColorScheme
	}
	switch kind {
	case core.KindDeployment:
		return scheme.Success
	case core.KindIssue:
		return scheme.Warning
	default:
		return scheme.Info
	}
}

func eventEmoji(kind core.EventKind) string {
	switch kind {
	case core.KindMergeRequest:
		return "🔀"
	case core.KindPipeline:
		return "⚙️"
	case core.KindIssue:
		return "🐛"
	case core.KindPush:
		return "📤"
	case core.KindTagPush:
		return "🏷️"
	case core.KindNote:
		return "💬"
	default:
		return "🔔"
	}
}

func eventTypeLabel(kind core.EventKind) string {
	words := strings.Split(string(kind), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
