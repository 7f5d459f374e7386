package gitlab

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gitlumen/gitlumen/pkg/core"
)

// Parser normalizes GitLab webhook payloads into canonical events. Parsing
// is pure and total: payload kinds without a dedicated mapping, and
// payloads that fail to decode, degrade to the generic kind instead of
// erroring.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse maps a raw payload to a canonical event.
func (p *Parser) Parse(payload []byte) core.Event {
	var env envelope
	_ = json.Unmarshal(payload, &env)

	switch env.ObjectKind {
	case "merge_request":
		return parseMergeRequest(payload)
	case "pipeline":
		return parsePipeline(payload)
	case "issue":
		return parseIssue(payload)
	case "push":
		return parsePush(payload)
	case "tag_push":
		return parseTagPush(payload)
	case "note":
		return parseNote(payload)
	default:
		return parseGeneric(payload, env)
	}
}

func parseMergeRequest(payload []byte) core.Event {
	var evt mergeRequestEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return parseGeneric(payload, envelope{ObjectKind: "merge_request"})
	}
	mr := evt.ObjectAttributes

	action := mr.Action
	if action == "" {
		action = "update"
	}
	return core.Event{
		ID:          fmt.Sprintf("%s_%d", evt.ObjectKind, mr.ID),
		Kind:        core.KindMergeRequest,
		ProjectID:   projectID(evt.Project),
		ProjectName: evt.Project.Name,
		Branch:      mr.SourceBranch,
		Author:      displayName(evt.User),
		Title:       mr.Title,
		Description: mr.Description,
		URL:         mr.URL,
		Timestamp:   parseTimestamp(mr.UpdatedAt, mr.CreatedAt),
		Metadata: core.MergeRequestMetadata{
			MergeRequestID:              mr.ID,
			MergeRequestIID:             mr.IID,
			SourceBranch:                mr.SourceBranch,
			TargetBranch:                mr.TargetBranch,
			State:                       mr.State,
			Action:                      action,
			MergeStatus:                 mr.MergeStatus,
			WorkInProgress:              mr.WorkInProgress,
			Assignees:                   userNames(evt.Assignees),
			Reviewers:                   userNames(evt.Reviewers),
			Labels:                      labelNames(evt.Labels),
			MilestoneID:                 mr.MilestoneID,
			BlockingDiscussionsResolved: mr.BlockingDiscussionsResolved,
		},
	}
}

func parsePipeline(payload []byte) core.Event {
	var evt pipelineEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return parseGeneric(payload, envelope{ObjectKind: "pipeline"})
	}
	pipeline := evt.ObjectAttributes

	stages := make([]core.PipelineStage, 0, len(evt.Builds))
	for _, build := range evt.Builds {
		stages = append(stages, core.PipelineStage{
			Name:         build.Stage,
			Status:       build.Status,
			AllowFailure: build.AllowFailure,
		})
	}
	return core.Event{
		ID:          fmt.Sprintf("%s_%d", evt.ObjectKind, pipeline.ID),
		Kind:        core.KindPipeline,
		ProjectID:   projectID(evt.Project),
		ProjectName: evt.Project.Name,
		Branch:      pipeline.Ref,
		Author:      displayName(evt.User),
		Title:       fmt.Sprintf("Pipeline %s for %s", pipeline.Status, pipeline.Ref),
		Description: fmt.Sprintf("Pipeline %d %s", pipeline.ID, pipeline.Status),
		URL:         fmt.Sprintf("%s/-/pipelines/%d", evt.Project.WebURL, pipeline.ID),
		Timestamp:   parseTimestamp(pipeline.FinishedAt, pipeline.CreatedAt),
		Metadata: core.PipelineMetadata{
			PipelineID:     pipeline.ID,
			PipelineIID:    pipeline.IID,
			Status:         pipeline.Status,
			Ref:            pipeline.Ref,
			SHA:            pipeline.SHA,
			BeforeSHA:      pipeline.BeforeSHA,
			Source:         pipeline.Source,
			Tag:            pipeline.Tag,
			Duration:       pipeline.Duration,
			QueuedDuration: pipeline.QueuedDuration,
			CreatedAt:      pipeline.CreatedAt,
			FinishedAt:     pipeline.FinishedAt,
			Stages:         stages,
			MergeRequest:   mergeRequestSummary(evt.MergeRequest),
		},
	}
}

func parseIssue(payload []byte) core.Event {
	var evt issueEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return parseGeneric(payload, envelope{ObjectKind: "issue"})
	}
	issue := evt.ObjectAttributes

	action := issue.Action
	if action == "" {
		action = "update"
	}
	return core.Event{
		ID:          fmt.Sprintf("%s_%d", evt.ObjectKind, issue.ID),
		Kind:        core.KindIssue,
		ProjectID:   projectID(evt.Project),
		ProjectName: evt.Project.Name,
		Branch:      core.NoBranch,
		Author:      displayName(evt.User),
		Title:       issue.Title,
		Description: issue.Description,
		URL:         issue.URL,
		Timestamp:   parseTimestamp(issue.UpdatedAt, issue.CreatedAt),
		Metadata: core.IssueMetadata{
			IssueID:        issue.ID,
			IssueIID:       issue.IID,
			State:          issue.State,
			Action:         action,
			Confidential:   issue.Confidential,
			Labels:         labelNames(evt.Labels),
			Assignees:      userNames(evt.Assignees),
			MilestoneID:    issue.MilestoneID,
			DueDate:        issue.DueDate,
			TimeEstimate:   issue.TimeEstimate,
			TotalTimeSpent: issue.TotalTimeSpent,
			Weight:         issue.Weight,
			HealthStatus:   issue.HealthStatus,
			Severity:       issue.Severity,
		},
	}
}

func parsePush(payload []byte) core.Event {
	var evt pushEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return parseGeneric(payload, envelope{ObjectKind: "push"})
	}
	branch := strings.TrimPrefix(evt.Ref, "refs/heads/")

	commits := make([]core.Commit, 0, len(evt.Commits))
	for _, c := range evt.Commits {
		commits = append(commits, core.Commit{
			ID:        c.ID,
			Message:   c.Message,
			Title:     c.Title,
			Timestamp: c.Timestamp,
			URL:       c.URL,
			Author:    core.CommitAuthor{Name: c.Author.Name, Email: c.Author.Email},
			Added:     c.Added,
			Modified:  c.Modified,
			Removed:   c.Removed,
		})
	}

	title := fmt.Sprintf("%d commits to %s", len(commits), branch)
	if len(commits) == 1 {
		title = fmt.Sprintf("1 commit to %s", branch)
	}
	description := ""
	firstTimestamp := ""
	if len(evt.Commits) > 0 {
		description = evt.Commits[0].Message
		firstTimestamp = evt.Commits[0].Timestamp
	}
	author := evt.UserName
	if author == "" {
		author = core.UnknownAuthor
	}
	return core.Event{
		ID:          fmt.Sprintf("%s_%d", evt.ObjectKind, evt.Project.ID),
		Kind:        core.KindPush,
		ProjectID:   projectID(evt.Project),
		ProjectName: evt.Project.Name,
		Branch:      branch,
		Author:      author,
		Title:       title,
		Description: description,
		URL:         fmt.Sprintf("%s/-/tree/%s", evt.Project.WebURL, branch),
		Timestamp:   parseTimestamp(firstTimestamp),
		Metadata: core.PushMetadata{
			Ref:               evt.Ref,
			Before:            evt.Before,
			After:             evt.After,
			CheckoutSHA:       evt.CheckoutSHA,
			RefProtected:      evt.RefProtected,
			TotalCommitsCount: evt.TotalCommitsCount,
			Commits:           commits,
		},
	}
}

func parseTagPush(payload []byte) core.Event {
	var evt pushEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return parseGeneric(payload, envelope{ObjectKind: "tag_push"})
	}
	tag := strings.TrimPrefix(evt.Ref, "refs/tags/")

	commits := make([]core.Commit, 0, len(evt.Commits))
	for _, c := range evt.Commits {
		commits = append(commits, core.Commit{
			ID:        c.ID,
			Message:   c.Message,
			Timestamp: c.Timestamp,
			URL:       c.URL,
			Author:    core.CommitAuthor{Name: c.Author.Name, Email: c.Author.Email},
		})
	}
	author := evt.UserName
	if author == "" {
		author = core.UnknownAuthor
	}
	return core.Event{
		ID:          fmt.Sprintf("%s_%d", evt.ObjectKind, evt.Project.ID),
		Kind:        core.KindTagPush,
		ProjectID:   projectID(evt.Project),
		ProjectName: evt.Project.Name,
		Branch:      tag,
		Author:      author,
		Title:       fmt.Sprintf("Tag %s created", tag),
		Description: fmt.Sprintf("New tag %s created", tag),
		URL:         fmt.Sprintf("%s/-/tags/%s", evt.Project.WebURL, tag),
		Timestamp:   time.Now().UTC(),
		Metadata: core.TagPushMetadata{
			Ref:               evt.Ref,
			Before:            evt.Before,
			After:             evt.After,
			CheckoutSHA:       evt.CheckoutSHA,
			Tag:               tag,
			TotalCommitsCount: evt.TotalCommitsCount,
			Commits:           commits,
		},
	}
}

func parseNote(payload []byte) core.Event {
	var evt noteEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return parseGeneric(payload, envelope{ObjectKind: "note"})
	}
	note := evt.ObjectAttributes

	return core.Event{
		ID:          fmt.Sprintf("%s_%d", evt.ObjectKind, note.ID),
		Kind:        core.KindNote,
		ProjectID:   projectID(evt.Project),
		ProjectName: evt.Project.Name,
		Branch:      core.NoBranch,
		Author:      displayName(evt.User),
		Title:       fmt.Sprintf("Comment on %s", note.NoteableType),
		Description: note.Note,
		URL:         note.URL,
		Timestamp:   parseTimestamp(note.UpdatedAt, note.CreatedAt),
		Metadata: core.NoteMetadata{
			NoteID:       note.ID,
			NoteableType: note.NoteableType,
			NoteableID:   note.NoteableID,
			Note:         note.Note,
			System:       note.System,
			LineCode:     note.LineCode,
			CommitID:     note.CommitID,
			DiscussionID: note.DiscussionID,
			Resolved:     note.ResolvedAt != "",
			ResolvedAt:   note.ResolvedAt,
			ResolvedByID: note.ResolvedByID,
			MergeRequest: mergeRequestSummary(evt.MergeRequest),
			Issue:        issueSummary(evt.Issue),
		},
	}
}

// parseGeneric handles any recognized-but-unmodeled kind. The raw payload
// is preserved in the metadata; project and author are extracted
// defensively with sentinels for whatever is missing.
func parseGeneric(payload []byte, env envelope) core.Event {
	core.IncParseFallback(env.ObjectKind)

	var partial struct {
		Project projectPayload `json:"project"`
		User    userPayload    `json:"user"`
	}
	_ = json.Unmarshal(payload, &partial)

	var raw map[string]any
	_ = json.Unmarshal(payload, &raw)

	kind := env.ObjectKind
	if kind == "" {
		kind = string(core.KindGeneric)
	}
	projID := "unknown"
	projName := "Unknown Project"
	url := "#"
	if partial.Project.ID != 0 {
		projID = projectID(partial.Project)
	}
	if partial.Project.Name != "" {
		projName = partial.Project.Name
	}
	if partial.Project.WebURL != "" {
		url = partial.Project.WebURL
	}
	return core.Event{
		ID:          fmt.Sprintf("%s_%s_%d", kind, projID, time.Now().UnixMilli()),
		Kind:        kindFor(env.ObjectKind),
		ProjectID:   projID,
		ProjectName: projName,
		Branch:      core.NoBranch,
		Author:      displayName(partial.User),
		Title:       fmt.Sprintf("%s event", kind),
		Description: fmt.Sprintf("Generic %s event", kind),
		URL:         url,
		Timestamp:   time.Now().UTC(),
		Metadata: core.GenericMetadata{
			EventType:  kind,
			ObjectKind: env.ObjectKind,
			Raw:        raw,
		},
	}
}

// kindFor maps an unmodeled object kind to its canonical tag; anything the
// enumeration does not name becomes generic.
func kindFor(objectKind string) core.EventKind {
	switch objectKind {
	case "build", "job":
		return core.KindJob
	case "wiki_page":
		return core.KindWikiPage
	case "deployment":
		return core.KindDeployment
	case "release":
		return core.KindRelease
	default:
		return core.KindGeneric
	}
}

func projectID(p projectPayload) string {
	return strconv.FormatInt(p.ID, 10)
}

func displayName(u userPayload) string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return core.UnknownAuthor
}

func userNames(users []userPayload) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Name)
	}
	return out
}

func labelNames(labels []labelPayload) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.Name)
	}
	return out
}

func mergeRequestSummary(ref *mergeRequestRef) *core.MergeRequestSummary {
	if ref == nil {
		return nil
	}
	return &core.MergeRequestSummary{
		ID:           ref.ID,
		IID:          ref.IID,
		Title:        ref.Title,
		SourceBranch: ref.SourceBranch,
		TargetBranch: ref.TargetBranch,
		State:        ref.State,
		MergeStatus:  ref.MergeStatus,
	}
}

func issueSummary(ref *issueRef) *core.IssueSummary {
	if ref == nil {
		return nil
	}
	return &core.IssueSummary{ID: ref.ID, IID: ref.IID, Title: ref.Title, State: ref.State}
}

// timestampLayouts covers the formats GitLab mixes across webhook payloads.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05Z0700",
}

// parseTimestamp walks the fallback chain: the first value that parses
// wins, and when none do the current time is used.
func parseTimestamp(values ...string) time.Time {
	for _, value := range values {
		if value == "" {
			continue
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, value); err == nil {
				return ts
			}
		}
	}
	return time.Now().UTC()
}
