package core

import "time"

// EventKind identifies the normalized type of a development event.
type EventKind string

const (
	KindMergeRequest EventKind = "merge_request"
	KindPipeline     EventKind = "pipeline"
	KindIssue        EventKind = "issue"
	KindPush         EventKind = "push"
	KindTagPush      EventKind = "tag_push"
	KindNote         EventKind = "note"
	KindJob          EventKind = "job"
	KindWikiPage     EventKind = "wiki_page"
	KindDeployment   EventKind = "deployment"
	KindRelease      EventKind = "release"
	KindGeneric      EventKind = "generic"
)

// Sentinel values used when a provider omits a display field.
const (
	NoBranch      = "N/A"
	UnknownAuthor = "Unknown"
)

// Event is the provider-agnostic representation of one development-activity
// notification. The ID is unique within one provider and object kind, not
// globally. Display fields are always populated; absent provider data is
// replaced with sentinels, never left empty.
type Event struct {
	ID          string    `json:"id"`
	Kind        EventKind `json:"kind"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	Branch      string    `json:"branch"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Timestamp   time.Time `json:"timestamp"`
	Metadata    Metadata  `json:"metadata"`
}

// Metadata is the kind-specific payload of an Event. The set of shapes is
// closed: one concrete struct per modeled kind plus GenericMetadata for
// everything else. Which shape accompanies which kind is fixed at
// construction by the provider parser.
type Metadata interface {
	isEventMetadata()
}

// MergeRequestSummary is a nested reference to a merge request carried by
// pipeline and note metadata.
type MergeRequestSummary struct {
	ID           int    `json:"id"`
	IID          int    `json:"iid"`
	Title        string `json:"title"`
	SourceBranch string `json:"sourceBranch"`
	TargetBranch string `json:"targetBranch"`
	State        string `json:"state"`
	MergeStatus  string `json:"mergeStatus,omitempty"`
}

// IssueSummary is a nested reference to an issue carried by note metadata.
type IssueSummary struct {
	ID    int    `json:"id"`
	IID   int    `json:"iid"`
	Title string `json:"title"`
	State string `json:"state"`
}

type MergeRequestMetadata struct {
	MergeRequestID              int      `json:"mergeRequestId"`
	MergeRequestIID             int      `json:"mergeRequestIid"`
	SourceBranch                string   `json:"sourceBranch"`
	TargetBranch                string   `json:"targetBranch"`
	State                       string   `json:"state"`
	Action                      string   `json:"action"`
	MergeStatus                 string   `json:"mergeStatus"`
	WorkInProgress              bool     `json:"workInProgress"`
	Assignees                   []string `json:"assignees"`
	Reviewers                   []string `json:"reviewers"`
	Labels                      []string `json:"labels"`
	MilestoneID                 int      `json:"milestoneId,omitempty"`
	BlockingDiscussionsResolved bool     `json:"blockingDiscussionsResolved"`
}

// PipelineStage summarizes one build within a pipeline.
type PipelineStage struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	AllowFailure bool   `json:"allowFailure"`
}

type PipelineMetadata struct {
	PipelineID     int                  `json:"pipelineId"`
	PipelineIID    int                  `json:"pipelineIid,omitempty"`
	Status         string               `json:"status"`
	Ref            string               `json:"ref"`
	SHA            string               `json:"sha"`
	BeforeSHA      string               `json:"beforeSha"`
	Source         string               `json:"source"`
	Tag            bool                 `json:"tag"`
	Duration       int                  `json:"duration,omitempty"`
	QueuedDuration int                  `json:"queuedDuration,omitempty"`
	CreatedAt      string               `json:"createdAt"`
	FinishedAt     string               `json:"finishedAt,omitempty"`
	Stages         []PipelineStage      `json:"stages"`
	MergeRequest   *MergeRequestSummary `json:"mergeRequest,omitempty"`
}

type IssueMetadata struct {
	IssueID        int      `json:"issueId"`
	IssueIID       int      `json:"issueIid"`
	State          string   `json:"state"`
	Action         string   `json:"action"`
	Confidential   bool     `json:"confidential"`
	Labels         []string `json:"labels"`
	Assignees      []string `json:"assignees"`
	MilestoneID    int      `json:"milestoneId,omitempty"`
	DueDate        string   `json:"dueDate,omitempty"`
	TimeEstimate   int      `json:"timeEstimate"`
	TotalTimeSpent int      `json:"totalTimeSpent"`
	Weight         int      `json:"weight,omitempty"`
	HealthStatus   string   `json:"healthStatus,omitempty"`
	Severity       string   `json:"severity,omitempty"`
}

// CommitAuthor identifies the author of a pushed commit.
type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Commit is one commit carried by push and tag push metadata.
type Commit struct {
	ID        string       `json:"id"`
	Message   string       `json:"message"`
	Title     string       `json:"title,omitempty"`
	Timestamp string       `json:"timestamp"`
	URL       string       `json:"url"`
	Author    CommitAuthor `json:"author"`
	Added     []string     `json:"added,omitempty"`
	Modified  []string     `json:"modified,omitempty"`
	Removed   []string     `json:"removed,omitempty"`
}

type PushMetadata struct {
	Ref               string   `json:"ref"`
	Before            string   `json:"before"`
	After             string   `json:"after"`
	CheckoutSHA       string   `json:"checkoutSha"`
	RefProtected      bool     `json:"refProtected"`
	TotalCommitsCount int      `json:"totalCommitsCount"`
	Commits           []Commit `json:"commits"`
}

type TagPushMetadata struct {
	Ref               string   `json:"ref"`
	Before            string   `json:"before"`
	After             string   `json:"after"`
	CheckoutSHA       string   `json:"checkoutSha"`
	Tag               string   `json:"tag"`
	TotalCommitsCount int      `json:"totalCommitsCount"`
	Commits           []Commit `json:"commits"`
}

type NoteMetadata struct {
	NoteID       int                  `json:"noteId"`
	NoteableType string               `json:"noteableType"`
	NoteableID   int                  `json:"noteableId"`
	Note         string               `json:"note"`
	System       bool                 `json:"system"`
	LineCode     string               `json:"lineCode,omitempty"`
	CommitID     string               `json:"commitId,omitempty"`
	DiscussionID string               `json:"discussionId,omitempty"`
	Resolved     bool                 `json:"resolved"`
	ResolvedAt   string               `json:"resolvedAt,omitempty"`
	ResolvedByID int                  `json:"resolvedById,omitempty"`
	MergeRequest *MergeRequestSummary `json:"mergeRequest,omitempty"`
	Issue        *IssueSummary        `json:"issue,omitempty"`
}

// GenericMetadata preserves the raw payload of event kinds the parser does
// not specialize. Raw holds the entire untyped payload for
// forward-compatibility and debugging.
type GenericMetadata struct {
	EventType  string         `json:"eventType"`
	ObjectKind string         `json:"objectKind"`
	Raw        map[string]any `json:"rawData"`
}

func (MergeRequestMetadata) isEventMetadata() {}
func (PipelineMetadata) isEventMetadata()     {}
func (IssueMetadata) isEventMetadata()        {}
func (PushMetadata) isEventMetadata()         {}
func (TagPushMetadata) isEventMetadata()      {}
func (NoteMetadata) isEventMetadata()         {}
func (GenericMetadata) isEventMetadata()      {}
