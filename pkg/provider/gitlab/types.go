package gitlab

// Webhook payload shapes, reduced to the fields the parser maps. GitLab
// sends many more; unknown fields are ignored by encoding/json.

type userPayload struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type projectPayload struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	WebURL            string `json:"web_url"`
	PathWithNamespace string `json:"path_with_namespace"`
}

type labelPayload struct {
	Name string `json:"name"`
}

type envelope struct {
	ObjectKind string `json:"object_kind"`
	EventName  string `json:"event_name"`
}

type mergeRequestAttributes struct {
	ID                          int    `json:"id"`
	IID                         int    `json:"iid"`
	Title                       string `json:"title"`
	Description                 string `json:"description"`
	SourceBranch                string `json:"source_branch"`
	TargetBranch                string `json:"target_branch"`
	State                       string `json:"state"`
	MergeStatus                 string `json:"merge_status"`
	Action                      string `json:"action"`
	URL                         string `json:"url"`
	CreatedAt                   string `json:"created_at"`
	UpdatedAt                   string `json:"updated_at"`
	WorkInProgress              bool   `json:"work_in_progress"`
	MilestoneID                 int    `json:"milestone_id"`
	BlockingDiscussionsResolved bool   `json:"blocking_discussions_resolved"`
}

type mergeRequestEvent struct {
	ObjectKind       string                 `json:"object_kind"`
	User             userPayload            `json:"user"`
	Project          projectPayload         `json:"project"`
	ObjectAttributes mergeRequestAttributes `json:"object_attributes"`
	Assignees        []userPayload          `json:"assignees"`
	Reviewers        []userPayload          `json:"reviewers"`
	Labels           []labelPayload         `json:"labels"`
}

type pipelineAttributes struct {
	ID             int    `json:"id"`
	IID            int    `json:"iid"`
	Ref            string `json:"ref"`
	Tag            bool   `json:"tag"`
	SHA            string `json:"sha"`
	BeforeSHA      string `json:"before_sha"`
	Source         string `json:"source"`
	Status         string `json:"status"`
	Duration       int    `json:"duration"`
	QueuedDuration int    `json:"queued_duration"`
	CreatedAt      string `json:"created_at"`
	FinishedAt     string `json:"finished_at"`
}

type pipelineBuild struct {
	Stage        string `json:"stage"`
	Status       string `json:"status"`
	AllowFailure bool   `json:"allow_failure"`
}

type mergeRequestRef struct {
	ID           int    `json:"id"`
	IID          int    `json:"iid"`
	Title        string `json:"title"`
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
	State        string `json:"state"`
	MergeStatus  string `json:"merge_status"`
}

type pipelineEvent struct {
	ObjectKind       string             `json:"object_kind"`
	User             userPayload        `json:"user"`
	Project          projectPayload     `json:"project"`
	ObjectAttributes pipelineAttributes `json:"object_attributes"`
	Builds           []pipelineBuild    `json:"builds"`
	MergeRequest     *mergeRequestRef   `json:"merge_request"`
}

type issueAttributes struct {
	ID             int    `json:"id"`
	IID            int    `json:"iid"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	State          string `json:"state"`
	Action         string `json:"action"`
	Confidential   bool   `json:"confidential"`
	URL            string `json:"url"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	MilestoneID    int    `json:"milestone_id"`
	DueDate        string `json:"due_date"`
	TimeEstimate   int    `json:"time_estimate"`
	TotalTimeSpent int    `json:"total_time_spent"`
	Weight         int    `json:"weight"`
	HealthStatus   string `json:"health_status"`
	Severity       string `json:"severity"`
}

type issueEvent struct {
	ObjectKind       string          `json:"object_kind"`
	User             userPayload     `json:"user"`
	Project          projectPayload  `json:"project"`
	ObjectAttributes issueAttributes `json:"object_attributes"`
	Assignees        []userPayload   `json:"assignees"`
	Labels           []labelPayload  `json:"labels"`
}

type commitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type commitPayload struct {
	ID        string       `json:"id"`
	Message   string       `json:"message"`
	Title     string       `json:"title"`
	Timestamp string       `json:"timestamp"`
	URL       string       `json:"url"`
	Author    commitAuthor `json:"author"`
	Added     []string     `json:"added"`
	Modified  []string     `json:"modified"`
	Removed   []string     `json:"removed"`
}

type pushEvent struct {
	ObjectKind        string          `json:"object_kind"`
	Ref               string          `json:"ref"`
	Before            string          `json:"before"`
	After             string          `json:"after"`
	CheckoutSHA       string          `json:"checkout_sha"`
	RefProtected      bool            `json:"ref_protected"`
	UserName          string          `json:"user_name"`
	Project           projectPayload  `json:"project"`
	Commits           []commitPayload `json:"commits"`
	TotalCommitsCount int             `json:"total_commits_count"`
}

type noteAttributes struct {
	ID           int    `json:"id"`
	Note         string `json:"note"`
	NoteableType string `json:"noteable_type"`
	NoteableID   int    `json:"noteable_id"`
	System       bool   `json:"system"`
	LineCode     string `json:"line_code"`
	CommitID     string `json:"commit_id"`
	DiscussionID string `json:"discussion_id"`
	URL          string `json:"url"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	ResolvedAt   string `json:"resolved_at"`
	ResolvedByID int    `json:"resolved_by_id"`
}

type issueRef struct {
	ID    int    `json:"id"`
	IID   int    `json:"iid"`
	Title string `json:"title"`
	State string `json:"state"`
}

type noteEvent struct {
	ObjectKind       string           `json:"object_kind"`
	User             userPayload      `json:"user"`
	Project          projectPayload   `json:"project"`
	ObjectAttributes noteAttributes   `json:"object_attributes"`
	MergeRequest     *mergeRequestRef `json:"merge_request"`
	Issue            *issueRef        `json:"issue"`
}
