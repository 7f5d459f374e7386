package gitlab

import (
	"context"
	"fmt"
	"strings"

	gl "github.com/xanzy/go-gitlab"
)

// Client wraps the official GitLab SDK for the remote lookups the provider
// adapter exposes.
type Client struct {
	api *gl.Client
}

// NewClient creates a GitLab API client for one configured connection.
// baseURL is the instance root ("https://gitlab.example.com"); the /api/v4
// suffix is added here.
func NewClient(baseURL, accessToken string) (*Client, error) {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = "https://gitlab.com"
	}
	api, err := gl.NewClient(accessToken, gl.WithBaseURL(base+"/api/v4"))
	if err != nil {
		return nil, fmt.Errorf("gitlab client: %w", err)
	}
	return &Client{api: api}, nil
}

// GetProject fetches one project by id or path.
func (c *Client) GetProject(ctx context.Context, projectID string) (*gl.Project, error) {
	project, _, err := c.api.Projects.GetProject(projectID, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	return project, nil
}

// ListProjects lists projects the token's user is a member of.
func (c *Client) ListProjects(ctx context.Context) ([]*gl.Project, error) {
	opts := &gl.ListProjectsOptions{
		Membership:  gl.Ptr(true),
		OrderBy:     gl.Ptr("name"),
		Sort:        gl.Ptr("asc"),
		ListOptions: gl.ListOptions{PerPage: 100},
	}
	projects, _, err := c.api.Projects.ListProjects(opts, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetMergeRequest fetches one merge request by project and iid.
func (c *Client) GetMergeRequest(ctx context.Context, projectID string, mergeRequestIID int) (*gl.MergeRequest, error) {
	mr, _, err := c.api.MergeRequests.GetMergeRequest(projectID, mergeRequestIID, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get merge request %s!%d: %w", projectID, mergeRequestIID, err)
	}
	return mr, nil
}

// GetPipeline fetches one pipeline by project and id.
func (c *Client) GetPipeline(ctx context.Context, projectID string, pipelineID int) (*gl.Pipeline, error) {
	pipeline, _, err := c.api.Pipelines.GetPipeline(projectID, pipelineID, gl.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get pipeline %s#%d: %w", projectID, pipelineID, err)
	}
	return pipeline, nil
}

// HealthCheck probes the API with the token's own user. Errors collapse to
// false.
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, _, err := c.api.Users.CurrentUser(gl.WithContext(ctx))
	return err == nil
}
