package ghclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/github"
	"github.com/surajsub/workflow-dispatch/models"
)

// WorkflowClient triggers workflow_dispatch events.
type WorkflowClient interface {
	DispatchWorkflow(ctx context.Context, req models.DispatchRequest) (*DispatchResponse, error)
}

// DispatchResponse is what GitHub answered to a dispatch call.
type DispatchResponse struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

type dispatchPayload struct {
	Ref    string                `json:"ref"`
	Inputs models.WorkflowInputs `json:"inputs"`
}

// RESTClient issues dispatch calls through go-github.
type RESTClient struct {
	gh *github.Client
}

// NewRESTClient wraps httpClient. baseURL is optional and points at a GitHub
// Enterprise API root (or a test server).
func NewRESTClient(httpClient *http.Client, baseURL string) (*RESTClient, error) {
	gh := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}
	return &RESTClient{gh: gh}, nil
}

// DispatchWorkflow sends POST /repos/{owner}/{repo}/actions/workflows/{workflow_id}/dispatches.
// A non-2xx answer is returned as an error alongside the response.
func (c *RESTClient) DispatchWorkflow(ctx context.Context, req models.DispatchRequest) (*DispatchResponse, error) {
	u := fmt.Sprintf("repos/%v/%v/actions/workflows/%v/dispatches", req.Owner, req.Repo, req.WorkflowID)
	httpReq, err := c.gh.NewRequest(http.MethodPost, u, &dispatchPayload{Ref: req.Ref, Inputs: req.Inputs})
	if err != nil {
		return nil, fmt.Errorf("failed to build dispatch request: %w", err)
	}
	httpReq.Header.Set("X-GitHub-Api-Version", models.APIVersion)

	var body bytes.Buffer
	resp, err := c.gh.Do(ctx, httpReq, &body)
	return toDispatchResponse(resp, body.Bytes()), err
}

func toDispatchResponse(resp *github.Response, body []byte) *DispatchResponse {
	if resp == nil || resp.Response == nil {
		return nil
	}
	return &DispatchResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		RequestID:  resp.Header.Get("X-GitHub-Request-Id"),
	}
}
