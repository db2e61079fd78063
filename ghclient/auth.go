package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/surajsub/workflow-dispatch/models"
	"golang.org/x/oauth2"
)

// Options tune client construction.
type Options struct {
	// BaseURL overrides https://api.github.com/.
	BaseURL string
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

func (o Options) transport() http.RoundTripper {
	if o.Transport != nil {
		return o.Transport
	}
	return http.DefaultTransport
}

// NewAppClient authenticates as the GitHub App itself using a JWT signed with
// the app's private key.
func NewAppClient(creds models.Credentials, opts Options) (WorkflowClient, error) {
	atr, err := newAppsTransport(creds, opts)
	if err != nil {
		return nil, err
	}
	return newWorkflowClient(&http.Client{Transport: atr}, opts.BaseURL)
}

// NewInstallationClient exchanges the app JWT for an installation token.
func NewInstallationClient(creds models.Credentials, opts Options) (WorkflowClient, error) {
	atr, err := newAppsTransport(creds, opts)
	if err != nil {
		return nil, err
	}
	itr := ghinstallation.NewFromAppsTransport(atr, creds.InstallationID)
	if opts.BaseURL != "" {
		itr.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return newWorkflowClient(&http.Client{Transport: itr}, opts.BaseURL)
}

// NewTokenClient authenticates with a static bearer token.
func NewTokenClient(creds models.Credentials, opts Options) (WorkflowClient, error) {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: opts.transport()})
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Secret})
	return newWorkflowClient(oauth2.NewClient(ctx, ts), opts.BaseURL)
}

func newWorkflowClient(httpClient *http.Client, baseURL string) (WorkflowClient, error) {
	c, err := NewRESTClient(httpClient, baseURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newAppsTransport(creds models.Credentials, opts Options) (*ghinstallation.AppsTransport, error) {
	appID, err := strconv.ParseInt(creds.AppID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid app id %q: %w", creds.AppID, err)
	}
	atr, err := ghinstallation.NewAppsTransport(opts.transport(), appID, []byte(creds.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to load app private key: %w", err)
	}
	if opts.BaseURL != "" {
		atr.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return atr, nil
}
