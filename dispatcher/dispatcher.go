package dispatcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/surajsub/workflow-dispatch/config"
	"github.com/surajsub/workflow-dispatch/ghclient"
	"github.com/surajsub/workflow-dispatch/metrics"
	"github.com/surajsub/workflow-dispatch/models"
	"github.com/surajsub/workflow-dispatch/providers"
)

const (
	successLine = "logging octokit rest api response: "
	failureLine = "Encountered error on octokit request"
)

// ClientFactory builds a GitHub client for an auth mode. ghclient.NewClient is
// the production factory.
type ClientFactory func(mode string, creds models.Credentials, opts ghclient.Options) (ghclient.WorkflowClient, error)

// Result is the outcome of one dispatch. Err is nil on success.
type Result struct {
	DispatchID string
	StatusCode int
	Body       []byte
	Duration   time.Duration
	Err        error
}

func (r Result) OK() bool { return r.Err == nil }

// Dispatcher sends workflow_dispatch events. Every failure is caught, printed
// and returned in the Result; nothing is retried.
type Dispatcher struct {
	Request  models.DispatchRequest
	AuthMode string
	Identity models.Credentials
	Options  ghclient.Options

	Secrets   providers.SecretsProvider
	NewClient ClientFactory
	Metrics   metrics.Sink
	Logger    *logrus.Logger

	Stdout io.Writer
	Stderr io.Writer
}

// NewDispatcher wires a dispatcher from cfg, writing console output to the
// process stdout and stderr.
func NewDispatcher(cfg *config.Config, secrets providers.SecretsProvider, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		Request:   cfg.Dispatch,
		AuthMode:  cfg.GitHub.Auth,
		Identity:  cfg.CredentialsWith(""),
		Options:   ghclient.Options{BaseURL: cfg.GitHub.APIURL},
		Secrets:   secrets,
		NewClient: ghclient.NewClient,
		Metrics:   metrics.NoopSink{},
		Logger:    logger,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Trigger dispatches the configured request.
func (d *Dispatcher) Trigger(ctx context.Context) Result {
	return d.Dispatch(ctx, d.Request)
}

// Dispatch sends req once and reports the outcome on the console. The console
// lines are written before any structured log entry.
func (d *Dispatcher) Dispatch(ctx context.Context, req models.DispatchRequest) Result {
	res := Result{DispatchID: uuid.NewString()}
	log := d.Logger.WithFields(logrus.Fields{
		"dispatch_id": res.DispatchID,
		"owner":       req.Owner,
		"repo":        req.Repo,
		"workflow_id": req.WorkflowID,
		"ref":         req.Ref,
		"auth":        d.AuthMode,
	})
	log.Debug("Dispatching workflow")

	start := time.Now()
	resp, err := d.call(ctx, req)
	res.Duration = time.Since(start)
	if resp != nil {
		res.StatusCode = resp.StatusCode
		res.Body = resp.Body
	}

	if err != nil {
		res.Err = err
		fmt.Fprintln(d.Stdout, failureLine)
		fmt.Fprintln(d.Stderr, err)
		log.WithError(err).WithField("status_code", res.StatusCode).Error("Workflow dispatch failed")
		d.Metrics.DispatchCompleted(metrics.OutcomeFailure, res.StatusCode, res.Duration)
		return res
	}

	fmt.Fprintln(d.Stdout, successLine)
	fmt.Fprintln(d.Stdout, string(res.Body))
	log.WithFields(logrus.Fields{
		"status_code": res.StatusCode,
		"request_id":  resp.RequestID,
		"duration":    res.Duration.String(),
	}).Info("Workflow dispatched")
	d.Metrics.DispatchCompleted(metrics.OutcomeSuccess, res.StatusCode, res.Duration)
	return res
}

// call never panics: a panic inside the client is turned into an error.
func (d *Dispatcher) call(ctx context.Context, req models.DispatchRequest) (resp *ghclient.DispatchResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("dispatch panicked: %v", r)
		}
	}()

	secret, err := d.Secrets.GetCredential(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	creds := d.Identity
	creds.Secret = secret
	client, err := d.NewClient(d.AuthMode, creds, d.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}
	return client.DispatchWorkflow(ctx, req)
}
