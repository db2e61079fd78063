package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/surajsub/workflow-dispatch/config"
	"github.com/surajsub/workflow-dispatch/dispatcher"
	"github.com/surajsub/workflow-dispatch/logger"
	"github.com/surajsub/workflow-dispatch/providers"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "workflow-dispatch",
	Short: "Trigger a GitHub Actions workflow_dispatch event",
	Long: `workflow-dispatch sends one workflow_dispatch event to GitHub and prints the response.
Failures are printed, never retried, and do not change the exit code.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup("warn")
		if err != nil {
			return err
		}
		d := newDispatcher(cmd.Context(), cfg, log)
		d.Trigger(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML config file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

// setup loads the config. defaultLevel applies when neither the file nor
// --log-level names one.
func setup(defaultLevel string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLevel
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Format), nil
}

// newDispatcher never fails: a provider that cannot initialize is replaced by
// one that reports the error at dispatch time, so it goes through the same
// catch-and-log path as every other failure.
func newDispatcher(ctx context.Context, cfg *config.Config, log *logrus.Logger) *dispatcher.Dispatcher {
	secrets, err := providers.GetSecretsProvider(ctx, cfg.Credentials.Provider, cfg.ProviderConfig())
	if err != nil {
		secrets = failedProvider{err: err}
	}
	return dispatcher.NewDispatcher(cfg, secrets, log)
}

type failedProvider struct{ err error }

func (f failedProvider) Init(context.Context, map[string]string) error { return f.err }

func (f failedProvider) GetCredential(context.Context) (string, error) { return "", f.err }

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
