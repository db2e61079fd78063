package providers

import (
	"context"
	"os"
)

const DefaultCredentialEnv = "GITHUB_TOKEN"

// EnvSecretsProvider reads the credential from one environment variable. An
// unset or empty variable yields an empty credential, not an error.
type EnvSecretsProvider struct {
	variable string
}

func (e *EnvSecretsProvider) Init(_ context.Context, config map[string]string) error {
	e.variable = config["env"]
	if e.variable == "" {
		e.variable = DefaultCredentialEnv
	}
	return nil
}

func (e *EnvSecretsProvider) GetCredential(_ context.Context) (string, error) {
	return os.Getenv(e.variable), nil
}
