package providers

import (
	"context"
	"fmt"
)

const (
	ENV   = "env"
	VAULT = "vault"
)

// SecretsProvider supplies the credential handed to the GitHub client.
type SecretsProvider interface {
	Init(ctx context.Context, config map[string]string) error
	GetCredential(ctx context.Context) (string, error)
}

// GetSecretsProvider builds and initializes the named provider.
func GetSecretsProvider(ctx context.Context, providerType string, config map[string]string) (SecretsProvider, error) {
	var p SecretsProvider
	switch providerType {
	case ENV, "":
		p = &EnvSecretsProvider{}
	case VAULT:
		p = &VaultSecretsProvider{}
	default:
		return nil, fmt.Errorf("unsupported secrets provider %s", providerType)
	}
	if err := p.Init(ctx, config); err != nil {
		return nil, err
	}
	return p, nil
}
