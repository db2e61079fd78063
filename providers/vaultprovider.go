package providers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/vault-client-go"
	"github.com/hashicorp/vault-client-go/schema"
)

// VaultSecretsProvider reads the credential from a KV v2 secret.
//
// Recognised config keys: address, mount_path, secret_path, key, ca_cert,
// approle_mount. The Vault token comes from VAULT_TOKEN; without one the
// provider logs in with AppRole using ROLE_ID and SECRET_ID.
type VaultSecretsProvider struct {
	client     *vault.Client
	mountPath  string
	secretPath string
	key        string
}

func (v *VaultSecretsProvider) Init(ctx context.Context, config map[string]string) error {
	v.mountPath = valueOr(config["mount_path"], "secret")
	v.secretPath = config["secret_path"]
	v.key = valueOr(config["key"], "private_key")

	opts := []vault.ClientOption{
		vault.WithAddress(valueOr(config["address"], "http://127.0.0.1:8200")),
		vault.WithRequestTimeout(30 * time.Second),
	}
	if caCert := config["ca_cert"]; caCert != "" {
		tls := vault.TLSConfiguration{}
		tls.ServerCertificate.FromFile = caCert
		opts = append(opts, vault.WithTLS(tls))
	}

	client, err := vault.New(opts...)
	if err != nil {
		return fmt.Errorf("vault client: %w", err)
	}

	token := os.Getenv("VAULT_TOKEN")
	if token == "" {
		resp, err := client.Auth.AppRoleLogin(
			ctx,
			schema.AppRoleLoginRequest{
				RoleId:   os.Getenv("ROLE_ID"),
				SecretId: os.Getenv("SECRET_ID"),
			},
			vault.WithMountPath(valueOr(config["approle_mount"], "approle")),
		)
		if err != nil {
			return fmt.Errorf("vault login failed: %w", err)
		}
		if resp == nil || resp.Auth == nil {
			return fmt.Errorf("vault login returned no auth block")
		}
		token = resp.Auth.ClientToken
	}
	if err := client.SetToken(token); err != nil {
		return fmt.Errorf("vault token: %w", err)
	}

	v.client = client
	return nil
}

func (v *VaultSecretsProvider) GetCredential(ctx context.Context) (string, error) {
	secret, err := v.client.Secrets.KvV2Read(ctx, v.secretPath, vault.WithMountPath(v.mountPath))
	if err != nil {
		return "", fmt.Errorf("vault read %s/%s: %w", v.mountPath, v.secretPath, err)
	}
	value, ok := secret.Data.Data[v.key]
	if !ok {
		return "", fmt.Errorf("vault secret %s/%s has no field %q", v.mountPath, v.secretPath, v.key)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("vault field %q is %T, not a string", v.key, value)
	}
	return s, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
