package config

import (
	"fmt"
	"os"

	"github.com/surajsub/workflow-dispatch/ghclient"
	"github.com/surajsub/workflow-dispatch/models"
	"github.com/surajsub/workflow-dispatch/providers"
	"gopkg.in/yaml.v3"
)

type Config struct {
	GitHub      GitHubConfig           `yaml:"github"`
	Credentials CredentialsConfig      `yaml:"credentials"`
	Dispatch    models.DispatchRequest `yaml:"dispatch"`
	Server      ServerConfig           `yaml:"server"`
	Log         LogConfig              `yaml:"log"`
}

type GitHubConfig struct {
	APIURL         string `yaml:"api_url"`
	Auth           string `yaml:"auth"`
	AppID          string `yaml:"app_id"`
	InstallationID int64  `yaml:"installation_id"`
}

type CredentialsConfig struct {
	Provider string      `yaml:"provider"`
	Env      string      `yaml:"env"`
	Vault    VaultConfig `yaml:"vault"`
}

type VaultConfig struct {
	Address      string `yaml:"address"`
	MountPath    string `yaml:"mount_path"`
	SecretPath   string `yaml:"secret_path"`
	Key          string `yaml:"key"`
	CACert       string `yaml:"ca_cert"`
	AppRoleMount string `yaml:"approle_mount"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Auth:  ghclient.APP,
			AppID: "810560",
		},
		Credentials: CredentialsConfig{
			Provider: providers.ENV,
			Env:      providers.DefaultCredentialEnv,
		},
		Dispatch: models.DispatchRequest{
			Owner:      "manasvinibs",
			Repo:       "Opensearch-Dashboards",
			WorkflowID: "dashboards_cypress_workflow.yml",
			Ref:        "POC",
		},
		Server: ServerConfig{Address: ":8080"},
		Log:    LogConfig{Format: "json"},
	}
}

// LoadConfig reads filePath over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(filePath string) (*Config, error) {
	config := Default()
	if filePath == "" {
		return config, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}
	return config, nil
}

// CredentialsWith returns the app identity with the given secret attached.
func (c *Config) CredentialsWith(secret string) models.Credentials {
	return models.Credentials{
		AppID:          c.GitHub.AppID,
		InstallationID: c.GitHub.InstallationID,
		Secret:         secret,
	}
}

// ProviderConfig flattens the credential settings into the map form
// providers.GetSecretsProvider takes.
func (c *Config) ProviderConfig() map[string]string {
	v := c.Credentials.Vault
	return map[string]string{
		"env":           c.Credentials.Env,
		"address":       v.Address,
		"mount_path":    v.MountPath,
		"secret_path":   v.SecretPath,
		"key":           v.Key,
		"ca_cert":       v.CACert,
		"approle_mount": v.AppRoleMount,
	}
}
