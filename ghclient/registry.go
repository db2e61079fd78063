package ghclient

import (
	"fmt"
	"sort"

	"github.com/surajsub/workflow-dispatch/models"
)

const (
	APP          = "app"
	INSTALLATION = "installation"
	TOKEN        = "token"
)

type ClientConstructor func(creds models.Credentials, opts Options) (WorkflowClient, error)

// Registry of auth modes and the constructors that build a client for them
var registry = make(map[string]ClientConstructor)

// RegisterAuth registers a client constructor under an auth mode name
func RegisterAuth(name string, constructor ClientConstructor) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("Auth mode %s is already registered", name))
	}
	registry[name] = constructor
}

// NewClient builds a client for the named auth mode
func NewClient(mode string, creds models.Credentials, opts Options) (WorkflowClient, error) {
	constructor, exists := registry[mode]
	if !exists {
		return nil, fmt.Errorf("auth mode %s not found", mode)
	}
	return constructor(creds, opts)
}

// AuthModes lists the registered auth modes in sorted order.
func AuthModes() []string {
	modes := make([]string, 0, len(registry))
	for name := range registry {
		modes = append(modes, name)
	}
	sort.Strings(modes)
	return modes
}

func init() {
	RegisterAuth(APP, NewAppClient)
	RegisterAuth(INSTALLATION, NewInstallationClient)
	RegisterAuth(TOKEN, NewTokenClient)
}
