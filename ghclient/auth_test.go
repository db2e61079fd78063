package ghclient

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surajsub/workflow-dispatch/models"
)

func testPrivateKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

func TestNewAppClient_SignsJWT(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewAppClient(models.Credentials{AppID: "810560", Secret: testPrivateKey(t)}, Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.DispatchWorkflow(context.Background(), testRequest())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(gotAuth, "Bearer "), "got %q", gotAuth)
	assert.Len(t, strings.Split(strings.TrimPrefix(gotAuth, "Bearer "), "."), 3)
}

func TestNewAppClient_EmptyKey(t *testing.T) {
	client, err := NewAppClient(models.Credentials{AppID: "810560"}, Options{})
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestNewAppClient_InvalidAppID(t *testing.T) {
	_, err := NewAppClient(models.Credentials{AppID: "not-a-number", Secret: testPrivateKey(t)}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid app id")
}

func TestNewInstallationClient_UsesInstallationToken(t *testing.T) {
	var dispatchAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/app/installations/42/access_tokens":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = fmt.Fprintf(w, `{"token":"inst-token","expires_at":%q}`, time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
		default:
			dispatchAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	creds := models.Credentials{AppID: "810560", InstallationID: 42, Secret: testPrivateKey(t)}
	client, err := NewInstallationClient(creds, Options{BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.DispatchWorkflow(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, dispatchAuth, "inst-token")
}

func TestNewTokenClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewTokenClient(models.Credentials{Secret: "t0ken"}, Options{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.DispatchWorkflow(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t0ken", gotAuth)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{APP, INSTALLATION, TOKEN}, AuthModes())

	_, err := NewClient("kerberos", models.Credentials{}, Options{})
	assert.EqualError(t, err, "auth mode kerberos not found")

	assert.Panics(t, func() { RegisterAuth(TOKEN, NewTokenClient) })

	client, err := NewClient(TOKEN, models.Credentials{Secret: "x"}, Options{})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
