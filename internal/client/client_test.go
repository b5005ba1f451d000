package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(&atlas.Config{})
	assert.ErrorIs(t, err, atlas.ErrEndpointRequired)
}

func TestNew_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", user)
		assert.Equal(t, "api-token", secret)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pullRequestJSON(1, "OPEN"))
	}))
	defer server.Close()

	client, err := New(&atlas.Config{
		BitbucketEndpoint: server.URL,
		Username:          "user@example.com",
		Token:             "api-token",
	})
	require.NoError(t, err)

	pr, err := client.PullRequests("acme", "widgets").Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, pr.ID())
}

func TestNew_AccessTokenWinsOverBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer oauth-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pullRequestJSON(1, "OPEN"))
	}))
	defer server.Close()

	client, err := New(&atlas.Config{
		BitbucketEndpoint: server.URL,
		Username:          "user@example.com",
		Token:             "api-token",
		AccessToken:       "oauth-token",
	})
	require.NoError(t, err)

	_, err = client.PullRequests("acme", "widgets").Get(context.Background(), 1)
	require.NoError(t, err)
}

func TestNew_ServiceDeskSendsExperimentalHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.ExperimentalAPIValue, r.Header.Get(constants.ExperimentalAPIHeader))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"version": "5.12.0"})
	}))
	defer server.Close()

	client, err := New(&atlas.Config{ServiceDeskEndpoint: server.URL})
	require.NoError(t, err)

	info, err := client.ServiceDesk().GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.12.0", info.Version)
}
