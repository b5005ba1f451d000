package auth_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/forgeworks-io/atlas/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicAuthProvider(t *testing.T) {
	t.Parallel()

	provider := auth.NewBasicAuthProvider("user@example.com", "api-token")

	header, err := provider.AuthorizationHeader(context.Background())
	require.NoError(t, err)

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user@example.com:api-token"))
	assert.Equal(t, expected, header)
}

func TestStaticTokenProvider(t *testing.T) {
	t.Parallel()

	provider := auth.NewStaticTokenProvider("access-token")

	header, err := provider.AuthorizationHeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-token", header)
}
