package authtoken

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

func testConfig(secret string) *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: secret, TTLHours: 1}}
}

func TestIssueParseRoundTrip(t *testing.T) {
	cfg := testConfig("test-secret")

	token, err := Issue(cfg, "user-123", types.RoleTrainer)
	require.NoError(t, err)

	claims, err := Parse(cfg, token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID)
	require.Equal(t, types.RoleTrainer, claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Issue(testConfig("secret-a"), "user-123", types.RoleUser)
	require.NoError(t, err)

	_, err = Parse(testConfig("secret-b"), token)
	require.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(testConfig("secret"), "not.a.token")
	require.Error(t, err)
}

func TestIssueRequiresSecret(t *testing.T) {
	_, err := Issue(testConfig(""), "user-123", types.RoleUser)
	require.Error(t, err)
}
