package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer("test-secret", "relabel", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("alice", []string{RoleAdmin})
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Actor())
	assert.True(t, claims.HasRole(RoleAdmin))
	assert.False(t, claims.HasRole("editor"))
}

func TestVerifyRejects(t *testing.T) {
	issuer, err := NewIssuer("test-secret", "relabel", time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer("other-secret", "relabel", time.Hour)
	require.NoError(t, err)
	foreign, err := NewIssuer("test-secret", "someone-else", time.Hour)
	require.NoError(t, err)

	wrongSecret, _ := other.Issue("alice", nil)
	wrongIssuer, _ := foreign.Issue("alice", nil)

	expiring, err := NewIssuer("test-secret", "relabel", time.Minute)
	require.NoError(t, err)
	expiring.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _ := expiring.Issue("alice", nil)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "missing", token: "", want: ErrMissingToken},
		{name: "garbage", token: "not.a.token", want: ErrInvalidToken},
		{name: "wrong secret", token: wrongSecret, want: ErrInvalidToken},
		{name: "wrong issuer", token: wrongIssuer, want: ErrInvalidToken},
		{name: "expired", token: expired, want: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", "relabel", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestActorFallsBackToSubject(t *testing.T) {
	c := &Claims{}
	c.Subject = "bob"
	assert.Equal(t, "bob", c.Actor())
}
