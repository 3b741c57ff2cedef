package uibot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func loginSurface(postSubmitURL string) *fakeSurface {
	s := newFakeSurface()
	s.put(queryUsername, &fakeElement{})
	s.put(queryPassword, &fakeElement{})
	s.put(querySubmit, &fakeElement{})
	s.url = postSubmitURL
	return s
}

func TestLogin_Authenticated(t *testing.T) {
	s := loginSurface("https://www.linkedin.com/feed/")
	state, err := newTestBot(s).Login(context.Background(), "me@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, LoginAuthenticated, state)

	user := s.elements[queryUsername.Expr][0]
	require.Equal(t, []string{"me@example.com"}, user.inputs)
	pass := s.elements[queryPassword.Expr][0]
	require.Equal(t, []string{"hunter2"}, pass.inputs)
}

func TestLogin_VerificationRequired(t *testing.T) {
	s := loginSurface("https://www.linkedin.com/checkpoint/challenge/abc")
	state, err := newTestBot(s).Login(context.Background(), "me@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, LoginVerificationRequired, state)
}

func TestLogin_StuckOnLoginPage(t *testing.T) {
	s := loginSurface("https://www.linkedin.com/login")
	state, err := newTestBot(s).Login(context.Background(), "me@example.com", "wrong")
	require.NoError(t, err)
	require.Equal(t, LoginFailed, state)
}

func TestLogin_UnrecognizedLandingCountsAsAuthenticated(t *testing.T) {
	s := loginSurface("https://www.linkedin.com/")
	state, err := newTestBot(s).Login(context.Background(), "me@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, LoginAuthenticated, state)
}

func TestLogin_FormNeverAppears(t *testing.T) {
	s := newFakeSurface()
	state, err := newTestBot(s).Login(context.Background(), "me@example.com", "hunter2")
	require.Error(t, err)
	require.Equal(t, LoginFailed, state)
}

func TestClassifyLoginLocation(t *testing.T) {
	tests := []struct {
		loc  string
		want LoginState
	}{
		{"https://www.linkedin.com/feed/", LoginAuthenticated},
		{"https://www.linkedin.com/mynetwork/", LoginAuthenticated},
		{"https://www.linkedin.com/checkpoint/xyz", LoginVerificationRequired},
		{"https://www.linkedin.com/challenge/xyz", LoginVerificationRequired},
		{"https://www.linkedin.com/login", LoginFailed},
		{"https://www.linkedin.com/", LoginAuthenticated},
	}
	for _, tt := range tests {
		if got := classifyLoginLocation(tt.loc); got != tt.want {
			t.Errorf("classifyLoginLocation(%q) = %v, want %v", tt.loc, got, tt.want)
		}
	}
}
