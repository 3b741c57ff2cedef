package uibot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LoginState classifies the location reached after submitting credentials.
type LoginState int

const (
	// LoginFailed covers every failure the other states don't name:
	// missing form fields, a submit that never left the login page.
	LoginFailed LoginState = iota
	// LoginAuthenticated means the session is usable.
	LoginAuthenticated
	// LoginVerificationRequired means the platform raised a security
	// checkpoint. It is surfaced to the operator, never solved here.
	LoginVerificationRequired
)

func (s LoginState) String() string {
	switch s {
	case LoginAuthenticated:
		return "authenticated"
	case LoginVerificationRequired:
		return "verification_required"
	default:
		return "unknown_failure"
	}
}

const loginFormTimeout = 10 * time.Second

var (
	queryUsername = CSS("#username")
	queryPassword = CSS("#password")
	querySubmit   = XPath(`//button[@type="submit"]`)
)

// Login runs the one-time login state machine: submit credentials, wait,
// classify the resulting location.
func (b *Bot) Login(ctx context.Context, email, password string) (LoginState, error) {
	s := b.surface
	if err := s.Navigate(ctx, b.baseURL+"/login"); err != nil {
		return LoginFailed, err
	}
	s.Sleep(2 * b.settle)

	user, err := s.WaitVisible(queryUsername, loginFormTimeout)
	if err != nil {
		return LoginFailed, fmt.Errorf("login form never appeared: %w", err)
	}
	if err := user.Input(email); err != nil {
		return LoginFailed, fmt.Errorf("enter email: %w", err)
	}

	pass, err := s.WaitVisible(queryPassword, loginFormTimeout)
	if err != nil {
		return LoginFailed, fmt.Errorf("password field: %w", err)
	}
	if err := pass.Input(password); err != nil {
		return LoginFailed, fmt.Errorf("enter password: %w", err)
	}

	submits, err := s.Find(querySubmit)
	if err != nil {
		return LoginFailed, err
	}
	if len(submits) == 0 {
		return LoginFailed, fmt.Errorf("no submit control on login page")
	}
	if err := submits[0].Click(); err != nil {
		return LoginFailed, fmt.Errorf("submit login: %w", err)
	}
	s.Sleep(3 * b.settle)

	loc, err := s.CurrentURL()
	if err != nil {
		return LoginFailed, err
	}
	state := classifyLoginLocation(loc)
	b.log.Info("login attempt classified",
		zap.String("location", loc),
		zap.String("state", state.String()))
	return state, nil
}

// classifyLoginLocation maps the post-submit location to a login state.
// A location still on the login page means the credentials were rejected;
// any other destination besides a checkpoint counts as a usable session,
// since the landing page varies by account.
func classifyLoginLocation(loc string) LoginState {
	switch {
	case containsAny(loc, "checkpoint", "challenge"):
		return LoginVerificationRequired
	case containsAny(loc, "feed", "mynetwork"):
		return LoginAuthenticated
	case containsAny(loc, "/login"):
		return LoginFailed
	default:
		return LoginAuthenticated
	}
}
