// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"moviecat/cli/internal/backend"
	apperrors "moviecat/cli/internal/errors"
	"moviecat/cli/internal/httperrors"
	"moviecat/cli/internal/logging"
)

// User-visible failure messages.
const (
	MsgUsernameRequired = "username is required"
	MsgLoginFailed      = backend.MsgLoginFailed
	MsgRegisterFailed   = "registration failed"
	MsgFormat           = backend.MsgFormat
	MsgNetwork          = httperrors.MsgNetwork
	MsgStorage          = "could not save credentials"
	MsgLoggedIn         = "login successful"
	MsgLoggedOut        = "logged out"
)

// CredentialInstaller is the pipeline's default-credential slot.
type CredentialInstaller interface {
	SetDefaultCredential(token string)
	ClearDefaultCredential()
}

// Result is what Login, Register and Logout report. They never return errors.
type Result struct {
	Success bool
	UserID  string
	Message string
}

// Options wires a Service.
type Options struct {
	API      backend.API
	Store    Store
	Session  *Session
	Pipeline CredentialInstaller
	Logger   *zap.Logger
	// Timeout bounds the verification call of Reconcile. Zero means none
	// beyond the caller's context.
	Timeout time.Duration
}

// Service performs every session transition.
type Service struct {
	api     backend.API
	store   Store
	session *Session
	pipe    CredentialInstaller
	log     *zap.Logger
	timeout time.Duration

	// mu makes the store writes and the state change of one call a single
	// step. It is never held across a network call.
	mu sync.Mutex
}

// NewService builds a Service. A nil Session gets a fresh logged-out one.
func NewService(opt Options) *Service {
	sess := opt.Session
	if sess == nil {
		sess = NewSession()
	}
	pipe := opt.Pipeline
	if pipe == nil {
		pipe = nopInstaller{}
	}
	return &Service{
		api:     opt.API,
		store:   opt.Store,
		session: sess,
		pipe:    pipe,
		log:     logging.OrNop(opt.Logger),
		timeout: opt.Timeout,
	}
}

// Session returns the session container for read-only use.
func (s *Service) Session() *Session { return s.session }

// Credential returns the bearer token for outgoing requests: the session's
// when logged in, else the stored one.
func (s *Service) Credential(ctx context.Context) (string, bool) {
	if c := s.session.Snapshot().Credential; c != "" {
		return c, true
	}
	if s.store == nil {
		return "", false
	}
	return s.store.Get(ctx, KeyToken)
}

// Stored returns the persistent record as it is now.
func (s *Service) Stored(ctx context.Context) Record {
	return loadRecord(ctx, s.store)
}

// Login exchanges username and password for a session. rememberMe selects
// the record's lifetime and how Reconcile treats it on the next start.
func (s *Service) Login(ctx context.Context, username, password string, rememberMe bool) Result {
	username = strings.TrimSpace(username)
	if username == "" {
		return Result{Message: MsgUsernameRequired}
	}
	s.clearStale(ctx)

	lr, err := s.api.Login(ctx, username, password)
	return s.finish(ctx, "login", lr, err, rememberMe, MsgLoginFailed)
}

// Register creates an account and, on success, behaves like Login.
func (s *Service) Register(ctx context.Context, username, password, email string, rememberMe bool) Result {
	username = strings.TrimSpace(username)
	if username == "" {
		return Result{Message: MsgUsernameRequired}
	}
	s.clearStale(ctx)

	lr, err := s.api.Register(ctx, username, password, strings.TrimSpace(email))
	return s.finish(ctx, "register", lr, err, rememberMe, MsgRegisterFailed)
}

// Logout clears the record, the session and the installed credential.
// Calling it while logged out is a no-op with the same outcome.
func (s *Service) Logout(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := clearRecord(ctx, s.store)
	s.session.reset()
	s.pipe.ClearDefaultCredential()
	if err != nil {
		s.log.Warn("logout could not clear the credential store", zap.Error(err))
		return Result{Message: apperrors.MessageOf(err)}
	}
	s.log.Debug("logged out")
	return Result{Success: true, Message: MsgLoggedOut}
}

// Guard runs before commands that need a session. When the session is
// logged in but the store no longer holds a token, because another process
// logged out, the session is dropped.
func (s *Service) Guard(ctx context.Context) State {
	st := s.session.Snapshot()
	if !st.IsLoggedIn() {
		return st
	}
	if _, ok := s.store.Get(ctx, KeyToken); ok {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Info("stored credential gone, dropping session", zap.String("user_id", st.UserID))
	s.session.reset()
	s.pipe.ClearDefaultCredential()
	return State{}
}

// clearStale removes any previous record before a new login so that no
// field of an old session can leak into the new one.
func (s *Service) clearStale(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := clearRecord(ctx, s.store); err != nil {
		s.log.Warn("could not clear previous credentials", zap.Error(err))
	}
}

func (s *Service) finish(ctx context.Context, op string, lr backend.LoginResult, err error, rememberMe bool, fallback string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		rec := Record{Token: lr.Token, UserID: lr.UserID, Username: lr.Username, RememberMe: rememberMe}
		err = saveRecord(ctx, s.store, rec)
	}
	if err != nil {
		s.failLocked(ctx)
		msg := failureMessage(err, fallback)
		s.log.Info(op+" failed",
			zap.String("kind", string(apperrors.KindOf(err))),
			logging.Masked("message", msg),
		)
		return Result{Message: msg}
	}

	s.session.set(State{Phase: Confirmed, UserID: lr.UserID, Username: lr.Username, Credential: lr.Token})
	s.pipe.SetDefaultCredential(lr.Token)
	s.log.Info(op+" succeeded",
		zap.String("user_id", lr.UserID),
		logging.Token("token", lr.Token),
		zap.Bool("remember_me", rememberMe),
	)

	msg := lr.Message
	if msg == "" {
		msg = MsgLoggedIn
	}
	return Result{Success: true, UserID: lr.UserID, Message: msg}
}

// failLocked returns everything to logged out. s.mu must be held.
func (s *Service) failLocked(ctx context.Context) {
	if err := clearRecord(ctx, s.store); err != nil {
		s.log.Warn("could not clear credentials", zap.Error(err))
	}
	s.session.reset()
	s.pipe.ClearDefaultCredential()
}

func failureMessage(err error, fallback string) string {
	switch apperrors.KindOf(err) {
	case apperrors.Rejected:
		if msg := apperrors.MessageOf(err); msg != "" {
			return msg
		}
	case apperrors.Malformed:
		return MsgFormat
	case apperrors.NoResponse:
		return MsgNetwork
	case apperrors.Storage:
		return MsgStorage
	}
	return fallback
}

type nopInstaller struct{}

func (nopInstaller) SetDefaultCredential(string) {}
func (nopInstaller) ClearDefaultCredential()     {}
