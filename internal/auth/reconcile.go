// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"

	"go.uber.org/zap"

	apperrors "moviecat/cli/internal/errors"
	"moviecat/cli/internal/logging"
)

// Outcome tells which path Reconcile took.
type Outcome int

const (
	// NoRecord: nothing usable was stored; the session is logged out.
	NoRecord Outcome = iota
	// Trusted: a remember-me record was accepted without asking the provider.
	Trusted
	// Verified: the provider confirmed the stored credential.
	Verified
	// Rejected: verification failed and the record was cleared.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Trusted:
		return "trusted (remember me)"
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return "no stored session"
	}
}

// Reconcile derives the session from the persistent record. It runs once
// when the process starts and never fails: whatever goes wrong ends in a
// well-defined logged-out or logged-in state.
//
// Remember-me records are trusted without a network call. Other records are
// verified against the profile endpoint and cleared on any failure,
// transport errors included.
func (s *Service) Reconcile(ctx context.Context) (State, Outcome) {
	rec := loadRecord(ctx, s.store)

	if !rec.complete() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !rec.empty() || rec.Username != "" {
			s.log.Info("clearing incomplete credential record",
				zap.Bool("has_token", rec.Token != ""),
				zap.Bool("has_user_id", rec.UserID != ""),
			)
			if err := clearRecord(ctx, s.store); err != nil {
				s.log.Warn("could not clear incomplete record", zap.Error(err))
			}
		}
		s.session.reset()
		return State{}, NoRecord
	}

	s.session.set(State{Phase: Provisional, UserID: rec.UserID, Username: rec.Username, Credential: rec.Token})

	if rec.RememberMe {
		s.mu.Lock()
		defer s.mu.Unlock()
		st := State{Phase: Confirmed, UserID: rec.UserID, Username: rec.Username, Credential: rec.Token}
		s.session.set(st)
		s.pipe.SetDefaultCredential(rec.Token)
		s.log.Debug("session trusted from remember-me record", zap.String("user_id", rec.UserID))
		return st, Trusted
	}

	vctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		vctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	prof, err := s.api.Profile(vctx, rec.Token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Info("stored session rejected",
			zap.String("kind", string(apperrors.KindOf(err))),
			logging.Masked("reason", apperrors.MessageOf(err)),
			logging.Token("token", rec.Token),
		)
		s.failLocked(ctx)
		return State{}, Rejected
	}

	verified := Record{Token: rec.Token, UserID: prof.ID.String(), Username: rec.Username}
	if prof.Username != "" {
		verified.Username = prof.Username
	}
	if verified.UserID != rec.UserID {
		s.log.Info("provider reports a different user id", zap.String("cached", rec.UserID), zap.String("verified", verified.UserID))
	}
	if err := saveRecord(ctx, s.store, verified); err != nil {
		s.log.Warn("could not refresh credential record", zap.Error(err))
	}

	st := State{Phase: Confirmed, UserID: verified.UserID, Username: verified.Username, Credential: rec.Token}
	s.session.set(st)
	s.pipe.SetDefaultCredential(rec.Token)
	return st, Verified
}
