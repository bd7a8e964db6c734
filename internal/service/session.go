package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/utils"
)

// SessionService issues, resolves and ends signed session tokens.  Each
// token's id is recorded so that logout takes effect before expiry.
type SessionService struct {
	sessions SessionStore
	secret   string
	ttl      time.Duration
	clock    Clock
	log      *zap.Logger
}

func NewSessionService(sessions SessionStore, secret string, ttl time.Duration, clock Clock, log *zap.Logger) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionService{sessions: sessions, secret: secret, ttl: ttl, clock: clock, log: log}
}

// TTL is the lifetime of a new session.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Start issues a session for u.
func (s *SessionService) Start(ctx context.Context, u *model.User) (utils.SessionToken, error) {
	tok, err := utils.NewSessionToken(s.secret, u.ID, u.Name, string(u.Role), s.ttl, s.clock.now())
	if err != nil {
		return utils.SessionToken{}, &StorageError{Op: "sign session", Err: err}
	}
	if err := s.sessions.Store(ctx, tok.ID, u.ID, tok.Exp); err != nil {
		return utils.SessionToken{}, translate("store session", err)
	}
	s.log.Info("session started", zap.Uint64("user_id", u.ID))
	return tok, nil
}

// Resolve turns a raw token into the principal it names.  A missing,
// invalid, expired or revoked token resolves to nil without error.
func (s *SessionService) Resolve(ctx context.Context, raw string) (*model.Principal, error) {
	if raw == "" {
		return nil, nil
	}
	now := s.clock.now()
	claims, err := utils.ParseSessionToken(s.secret, raw, now)
	if err != nil {
		return nil, nil
	}
	active, err := s.sessions.IsActive(ctx, claims.ID, now)
	if err != nil {
		return nil, translate("check session", err)
	}
	if !active {
		return nil, nil
	}
	uid, _ := claims.UserID()
	return &model.Principal{UserID: uid, Name: claims.Name, Role: model.ParseRole(claims.Role)}, nil
}

// End revokes the session behind raw.  Tokens that no longer verify are
// ignored.
func (s *SessionService) End(ctx context.Context, raw string) error {
	claims, err := utils.ParseSessionToken(s.secret, raw, s.clock.now())
	if errors.Is(err, utils.ErrInvalidToken) || claims == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return translate("revoke session", err)
	}
	return nil
}
