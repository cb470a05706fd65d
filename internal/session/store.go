package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/FlowFeed/feed-client/internal/api"
	"github.com/FlowFeed/feed-client/internal/credstore"
	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/model"
	"github.com/FlowFeed/feed-client/pkg/utils"
	"go.uber.org/zap"
)

// ErrNoCredential distinguishes "nothing stored" from a failed network check.
// Reauthenticate fails fast with it before any remote call.
var ErrNoCredential = errors.New("no stored credential")

type Remote interface {
	Login(ctx context.Context, email string, password string) (*dto.AuthResponse, error)
	Register(ctx context.Context, input dto.RegisterRequest) (string, error)
	VerifyOTP(ctx context.Context, input dto.VerifyOTPRequest) (*dto.AuthResponse, error)
	VerifyToken(ctx context.Context, token string) (*dto.UserDetail, error)
}

// Store is the process-wide authority for who is logged in and with what
// credential. It is the sole writer of the credential; everything else reads
// it through Token at the point of use.
type Store struct {
	logger *zap.Logger
	remote Remote
	creds  credstore.Store

	mu       sync.RWMutex
	token    string
	identity *model.Identity
}

func New(logger *zap.Logger, remote Remote, creds credstore.Store) *Store {
	return &Store{
		logger: logger,
		remote: remote,
		creds:  creds,
	}
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Identity() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return model.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.UserID
}

func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

func (s *Store) Login(ctx context.Context, email string, password string) (model.Identity, error) {
	resp, err := s.remote.Login(ctx, email, password)
	if err != nil {
		return model.Identity{}, err
	}

	return s.establish(resp.Token, resp.Detail), nil
}

func (s *Store) Register(ctx context.Context, input dto.RegisterRequest) (string, error) {
	return s.remote.Register(ctx, input)
}

// VerifyOTP completes the signup flow; a successful verification behaves like
// a login.
func (s *Store) VerifyOTP(ctx context.Context, input dto.VerifyOTPRequest) (model.Identity, error) {
	resp, err := s.remote.VerifyOTP(ctx, input)
	if err != nil {
		return model.Identity{}, err
	}

	return s.establish(resp.Token, resp.Detail), nil
}

// Reauthenticate restores a session from the persisted credential. The stored
// credential is purged only when it is definitely dead: a locally detected
// expiry or an explicit invalid-token response. Transport failures leave it in
// place so a transient outage does not log the user out.
func (s *Store) Reauthenticate(ctx context.Context) (model.Identity, error) {
	token, err := s.creds.Load()
	if err == credstore.ErrNotFound {
		return model.Identity{}, &api.AuthError{Message: "Not signed in", Err: ErrNoCredential}
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to read stored credential: %s", err.Error())
		return model.Identity{}, &api.AuthError{Message: "Not signed in", Err: err}
	}

	if utils.TokenExpired(token, time.Now()) {
		s.purgeCredential()
		return model.Identity{}, &api.AuthError{Message: "Session expired", Err: api.ErrInvalidToken}
	}

	detail, err := s.remote.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrInvalidToken) {
			s.purgeCredential()
		}
		return model.Identity{}, err
	}

	identity := identityFromDetail(*detail)
	s.mu.Lock()
	s.token = token
	s.identity = &identity
	s.mu.Unlock()

	return identity, nil
}

// Logout is side-effect only and cannot fail: the slot is cleared even if the
// store reports an error deleting it.
func (s *Store) Logout() {
	if err := s.creds.Delete(); err != nil {
		s.logger.Sugar().Errorf("failed to delete stored credential: %s", err.Error())
	}

	s.mu.Lock()
	s.token = ""
	s.identity = nil
	s.mu.Unlock()
}

// UpdateIdentity merges server-confirmed profile changes into the local
// identity. Local-only; no remote call.
func (s *Store) UpdateIdentity(upd model.IdentityUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return
	}

	if upd.FullName != nil {
		s.identity.FullName = *upd.FullName
	}
	if upd.MobileNum != nil {
		s.identity.MobileNum = *upd.MobileNum
	}
	if upd.AvatarURL != nil {
		s.identity.AvatarURL = *upd.AvatarURL
	}
}

func (s *Store) establish(token string, detail dto.UserDetail) model.Identity {
	if token != "" {
		if err := s.creds.Save(token); err != nil {
			s.logger.Sugar().Errorf("failed to persist credential: %s", err.Error())
		}
	}

	identity := identityFromDetail(detail)
	s.mu.Lock()
	s.token = token
	s.identity = &identity
	s.mu.Unlock()

	return identity
}

func (s *Store) purgeCredential() {
	if err := s.creds.Delete(); err != nil {
		s.logger.Sugar().Errorf("failed to purge stored credential: %s", err.Error())
	}
}

func identityFromDetail(detail dto.UserDetail) model.Identity {
	return model.Identity{
		UserID:    detail.ID,
		Username:  detail.Username,
		FullName:  detail.FullName,
		Email:     detail.Email,
		MobileNum: detail.MobileNum,
		Gender:    detail.Gender,
		AvatarURL: detail.AvatarURL,
	}
}
