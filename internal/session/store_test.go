package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/FlowFeed/feed-client/internal/api"
	"github.com/FlowFeed/feed-client/internal/credstore"
	"github.com/FlowFeed/feed-client/internal/dto"
	"github.com/FlowFeed/feed-client/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRemote struct {
	loginResp  *dto.AuthResponse
	loginErr   error
	verifyResp *dto.UserDetail
	verifyErr  error
	otpResp    *dto.AuthResponse
	otpErr     error

	loginCalls  int
	verifyCalls int
	lastToken   string
}

func (f *fakeRemote) Login(ctx context.Context, email string, password string) (*dto.AuthResponse, error) {
	f.loginCalls++
	return f.loginResp, f.loginErr
}

func (f *fakeRemote) Register(ctx context.Context, input dto.RegisterRequest) (string, error) {
	return "OTP sent", nil
}

func (f *fakeRemote) VerifyOTP(ctx context.Context, input dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	return f.otpResp, f.otpErr
}

func (f *fakeRemote) VerifyToken(ctx context.Context, token string) (*dto.UserDetail, error) {
	f.verifyCalls++
	f.lastToken = token
	return f.verifyResp, f.verifyErr
}

func testDetail() dto.UserDetail {
	return dto.UserDetail{
		ID:        "u1",
		Username:  "jdoe",
		FullName:  "Jane Doe",
		Email:     "jane@example.com",
		MobileNum: "5550001",
		Gender:    "female",
		AvatarURL: "https://cdn.example.com/a.png",
	}
}

func newTestStore(remote Remote) (*Store, credstore.Store) {
	creds := credstore.NewMemory()
	return New(zap.NewNop(), remote, creds), creds
}

func TestLoginPopulatesSessionAndPersistsCredential(t *testing.T) {
	remote := &fakeRemote{loginResp: &dto.AuthResponse{Token: "tok-1", Detail: testDetail()}}
	store, creds := newTestStore(remote)

	identity, err := store.Login(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "Jane Doe", identity.FullName)
	assert.Equal(t, "tok-1", store.Token())
	assert.True(t, store.LoggedIn())

	stored, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored)
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	remote := &fakeRemote{loginErr: &api.AuthError{Message: "Invalid credentials"}}
	store, creds := newTestStore(remote)

	_, err := store.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, store.LoggedIn())
	assert.Empty(t, store.Token())

	_, err = creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestReauthenticateWithoutCredentialFailsFast(t *testing.T) {
	remote := &fakeRemote{}
	store, _ := newTestStore(remote)

	_, err := store.Reauthenticate(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Zero(t, remote.verifyCalls, "no network call may happen without a stored credential")
}

func TestReauthenticateSuccess(t *testing.T) {
	detail := testDetail()
	remote := &fakeRemote{verifyResp: &detail}
	store, creds := newTestStore(remote)
	require.NoError(t, creds.Save("tok-2"))

	identity, err := store.Reauthenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, remote.verifyCalls)
	assert.Equal(t, "tok-2", remote.lastToken)
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "tok-2", store.Token())
}

func TestReauthenticatePurgesOnExplicitInvalidToken(t *testing.T) {
	remote := &fakeRemote{verifyErr: &api.AuthError{Message: "Session expired", Err: api.ErrInvalidToken}}
	store, creds := newTestStore(remote)
	require.NoError(t, creds.Save("tok-dead"))

	_, err := store.Reauthenticate(context.Background())
	require.Error(t, err)
	assert.False(t, store.LoggedIn())

	_, err = creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound, "an explicitly rejected token must be purged")
}

func TestReauthenticateKeepsCredentialOnTransportFailure(t *testing.T) {
	remote := &fakeRemote{verifyErr: &api.AuthError{Message: "Session check failed", Err: errors.New("connection refused")}}
	store, creds := newTestStore(remote)
	require.NoError(t, creds.Save("tok-3"))

	_, err := store.Reauthenticate(context.Background())
	require.Error(t, err)
	assert.False(t, store.LoggedIn())

	stored, err := creds.Load()
	require.NoError(t, err, "a transient network failure must not log the user out")
	assert.Equal(t, "tok-3", stored)
}

func TestReauthenticateRejectsLocallyExpiredJWT(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	remote := &fakeRemote{}
	store, creds := newTestStore(remote)
	require.NoError(t, creds.Save(expired))

	_, err = store.Reauthenticate(context.Background())
	assert.ErrorIs(t, err, api.ErrInvalidToken)
	assert.Zero(t, remote.verifyCalls, "a locally detected expiry must not hit the network")

	_, err = creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestLogoutClearsEverything(t *testing.T) {
	remote := &fakeRemote{loginResp: &dto.AuthResponse{Token: "tok-4", Detail: testDetail()}}
	store, creds := newTestStore(remote)

	_, err := store.Login(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)

	store.Logout()

	assert.Empty(t, store.Token())
	_, ok := store.Identity()
	assert.False(t, ok)
	_, err = creds.Load()
	assert.ErrorIs(t, err, credstore.ErrNotFound)

	// A subsequent re-auth fails fast without any network call.
	_, err = store.Reauthenticate(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Zero(t, remote.verifyCalls)
}

func TestVerifyOTPBehavesLikeLogin(t *testing.T) {
	remote := &fakeRemote{otpResp: &dto.AuthResponse{Token: "tok-5", Detail: testDetail()}}
	store, creds := newTestStore(remote)

	identity, err := store.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Email: "jane@example.com", OTP: "123456", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)

	stored, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-5", stored)
}

func TestUpdateIdentityMergesPartially(t *testing.T) {
	remote := &fakeRemote{loginResp: &dto.AuthResponse{Token: "tok-6", Detail: testDetail()}}
	store, _ := newTestStore(remote)

	_, err := store.Login(context.Background(), "jane@example.com", "secret1")
	require.NoError(t, err)

	name := "Jane D."
	store.UpdateIdentity(model.IdentityUpdate{FullName: &name})

	identity, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, "Jane D.", identity.FullName)
	assert.Equal(t, "5550001", identity.MobileNum, "fields absent from the update must be untouched")
}
