package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-account-api/internal/config"
	"github.com/go-account-api/internal/domain"
	jwtinfra "github.com/go-account-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccountGetter struct {
	account *domain.Account
	err     error
}

func (s *stubAccountGetter) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func newAuthProvider(t *testing.T, expiry time.Duration) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: expiry})
	require.NoError(t, err)
	return p
}

type envelope struct {
	ResponseCode    int    `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

func doAuth(t *testing.T, provider *jwtinfra.Provider, accounts accountGetter, token string) (*httptest.ResponseRecorder, bool, string) {
	t.Helper()
	called := false
	var gotID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotID, _ = AccountIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/user/userProfile", nil)
	if token != "" {
		req.Header.Set("token", token)
	}
	rec := httptest.NewRecorder()
	Auth(provider, accounts)(next).ServeHTTP(rec, req)
	return rec, called, gotID
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func TestAuth_MissingToken(t *testing.T) {
	p := newAuthProvider(t, time.Hour)
	rec, called, _ := doAuth(t, p, &stubAccountGetter{}, "")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, decodeEnvelope(t, rec).ResponseCode)
}

func TestAuth_ExpiredToken(t *testing.T) {
	p := newAuthProvider(t, -time.Minute)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	rec, called, _ := doAuth(t, p, &stubAccountGetter{}, token)

	assert.False(t, called)
	assert.Equal(t, 440, rec.Code)
	e := decodeEnvelope(t, rec)
	assert.Equal(t, 440, e.ResponseCode)
	assert.Equal(t, "Session Expired, Please login again.", e.ResponseMessage)
}

func TestAuth_TamperedToken(t *testing.T) {
	p := newAuthProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	rec, called, _ := doAuth(t, p, &stubAccountGetter{}, token+"x")

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_AccountNotFound(t *testing.T) {
	p := newAuthProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	rec, called, _ := doAuth(t, p, &stubAccountGetter{err: domain.ErrNotFound}, token)

	assert.False(t, called)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuth_StoreFailure(t *testing.T) {
	p := newAuthProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	rec, called, _ := doAuth(t, p, &stubAccountGetter{err: errors.New("dynamo down")}, token)

	assert.False(t, called)
	// Only a genuine miss answers 404; an outage is a server error.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuth_BlockedAccount(t *testing.T) {
	p := newAuthProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	rec, called, _ := doAuth(t, p, &stubAccountGetter{
		account: &domain.Account{AccountID: "u1", Status: domain.StatusBlock},
	}, token)

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	e := decodeEnvelope(t, rec)
	assert.Equal(t, 450, e.ResponseCode)
	assert.Equal(t, "You have been blocked by admin.", e.ResponseMessage)
}

func TestAuth_DeletedAccount(t *testing.T) {
	p := newAuthProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	rec, called, _ := doAuth(t, p, &stubAccountGetter{
		account: &domain.Account{AccountID: "u1", Status: domain.StatusDelete},
	}, token)

	assert.False(t, called)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	e := decodeEnvelope(t, rec)
	assert.Equal(t, 440, e.ResponseCode)
	assert.Equal(t, "Your account has been deleted by admin.", e.ResponseMessage)
}

func TestAuth_ValidToken_InjectsAccountID(t *testing.T) {
	p := newAuthProvider(t, time.Hour)
	token, err := p.Sign("u1")
	require.NoError(t, err)

	rec, called, gotID := doAuth(t, p, &stubAccountGetter{
		account: &domain.Account{AccountID: "u1", Status: domain.StatusActive},
	}, token)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", gotID)
}
