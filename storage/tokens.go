package storage

import (
	"encoding/json"

	"github.com/dignahq/go-digna-client/users"
	"github.com/pkg/errors"
)

// TokenStore wraps a Repo with the token and user record lifecycle. The
// access and refresh tokens are opaque bearer strings with server-defined
// expiry; they are always written and cleared as a pair.
type TokenStore struct {
	repo Repo
}

func NewTokenStore(repo Repo) (*TokenStore, error) {
	if repo == nil {
		return nil, errors.New("[NewTokenStore] repo is required")
	}
	return &TokenStore{repo: repo}, nil
}

// Token returns the stored access token, or "" when none is present.
func (ts *TokenStore) Token() string {
	value, err := ts.repo.Get(KeyToken)
	if err != nil {
		return ""
	}
	return value
}

// RefreshToken returns the stored refresh token, or "" when none is present.
func (ts *TokenStore) RefreshToken() string {
	value, err := ts.repo.Get(KeyRefreshToken)
	if err != nil {
		return ""
	}
	return value
}

// SetTokens stores both tokens in a single atomic write.
func (ts *TokenStore) SetTokens(accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return errors.New("[TokenStore.SetTokens] both tokens are required")
	}
	if err := ts.repo.SetMany(map[string]string{
		KeyToken:        accessToken,
		KeyRefreshToken: refreshToken,
	}); err != nil {
		return errors.Wrap(err, "[TokenStore.SetTokens] repo.SetMany")
	}
	return nil
}

// ClearTokens removes both tokens in a single atomic delete.
func (ts *TokenStore) ClearTokens() error {
	if err := ts.repo.DeleteMany(KeyToken, KeyRefreshToken); err != nil {
		return errors.Wrap(err, "[TokenStore.ClearTokens] repo.DeleteMany")
	}
	return nil
}

// SaveUser persists the user record as JSON. A user is never stored without a
// non-empty access token.
func (ts *TokenStore) SaveUser(user *users.User) error {
	if user == nil {
		return errors.New("[TokenStore.SaveUser] user is required")
	}
	if ts.Token() == "" {
		return errors.New("[TokenStore.SaveUser] no access token present")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[TokenStore.SaveUser] json.Marshal")
	}
	if err := ts.repo.Set(KeyUser, string(data)); err != nil {
		return errors.Wrap(err, "[TokenStore.SaveUser] repo.Set")
	}
	return nil
}

// LoadUser returns the stored user record. KeyNotFoundErr is returned when no
// record exists; a record that does not parse is returned as a distinct error
// so callers can treat it as a failed restore.
func (ts *TokenStore) LoadUser() (*users.User, error) {
	value, err := ts.repo.Get(KeyUser)
	if err != nil {
		return nil, err
	}
	var user users.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return nil, errors.Wrap(err, "[TokenStore.LoadUser] json.Unmarshal")
	}
	return &user, nil
}

// SavePendingEmail records the address entered during registration for the
// out-of-band verification step.
func (ts *TokenStore) SavePendingEmail(email string) error {
	if err := ts.repo.Set(KeyUserEmail, email); err != nil {
		return errors.Wrap(err, "[TokenStore.SavePendingEmail] repo.Set")
	}
	return nil
}

// PendingEmail returns the address recorded at registration, or "".
func (ts *TokenStore) PendingEmail() string {
	value, err := ts.repo.Get(KeyUserEmail)
	if err != nil {
		return ""
	}
	return value
}

// ClearSession removes the token pair and the user record atomically. The
// pending registration email survives a logout.
func (ts *TokenStore) ClearSession() error {
	if err := ts.repo.DeleteMany(KeyToken, KeyRefreshToken, KeyUser); err != nil {
		return errors.Wrap(err, "[TokenStore.ClearSession] repo.DeleteMany")
	}
	return nil
}
