package storage

import "errors"

// Well-known keys. The web client writes the same records to the browser's
// local storage, so the names are shared verbatim.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyUserEmail    = "userEmail"
)

var KeyNotFoundErr = errors.New("key not found")

// Repo is a durable key-value store. SetMany and DeleteMany are atomic: after
// either call every named key was written or deleted, or none were.
type Repo interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	SetMany(values map[string]string) error
	DeleteMany(keys ...string) error
}
