package fakekvrepo

import (
	"sync"

	"github.com/dignahq/go-digna-client/storage"
)

var _ storage.Repo = (*FakeKVRepo)(nil)

type FakeKVRepo struct {
	values map[string]string
	lock   sync.RWMutex

	// SetManyErr and DeleteManyErr, when set, fail the next batched call
	// without touching any key.
	SetManyErr    error
	DeleteManyErr error
}

func NewFakeKVRepo() *FakeKVRepo {
	return &FakeKVRepo{
		values: make(map[string]string),
	}
}

func (r *FakeKVRepo) Get(key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return "", storage.KeyNotFoundErr
	}
	return value, nil
}

func (r *FakeKVRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.values[key] = value
	return nil
}

func (r *FakeKVRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.values, key)
	return nil
}

func (r *FakeKVRepo) SetMany(values map[string]string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.SetManyErr != nil {
		return r.SetManyErr
	}
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

func (r *FakeKVRepo) DeleteMany(keys ...string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.DeleteManyErr != nil {
		return r.DeleteManyErr
	}
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}
