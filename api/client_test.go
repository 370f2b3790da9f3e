package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dignahq/go-digna-client/api"
	"github.com/dignahq/go-digna-client/storage"
	fakekvrepo "github.com/dignahq/go-digna-client/storage/repofakes"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, baseURL string) (*api.Client, *storage.TokenStore) {
	t.Helper()
	tokens, err := storage.NewTokenStore(fakekvrepo.NewFakeKVRepo())
	require.NoError(t, err)
	client, err := api.New(baseURL, tokens)
	require.NoError(t, err)
	return client, tokens
}

func TestNew_Validation(t *testing.T) {
	tokens, err := storage.NewTokenStore(fakekvrepo.NewFakeKVRepo())
	require.NoError(t, err)

	_, err = api.New("", tokens)
	require.Error(t, err)

	_, err = api.New("http://localhost", nil)
	require.Error(t, err)
}

func TestClient_ProtectedCallWithoutToken(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client, _ := newClient(t, server.URL)
	_, err := client.ChangePassword(context.Background(), "old", "new")
	require.ErrorIs(t, err, api.AuthenticationRequiredErr)
	// fails before any network call is made
	require.Zero(t, hits.Load())
}

func TestClient_BearerInjection(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client, tokens := newClient(t, server.URL)
	require.NoError(t, tokens.SetTokens("tok", "ref"))

	_, err := client.ChangePassword(context.Background(), "old", "new")
	require.NoError(t, err)
	require.Equal(t, "Bearer tok", gotAuth)
}

func TestClient_APIErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"Invalid credentials"}}`))
	}))
	defer server.Close()

	client, _ := newClient(t, server.URL)
	_, err := client.Login(context.Background(), "a@b.com", "wrong")

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Equal(t, "Invalid credentials", apiErr.Error())
}

func TestClient_APIErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not even json`))
	}))
	defer server.Close()

	client, _ := newClient(t, server.URL)
	_, err := client.Login(context.Background(), "a@b.com", "pw")

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "API request failed", apiErr.Error())
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	client, _ := newClient(t, server.URL)
	_, err := client.Images(context.Background())

	var netErr *api.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestClient_SearchAttachesTokenOpportunistically(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer server.Close()

	client, tokens := newClient(t, server.URL)

	// anonymous search still works
	_, err := client.SearchImages(context.Background(), "harbour")
	require.NoError(t, err)
	require.Empty(t, gotAuth)

	require.NoError(t, tokens.SetTokens("tok", "ref"))
	_, err = client.SearchImages(context.Background(), "harbour")
	require.NoError(t, err)
	require.Equal(t, "Bearer tok", gotAuth)
}
