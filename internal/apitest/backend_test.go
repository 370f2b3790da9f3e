package apitest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dignahq/go-digna-client/internal/apitest"
	"github.com/stretchr/testify/require"
)

// The image subtree serves like/{id} alongside {id}/download and
// {id}/track-download. Those shapes cannot coexist as ServeMux patterns, so
// mounting and routing them is covered explicitly.
func TestBackend_ImageRoutes(t *testing.T) {
	backend := apitest.NewBackend()
	require.NoError(t, backend.AddUser(apitest.UserSeed{
		UserID:   "1",
		Email:    "a@b.com",
		Password: "pw",
	}))

	server := httptest.NewServer(backend.Handler())
	defer server.Close()

	token := loginToken(t, server.URL)

	t.Run("download", func(t *testing.T) {
		resp := post(t, server.URL+"/api/v1/image/img-1/download", "", `{"sizeId":"large"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data struct {
				DownloadURL string `json:"downloadUrl"`
				SizeID      string `json:"sizeId"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NoError(t, resp.Body.Close())
		require.Equal(t, "large", body.Data.SizeID)
		require.Contains(t, body.Data.DownloadURL, "img-1")
	})

	t.Run("track-download", func(t *testing.T) {
		resp := post(t, server.URL+"/api/v1/image/img-1/track-download", token, `{"sizeId":"large"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, 1, backend.RequestCount("POST", "/api/v1/image/img-1/track-download"))
	})

	t.Run("like", func(t *testing.T) {
		resp := post(t, server.URL+"/api/v1/image/like/img-1", token, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Data struct {
				Liked bool `json:"liked"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NoError(t, resp.Body.Close())
		require.True(t, body.Data.Liked)
	})

	t.Run("unknown operation", func(t *testing.T) {
		resp := post(t, server.URL+"/api/v1/image/img-1", token, "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.NoError(t, resp.Body.Close())
	})
}

func loginToken(t *testing.T, baseURL string) string {
	t.Helper()

	resp := post(t, baseURL+"/api/v1/auth/login", "", `{"email":"a@b.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NoError(t, resp.Body.Close())
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func post(t *testing.T, url, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
