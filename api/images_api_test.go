package api_test

import (
	"context"
	"testing"

	"github.com/dignahq/go-digna-client/api"
	"github.com/stretchr/testify/require"
)

func TestImages(t *testing.T) {
	f := setupAPIFixture(t)

	resp, err := f.client.Images(context.Background())
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	require.Equal(t, "img-1", resp.Data[0].ID)
}

func TestDownloadImage(t *testing.T) {
	f := setupAPIFixture(t)

	resp, err := f.client.DownloadImage(context.Background(), "img-1", "large")
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "large", resp.Data.SizeID)
	require.Contains(t, resp.Data.DownloadURL, "img-1")
}

func TestTrackDownload(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		f := setupAPIFixture(t)

		_, err := f.client.TrackDownload(context.Background(), "img-1", api.DownloadMeta{SizeID: "large"})
		require.ErrorIs(t, err, api.AuthenticationRequiredErr)
		require.Zero(t, f.backend.RequestCount("POST", "/api/v1/image/img-1/track-download"))
	})

	t.Run("records against the signed-in user", func(t *testing.T) {
		f := setupAPIFixture(t)
		_, err := f.client.Login(context.Background(), testUserEmail, testUserPassword)
		require.NoError(t, err)

		resp, err := f.client.TrackDownload(context.Background(), "img-1", api.DownloadMeta{
			Title:  "Harbour at dusk",
			SizeID: "large",
		})
		require.NoError(t, err)
		require.True(t, resp.Success)
	})
}
