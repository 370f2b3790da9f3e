package api

import (
	"context"
	"net/http"
	"net/url"
)

// Images lists the public catalog.
func (c *Client) Images(ctx context.Context) (*ImagesResponse, error) {
	var resp ImagesResponse
	if err := c.request(ctx, "/images", requestOptions{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchImages queries the catalog. The endpoint works anonymously but
// returns per-user like state when a token is present, so the bearer header
// is attached opportunistically.
func (c *Client) SearchImages(ctx context.Context, query string) (*ImagesResponse, error) {
	headers := map[string]string{}
	if token := c.tokens.Token(); token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	var resp ImagesResponse
	err := c.request(ctx, "/images/search/"+url.PathEscape(query), requestOptions{
		headers: headers,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImageDetails fetches one catalog record.
func (c *Client) ImageDetails(ctx context.Context, imageID string) (*ImageResponse, error) {
	var resp ImageResponse
	err := c.request(ctx, "/image/"+url.PathEscape(imageID), requestOptions{}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadImage requests a signed download URL for the given size.
func (c *Client) DownloadImage(ctx context.Context, imageID, sizeID string) (*DownloadResponse, error) {
	var resp DownloadResponse
	err := c.request(ctx, "/image/"+url.PathEscape(imageID)+"/download", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"sizeId": sizeID},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DownloadMeta describes the downloaded asset for the user's history.
type DownloadMeta struct {
	Title        string `json:"title,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Photographer string `json:"photographer,omitempty"`
	SizeID       string `json:"sizeId,omitempty"`
}

// TrackDownload records a download against the authenticated user.
func (c *Client) TrackDownload(ctx context.Context, imageID string, meta DownloadMeta) (*StatusResponse, error) {
	var resp StatusResponse
	err := c.request(ctx, "/image/"+url.PathEscape(imageID)+"/track-download", requestOptions{
		method:       http.MethodPost,
		body:         meta,
		requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// LikeImage toggles the like state of an image for the authenticated user.
func (c *Client) LikeImage(ctx context.Context, imageID string) (*LikeResponse, error) {
	var resp LikeResponse
	err := c.request(ctx, "/image/like/"+url.PathEscape(imageID), requestOptions{
		method:       http.MethodPost,
		requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
