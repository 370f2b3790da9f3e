package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	err := c.request(ctx, "/profile", requestOptions{requiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProfileByID fetches another user's profile.
func (c *Client) ProfileByID(ctx context.Context, profileID string) (*ProfileResponse, error) {
	var resp ProfileResponse
	err := c.request(ctx, "/profile/"+url.PathEscape(profileID), requestOptions{requiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProfileUpdate carries the editable profile fields. Nil pointers are omitted
// so the backend only touches what the caller set.
type ProfileUpdate struct {
	FirstName   *string      `json:"firstName,omitempty"`
	LastName    *string      `json:"lastName,omitempty"`
	Website     *string      `json:"website,omitempty"`
	Bio         *string      `json:"bio,omitempty"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
	Newsletter  *bool        `json:"newsletter,omitempty"`
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*ProfileResponse, error) {
	var resp ProfileResponse
	err := c.request(ctx, "/profile", requestOptions{
		method:       http.MethodPut,
		body:         update,
		requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserStats fetches the uploads/downloads/followers/following aggregate.
func (c *Client) UserStats(ctx context.Context, profileID string) (*StatsResponse, error) {
	var resp StatsResponse
	err := c.request(ctx, "/profile/stats/"+url.PathEscape(profileID), requestOptions{requiresAuth: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FollowUser toggles the follow state between the authenticated user and
// followeeID.
func (c *Client) FollowUser(ctx context.Context, followeeID string) (*FollowResponse, error) {
	var resp FollowResponse
	err := c.request(ctx, "/profile/followUser/"+url.PathEscape(followeeID), requestOptions{
		method:       http.MethodPost,
		requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadProfilePicture replaces the profile image.
func (c *Client) UploadProfilePicture(ctx context.Context, fileName string, content io.Reader) (*ProfileResponse, error) {
	var resp ProfileResponse
	err := c.uploadMultipart(ctx, "/profile/upload-picture", nil, []UploadFile{
		{FieldName: "file", FileName: fileName, Content: content},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfileForm posts a multipart profile update, used when the update
// bundles an image with the field changes.
func (c *Client) UpdateProfileForm(ctx context.Context, fields map[string]string, files []UploadFile) (*ProfileResponse, error) {
	var resp ProfileResponse
	err := c.uploadMultipart(ctx, "/profile/update", fields, files, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadItem is one image plus its metadata in a bulk upload.
type UploadItem struct {
	FileName    string   `json:"fileName"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Content     io.Reader `json:"-"`
}

// UploadImages posts a bulk image upload. Each batch gets a generated id so
// the backend can associate the files with their metadata records.
func (c *Client) UploadImages(ctx context.Context, items []UploadItem) (*UploadResponse, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Message: "No images to upload"}
	}

	metadata, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UploadImages] json.Marshal metadata")
	}

	fields := map[string]string{
		"batchId":  uuid.New().String(),
		"metadata": string(metadata),
	}
	files := make([]UploadFile, 0, len(items))
	for _, item := range items {
		files = append(files, UploadFile{FieldName: "files", FileName: item.FileName, Content: item.Content})
	}

	var resp UploadResponse
	if err := c.uploadMultipart(ctx, "/profile/uploads", fields, files, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
