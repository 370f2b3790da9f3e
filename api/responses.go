package api

// ErrorBody is the error object inside a failed response envelope.
type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// LoginResponse is the envelope returned by /auth/login.
type LoginResponse struct {
	Success bool      `json:"success"`
	Data    LoginData `json:"data"`
	Message string    `json:"message"`
}

type LoginData struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RegisterResponse is the envelope returned by /auth/register. Registration
// does not authenticate; verification happens out of band.
type RegisterResponse struct {
	Success bool         `json:"success"`
	Data    RegisterData `json:"data"`
	Message string       `json:"message"`
}

type RegisterData struct {
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	EmailVerified     bool   `json:"emailVerified"`
	VerificationToken string `json:"verificationToken"`
	CreatedAt         string `json:"createdAt"`
}

// TokenResponse is the envelope returned by the token-exchange, social-login
// and refresh endpoints.
type TokenResponse struct {
	Success bool      `json:"success"`
	Data    TokenData `json:"data"`
	Message string    `json:"message"`
}

// TokenData tolerates both key spellings the backend has used for the token
// pair. Some exchange responses also carry the user record.
type TokenData struct {
	Token             string `json:"token"`
	AccessTokenAlt    string `json:"access_token"`
	RefreshToken      string `json:"refreshToken"`
	RefreshTokenSnake string `json:"refresh_token"`
	ExpiresIn         int64  `json:"expiresIn"`

	UserID       string `json:"userId"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

// AccessTokenValue returns the access token under either key, or "".
func (d TokenData) AccessTokenValue() string {
	if d.Token != "" {
		return d.Token
	}
	return d.AccessTokenAlt
}

// RefreshTokenValue returns the refresh token under either key, or "".
func (d TokenData) RefreshTokenValue() string {
	if d.RefreshToken != "" {
		return d.RefreshToken
	}
	return d.RefreshTokenSnake
}

// StatusResponse is the generic envelope for operations whose payload the
// client does not consume.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Image is one catalog record.
type Image struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	ImageURL     string   `json:"imageUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Photographer string   `json:"photographer"`
	Tags         []string `json:"tags"`
	Likes        int      `json:"likes"`
	Downloads    int      `json:"downloads"`
}

type ImagesResponse struct {
	Success bool    `json:"success"`
	Data    []Image `json:"data"`
	Message string  `json:"message"`
}

type ImageResponse struct {
	Success bool   `json:"success"`
	Data    Image  `json:"data"`
	Message string `json:"message"`
}

// DownloadResponse carries the signed URL for a requested size.
type DownloadResponse struct {
	Success bool   `json:"success"`
	Data    struct {
		DownloadURL string `json:"downloadUrl"`
		SizeID      string `json:"sizeId"`
	} `json:"data"`
	Message string `json:"message"`
}

// LikeResponse reports the toggled like state.
type LikeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	} `json:"data"`
	Message string `json:"message"`
}

// SocialLinks are the optional profile links.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Pinterest string `json:"pinterest,omitempty"`
}

type ProfileData struct {
	UserID       string      `json:"userId"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	ProfileImage string      `json:"profileImage"`
	Website      string      `json:"website"`
	Bio          string      `json:"bio"`
	SocialLinks  SocialLinks `json:"socialLinks"`
	Newsletter   bool        `json:"newsletter"`
	CreatedAt    string      `json:"createdAt"`
	UpdatedAt    string      `json:"updatedAt"`
}

type ProfileResponse struct {
	Success bool        `json:"success"`
	Data    ProfileData `json:"data"`
	Message string      `json:"message"`
}

// StatsResponse is the uploads/downloads/followers/following aggregate.
type StatsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Uploads   int `json:"uploads"`
		Downloads int `json:"downloads"`
		Followers int `json:"followers"`
		Following int `json:"following"`
	} `json:"data"`
	Message string `json:"message"`
}

// FollowResponse reports the toggled follow state.
type FollowResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Following bool `json:"following"`
	} `json:"data"`
	Message string `json:"message"`
}

// UploadResponse is the envelope for bulk image uploads.
type UploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		BatchID  string   `json:"batchId"`
		ImageIDs []string `json:"imageIds"`
	} `json:"data"`
	Message string `json:"message"`
}
