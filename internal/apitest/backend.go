// Package apitest provides an in-process stand-in for the Digna REST backend.
// It implements the /api/v1 contract closely enough for client tests: bcrypt
// credential checks, HS256-signed access tokens, refresh token rotation and
// configurable OAuth exchange outcomes.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	UserID       string
	Email        string
	Name         string
	FirstName    string
	LastName     string
	ProfileImage string
	PasswordHash string
	Verified     bool
}

// UserSeed describes an account to preload.
type UserSeed struct {
	UserID       string
	Email        string
	FirstName    string
	LastName     string
	ProfileImage string
	Password     string
}

// ExchangeResult is a canned response for an OAuth exchange endpoint, keyed
// by the provider token the client submits.
type ExchangeResult struct {
	Status int
	Body   any
}

// Backend is the fake server state. Zero requests are assumed until the
// handler is mounted, typically via httptest.NewServer(b.Handler()).
type Backend struct {
	lock           sync.Mutex
	accounts       map[string]*account // keyed by email
	refreshByToken map[string]string   // refresh token -> email
	exchanges      map[string]ExchangeResult
	likes          map[string]bool
	follows        map[string]bool
	requests       map[string]int
	signingKey     []byte
	now            func() time.Time
}

func NewBackend() *Backend {
	return &Backend{
		accounts:       make(map[string]*account),
		refreshByToken: make(map[string]string),
		exchanges:      make(map[string]ExchangeResult),
		likes:          make(map[string]bool),
		follows:        make(map[string]bool),
		requests:       make(map[string]int),
		signingKey:     []byte(uuid.New().String()),
		now:            time.Now,
	}
}

// AddUser preloads a verified account, hashing the password with bcrypt.
func (b *Backend) AddUser(seed UserSeed) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	b.accounts[seed.Email] = &account{
		UserID:       seed.UserID,
		Email:        seed.Email,
		FirstName:    seed.FirstName,
		LastName:     seed.LastName,
		ProfileImage: seed.ProfileImage,
		PasswordHash: string(hash),
		Verified:     true,
	}
	return nil
}

// SetExchange configures the response for a provider token submitted to the
// google or facebook exchange endpoint.
func (b *Backend) SetExchange(providerToken string, result ExchangeResult) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.exchanges[providerToken] = result
}

// SuccessfulExchange wires providerToken to a full token-pair response for an
// existing account.
func (b *Backend) SuccessfulExchange(providerToken, email string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	acct := b.accounts[email]
	refresh := uuid.New().String()
	b.refreshByToken[refresh] = email
	b.exchanges[providerToken] = ExchangeResult{
		Status: http.StatusOK,
		Body: map[string]any{
			"success": true,
			"data": map[string]any{
				"token":        b.mintTokenLocked(email),
				"refreshToken": refresh,
				"expiresIn":    3600,
				"userId":       acct.UserID,
				"email":        acct.Email,
				"firstName":    acct.FirstName,
				"lastName":     acct.LastName,
				"profileImage": acct.ProfileImage,
			},
		},
	}
}

// RequestCount returns how many times "METHOD /path" was served.
func (b *Backend) RequestCount(method, path string) int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.requests[method+" "+path]
}

// RefreshTokenFor registers and returns a valid refresh token for email.
func (b *Backend) RefreshTokenFor(email string) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	refresh := uuid.New().String()
	b.refreshByToken[refresh] = email
	return refresh
}

// Handler mounts the /api/v1 routes.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/register", b.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/google/exchange", b.exchangeHandler("idToken"))
	mux.HandleFunc("POST /api/v1/auth/facebook/exchange", b.exchangeHandler("accessToken"))
	mux.HandleFunc("POST /api/v1/auth/social-login", b.handleSocialLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh-token", b.handleRefresh)
	mux.HandleFunc("POST /api/v1/auth/logout", b.handleLogout)
	mux.HandleFunc("GET /api/v1/images", b.handleImages)
	mux.HandleFunc("GET /api/v1/images/search/{query}", b.handleImages)
	// like/{id} and {id}/download cannot coexist as ServeMux patterns, so the
	// image subtree dispatches on the path itself.
	mux.HandleFunc("POST /api/v1/image/", b.handleImageOps)
	mux.HandleFunc("GET /api/v1/profile", b.handleProfile)
	mux.HandleFunc("POST /api/v1/profile/followUser/{id}", b.handleFollow)
	mux.HandleFunc("POST /api/v1/profile/uploads", b.handleUploads)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.lock.Lock()
		b.requests[r.Method+" "+r.URL.Path]++
		b.lock.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body")
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	acct, ok := b.accounts[req.Email]
	if !ok || bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	refresh := uuid.New().String()
	b.refreshByToken[refresh] = acct.Email
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"userId":       acct.UserID,
			"email":        acct.Email,
			"firstName":    acct.FirstName,
			"lastName":     acct.LastName,
			"profileImage": acct.ProfileImage,
			"token":        b.mintTokenLocked(acct.Email),
			"refreshToken": refresh,
			"expiresIn":    3600,
		},
		"message": "Login successful",
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		AcceptTerms bool   `json:"acceptTerms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body")
		return
	}
	if !req.AcceptTerms {
		writeError(w, http.StatusBadRequest, "TERMS_NOT_ACCEPTED", "Terms must be accepted")
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, exists := b.accounts[req.Email]; exists {
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	userID := uuid.New().String()
	b.accounts[req.Email] = &account{
		UserID:       userID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data": map[string]any{
			"userId":            userID,
			"email":             req.Email,
			"name":              req.Name,
			"emailVerified":     false,
			"verificationToken": uuid.New().String(),
			"createdAt":         b.now().UTC().Format(time.RFC3339),
		},
		"message": "Registration successful",
	})
}

func (b *Backend) exchangeHandler(tokenField string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body")
			return
		}

		b.lock.Lock()
		result, ok := b.exchanges[req[tokenField]]
		b.lock.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Provider token not recognised")
			return
		}
		writeJSON(w, result.Status, result.Body)
	}
}

func (b *Backend) handleSocialLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider    string `json:"provider"`
		IDToken     string `json:"idToken"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body")
		return
	}

	providerToken := req.IDToken
	if providerToken == "" {
		providerToken = req.AccessToken
	}
	b.lock.Lock()
	result, ok := b.exchanges[providerToken]
	b.lock.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Provider token not recognised")
		return
	}
	writeJSON(w, result.Status, result.Body)
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed request body")
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	email, ok := b.refreshByToken[req.RefreshToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token invalid")
		return
	}
	delete(b.refreshByToken, req.RefreshToken)
	rotated := uuid.New().String()
	b.refreshByToken[rotated] = email
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"token":        b.mintTokenLocked(email),
			"refreshToken": rotated,
			"expiresIn":    3600,
		},
	})
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.authorize(w, r); !ok {
		return
	}
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.lock.Lock()
	delete(b.refreshByToken, req.RefreshToken)
	b.lock.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (b *Backend) handleImages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": []map[string]any{
			{"id": "img-1", "title": "Harbour at dusk", "photographer": "A. Byrne", "likes": 12},
			{"id": "img-2", "title": "Wet market", "photographer": "K. Osei", "likes": 7},
		},
	})
}

func (b *Backend) handleImageOps(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/image/")
	if imageID, ok := strings.CutPrefix(rest, "like/"); ok {
		b.handleLike(w, r, imageID)
		return
	}
	if imageID, ok := strings.CutSuffix(rest, "/track-download"); ok {
		b.handleTrackDownload(w, r, imageID)
		return
	}
	if imageID, ok := strings.CutSuffix(rest, "/download"); ok {
		b.handleDownload(w, r, imageID)
		return
	}
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Unknown image operation")
}

func (b *Backend) handleDownload(w http.ResponseWriter, r *http.Request, imageID string) {
	var req struct {
		SizeID string `json:"sizeId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"downloadUrl": "https://cdn.thedigna.com/" + imageID + "/" + req.SizeID,
			"sizeId":      req.SizeID,
		},
	})
}

func (b *Backend) handleTrackDownload(w http.ResponseWriter, r *http.Request, imageID string) {
	if _, ok := b.authorize(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Download recorded"})
}

func (b *Backend) handleLike(w http.ResponseWriter, r *http.Request, imageID string) {
	email, ok := b.authorize(w, r)
	if !ok {
		return
	}
	key := email + "/" + imageID

	b.lock.Lock()
	b.likes[key] = !b.likes[key]
	liked := b.likes[key]
	b.lock.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"liked": liked, "likes": 1},
	})
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := b.authorize(w, r)
	if !ok {
		return
	}

	b.lock.Lock()
	acct := b.accounts[email]
	b.lock.Unlock()
	if acct == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"userId":       acct.UserID,
			"firstName":    acct.FirstName,
			"lastName":     acct.LastName,
			"email":        acct.Email,
			"profileImage": acct.ProfileImage,
		},
	})
}

func (b *Backend) handleFollow(w http.ResponseWriter, r *http.Request) {
	email, ok := b.authorize(w, r)
	if !ok {
		return
	}
	key := email + "/" + r.PathValue("id")

	b.lock.Lock()
	b.follows[key] = !b.follows[key]
	following := b.follows[key]
	b.lock.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"following": following},
	})
}

func (b *Backend) handleUploads(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.authorize(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Malformed multipart body")
		return
	}

	imageIDs := make([]string, 0)
	if r.MultipartForm != nil {
		for range r.MultipartForm.File["files"] {
			imageIDs = append(imageIDs, uuid.New().String())
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"batchId":  r.FormValue("batchId"),
			"imageIds": imageIDs,
		},
	})
}

// authorize validates the bearer token and returns the account email.
func (b *Backend) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
		return "", false
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return b.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid bearer token")
		return "", false
	}

	email, _ := claims["email"].(string)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid bearer token")
		return "", false
	}
	return email, true
}

func (b *Backend) mintTokenLocked(email string) string {
	now := b.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(1 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(b.signingKey)
	if err != nil {
		panic(fmt.Sprintf("apitest: signing token: %v", err))
	}
	return signed
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error": map[string]any{
			"code":       code,
			"message":    message,
			"statusCode": status,
		},
	})
}
