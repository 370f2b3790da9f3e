package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/dignahq/go-digna-client/idp"
	"github.com/dignahq/go-digna-client/internal/config"
	"github.com/dignahq/go-digna-client/users"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// cmdSignIn runs the native social sign-in flow: a provider authorization
// URL is shown for the user's browser, the loopback server captures the
// redirect, and the resulting provider token goes through the backend's
// social-login exchange.
func cmdSignIn(ctx context.Context, a *app, c config.Config, args []string) error {
	fs := flag.NewFlagSet("signin", flag.ExitOnError)
	providerName := fs.String("provider", "google", "identity provider (google or facebook)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	redirectURL := "http://" + c.GetLoopbackAddr() + "/callback"
	provider, err := buildProvider(ctx, c, *providerName, redirectURL)
	if err != nil {
		return err
	}

	state := uuid.New().String()
	verifier := oauth2.GenerateVerifier()

	fmt.Println("Open the following URL in your browser:")
	fmt.Println()
	fmt.Println("  " + provider.AuthURL(state, verifier))
	fmt.Println()

	code, err := waitForCallback(ctx, c.GetLoopbackAddr(), state)
	if err != nil {
		return err
	}

	providerToken, err := provider.Exchange(ctx, code, verifier)
	if err != nil {
		return err
	}

	resp, err := a.api.SocialLogin(ctx, provider.Name(), providerToken.IDToken, providerToken.AccessToken)
	if err != nil {
		return err
	}
	accessToken := resp.Data.AccessTokenValue()
	refreshToken := resp.Data.RefreshTokenValue()
	if !resp.Success || accessToken == "" || refreshToken == "" {
		return errors.New("social login did not return a token pair")
	}

	user := signedInUser(ctx, a, resp.Data.Email)
	if err := a.auth.HandleOAuthCallback(accessToken, refreshToken, user); err != nil {
		return err
	}

	if user != nil {
		fmt.Printf("Signed in as %s <%s>\n", user.FullName(), user.Email)
	} else {
		fmt.Println("Signed in")
	}
	return nil
}

func buildProvider(ctx context.Context, c config.ProviderConfig, name, redirectURL string) (idp.Provider, error) {
	switch name {
	case "google":
		return idp.NewGoogleProvider(ctx, c.GetGoogleClientID(), c.GetGoogleClientSecret(), redirectURL)
	case "facebook":
		return idp.NewFacebookProvider(c.GetFacebookClientID(), c.GetFacebookClientSecret(), redirectURL)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// waitForCallback serves the loopback redirect endpoint until the provider
// delivers an authorization code or ctx expires.
func waitForCallback(ctx context.Context, addr, expectedState string) (string, error) {
	type callbackResult struct {
		code string
		err  error
	}
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		if errParam := r.FormValue("error"); errParam != "" {
			http.Error(w, "Sign-in failed: "+errParam, http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("provider error: %s", errParam)}
			return
		}
		if r.FormValue("state") != expectedState {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("state mismatch")}
			return
		}
		code := r.FormValue("code")
		if code == "" {
			http.Error(w, "Missing code parameter", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("missing authorization code")}
			return
		}
		fmt.Fprintln(w, "Signed in. You can close this tab.")
		results <- callbackResult{code: code}
	})

	server := &http.Server{Addr: addr, Handler: mux}
	serveErrs := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrs <- fmt.Errorf("server.ListenAndServe: %w", err)
		}
	}()
	defer shutdown(server)

	select {
	case result := <-results:
		return result.code, result.err
	case err := <-serveErrs:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}

// signedInUser fetches the profile to build the session user record. Exchange
// responses do not always include the record, so this is best-effort.
func signedInUser(ctx context.Context, a *app, fallbackEmail string) *users.User {
	resp, err := a.api.Profile(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("fetching profile after sign-in failed")
		if fallbackEmail == "" {
			return nil
		}
		return &users.User{Email: fallbackEmail}
	}
	return &users.User{
		UserID:       resp.Data.UserID,
		Email:        resp.Data.Email,
		FirstName:    resp.Data.FirstName,
		LastName:     resp.Data.LastName,
		ProfileImage: resp.Data.ProfileImage,
	}
}
