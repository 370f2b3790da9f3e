package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/dignahq/go-digna-client/api"
	"github.com/dignahq/go-digna-client/auth"
	"github.com/dignahq/go-digna-client/internal/config"
	"github.com/dignahq/go-digna-client/sessions"
	"github.com/dignahq/go-digna-client/storage"
	"github.com/dignahq/go-digna-client/storage/sqlite"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	flag.Parse()

	c := config.New()
	displayAppname(c.GetAppName())

	app, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if flag.NArg() == 0 {
		return errors.New("usage: digna <login|register|signin|callback|refresh|logout|images|search|profile|status> [flags]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	return dispatch(ctx, app, c, flag.Arg(0), flag.Args()[1:])
}

type app struct {
	tokens  *storage.TokenStore
	session *sessions.Store
	api     *api.Client
	auth    *auth.Service
	log     zerolog.Logger
}

func bootstrap(c config.Config) (*app, func(), error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	store, err := sqlite.Open(c.GetStoragePath())
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing storage failed")
		}
	}

	tokens, err := storage.NewTokenStore(store)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	apiClient, err := api.New(c.GetAPIBaseURL(), tokens, api.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	sessionStore := sessions.NewStore()
	authService, err := auth.NewService(auth.Deps{
		API:     apiClient,
		Tokens:  tokens,
		Session: sessionStore,
		Config:  c,
	}, auth.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	authService.Restore()

	return &app{
		tokens:  tokens,
		session: sessionStore,
		api:     apiClient,
		auth:    authService,
		log:     logger,
	}, cleanup, nil
}

func dispatch(ctx context.Context, a *app, c config.Config, command string, args []string) error {
	switch command {
	case "login":
		return cmdLogin(ctx, a, args)
	case "register":
		return cmdRegister(ctx, a, args)
	case "signin":
		return cmdSignIn(ctx, a, c, args)
	case "callback":
		return cmdCallback(ctx, a, args)
	case "refresh":
		return cmdRefresh(ctx, a)
	case "logout":
		a.auth.Logout(ctx)
		fmt.Println("Logged out")
		return nil
	case "images":
		return cmdImages(ctx, a)
	case "search":
		return cmdSearch(ctx, a, args)
	case "profile":
		return cmdProfile(ctx, a)
	case "status":
		return cmdStatus(a)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !a.auth.Login(ctx, *email, *password) {
		return fmt.Errorf("login failed: %s", a.session.Error())
	}
	user := a.session.User()
	fmt.Printf("Signed in as %s <%s>\n", user.FullName(), user.Email)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !a.auth.Register(ctx, *name, *email, *password) {
		return fmt.Errorf("registration failed: %s", a.session.Error())
	}
	fmt.Printf("Registered %s. Check your inbox for the verification code.\n", *email)
	return nil
}

// cmdCallback completes a sign-in that the backend redirected out of band.
// The pasted URL may be plain-path or fragment-routed; it is normalized, the
// parameters parsed once, and the exchange run to its terminal route.
func cmdCallback(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("callback", flag.ExitOnError)
	rawURL := fs.String("url", "", "redirect URL received from the backend")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rawURL == "" {
		return errors.New("callback requires -url")
	}

	target := *rawURL
	if normalized, ok := auth.NormalizeCallbackURL(target); ok {
		target = normalized
	}
	params, err := auth.ParseCallbackParams(target)
	if err != nil {
		return fmt.Errorf("parse callback URL: %w", err)
	}

	nav := a.auth.ProcessCallback(ctx, params)
	if nav.Route != auth.RouteProfile {
		return fmt.Errorf("sign-in failed: %s", nav.ErrorMessage())
	}
	if user := a.session.User(); user != nil {
		fmt.Printf("Signed in as %s <%s>\n", user.FullName(), user.Email)
	} else {
		fmt.Println("Signed in")
	}
	return nil
}

func cmdRefresh(ctx context.Context, a *app) error {
	resp, err := a.api.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("refresh failed: %s", resp.Message)
	}
	fmt.Println("Token pair refreshed")
	return nil
}

func cmdImages(ctx context.Context, a *app) error {
	resp, err := a.api.Images(ctx)
	if err != nil {
		return err
	}
	printImages(resp.Data)
	return nil
}

func cmdSearch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "search query")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.api.SearchImages(ctx, *query)
	if err != nil {
		return err
	}
	printImages(resp.Data)
	return nil
}

func printImages(images []api.Image) {
	for _, img := range images {
		fmt.Printf("%-12s %-40s %s\n", img.ID, img.Title, img.Photographer)
	}
	fmt.Printf("%d images\n", len(images))
}

func cmdProfile(ctx context.Context, a *app) error {
	resp, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	p := resp.Data
	fmt.Printf("%s %s <%s>\n", p.FirstName, p.LastName, p.Email)
	if p.Bio != "" {
		fmt.Println(p.Bio)
	}

	if stats, err := a.api.UserStats(ctx, p.UserID); err == nil {
		fmt.Printf("uploads %d  downloads %d  followers %d  following %d\n",
			stats.Data.Uploads, stats.Data.Downloads, stats.Data.Followers, stats.Data.Following)
	}
	return nil
}

func cmdStatus(a *app) error {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("Signed in as %s <%s>\n", snap.User.FullName(), snap.User.Email)
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
