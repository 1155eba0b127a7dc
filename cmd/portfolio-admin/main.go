// portfolio-admin drives the portfolio API from the terminal: session
// management, gallery upkeep, and inquiry triage. Credentials persist in the
// token file between invocations, so the 401-refresh flow works across runs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/artwork"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/auth"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/contact"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/inquiry"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/notify"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/rest"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/tokens"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/upload"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/cache"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/config"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/logger"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/metrics"
)

const usage = `usage: portfolio-admin <command> [flags]

session:
  login         authenticate and persist the token pair
  logout        end the session (clears local credentials even offline)
  whoami        show the signed-in account
  profile       update name, email, phone, or bio

gallery:
  artwork-list      list artworks, optionally filtered
  artwork-get       show one artwork
  artwork-create    create an artwork from local image files
  artwork-delete    remove an artwork
  artwork-feature   feature (or unfeature) an artwork
  artwork-primary   flag one image as the artwork's primary

inbox:
  contact-list      list contact messages
  contact-update    set a contact's status or response
  inquiry-list      list inquiries, optionally filtered
  inquiry-status    set one inquiry's status
  inquiry-note      attach an admin note
  inquiry-bulk      apply one action to many inquiries
  inquiry-stats     show the triage summary
  inquiry-export    download the inquiry CSV

assets:
  upload-single     upload one image file
  upload-info       show a hosted image's metadata
  upload-delete     remove a hosted image
`

// app bundles the wired query layers every command dispatches through.
type app struct {
	auth      *auth.Queries
	artworks  *artwork.Queries
	contacts  *contact.Queries
	inquiries *inquiry.Queries
	uploads   *upload.Queries
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	logg := logger.New(logger.Options{ServiceName: "portfolio-admin"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "portfolio-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "command", os.Args[1])

	wired, err := buildApp(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to wire client", err)
		os.Exit(1)
	}

	if err := dispatch(ctx, wired, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*app, error) {
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("%s is required", config.EnvAPIBaseURL)
	}

	store, err := tokens.NewFileStore(cfg.Tokens.Path)
	if err != nil {
		return nil, err
	}

	client, err := rest.New(rest.Params{
		BaseURL: cfg.API.BaseURL,
		Tokens:  store,
		Logger:  logg,
		Metrics: metrics.NewClientMetrics(nil),
		Timeout: cfg.API.Timeout,
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, "session expired, run `portfolio-admin login`")
		},
	})
	if err != nil {
		return nil, err
	}

	var cacheStore cache.Store
	if cfg.Cache.Backend == config.CacheBackendRedis {
		cacheStore, err = cache.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
	} else {
		cacheStore = cache.NewMemoryStore()
	}
	cached := cache.New(cacheStore, nil)
	notifier := notify.NewLogNotifier(logg)

	authSvc, err := auth.NewService(auth.ServiceParams{Client: client})
	if err != nil {
		return nil, err
	}
	authQ, err := auth.NewQueries(auth.QueriesParams{Service: authSvc, Cache: cached, TTL: cfg.Cache, Notifier: notifier})
	if err != nil {
		return nil, err
	}

	artworkSvc, err := artwork.NewService(artwork.ServiceParams{Client: client})
	if err != nil {
		return nil, err
	}
	artworkQ, err := artwork.NewQueries(artwork.QueriesParams{Service: artworkSvc, Cache: cached, TTL: cfg.Cache, Notifier: notifier})
	if err != nil {
		return nil, err
	}

	contactSvc, err := contact.NewService(contact.ServiceParams{Client: client})
	if err != nil {
		return nil, err
	}
	contactQ, err := contact.NewQueries(contact.QueriesParams{Service: contactSvc, Cache: cached, TTL: cfg.Cache, Notifier: notifier})
	if err != nil {
		return nil, err
	}

	inquirySvc, err := inquiry.NewService(inquiry.ServiceParams{Client: client})
	if err != nil {
		return nil, err
	}
	inquiryQ, err := inquiry.NewQueries(inquiry.QueriesParams{Service: inquirySvc, Cache: cached, TTL: cfg.Cache, Notifier: notifier})
	if err != nil {
		return nil, err
	}

	uploadSvc, err := upload.NewService(upload.ServiceParams{Client: client})
	if err != nil {
		return nil, err
	}
	uploadQ, err := upload.NewQueries(upload.QueriesParams{Service: uploadSvc, Cache: cached, TTL: cfg.Cache, Notifier: notifier})
	if err != nil {
		return nil, err
	}

	return &app{
		auth:      authQ,
		artworks:  artworkQ,
		contacts:  contactQ,
		inquiries: inquiryQ,
		uploads:   uploadQ,
	}, nil
}

func dispatch(ctx context.Context, wired *app, command string, args []string) error {
	switch command {
	case "login":
		return cmdLogin(ctx, wired, args)
	case "logout":
		return cmdLogout(ctx, wired)
	case "whoami":
		return cmdWhoami(ctx, wired)
	case "profile":
		return cmdProfile(ctx, wired, args)
	case "artwork-list":
		return cmdArtworkList(ctx, wired, args)
	case "artwork-get":
		return cmdArtworkGet(ctx, wired, args)
	case "artwork-create":
		return cmdArtworkCreate(ctx, wired, args)
	case "artwork-delete":
		return cmdArtworkDelete(ctx, wired, args)
	case "artwork-feature":
		return cmdArtworkFeature(ctx, wired, args)
	case "artwork-primary":
		return cmdArtworkPrimary(ctx, wired, args)
	case "contact-list":
		return cmdContactList(ctx, wired)
	case "contact-update":
		return cmdContactUpdate(ctx, wired, args)
	case "inquiry-list":
		return cmdInquiryList(ctx, wired, args)
	case "inquiry-status":
		return cmdInquiryStatus(ctx, wired, args)
	case "inquiry-note":
		return cmdInquiryNote(ctx, wired, args)
	case "inquiry-bulk":
		return cmdInquiryBulk(ctx, wired, args)
	case "inquiry-stats":
		return cmdInquiryStats(ctx, wired)
	case "inquiry-export":
		return cmdInquiryExport(ctx, wired, args)
	case "upload-single":
		return cmdUploadSingle(ctx, wired, args)
	case "upload-info":
		return cmdUploadInfo(ctx, wired, args)
	case "upload-delete":
		return cmdUploadDelete(ctx, wired, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
