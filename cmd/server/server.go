package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/thereayou/noticeboard/internal/config"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/handlers"
	"github.com/thereayou/noticeboard/internal/middleware"
	"github.com/thereayou/noticeboard/internal/oauth"
	"github.com/thereayou/noticeboard/internal/services"
	"github.com/thereayou/noticeboard/internal/storage/s3"
	ws "github.com/thereayou/noticeboard/internal/websocket"
	"github.com/thereayou/noticeboard/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	Hub        *ws.Hub
	JWTManager *auth.JWTManager
	Limiter    *middleware.RateLimiter

	cfg *config.Config
	log *logrus.Logger
}

func NewServer(cfg *config.Config, log *logrus.Logger) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	s := &Server{
		DB:         db,
		Hub:        ws.NewHub(),
		JWTManager: auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		Limiter:    middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		cfg:        cfg,
		log:        log,
	}

	// Без Redis черный список и state OAuth живут в памяти процесса
	var (
		blacklist auth.Blacklist   = auth.NewMemoryBlacklist()
		states    oauth.StateStore = oauth.NewMemoryStateStore()
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		s.Redis = redis.NewClient(opts)
		if err := s.Redis.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		blacklist = auth.NewRedisBlacklist(s.Redis)
		states = oauth.NewRedisStateStore(s.Redis)
	} else {
		log.Warn("REDIS_URL is not set, token blacklist and oauth state are kept in memory")
	}

	providers, err := s.oauthProviders()
	if err != nil {
		return nil, err
	}

	authSvc := services.NewAuthService(db, s.JWTManager)
	notify := services.NewNotificationService(db, s.Hub)

	h := Handlers{
		Auth:          handlers.NewAuthHandler(authSvc, s.JWTManager, blacklist),
		OAuth:         handlers.NewOAuthHandler(providers, states, authSvc, cfg.Server.FrontendURL, log),
		Providers:     providers,
		Posts:         handlers.NewPostHandler(db, notify),
		Users:         handlers.NewUserHandler(db),
		Categories:    handlers.NewCategoryHandler(db),
		WebSocket:     handlers.NewWebSocketHandler(s.Hub, cfg.Server.CORSOrigins, log),
		Health:        handlers.NewHealthHandler(db),
		Authenticator: middleware.NewAuthenticator(s.JWTManager, blacklist, db),
		AuthLimiter:   s.Limiter,
		CORSOrigins:   cfg.Server.CORSOrigins,
		Log:           log,
	}

	if cfg.S3Enabled() {
		store, err := s3.New(s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.S3.Bucket,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("s3 bucket: %w", err)
		}
		h.Uploads = handlers.NewUploadHandler(store)
	} else {
		log.Info("S3 is not configured, image uploads are disabled")
	}

	s.Router, err = NewRouter(h)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) oauthProviders() (*oauth.Registry, error) {
	var list []oauth.Provider
	if s.cfg.GoogleEnabled() {
		list = append(list, oauth.NewGoogleProvider(s.cfg.Google.ClientID, s.cfg.Google.ClientSecret, s.cfg.Google.RedirectURL))
	}
	if s.cfg.AppleEnabled() {
		apple, err := oauth.NewAppleProvider(oauth.AppleConfig{
			ClientID:    s.cfg.Apple.ClientID,
			TeamID:      s.cfg.Apple.TeamID,
			KeyID:       s.cfg.Apple.KeyID,
			PrivateKey:  s.cfg.Apple.PrivateKey,
			RedirectURL: s.cfg.Apple.RedirectURL,
		})
		if err != nil {
			return nil, err
		}
		list = append(list, apple)
	}
	for _, p := range list {
		s.log.WithField("provider", p.Name()).Info("oauth provider enabled")
	}
	return oauth.NewRegistry(list...), nil
}

// Run блокируется до отмены ctx, затем корректно гасит сервер
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run()
	s.Limiter.StartCleanup(ctx, time.Minute)

	srv := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           otelhttp.NewHandler(s.Router, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("port", s.cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Hub.Stop()
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if cerr := s.DB.Close(); cerr != nil {
		s.log.WithError(cerr).Warn("database close")
	}
	return err
}
