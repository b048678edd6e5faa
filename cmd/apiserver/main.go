package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/guichet-numerique/carrousel/internal/ai"
	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
	"github.com/guichet-numerique/carrousel/internal/apiserver/handler"
	"github.com/guichet-numerique/carrousel/internal/apiserver/middleware"
	"github.com/guichet-numerique/carrousel/internal/auth/jwt"
	"github.com/guichet-numerique/carrousel/internal/common/cnst"
	"github.com/guichet-numerique/carrousel/internal/common/config"
	"github.com/guichet-numerique/carrousel/internal/common/errorx"
	"github.com/guichet-numerique/carrousel/internal/emaillog"
	"github.com/guichet-numerique/carrousel/internal/i18n"
	"github.com/guichet-numerique/carrousel/internal/mail"
	"github.com/guichet-numerique/carrousel/internal/storage"
	"github.com/guichet-numerique/carrousel/pkg/logger"
	"github.com/guichet-numerique/carrousel/pkg/metrics"
	"github.com/guichet-numerique/carrousel/pkg/trace"
	"github.com/guichet-numerique/carrousel/pkg/version"
)

var (
	configPath    string
	seedOverwrite bool

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert the default slide types and slide bounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "Carrousel API Server",
		Long:  `Carrousel API Server lets a team write social media carousels and export them as spreadsheets`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", cnst.ApiServerYaml, "path to configuration file, like /etc/carrousel/apiserver.yaml")
	seedCmd.Flags().BoolVar(&seedOverwrite, "overwrite", false, "restore the default slide types over edited ones")
	rootCmd.AddCommand(versionCmd, seedCmd)
}

func loadConfig() *config.APIServerConfig {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}
	return cfg
}

func initLogger(cfg *config.APIServerConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return lg
}

func initDatabase(lg *zap.Logger, cfg *config.DatabaseConfig) database.Database {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		lg.Fatal("Failed to initialize database", zap.String("type", cfg.Type), zap.Error(err))
	}
	return db
}

func initI18n(lg *zap.Logger, cfg *config.I18nConfig) *i18n.I18n {
	t, err := i18n.New(cfg.DefaultLang)
	if err != nil {
		lg.Fatal("Failed to load translations", zap.Error(err))
	}
	if cfg.Path != "" {
		if err := t.LoadTranslations(cfg.Path); err != nil {
			lg.Warn("Failed to load translation overrides", zap.String("path", cfg.Path), zap.Error(err))
		}
	}
	return t
}

func initEmailLog(lg *zap.Logger, cfg *config.EmailLogConfig) (*emaillog.Recorder, io.Closer) {
	backend, err := emaillog.New(lg, cfg)
	if err != nil {
		lg.Fatal("Failed to initialize email log", zap.Error(err))
	}
	closer, _ := backend.(io.Closer)
	return emaillog.NewRecorder(backend, lg), closer
}

func initStorage(lg *zap.Logger, cfg *config.StorageConfig) storage.Storage {
	store, err := storage.NewStorage(lg, cfg)
	if err != nil {
		lg.Fatal("Failed to initialize storage", zap.String("path", cfg.Path), zap.Error(err))
	}
	return store
}

func initRouter(lg *zap.Logger, cfg *config.APIServerConfig, t *i18n.I18n, errs *errorx.ErrorHandler, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(errs.RecoveryMiddleware())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger(lg))
	r.Use(m.Middleware())
	if cfg.Server.CORS != nil {
		r.Use(middleware.CORS(cfg.Server.CORS))
	}
	r.Use(t.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}
	if cfg.Storage.Type == "disk" {
		r.Static(cfg.Storage.BaseURL, cfg.Storage.Path)
	}
	return r
}

func runSeed(ctx context.Context) error {
	cfg := loadConfig()
	lg := initLogger(cfg)
	defer lg.Sync()

	db := initDatabase(lg, &cfg.Database)
	defer db.Close()

	err := database.SeedDefaults(ctx, db, database.SeedOptions{
		MinSlides: cfg.Slides.MinSlides,
		MaxSlides: cfg.Slides.MaxSlides,
		Overwrite: seedOverwrite,
	})
	if err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	lg.Info("Seeded default slide configuration", zap.Bool("overwrite", seedOverwrite))
	return nil
}

func run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	lg := initLogger(cfg)
	defer lg.Sync()

	lg.Info("Starting apiserver", zap.String("version", version.Get()))

	shutdownTracing := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdown, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
		if err != nil {
			lg.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		shutdownTracing = shutdown
	}

	db := initDatabase(lg, &cfg.Database)
	defer db.Close()
	if err := database.SeedDefaults(ctx, db, database.SeedOptions{
		MinSlides: cfg.Slides.MinSlides,
		MaxSlides: cfg.Slides.MaxSlides,
	}); err != nil {
		lg.Fatal("Failed to seed defaults", zap.Error(err))
	}

	translator := initI18n(lg, &cfg.I18n)
	errs := errorx.NewErrorHandler(lg, translator)
	m := metrics.New(cfg.Metrics)

	emailLog, emailLogCloser := initEmailLog(lg, &cfg.EmailLog)
	if emailLogCloser != nil {
		defer emailLogCloser.Close()
	}

	jwtService, err := jwt.NewService(jwt.Config{SecretKey: cfg.JWT.SecretKey, Duration: cfg.JWT.Duration})
	if err != nil {
		lg.Fatal("Failed to initialize JWT service", zap.Error(err))
	}
	identity, err := jwt.NewIdentityVerifier(cfg.Identity.Secret, cfg.Identity.Issuer)
	if err != nil {
		lg.Fatal("Failed to initialize identity verifier", zap.Error(err))
	}
	session := middleware.NewSession(jwtService, db, cfg.JWT.CookieName, cfg.Identity.LoginURL, errs, lg)

	router := initRouter(lg, cfg, translator, errs, m)
	handler.New(handler.Deps{
		DB:       db,
		JWT:      jwtService,
		Identity: identity,
		Session:  session,
		Storage:  initStorage(lg, &cfg.Storage),
		Mailer:   mail.NewSMTPSender(lg),
		EmailLog: emailLog,
		AI:       ai.NewClient(lg, cfg.AI.Timeout),
		Metrics:  m,
		Errors:   errs,
		Logger:   lg,
		Config:   cfg,
	}).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router,
	}
	go func() {
		lg.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down apiserver")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("Failed to shutdown server", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		lg.Warn("Failed to flush traces", zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
