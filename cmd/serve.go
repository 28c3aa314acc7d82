package cmd

import (
	"context"
	"net"
	"time"

	"github.com/pinpoint-app/ms-go-accounts/app/controller"
	"github.com/pinpoint-app/ms-go-accounts/app/mailer"
	"github.com/pinpoint-app/ms-go-accounts/app/middleware"
	"github.com/pinpoint-app/ms-go-accounts/app/repository"
	"github.com/pinpoint-app/ms-go-accounts/app/service"
	"github.com/pinpoint-app/ms-go-accounts/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server for the account lifecycle service.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logrus.WithError(err).Fatal("Failed to ping MongoDB")
	}

	accountRepo := repository.NewAccountRepository(client.Database(cfg.MongoDatabase))
	if err := accountRepo.EnsureIndexes(pingCtx); err != nil {
		logrus.WithError(err).Fatal("Failed to ensure account indexes")
	}

	smtpMailer := mailer.NewSMTP(cfg)
	accountService := service.NewAccountService(accountRepo, smtpMailer, cfg)

	startHTTPServer(cfg, accountService)
}

func startHTTPServer(cfg *config.Config, accountService *service.AccountService) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	accountController := controller.NewAccountController(accountService)
	authMiddleware := middleware.NewAuthMiddleware(accountService)

	e.POST("/register", accountController.Register)
	e.POST("/login", accountController.Login)
	e.GET("/verify/:token", accountController.VerifyEmail)
	e.POST("/forgot-password", accountController.ForgotPassword)
	e.POST("/reset-password/:token", accountController.ResetPassword)

	protected := e.Group("")
	protected.Use(authMiddleware.RequireAuth)
	protected.GET("/me", accountController.Me)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}
