package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/config"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/datasource"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/logging"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/push"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/session"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/snapshot"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	kv, err := store.Open(cfg.StoreOptions())
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer kv.Close()

	source, err := datasource.New(datasource.Config{
		Mode:       datasource.Mode(cfg.DataSourceMode),
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Snapshots:  snapshot.NewStore(kv, log),
		Logger:     log,
	})
	if err != nil {
		log.WithError(err).Fatal("data source")
	}

	var pushService *push.Service
	if cfg.PushEnabled() {
		pushService = push.NewService(kv, push.Config{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			VAPIDSubject:    cfg.VAPIDSubject,
		}, log)
	} else {
		log.Warn("VAPID keys not set, push endpoints disabled")
	}

	server := web.NewServer(source, session.New(kv), pushService, log)
	handler := server.Routes()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.WithField("mode", cfg.DataSourceMode).Info("starting in lambda mode")
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("http shutdown")
		}
	}()

	log.WithField("port", cfg.Port).WithField("mode", cfg.DataSourceMode).Info("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server")
	}
	<-done
}
