// Command offline-proxy fronts the PWA origin with the offline cache worker.
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
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/logging"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/offline"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/push"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"
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

	var notifier offline.Notifier = push.LogNotifier{Log: log}
	if cfg.PushEnabled() {
		notifier = push.NewService(kv, push.Config{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			VAPIDSubject:    cfg.VAPIDSubject,
		}, log)
	}

	wcfg := offline.DefaultConfig()
	wcfg.Version = cfg.Worker.CacheVersion
	wcfg.SyncEndpoint = cfg.Worker.SyncEndpoint
	wcfg.PeriodicSyncInterval = cfg.Worker.PeriodicSyncInterval
	wcfg.ActivateTimeout = cfg.Worker.ActivateTimeout

	worker, err := offline.NewWorker(wcfg, offline.Options{
		Origin:   cfg.Worker.OriginURL,
		Notifier: notifier,
		Logger:   log,
	})
	if err != nil {
		log.WithError(err).Fatal("offline worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	installCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = worker.Install(installCtx)
	cancel()
	if err != nil {
		// The shell is fetched again on the next start; until then requests
		// go straight to the origin.
		log.WithError(err).Error("install failed, running as plain proxy")
	} else if err := worker.Activate(ctx); err != nil {
		log.WithError(err).Error("activate")
	}
	go worker.RunPeriodicSync(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Worker.Port,
		Handler:           offline.NewHandler(worker),
		ReadHeaderTimeout: 10 * time.Second,
	}

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

	log.WithField("port", cfg.Worker.Port).WithField("origin", cfg.Worker.OriginURL).Info("offline proxy listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server")
	}
	<-done
	worker.Close()
}
