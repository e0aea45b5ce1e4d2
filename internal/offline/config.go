package offline

import "time"

const (
	DefaultSyncTag         = "background-sync"
	DefaultPeriodicSyncTag = "content-sync"
	DefaultOfflinePage     = "/offline.html"
)

// DefaultShellURLs is the application shell precached on install.
var DefaultShellURLs = []string{
	"/",
	"/index.html",
	"/manifest.json",
	"/favicon.ico",
	"/icons/icon-192x192.png",
	"/icons/icon-512x512.png",
	"/assets/index.js",
	"/assets/index.css",
	DefaultOfflinePage,
}

type Config struct {
	Version              string
	ShellURLs            []string
	OfflinePage          string
	ActivateTimeout      time.Duration
	SyncTag              string
	PeriodicSyncTag      string
	SyncEndpoint         string
	PeriodicSyncInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Version:              "v1",
		ShellURLs:            append([]string(nil), DefaultShellURLs...),
		OfflinePage:          DefaultOfflinePage,
		ActivateTimeout:      30 * time.Second,
		SyncTag:              DefaultSyncTag,
		PeriodicSyncTag:      DefaultPeriodicSyncTag,
		SyncEndpoint:         "/sync",
		PeriodicSyncInterval: 12 * time.Hour,
	}
}

func (c Config) ShellCache() string {
	return "tkp-shell-" + c.Version
}

func (c Config) DynamicCache() string {
	return "tkp-dynamic-" + c.Version
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.ShellURLs == nil {
		c.ShellURLs = d.ShellURLs
	}
	if c.OfflinePage == "" {
		c.OfflinePage = d.OfflinePage
	}
	if c.ActivateTimeout <= 0 {
		c.ActivateTimeout = d.ActivateTimeout
	}
	if c.SyncTag == "" {
		c.SyncTag = d.SyncTag
	}
	if c.PeriodicSyncTag == "" {
		c.PeriodicSyncTag = d.PeriodicSyncTag
	}
	if c.SyncEndpoint == "" {
		c.SyncEndpoint = d.SyncEndpoint
	}
	if c.PeriodicSyncInterval <= 0 {
		c.PeriodicSyncInterval = d.PeriodicSyncInterval
	}
	return c
}
