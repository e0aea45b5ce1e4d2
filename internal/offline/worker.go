package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/push"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrInstallFailed = errors.New("offline: shell precache failed")

// OfflineHeader marks responses served from the offline fallback.
const OfflineHeader = "X-Offline-Fallback"

const (
	defaultPushTitle = "Time Keeper Pro"
	defaultPushBody  = "Nova atualização disponível!"
	syncedBody       = "Dados sincronizados com sucesso!"
	appIcon          = "/icons/icon-192x192.png"
)

const placeholderPage = `<!DOCTYPE html>
<html lang="pt-BR"><head><meta charset="utf-8"><title>Sem conexão</title></head>
<body><h1>Você está offline</h1><p>Verifique sua conexão e tente novamente.</p></body></html>`

type Notifier interface {
	Notify(ctx context.Context, n push.Notification) error
}

type State int32

const (
	StateNew State = iota
	StateInstalled
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateActive:
		return "active"
	}
	return "new"
}

type Options struct {
	// Origin is the scheme and host the worker fronts, e.g. http://localhost:5173.
	Origin    string
	Transport http.RoundTripper
	Caches    CacheStorage
	Notifier  Notifier
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

// Worker gives a PWA origin offline behaviour: a precached shell,
// stale-while-revalidate for everything else, background sync and push.
// It is an http.RoundTripper and can front the origin as a reverse proxy.
type Worker struct {
	cfg      Config
	origin   *url.URL
	network  http.RoundTripper
	caches   CacheStorage
	notifier Notifier
	log      logrus.FieldLogger
	now      func() time.Time
	shell    map[string]bool
	state    atomic.Int32
	periodic atomic.Bool
	bgMu     sync.Mutex
	closed   bool
	bg       sync.WaitGroup
}

func NewWorker(cfg Config, opts Options) (*Worker, error) {
	origin, err := url.Parse(opts.Origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("origin %q must be absolute", opts.Origin)
	}
	cfg = cfg.withDefaults()

	w := &Worker{
		cfg:      cfg,
		origin:   origin,
		network:  opts.Transport,
		caches:   opts.Caches,
		notifier: opts.Notifier,
		log:      opts.Logger,
		now:      opts.Now,
		shell:    make(map[string]bool, len(cfg.ShellURLs)),
	}
	if w.network == nil {
		w.network = http.DefaultTransport
	}
	if w.caches == nil {
		w.caches = NewCacheStorage()
	}
	if w.log == nil {
		w.log = logrus.StandardLogger()
	}
	w.log = w.log.WithField("component", "offline")
	if w.notifier == nil {
		w.notifier = push.LogNotifier{Log: w.log}
	}
	if w.now == nil {
		w.now = time.Now
	}
	for _, u := range cfg.ShellURLs {
		w.shell[u] = true
	}
	return w, nil
}

func (w *Worker) Config() Config { return w.cfg }

func (w *Worker) State() State { return State(w.state.Load()) }

func (w *Worker) PeriodicSyncRegistered() bool { return w.periodic.Load() }

// Install precaches every shell URL. Either all of them land in the shell
// cache or none do.
func (w *Worker) Install(ctx context.Context) error {
	entries := make([]Entry, len(w.cfg.ShellURLs))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range w.cfg.ShellURLs {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, http.MethodGet, w.resolve(path), nil)
			if err != nil {
				return err
			}
			resp, err := w.network.RoundTrip(req)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", path, err)
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
			}
			entry, err := capture(resp, w.now())
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.log.WithError(err).Error("install failed")
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	batch := make(map[string]Entry, len(entries))
	for i, path := range w.cfg.ShellURLs {
		batch[cacheKey(w.resolveURL(path))] = entries[i]
	}
	w.caches.Open(w.cfg.ShellCache()).AddAll(batch)
	w.state.Store(int32(StateInstalled))
	w.log.WithField("version", w.cfg.Version).WithField("urls", len(batch)).Info("shell precached")
	return nil
}

// Activate drops caches from older versions, takes control and registers
// periodic sync. Its work is bounded by ActivateTimeout; failures are logged
// and the worker becomes active regardless.
func (w *Worker) Activate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.ActivateTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.activate(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			w.log.WithError(err).Error("activation step failed")
		}
	case <-ctx.Done():
		w.log.WithError(ctx.Err()).Error("activation timed out")
	}
	w.state.Store(int32(StateActive))
	return nil
}

func (w *Worker) activate(ctx context.Context) error {
	names, err := w.caches.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list caches: %w", err)
	}
	keep := map[string]bool{w.cfg.ShellCache(): true, w.cfg.DynamicCache(): true}
	for _, name := range names {
		if keep[name] {
			continue
		}
		if err := w.caches.Delete(ctx, name); err != nil {
			return fmt.Errorf("delete cache %s: %w", name, err)
		}
		w.log.WithField("cache", name).Info("stale cache deleted")
	}
	w.periodic.Store(true)
	return nil
}

func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	return w.Fetch(req)
}

// Fetch answers req from cache and network according to its kind.
func (w *Worker) Fetch(req *http.Request) (*http.Response, error) {
	if !w.handles(req) {
		return w.network.RoundTrip(req)
	}
	key := cacheKey(req.URL)
	if w.shell[req.URL.Path] && req.URL.RawQuery == "" {
		return w.cacheFirst(req, key)
	}
	return w.staleWhileRevalidate(req, key)
}

func (w *Worker) handles(req *http.Request) bool {
	if w.State() != StateActive || req.Method != http.MethodGet {
		return false
	}
	if strings.HasSuffix(req.URL.Scheme, "extension") {
		return false
	}
	return req.URL.Host == "" || req.URL.Host == w.origin.Host
}

func (w *Worker) cacheFirst(req *http.Request, key string) (*http.Response, error) {
	if e, ok := w.caches.Open(w.cfg.ShellCache()).Match(key); ok {
		return e.Response(req), nil
	}
	if e, ok := w.caches.Open(w.cfg.DynamicCache()).Match(key); ok {
		return e.Response(req), nil
	}
	resp, err := w.fromNetwork(req, w.cfg.ShellCache(), key)
	if err != nil {
		return w.offline(req), nil
	}
	return resp, nil
}

func (w *Worker) staleWhileRevalidate(req *http.Request, key string) (*http.Response, error) {
	dynamic := w.cfg.DynamicCache()
	if e, ok := w.caches.Open(dynamic).Match(key); ok {
		w.revalidate(req, key)
		return e.Response(req), nil
	}
	resp, err := w.fromNetwork(req, dynamic, key)
	if err != nil {
		return w.offline(req), nil
	}
	return resp, nil
}

// revalidate refreshes key in the background. The request context may end as
// soon as the stale copy is returned, so only its values are kept.
func (w *Worker) revalidate(req *http.Request, key string) {
	w.bgMu.Lock()
	defer w.bgMu.Unlock()
	if w.closed {
		return
	}
	bgReq := req.Clone(context.WithoutCancel(req.Context()))
	w.bg.Add(1)
	go func() {
		defer w.bg.Done()
		resp, err := w.fromNetwork(bgReq, w.cfg.DynamicCache(), key)
		if err != nil {
			w.log.WithError(err).WithField("url", key).Debug("revalidation failed, keeping cached copy")
			return
		}
		resp.Body.Close()
	}()
}

// fromNetwork fetches req and stores a 200 response under key in cacheName.
// The returned response is always fully buffered.
func (w *Worker) fromNetwork(req *http.Request, cacheName, key string) (*http.Response, error) {
	resp, err := w.network.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	entry, err := capture(resp, w.now())
	if err != nil {
		return nil, err
	}
	if entry.Status == http.StatusOK {
		w.caches.Open(cacheName).Put(key, entry)
	}
	return entry.Response(req), nil
}

func (w *Worker) offline(req *http.Request) *http.Response {
	page := cacheKey(w.resolveURL(w.cfg.OfflinePage))
	entry, ok := w.caches.Open(w.cfg.ShellCache()).Match(page)
	if !ok {
		entry = Entry{
			Header: http.Header{"Content-Type": {"text/html; charset=utf-8"}},
			Body:   []byte(placeholderPage),
		}
	}
	entry.Status = http.StatusServiceUnavailable
	resp := entry.Response(req)
	resp.Header.Set(OfflineHeader, "1")
	resp.Header.Set("Cache-Control", "no-store")
	w.log.WithField("url", req.URL.String()).Debug("served offline page")
	return resp
}

// Wait blocks until background revalidations have finished. Fetches may start
// new ones afterwards; use Close when shutting down.
func (w *Worker) Wait() {
	w.bg.Wait()
}

// Close stops new background revalidations and waits for running ones.
// Cached responses are still served after Close.
func (w *Worker) Close() {
	w.bgMu.Lock()
	w.closed = true
	w.bgMu.Unlock()
	w.bg.Wait()
}

// Sync posts a timestamp to the sync endpoint for the known sync tags and
// notifies the user on success. Failures are not reported to the caller.
func (w *Worker) Sync(ctx context.Context, tag string) bool {
	if tag != w.cfg.SyncTag && tag != w.cfg.PeriodicSyncTag {
		w.log.WithField("tag", tag).Debug("unknown sync tag ignored")
		return false
	}
	body, _ := json.Marshal(map[string]int64{"timestamp": w.now().UnixMilli()})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.resolve(w.cfg.SyncEndpoint), bytes.NewReader(body))
	if err != nil {
		w.log.WithError(err).Debug("build sync request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := w.network.RoundTrip(req)
	if err != nil {
		w.log.WithError(err).WithField("tag", tag).Debug("sync failed")
		return false
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.log.WithField("tag", tag).WithField("status", resp.StatusCode).Debug("sync rejected")
		return false
	}

	err = w.notifier.Notify(ctx, push.Notification{
		Title: defaultPushTitle,
		Body:  syncedBody,
		Icon:  appIcon,
		Tag:   tag,
	})
	if err != nil {
		w.log.WithError(err).Warn("sync notification failed")
	}
	return true
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Push turns a push message into a user notification. JSON payloads may set
// title, body and url; any other payload is used as the body text.
func (w *Worker) Push(ctx context.Context, payload []byte) error {
	n := push.Notification{
		Title: defaultPushTitle,
		Body:  defaultPushBody,
		Icon:  appIcon,
		Badge: appIcon,
		Actions: []push.Action{
			{Action: "open", Title: "Abrir app"},
			{Action: "dismiss", Title: "Fechar"},
		},
		Data: map[string]any{"url": "/"},
	}
	text := strings.TrimSpace(string(payload))
	var p pushPayload
	switch {
	case text == "":
	case strings.HasPrefix(text, "{") && json.Unmarshal(payload, &p) == nil:
		if p.Title != "" {
			n.Title = p.Title
		}
		if p.Body != "" {
			n.Body = p.Body
		}
		if p.URL != "" {
			n.Data["url"] = p.URL
		}
	default:
		n.Body = text
	}
	return w.notifier.Notify(ctx, n)
}

// RunPeriodicSync runs the periodic sync tag every PeriodicSyncInterval once
// activation has registered it. It returns when ctx is done.
func (w *Worker) RunPeriodicSync(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PeriodicSyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.periodic.Load() {
				w.Sync(ctx, w.cfg.PeriodicSyncTag)
			}
		}
	}
}

func (w *Worker) resolve(path string) string {
	return w.resolveURL(path).String()
}

func (w *Worker) resolveURL(path string) *url.URL {
	ref, err := url.Parse(path)
	if err != nil {
		return w.origin
	}
	return w.origin.ResolveReference(ref)
}

// cacheKey ignores scheme and host; a worker only ever caches its own origin.
func cacheKey(u *url.URL) string {
	return u.RequestURI()
}
