package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"
)

// SubscriptionsKey stores every browser subscription as one JSON list.
const SubscriptionsKey = "tkp.push-subscriptions"

var ErrInvalidSubscription = errors.New("subscription endpoint is required")

type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

type Notification struct {
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Icon    string         `json:"icon,omitempty"`
	Badge   string         `json:"badge,omitempty"`
	Tag     string         `json:"tag,omitempty"`
	Actions []Action       `json:"actions,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type Subscription struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
}

// Sender delivers one encrypted payload. webpush.SendNotificationWithContext satisfies it.
type Sender func(ctx context.Context, payload []byte, sub *webpush.Subscription, opts *webpush.Options) (*http.Response, error)

type Service struct {
	kv     store.Store
	cfg    Config
	send   Sender
	log    logrus.FieldLogger
	subsMu sync.Mutex
}

func NewService(kv store.Store, cfg Config, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{kv: kv, cfg: cfg, send: webpush.SendNotificationWithContext, log: log.WithField("component", "push")}
}

// WithSender swaps the transport, mainly for tests.
func (s *Service) WithSender(send Sender) *Service {
	s.send = send
	return s
}

func (s *Service) PublicKey() string {
	return s.cfg.VAPIDPublicKey
}

func (s *Service) Subscribe(ctx context.Context, sub Subscription) error {
	if sub.Endpoint == "" {
		return ErrInvalidSubscription
	}
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	subs, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range subs {
		if subs[i].Endpoint == sub.Endpoint {
			subs[i] = sub
			return s.save(ctx, subs)
		}
	}
	return s.save(ctx, append(subs, sub))
}

func (s *Service) Unsubscribe(ctx context.Context, endpoint string) error {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	subs, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := subs[:0]
	for _, sub := range subs {
		if sub.Endpoint != endpoint {
			kept = append(kept, sub)
		}
	}
	return s.save(ctx, kept)
}

func (s *Service) Subscriptions(ctx context.Context) ([]Subscription, error) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return s.load(ctx)
}

// Notify sends n to every stored subscription. It succeeds when at least one
// delivery succeeds or when there is nobody to notify. Subscriptions the push
// service reports as gone (404/410) are dropped.
func (s *Service) Notify(ctx context.Context, n Notification) error {
	subs, err := s.Subscriptions(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		s.log.WithField("title", n.Title).Debug("no push subscriptions, notification skipped")
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	var (
		lastErr   error
		delivered int
		gone      []string
	)
	for _, sub := range subs {
		status, err := s.deliver(ctx, payload, sub)
		switch {
		case err != nil:
			s.log.WithError(err).WithField("endpoint", sub.Endpoint).Warn("push delivery failed")
			lastErr = err
		case status == http.StatusGone || status == http.StatusNotFound:
			s.log.WithField("endpoint", sub.Endpoint).Info("push subscription expired, removing")
			gone = append(gone, sub.Endpoint)
		case status < 200 || status >= 300:
			lastErr = fmt.Errorf("push failed with status %d", status)
			s.log.WithField("endpoint", sub.Endpoint).WithField("status", status).Warn("push rejected")
		default:
			delivered++
		}
	}
	for _, endpoint := range gone {
		if err := s.Unsubscribe(ctx, endpoint); err != nil {
			s.log.WithError(err).Warn("failed to remove expired subscription")
		}
	}
	if delivered > 0 {
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return errors.New("no push subscription accepted the notification")
}

func (s *Service) deliver(ctx context.Context, payload []byte, sub Subscription) (int, error) {
	resp, err := s.send(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.Keys.P256dh, Auth: sub.Keys.Auth},
	}, &webpush.Options{
		Subscriber:      s.cfg.VAPIDSubject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *Service) load(ctx context.Context) ([]Subscription, error) {
	raw, ok, err := s.kv.Get(ctx, SubscriptionsKey)
	if err != nil {
		return nil, fmt.Errorf("read subscriptions: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var subs []Subscription
	if err := json.Unmarshal(raw, &subs); err != nil {
		s.log.WithError(err).Warn("stored subscriptions unreadable, starting empty")
		return nil, nil
	}
	return subs, nil
}

func (s *Service) save(ctx context.Context, subs []Subscription) error {
	raw, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("marshal subscriptions: %w", err)
	}
	if err := s.kv.Set(ctx, SubscriptionsKey, raw); err != nil {
		return fmt.Errorf("write subscriptions: %w", err)
	}
	return nil
}

// LogNotifier stands in for Service when VAPID keys are not configured.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (n LogNotifier) Notify(ctx context.Context, notification Notification) error {
	log := n.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{"title": notification.Title, "tag": notification.Tag}).Info(notification.Body)
	return nil
}
