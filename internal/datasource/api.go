package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"

	"github.com/sirupsen/logrus"
)

// APIError is returned for any non-2xx response. Body holds the decoded JSON
// payload when the server sent one, the raw text otherwise.
type APIError struct {
	Status int
	Body   any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed with status %d", e.Status)
}

// APISource reads collections from the remote backend. Writes are not
// supported by that backend yet and are accepted as no-ops.
type APISource struct {
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

func NewAPISource(baseURL string, client *http.Client, log logrus.FieldLogger) *APISource {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &APISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		log:     log.WithField("source", "api"),
	}
}

func (s *APISource) GetPlayers(ctx context.Context) ([]model.Player, error) {
	var dtos []playerDTO
	if err := s.getJSON(ctx, "/players", &dtos); err != nil {
		return nil, err
	}
	players := make([]model.Player, 0, len(dtos))
	for _, dto := range dtos {
		players = append(players, dto.toModel())
	}
	return players, nil
}

func (s *APISource) SetPlayers(ctx context.Context, players []model.Player) error {
	s.log.WithField("count", len(players)).Debug("write of players ignored in api mode")
	return nil
}

func (s *APISource) GetGames(ctx context.Context) ([]model.Game, error) {
	var games []model.Game
	if err := s.getJSON(ctx, "/games", &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *APISource) SetGames(ctx context.Context, games []model.Game) error {
	s.log.WithField("count", len(games)).Debug("write of games ignored in api mode")
	return nil
}

func (s *APISource) GetEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := s.getJSON(ctx, "/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *APISource) SetEvents(ctx context.Context, events []model.Event) error {
	s.log.WithField("count", len(events)).Debug("write of events ignored in api mode")
	return nil
}

func (s *APISource) GetNews(ctx context.Context) ([]model.News, error) {
	var news []model.News
	if err := s.getJSON(ctx, "/news", &news); err != nil {
		return nil, err
	}
	return news, nil
}

// FindUserByEmail treats a 404 from the backend as "no such user".
func (s *APISource) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.getJSON(ctx, "/users/by-email?email="+url.QueryEscape(email), &user)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *APISource) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode}).Warn("api request failed")
		return &APIError{Status: resp.StatusCode, Body: decodeErrorBody(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeErrorBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(trimmed, &parsed); err == nil {
		return parsed
	}
	return string(trimmed)
}
