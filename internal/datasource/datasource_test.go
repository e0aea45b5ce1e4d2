package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/logging"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/snapshot"
	"github.com/sudios1xx/time-keeper-pro-sub000/internal/store"
)

func newMockSource(t *testing.T) Source {
	t.Helper()
	snapshots := snapshot.NewStore(store.NewMemoryStore(store.MemoryOptions{}), logging.Discard())
	src, err := New(Config{Mode: ModeMock, Snapshots: snapshots, Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("new mock source: %v", err)
	}
	return src
}

func TestMockSetPlayersThenGetPlayers(t *testing.T) {
	ctx := context.Background()
	src := newMockSource(t)

	lists := [][]model.Player{
		{{ID: "1", Name: "A", Trophies: []string{}, Medals: []string{}}},
		{{ID: "2", Name: "B", Trophies: []string{"Copa"}, Medals: []string{}}, {ID: "3", Name: "C", Trophies: []string{}, Medals: []string{"Ouro"}}},
		{},
	}
	for _, list := range lists {
		if err := src.SetPlayers(ctx, list); err != nil {
			t.Fatalf("set players: %v", err)
		}
		got, err := src.GetPlayers(ctx)
		if err != nil {
			t.Fatalf("get players: %v", err)
		}
		if !reflect.DeepEqual(got, list) {
			t.Fatalf("expected %+v, got %+v", list, got)
		}
	}
}

func TestMockWritesOnlyReplaceOneCollection(t *testing.T) {
	ctx := context.Background()
	src := newMockSource(t)

	games := []model.Game{{ID: "g1", Opponent: "Rival", Status: model.GameScheduled, Confirmations: []model.Attendance{}}}
	if err := src.SetGames(ctx, games); err != nil {
		t.Fatalf("set games: %v", err)
	}
	events := []model.Event{{ID: "e1", Name: "Treino", Type: model.EventTraining, Confirmations: []model.Attendance{}}}
	if err := src.SetEvents(ctx, events); err != nil {
		t.Fatalf("set events: %v", err)
	}

	gotGames, _ := src.GetGames(ctx)
	if !reflect.DeepEqual(gotGames, games) {
		t.Fatalf("expected games to survive an events write, got %+v", gotGames)
	}
	gotEvents, _ := src.GetEvents(ctx)
	if !reflect.DeepEqual(gotEvents, events) {
		t.Fatalf("expected events, got %+v", gotEvents)
	}
	players, _ := src.GetPlayers(ctx)
	if len(players) != len(snapshot.Seed().Players) {
		t.Fatalf("expected seeded players untouched, got %d", len(players))
	}
	news, _ := src.GetNews(ctx)
	if len(news) != len(snapshot.Seed().News) {
		t.Fatalf("expected seeded news, got %d", len(news))
	}
}

func TestMockFindUserByEmailIsExact(t *testing.T) {
	ctx := context.Background()
	src := newMockSource(t)

	user, err := src.FindUserByEmail(ctx, "admin@time.com")
	if err != nil || user == nil {
		t.Fatalf("expected admin user, got %+v err=%v", user, err)
	}
	if user.Role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %q", user.Role)
	}
	for _, email := range []string{"ADMIN@time.com", "admin@time", "", "nobody@time.com"} {
		if user, _ := src.FindUserByEmail(ctx, email); user != nil {
			t.Fatalf("expected no match for %q, got %+v", email, user)
		}
	}
}

func TestMockSaveFailureSurfaces(t *testing.T) {
	snapshots := snapshot.NewStore(store.NewMemoryStore(store.MemoryOptions{MaxValueBytes: 8}), logging.Discard())
	src := NewMockSource(snapshots)
	if err := src.SetPlayers(context.Background(), snapshot.Seed().Players); !errors.Is(err, store.ErrValueTooLarge) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

// flakyStore fails reads while broken is set.
type flakyStore struct {
	store.Store
	broken bool
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.broken {
		return nil, false, errors.New("disk unavailable")
	}
	return f.Store.Get(ctx, key)
}

func TestMockWriteAbortsWhenSnapshotUnreadable(t *testing.T) {
	ctx := context.Background()
	kv := &flakyStore{Store: store.NewMemoryStore(store.MemoryOptions{})}
	src := NewMockSource(snapshot.NewStore(kv, logging.Discard()))

	games := []model.Game{{ID: "g1", Opponent: "Rival", Status: model.GameScheduled, Confirmations: []model.Attendance{}}}
	if err := src.SetGames(ctx, games); err != nil {
		t.Fatalf("set games: %v", err)
	}

	kv.broken = true
	if err := src.SetPlayers(ctx, []model.Player{{ID: "p1", Name: "A"}}); err == nil {
		t.Fatal("expected players write to fail while the snapshot is unreadable")
	}
	if err := src.SetEvents(ctx, nil); err == nil {
		t.Fatal("expected events write to fail while the snapshot is unreadable")
	}
	kv.broken = false

	gotGames, _ := src.GetGames(ctx)
	if !reflect.DeepEqual(gotGames, games) {
		t.Fatalf("expected stored games to survive, got %+v", gotGames)
	}
	players, _ := src.GetPlayers(ctx)
	if len(players) != len(snapshot.Seed().Players) {
		t.Fatalf("expected players unchanged, got %d", len(players))
	}
}

func TestNewRejectsUnsupportedModes(t *testing.T) {
	if _, err := New(Config{Mode: ModeSupabase}); !errors.Is(err, ErrModeNotImplemented) {
		t.Fatalf("expected ErrModeNotImplemented, got %v", err)
	}
	if _, err := New(Config{Mode: "graphql"}); err == nil {
		t.Fatal("expected unknown mode to fail")
	}
	if _, err := New(Config{Mode: ModeAPI}); err == nil {
		t.Fatal("expected api mode without base url to fail")
	}
	if _, err := New(Config{Mode: ModeMock}); err == nil {
		t.Fatal("expected mock mode without snapshots to fail")
	}
}

func newAPISource(t *testing.T, handler http.HandlerFunc) Source {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	src, err := New(Config{Mode: ModeAPI, BaseURL: server.URL + "/", HTTPClient: server.Client(), Logger: logging.Discard()})
	if err != nil {
		t.Fatalf("new api source: %v", err)
	}
	return src
}

func TestAPIGetPlayers(t *testing.T) {
	src := newAPISource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/players" {
			t.Errorf("expected GET /players, got %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"1","nome":"João","posicao":"Atacante","idade":28,"percentualPresenca":90,"totalJogos":10,"jogosPresentes":9,"trofeus":["Artilheiro"],"medalhas":[]}]`))
	})

	players, err := src.GetPlayers(context.Background())
	if err != nil {
		t.Fatalf("get players: %v", err)
	}
	want := []model.Player{{ID: "1", Name: "João", Position: "Atacante", Age: 28, AttendancePercentage: 90, TotalGames: 10, GamesAttended: 9, Trophies: []string{"Artilheiro"}, Medals: []string{}}}
	if !reflect.DeepEqual(players, want) {
		t.Fatalf("expected %+v, got %+v", want, players)
	}
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	src := newAPISource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"maintenance"}`))
	})

	_, err := src.GetGames(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", apiErr.Status)
	}
	body, ok := apiErr.Body.(map[string]any)
	if !ok || body["error"] != "maintenance" {
		t.Fatalf("expected parsed json body, got %#v", apiErr.Body)
	}
}

func TestAPIErrorKeepsPlainTextBody(t *testing.T) {
	src := newAPISource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := src.GetNews(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Body != "boom" {
		t.Fatalf("expected raw body, got %#v", apiErr.Body)
	}
}

func TestAPIFindUserByEmail(t *testing.T) {
	src := newAPISource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/by-email" {
			t.Errorf("expected /users/by-email, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("email") != "a+b@time.com" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"id":"7","nome":"Ana","email":"a+b@time.com","role":"jogador"}`))
	})

	user, err := src.FindUserByEmail(context.Background(), "a+b@time.com")
	if err != nil || user == nil {
		t.Fatalf("expected user, got %+v err=%v", user, err)
	}
	if user.ID != "7" {
		t.Fatalf("expected id 7, got %q", user.ID)
	}
	user, err = src.FindUserByEmail(context.Background(), "missing@time.com")
	if err != nil || user != nil {
		t.Fatalf("expected nil user for 404, got %+v err=%v", user, err)
	}
}

func TestAPIWritesAreNoOps(t *testing.T) {
	calls := 0
	src := newAPISource(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	ctx := context.Background()
	if err := src.SetPlayers(ctx, []model.Player{{ID: "1"}}); err != nil {
		t.Fatalf("set players: %v", err)
	}
	if err := src.SetGames(ctx, nil); err != nil {
		t.Fatalf("set games: %v", err)
	}
	if err := src.SetEvents(ctx, nil); err != nil {
		t.Fatalf("set events: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no requests for writes, got %d", calls)
	}
}

func TestAPIHonoursContextCancellation(t *testing.T) {
	src := newAPISource(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.GetEvents(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
