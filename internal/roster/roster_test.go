package roster

import (
	"reflect"
	"testing"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"
)

func ids(players []model.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func samplePlayers() []model.Player {
	return []model.Player{
		{ID: "1", Name: "Pedro", Position: "Goleiro", Age: 32, AttendancePercentage: 88, Trophies: []string{"a"}, Medals: []string{"x", "y"}},
		{ID: "2", Name: "Ana", Position: "Atacante", Age: 25, AttendancePercentage: 95, Trophies: []string{}, Medals: []string{"z"}},
		{ID: "3", Name: "Bruno", Position: "atacante", Age: 40, AttendancePercentage: 60, Trophies: []string{"b", "c"}, Medals: nil},
		{ID: "4", Name: "Carla", Position: "Atacante", Age: 29, AttendancePercentage: 71},
	}
}

func TestFilterSortByAttendanceDescending(t *testing.T) {
	players := []model.Player{
		{ID: "1", AttendancePercentage: 90},
		{ID: "2", AttendancePercentage: 50},
	}
	got := ids(Filter(players, Criteria{SortBy: SortByAttendance}))
	if !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("expected [1 2], got %v", got)
	}
	reversed := []model.Player{players[1], players[0]}
	got = ids(Filter(reversed, Criteria{SortBy: SortByAttendance}))
	if !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("expected [1 2] regardless of input order, got %v", got)
	}
}

func TestFilterCatchAllPositionMatchesNoFilter(t *testing.T) {
	players := samplePlayers()
	all := Filter(players, Criteria{Position: AllPositions})
	none := Filter(players, Criteria{})
	if !reflect.DeepEqual(ids(all), ids(none)) {
		t.Fatalf("expected todos to equal no filter, got %v vs %v", ids(all), ids(none))
	}
	if len(all) != len(players) {
		t.Fatalf("expected every player, got %d", len(all))
	}
}

func TestFilterPositionIsExactAndCaseSensitive(t *testing.T) {
	got := ids(Filter(samplePlayers(), Criteria{Position: "Atacante"}))
	if !reflect.DeepEqual(got, []string{"2", "4"}) {
		t.Fatalf("expected [2 4], got %v", got)
	}
	if got := Filter(samplePlayers(), Criteria{Position: "Ata"}); len(got) != 0 {
		t.Fatalf("expected no partial position matches, got %v", ids(got))
	}
}

func TestFilterSearchMatchesNameOrPosition(t *testing.T) {
	got := ids(Filter(samplePlayers(), Criteria{Search: "  GOLE "}))
	if !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("expected position search hit [1], got %v", got)
	}
	got = ids(Filter(samplePlayers(), Criteria{Search: "ar"}))
	if !reflect.DeepEqual(got, []string{"4"}) {
		t.Fatalf("expected name search hit [4], got %v", got)
	}
}

func TestFilterSortOrders(t *testing.T) {
	byName := ids(Filter(samplePlayers(), Criteria{SortBy: SortByName}))
	if !reflect.DeepEqual(byName, []string{"2", "3", "4", "1"}) {
		t.Fatalf("expected name ascending, got %v", byName)
	}
	byAge := ids(Filter(samplePlayers(), Criteria{SortBy: SortByAge}))
	if !reflect.DeepEqual(byAge, []string{"3", "1", "4", "2"}) {
		t.Fatalf("expected age descending, got %v", byAge)
	}
	unsorted := ids(Filter(samplePlayers(), Criteria{SortBy: "altura"}))
	if !reflect.DeepEqual(unsorted, []string{"1", "2", "3", "4"}) {
		t.Fatalf("expected input order for unknown sort key, got %v", unsorted)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	players := samplePlayers()
	Filter(players, Criteria{SortBy: SortByName})
	if !reflect.DeepEqual(ids(players), []string{"1", "2", "3", "4"}) {
		t.Fatalf("expected input untouched, got %v", ids(players))
	}
}

func TestComputeEmptyRoster(t *testing.T) {
	stats := Compute(nil)
	if stats.AverageAttendance != 0 {
		t.Fatalf("expected 0 average for empty roster, got %d", stats.AverageAttendance)
	}
	if stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestCompute(t *testing.T) {
	stats := Compute(samplePlayers())
	want := Stats{TotalPlayers: 4, AverageAttendance: 79, TotalTrophies: 3, TotalMedals: 3}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

func TestPositions(t *testing.T) {
	got := Positions(samplePlayers())
	if !reflect.DeepEqual(got, []string{"Goleiro", "Atacante", "atacante"}) {
		t.Fatalf("unexpected positions %v", got)
	}
}
