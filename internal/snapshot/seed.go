package snapshot

import (
	"sync"

	"github.com/sudios1xx/time-keeper-pro-sub000/internal/model"

	"golang.org/x/crypto/bcrypt"
)

const (
	AdminEmail   = "admin@time.com"
	JogadorEmail = "jogador@time.com"
)

var (
	seedHashesOnce sync.Once
	seedHashes     map[string]string
)

func hashPassword(password string) string {
	if password == "" {
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hash)
}

// seedPasswordHash hashes the demo passwords once per process; bcrypt is too
// slow to run on every Load of an empty store.
func seedPasswordHash(email string) string {
	seedHashesOnce.Do(func() {
		seedHashes = map[string]string{
			AdminEmail:   hashPassword("admin123"),
			JogadorEmail: hashPassword("jogador123"),
		}
	})
	return seedHashes[email]
}

// Seed returns a fresh copy of the example database.
func Seed() Snapshot {
	return Snapshot{
		Users:   seedUsers(),
		Players: seedPlayers(),
		Games:   seedGames(),
		Events:  seedEvents(),
		News:    seedNews(),
	}
}

func seedUsers() []model.User {
	return []model.User{
		{ID: "1", Name: "Administrador", Email: AdminEmail, PhotoURL: "https://i.pravatar.cc/100?img=12", Role: model.RoleAdmin, PasswordHash: seedPasswordHash(AdminEmail)},
		{ID: "2", Name: "João Silva", Email: JogadorEmail, PhotoURL: "https://i.pravatar.cc/100?img=33", Role: model.RoleJogador, PasswordHash: seedPasswordHash(JogadorEmail)},
	}
}

func seedPlayers() []model.Player {
	return []model.Player{
		{ID: "1", Name: "João Silva", Position: "Atacante", Age: 28, Phone: "(11) 98765-4321", AttendancePercentage: 95, TotalGames: 20, GamesAttended: 19, Trophies: []string{"Artilheiro 2023"}, Medals: []string{"Ouro"}},
		{ID: "2", Name: "Pedro Santos", Position: "Goleiro", Age: 32, Phone: "(11) 91234-5678", AttendancePercentage: 88, TotalGames: 20, GamesAttended: 18, Trophies: []string{"Melhor Goleiro 2023"}, Medals: []string{}},
		{ID: "3", Name: "Carlos Oliveira", Position: "Zagueiro", Age: 25, AttendancePercentage: 75, TotalGames: 20, GamesAttended: 15, Trophies: []string{}, Medals: []string{"Prata"}},
		{ID: "4", Name: "Lucas Ferreira", Position: "Meio-campo", Age: 30, Phone: "(11) 99876-5432", AttendancePercentage: 90, TotalGames: 20, GamesAttended: 18, Trophies: []string{"Craque da Galera"}, Medals: []string{"Ouro", "Bronze"}},
		{ID: "5", Name: "Rafael Costa", Position: "Lateral", Age: 22, AttendancePercentage: 60, TotalGames: 20, GamesAttended: 12, Trophies: []string{}, Medals: []string{}},
		{ID: "6", Name: "André Lima", Position: "Atacante", Age: 35, Phone: "(11) 97654-3210", AttendancePercentage: 82, TotalGames: 20, GamesAttended: 16, Trophies: []string{"Fair Play"}, Medals: []string{"Bronze"}},
	}
}

func seedGames() []model.Game {
	return []model.Game{
		{
			ID: "1", Opponent: "Unidos da Vila", Date: "2024-03-10", Time: "09:00", Location: "Campo do Parque",
			Status: model.GameFinished,
			Result: &model.GameResult{GoalsFor: 3, GoalsAgainst: 1, YellowCards: 2, RedCards: 0},
			PlayEvents: []model.PlayEvent{
				{Minute: 12, Type: "gol", PlayerID: "1"},
				{Minute: 40, Type: "cartao_amarelo", PlayerID: "3"},
				{Minute: 55, Type: "gol", PlayerID: "6"},
				{Minute: 78, Type: "gol", PlayerID: "1", Description: "Cobrança de falta"},
			},
			Confirmations: []model.Attendance{
				{PlayerID: "1", Status: model.AttendanceConfirmed},
				{PlayerID: "2", Status: model.AttendanceConfirmed},
				{PlayerID: "3", Status: model.AttendanceConfirmed},
				{PlayerID: "5", Status: model.AttendanceDeclined},
			},
		},
		{
			ID: "2", Opponent: "Real Várzea", Date: "2024-03-24", Time: "10:30", Location: "Arena Municipal",
			Status: model.GameScheduled,
			Confirmations: []model.Attendance{
				{PlayerID: "1", Status: model.AttendanceConfirmed},
				{PlayerID: "4", Status: model.AttendancePending},
			},
		},
		{
			ID: "3", Opponent: "Amigos do Bairro", Date: "2024-04-07", Time: "08:00", Location: "Campo do Parque",
			Status:        model.GameScheduled,
			Confirmations: []model.Attendance{},
		},
	}
}

func seedEvents() []model.Event {
	return []model.Event{
		{
			ID: "1", Name: "Treino tático", Description: "Treino focado em bola parada", Date: "2024-03-20", Time: "19:30",
			Location: "Quadra do Clube", Type: model.EventTraining,
			Confirmations: []model.Attendance{
				{PlayerID: "1", Status: model.AttendanceConfirmed},
				{PlayerID: "2", Status: model.AttendancePending},
			},
		},
		{
			ID: "2", Name: "Churrasco de fim de temporada", Date: "2024-04-13", Time: "13:00",
			Location: "Sede do time", Type: model.EventSocial,
			Confirmations: []model.Attendance{},
		},
		{
			ID: "3", Name: "Reunião de planejamento", Description: "Definição do calendário do semestre", Date: "2024-03-28", Time: "20:00",
			Location: "Online", Type: model.EventMeeting,
			Confirmations: []model.Attendance{{PlayerID: "4", Status: model.AttendanceConfirmed}},
		},
	}
}

func seedNews() []model.News {
	return []model.News{
		{ID: "1", Title: "Vitória por 3 a 1 contra o Unidos da Vila", Body: "Com dois gols de João Silva o time venceu mais uma.", PublishedAt: "2024-03-10", AuthorID: "1", Views: 120, Likes: 34, Comments: 8, Category: "jogos", Featured: true},
		{ID: "2", Title: "Novo uniforme chegou", Body: "Os uniformes da temporada já estão disponíveis na sede.", PublishedAt: "2024-03-05", AuthorID: "1", Image: "/images/uniforme.jpg", Views: 80, Likes: 21, Comments: 3, Category: "clube"},
		{ID: "3", Title: "Inscrições abertas para o torneio de inverno", Body: "Confirme sua presença com a diretoria até o fim do mês.", PublishedAt: "2024-03-01", AuthorID: "1", Views: 45, Likes: 9, Comments: 1, Category: "avisos"},
	}
}
