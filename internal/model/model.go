package model

type UserRole string

type GameStatus string

type EventType string

type AttendanceStatus string

const (
	RoleAdmin   UserRole = "admin"
	RoleJogador UserRole = "jogador"

	GameScheduled GameStatus = "agendado"
	GameFinished  GameStatus = "finalizado"

	EventTraining EventType = "treino"
	EventFriendly EventType = "amistoso"
	EventSocial   EventType = "confraternizacao"
	EventMeeting  EventType = "reuniao"

	AttendanceConfirmed AttendanceStatus = "confirmado"
	AttendancePending   AttendanceStatus = "pendente"
	AttendanceDeclined  AttendanceStatus = "recusado"
)

type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"nome"`
	Email        string   `json:"email"`
	PhotoURL     string   `json:"foto,omitempty"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"senhaHash,omitempty"`
}

// Public strips fields that never leave the server.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Player struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"nome"`
	Position             string   `json:"posicao"`
	Age                  int      `json:"idade"`
	Phone                string   `json:"telefone,omitempty"`
	AttendancePercentage int      `json:"percentualPresenca"`
	TotalGames           int      `json:"totalJogos"`
	GamesAttended        int      `json:"jogosPresentes"`
	Trophies             []string `json:"trofeus"`
	Medals               []string `json:"medalhas"`
}

type Attendance struct {
	PlayerID string           `json:"jogadorId"`
	Status   AttendanceStatus `json:"status"`
}

type GameResult struct {
	GoalsFor     int `json:"golsPro"`
	GoalsAgainst int `json:"golsContra"`
	YellowCards  int `json:"cartoesAmarelos"`
	RedCards     int `json:"cartoesVermelhos"`
}

type PlayEvent struct {
	Minute      int    `json:"minuto"`
	Type        string `json:"tipo"`
	PlayerID    string `json:"jogadorId"`
	Description string `json:"descricao,omitempty"`
}

type Game struct {
	ID            string       `json:"id"`
	Opponent      string       `json:"adversario"`
	Date          string       `json:"data"`
	Time          string       `json:"horario"`
	Location      string       `json:"local"`
	Status        GameStatus   `json:"status"`
	Result        *GameResult  `json:"resultado,omitempty"`
	PlayEvents    []PlayEvent  `json:"eventos,omitempty"`
	Confirmations []Attendance `json:"confirmacoes"`
}

func (g Game) IsFinished() bool {
	return g.Status == GameFinished
}

type Event struct {
	ID            string       `json:"id"`
	Name          string       `json:"nome"`
	Description   string       `json:"descricao,omitempty"`
	Date          string       `json:"data"`
	Time          string       `json:"horario"`
	Location      string       `json:"local"`
	Type          EventType    `json:"tipo"`
	Confirmations []Attendance `json:"confirmacoes"`
}

type News struct {
	ID          string `json:"id"`
	Title       string `json:"titulo"`
	Body        string `json:"conteudo"`
	PublishedAt string `json:"dataPublicacao"`
	AuthorID    string `json:"autorId"`
	Image       string `json:"imagem,omitempty"`
	Views       int    `json:"visualizacoes"`
	Likes       int    `json:"curtidas"`
	Comments    int    `json:"comentarios"`
	Category    string `json:"categoria"`
	Featured    bool   `json:"destaque"`
}

func ValidRole(role UserRole) bool {
	return role == RoleAdmin || role == RoleJogador
}

func ValidEventType(t EventType) bool {
	switch t {
	case EventTraining, EventFriendly, EventSocial, EventMeeting:
		return true
	}
	return false
}
