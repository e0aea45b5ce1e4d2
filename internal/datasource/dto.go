package datasource

import "github.com/sudios1xx/time-keeper-pro-sub000/internal/model"

// playerDTO is the wire shape of GET /players. It currently matches the
// internal model field for field.
type playerDTO struct {
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

func (d playerDTO) toModel() model.Player {
	return model.Player(d)
}
