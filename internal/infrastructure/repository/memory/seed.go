package memory

import "github.com/riskibarqy/squad-builder/internal/domain/player"

const (
	CountryBrazil    = "Brazil"
	CountryArgentina = "Argentina"
	CountryFrance    = "France"
	CountryGermany   = "Germany"
)

func SeedPool() player.Pool {
	return player.Pool{Countries: []player.Country{
		{Name: CountryBrazil, Players: []player.Player{
			{ID: 1, Name: "Alisson", Position: player.PositionGoalkeeper},
			{ID: 2, Name: "Marquinhos", Position: player.PositionDefender},
			{ID: 3, Name: "Éder Militão", Position: player.PositionDefender},
			{ID: 4, Name: "Casemiro", Position: player.PositionMidfielder},
			{ID: 5, Name: "Neymar Jr.", Position: player.PositionForward},
			{ID: 6, Name: "Vinícius Jr.", Position: player.PositionForward},
		}},
		{Name: CountryArgentina, Players: []player.Player{
			{ID: 7, Name: "E. Martínez", Position: player.PositionGoalkeeper},
			{ID: 8, Name: "C. Romero", Position: player.PositionDefender},
			{ID: 9, Name: "L. Martínez", Position: player.PositionDefender},
			{ID: 10, Name: "R. De Paul", Position: player.PositionMidfielder},
			{ID: 11, Name: "Lionel Messi", Position: player.PositionForward},
			{ID: 12, Name: "J. Álvarez", Position: player.PositionForward},
		}},
		{Name: CountryFrance, Players: []player.Player{
			{ID: 13, Name: "Mike Maignan", Position: player.PositionGoalkeeper},
			{ID: 14, Name: "W. Saliba", Position: player.PositionDefender},
			{ID: 15, Name: "J. Koundé", Position: player.PositionDefender},
			{ID: 16, Name: "A. Tchouaméni", Position: player.PositionMidfielder},
			{ID: 17, Name: "K. Mbappé", Position: player.PositionForward},
			{ID: 18, Name: "A. Griezmann", Position: player.PositionForward},
		}},
		{Name: CountryGermany, Players: []player.Player{
			{ID: 19, Name: "M. ter Stegen", Position: player.PositionGoalkeeper},
			{ID: 20, Name: "A. Rüdiger", Position: player.PositionDefender},
			{ID: 21, Name: "J. Tah", Position: player.PositionDefender},
			{ID: 22, Name: "Joshua Kimmich", Position: player.PositionMidfielder},
			{ID: 23, Name: "Jamal Musiala", Position: player.PositionMidfielder},
			{ID: 24, Name: "Kai Havertz", Position: player.PositionForward},
		}},
	}}
}
