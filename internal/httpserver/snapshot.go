package httpserver

import (
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/store"
)

// snapshot is the client view of a game. It exposes shots already fired
// and the fleet's hitpoints, never where the remaining ships are.
type snapshot struct {
	Mode   game.Mode   `json:"mode"`
	Size   int         `json:"size"`
	Marks  []game.Cell `json:"marks"`
	Ships  []shipView  `json:"ships"`
	Scores [2]int      `json:"scores"`
	Shots  int         `json:"shots"`
	Daily  string      `json:"daily,omitempty"`
}

type shipView struct {
	Index  int    `json:"index"`
	Size   int    `json:"size"`
	Life   int    `json:"life"`
	Image  string `json:"image"`
	Damage []bool `json:"damage"`
}

func newSnapshot(sess store.Session) snapshot {
	st := sess.State
	ships := make([]shipView, len(st.Player.Ships))
	for i, sh := range st.Player.Ships {
		ships[i] = shipView{Index: sh.Index, Size: sh.Size, Life: sh.Life, Image: sh.Image, Damage: sh.Damage()}
	}
	return snapshot{
		Mode:   st.Mode,
		Size:   st.Player.Size(),
		Marks:  st.Player.Marks(),
		Ships:  ships,
		Scores: game.Scores(st),
		Shots:  sess.Shots,
		Daily:  sess.Daily,
	}
}
