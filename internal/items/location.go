// Package items implements the major and minor item randomizers: pool
// construction, constraint wiring against the shared solver interface,
// and write-back into a DataTable.
package items

import (
	"fmt"

	"github.com/tetraly/zora-sub000/internal/game"
)

// LocationKind distinguishes a dungeon-room location from an
// overworld-cave location within the shared solver key space.
type LocationKind int

const (
	LocationDungeon LocationKind = iota
	LocationCave
)

// Location is the solver key both randomizers use: either a
// (level, room) pair or a (cave, position) pair, tagged so both kinds
// can live in the same pool and the same solver problem.
type Location struct {
	Kind     LocationKind
	Level    int
	RoomNum  byte
	CaveType game.CaveType
	Position int
}

func DungeonLocation(level int, roomNum byte) Location {
	return Location{Kind: LocationDungeon, Level: level, RoomNum: roomNum}
}

func CaveLocation(ct game.CaveType, pos int) Location {
	return Location{Kind: LocationCave, CaveType: ct, Position: pos}
}

func (l Location) String() string {
	if l.Kind == LocationDungeon {
		return fmt.Sprintf("level %d room 0x%02X", l.Level, l.RoomNum)
	}
	return fmt.Sprintf("cave 0x%02X position %d", byte(l.CaveType), l.Position)
}
