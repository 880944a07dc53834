// Package collector implements the flood-fill traversal that yields,
// per dungeon, every room eligible to hold an item.
package collector

import (
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/room"
)

// RoomLookup resolves a room number within one level-block to its
// decoded Room. The datatable package implements this; the collector
// only depends on the narrow interface it needs, to avoid an import
// cycle between datatable and collector (datatable.BuildPatch does not
// need the collector, but the item randomizers need both).
type RoomLookup func(roomNum byte) *room.Room

// StairwayRooms resolves the level's stairway room list (spec.md
// §4.2's "level_staircase_room_list"). Collect does not take one: it
// follows staircase exits only from staircase rooms its own flood fill
// reaches.
type StairwayRooms func() []byte

// Entry is one collected room: its number, in visitation order, and
// its current item.
type Entry struct {
	RoomNum byte
	Item    game.Item
}

// Collect performs the flood fill for one dungeon, starting from
// startRoom. It returns, in visitation order, every visited room that
// is eligible to hold an item.
func Collect(lookup RoomLookup, startRoom byte) []Entry {
	visited := map[byte]bool{}
	order := []byte{}

	var visit func(roomNum byte)
	visit = func(roomNum byte) {
		if roomNum >= 0x80 || visited[roomNum] {
			return
		}
		visited[roomNum] = true
		order = append(order, roomNum)

		r := lookup(roomNum)
		if r == nil {
			return
		}

		if r.RoomType().IsStaircase() {
			visit(r.LeftExit())
			visit(r.RightExit())
			return
		}

		for _, d := range game.Directions {
			if r.WallType(d) != game.SolidWall {
				visit(neighbor(roomNum, d))
			}
		}
	}

	visit(startRoom)

	entries := make([]Entry, 0, len(order))
	for _, roomNum := range order {
		r := lookup(roomNum)
		if r == nil || !eligible(r) {
			continue
		}
		entries = append(entries, Entry{RoomNum: roomNum, Item: r.Item()})
	}
	return entries
}

// eligible filters a visited room into the collected set: excluded are
// entrance rooms, transport-staircase rooms, and rooms whose enemy is
// an NPC. Item-staircase rooms are included.
func eligible(r *room.Room) bool {
	t := r.RoomType()
	if t == game.RoomTypeEntranceRoom || t == game.RoomTypeTransportStaircase {
		return false
	}
	if r.Enemy().IsNPC() {
		return false
	}
	return true
}

// HasStairway reports whether the given room presents a stairway (the
// predicate spec.md §4.4 defines) by delegating to
// room.Room.HasStaircase. No other package calls it.
func HasStairway(r *room.Room) bool { return r.HasStaircase() }

// neighbor computes the room number one step in direction d from
// roomNum, assuming the standard 16-column dungeon grid (8 rows x 16
// columns = 128 rooms per level-block, matching the 7-bit room
// number).
func neighbor(roomNum byte, d game.Direction) byte {
	const cols = 16
	row := int(roomNum) / cols
	col := int(roomNum) % cols
	switch d {
	case game.Up:
		row--
	case game.Down:
		row++
	case game.Left:
		col--
	case game.Right:
		col++
	}
	if row < 0 || row >= 8 || col < 0 || col >= cols {
		return 0x80 // out of range, filtered by the visit guard
	}
	return byte(row*cols + col)
}
