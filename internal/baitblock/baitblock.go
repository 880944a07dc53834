// Package baitblock implements the partition-based wall solidification
// that forces progress through a level's hungry-NPC room: once the
// bait is taken, every other path between the two halves of the
// dungeon is sealed off, so the player cannot reach the far half
// without passing (and feeding) the hungry NPC.
package baitblock

import (
	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/room"
)

const outOfRange = 0x80

// Block partitions level's rooms across the hungry-NPC room's north
// wall and solidifies every wall that crosses the partition boundary,
// except the hungry-NPC's own north wall. It reports false (a
// best-effort failure, not an error) when no hungry NPC is reachable
// from the level's start room, when its north wall is already solid,
// or when the room to its north is out of bounds.
func Block(dt *datatable.DataTable, level int) bool {
	lookup := dt.RoomLookup(level)
	hn, found := findHungryNPC(lookup, dt.LevelStartRoom(level))
	if !found {
		return false
	}

	hnRoom := lookup(hn)
	if hnRoom.RoomType().IsStaircase() {
		return false
	}
	if hnRoom.WallType(game.Up) == game.SolidWall {
		return false
	}
	north := neighbor(hn, game.Up)
	if north == outOfRange {
		return false
	}

	owner := partition(lookup, hn, north)
	solidify(lookup, owner, hn, north)
	return true
}

// findHungryNPC flood-fills from startRoom, following every non-solid
// wall (and stairway exits), and returns the first room whose enemy is
// the hungry NPC.
func findHungryNPC(lookup func(byte) *room.Room, startRoom byte) (byte, bool) {
	visited := map[byte]bool{}
	queue := []byte{startRoom}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n >= outOfRange || visited[n] {
			continue
		}
		visited[n] = true

		r := lookup(n)
		if r == nil {
			continue
		}
		if r.Enemy() == game.EnemyHungryNPC {
			return n, true
		}
		if r.RoomType().IsStaircase() {
			queue = append(queue, r.LeftExit(), r.RightExit())
			continue
		}
		for _, d := range game.Directions {
			if r.WallType(d) != game.SolidWall {
				queue = append(queue, neighbor(n, d))
			}
		}
	}
	return 0, false
}

type side byte

const (
	sideA side = iota
	sideB
)

// partition floods out from hn (side A) and north (side B) in
// alternating steps; a room is owned by whichever side's queue
// reaches it first. The hn/north edge itself is never crossed, since
// it is the boundary the two partitions are split across.
func partition(lookup func(byte) *room.Room, hn, north byte) map[byte]side {
	owner := map[byte]side{hn: sideA, north: sideB}
	queueA := []byte{hn}
	queueB := []byte{north}

	expand := func(queue []byte, s side) []byte {
		if len(queue) == 0 {
			return queue
		}
		n := queue[0]
		queue = queue[1:]

		r := lookup(n)
		if r == nil || r.RoomType().IsStaircase() {
			return queue
		}
		for _, d := range game.Directions {
			if n == hn && d == game.Up {
				continue // the boundary edge, never crossed
			}
			if n == north && d == game.Down {
				continue
			}
			if r.WallType(d) == game.SolidWall {
				continue
			}
			nb := neighbor(n, d)
			if nb == outOfRange {
				continue
			}
			if _, claimed := owner[nb]; claimed {
				continue
			}
			owner[nb] = s
			queue = append(queue, nb)
		}
		return queue
	}

	for len(queueA) > 0 || len(queueB) > 0 {
		queueA = expand(queueA, sideA)
		queueB = expand(queueB, sideB)
	}
	return owner
}

// solidify walls every adjacency crossing from one partition to the
// other, on both sides of the wall, skipping staircase-typed rooms
// (their wall bytes mean something else entirely) and the hn/north
// boundary edge, which is preserved.
func solidify(lookup func(byte) *room.Room, owner map[byte]side, hn, north byte) {
	for roomNum := byte(0); roomNum < outOfRange; roomNum++ {
		s, ok := owner[roomNum]
		if !ok {
			continue
		}
		r := lookup(roomNum)
		if r == nil || r.RoomType().IsStaircase() {
			continue
		}
		for _, d := range game.Directions {
			if roomNum == hn && d == game.Up {
				continue
			}
			if roomNum == north && d == game.Down {
				continue
			}
			nb := neighbor(roomNum, d)
			if nb == outOfRange {
				continue
			}
			otherSide, ok := owner[nb]
			if !ok || otherSide == s {
				continue
			}
			nbRoom := lookup(nb)
			if nbRoom == nil || nbRoom.RoomType().IsStaircase() {
				continue
			}
			r.SetWallType(d, game.SolidWall)
		}
	}
}

// neighbor computes the room number one step in direction d from
// roomNum on the standard 16-column dungeon grid (8 rows x 16 columns
// = 128 rooms per level-block).
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
		return outOfRange
	}
	return byte(row*cols + col)
}
