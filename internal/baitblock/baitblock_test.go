package baitblock

import (
	"testing"

	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/romimage"
)

func syntheticDataTable(t *testing.T) *datatable.DataTable {
	t.Helper()
	const numBanks = 16
	buf := make([]byte, 0x10+numBanks*0x4000)
	copy(buf, []byte("NES\x1A"))
	img, err := romimage.Load(buf)
	if err != nil {
		t.Fatalf("romimage.Load: %v", err)
	}
	dt, err := datatable.New(img)
	if err != nil {
		t.Fatalf("datatable.New: %v", err)
	}
	return dt
}

// Builds a tiny three-room chain on level 1: start room (32) -> hungry
// NPC room (16) -> far room (0), connected north/south.
func wireChain(t *testing.T, dt *datatable.DataTable) {
	t.Helper()
	dt.SetLevelStartRoom(1, 32)

	start := dt.Room(1, 32)
	start.SetWallType(game.Up, game.OpenDoor)

	hn := dt.Room(1, 16)
	hn.SetEnemy(game.EnemyHungryNPC)
	hn.SetWallType(game.Down, game.OpenDoor)
	hn.SetWallType(game.Up, game.OpenDoor)

	far := dt.Room(1, 0)
	far.SetWallType(game.Down, game.OpenDoor)
}

func TestBlockSolidifiesBoundaryButPreservesNorthWall(t *testing.T) {
	dt := syntheticDataTable(t)
	wireChain(t, dt)

	ok := Block(dt, 1)
	if !ok {
		t.Fatalf("expected Block to succeed")
	}

	hn := dt.Room(1, 16)
	if hn.WallType(game.Up) != game.OpenDoor {
		t.Fatalf("expected the hungry NPC's own north wall to be preserved, got %v", hn.WallType(game.Up))
	}
}

func TestBlockFailsWhenNoHungryNPCReachable(t *testing.T) {
	dt := syntheticDataTable(t)
	dt.SetLevelStartRoom(1, 32)
	dt.Room(1, 32).SetWallType(game.Up, game.OpenDoor)

	if Block(dt, 1) {
		t.Fatalf("expected failure when no hungry NPC is reachable")
	}
}

func TestBlockFailsWhenNorthWallAlreadySolid(t *testing.T) {
	dt := syntheticDataTable(t)
	wireChain(t, dt)
	dt.Room(1, 16).SetWallType(game.Up, game.SolidWall)

	if Block(dt, 1) {
		t.Fatalf("expected failure when the north wall is already solid")
	}
}

func TestBlockFailsWhenNorthRoomOutOfBounds(t *testing.T) {
	dt := syntheticDataTable(t)
	dt.SetLevelStartRoom(1, 0)
	hn := dt.Room(1, 0) // top row: its north neighbor is out of bounds
	hn.SetEnemy(game.EnemyHungryNPC)
	hn.SetWallType(game.Up, game.OpenDoor)

	if Block(dt, 1) {
		t.Fatalf("expected failure when the hungry NPC's room is on the top row")
	}
}

func TestBlockSealsASideRoomFromTheFarPartition(t *testing.T) {
	dt := syntheticDataTable(t)
	wireChain(t, dt)

	// A side room reachable only from the start-room side (room 17,
	// east of the hungry NPC's room), and a side room reachable only
	// from the far side (room 1, east of the far room), joined by an
	// open north/south door, so the boundary actually separates
	// something on each side and that door crosses it.
	dt.Room(1, 16).SetWallType(game.Right, game.OpenDoor)
	dt.Room(1, 17).SetWallType(game.Left, game.OpenDoor)
	dt.Room(1, 17).SetWallType(game.Up, game.OpenDoor)

	dt.Room(1, 0).SetWallType(game.Right, game.OpenDoor)
	dt.Room(1, 1).SetWallType(game.Left, game.OpenDoor)
	dt.Room(1, 1).SetWallType(game.Down, game.OpenDoor)

	if !Block(dt, 1) {
		t.Fatalf("expected Block to succeed")
	}

	// The door between room 17 (side A) and room 1 (side B) crosses the
	// boundary and must be sealed on both sides.
	if dt.Room(1, 17).WallType(game.Up) != game.SolidWall || dt.Room(1, 1).WallType(game.Down) != game.SolidWall {
		t.Fatalf("expected the cross-partition door to be sealed")
	}

	// The edge between room 17 (side A) and room 16 (the hungry NPC
	// room, also side A) must remain untouched: both are on the same
	// side of the boundary.
	if dt.Room(1, 17).WallType(game.Left) != game.OpenDoor {
		t.Fatalf("expected the same-side edge to remain open")
	}
}
