// Package room implements the six-byte bit-packed Room record: wall
// types, room type, enemy code, item code/position, and the
// movable-block/drop bits. This is bit-primitive layer code — the only
// place in the module allowed to construct game.WallType, game.Item
// etc. from raw byte fields.
package room

import (
	"fmt"

	"github.com/tetraly/zora-sub000/internal/game"
)

// Size is the number of bytes a Room record occupies in the ROM.
const Size = 6

// Room is the decoded, mutable view of one dungeon or overworld
// screen's six-byte record. Decoding happens once at DataTable
// construction time; thereafter all reads/writes go through this
// struct's methods, which preserve every bit outside the field being
// modified.
type Room struct {
	raw [Size]byte

	// visited is a transient mark used by the validator's dungeon
	// walk; it is not part of the ROM encoding and is cleared between
	// validator passes (see Room.ClearVisited).
	visited map[game.Direction]bool
}

// Decode parses a 6-byte record read from the ROM. It performs the
// load-time item-sentinel rewrite required by the data model: a raw
// item field of game.RawNoItemSentinel is rewritten to game.ItemNoItem
// exactly once, here.
func Decode(b []byte) (*Room, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("room: Decode: want %d bytes, got %d", Size, len(b))
	}
	r := &Room{visited: make(map[game.Direction]bool)}
	copy(r.raw[:], b)

	if r.rawItemField() == game.RawNoItemSentinel {
		r.setItemField(byte(game.ItemNoItem))
	}
	return r, nil
}

// Bytes returns the record's current 6-byte encoding, suitable for
// writing back into a patch.
func (r *Room) Bytes() [Size]byte { return r.raw }

// --- wall fields (not how the original packs them, but this module's
// own packing, documented here, is internally consistent: Up, Down and
// Left use the low 3 bits of raw[0], raw[1] and raw[2]; Right uses
// bits 3-5 of raw[0], clear of the item position and enemy bits) ---

// wallByteIndex returns the byte index and bit shift of direction d's
// 3-bit wall field.
func (r *Room) wallByteIndex(d game.Direction) (int, uint) {
	switch d {
	case game.Up:
		return 0, 0
	case game.Down:
		return 1, 0
	case game.Left:
		return 2, 0
	case game.Right:
		return 0, 3
	default:
		panic("room: wallByteIndex: non-cardinal direction")
	}
}

// WallType returns the wall configuration facing the given direction.
// Calling this on a staircase room type is a programmer error: those
// room types repurpose the wall bytes as exit room numbers.
func (r *Room) WallType(d game.Direction) game.WallType {
	if r.RoomType().IsStaircase() {
		panic("room: WallType called on a staircase room")
	}
	i, shift := r.wallByteIndex(d)
	return game.WallType((r.raw[i] >> shift) & 0x07)
}

// SetWallType overwrites one wall's type in place, preserving the
// unrelated bits of its byte.
func (r *Room) SetWallType(d game.Direction, w game.WallType) {
	i, shift := r.wallByteIndex(d)
	r.raw[i] = (r.raw[i] &^ (0x07 << shift)) | (byte(w) << shift)
}

// LeftExit and RightExit are only valid on staircase room types; they
// reinterpret the wall bytes as exit room numbers.
func (r *Room) LeftExit() byte {
	if !r.RoomType().IsStaircase() {
		panic("room: LeftExit called on a non-staircase room")
	}
	return r.raw[0]
}

func (r *Room) RightExit() byte {
	if !r.RoomType().IsStaircase() {
		panic("room: RightExit called on a non-staircase room")
	}
	return r.raw[1]
}

func (r *Room) SetLeftExit(roomNum byte)  { r.raw[0] = roomNum }
func (r *Room) SetRightExit(roomNum byte) { r.raw[1] = roomNum }

// --- byte 4: room type (6 bits) + movable-block/drop bits ---

func (r *Room) RoomType() game.RoomType {
	return game.RoomType(r.raw[4] & 0x3F)
}

func (r *Room) SetRoomType(t game.RoomType) {
	r.raw[4] = (r.raw[4] &^ 0x3F) | (byte(t) & 0x3F)
}

func (r *Room) HasMovableBlockBit() bool { return r.raw[4]&0x40 != 0 }
func (r *Room) SetMovableBlockBit(v bool) {
	if v {
		r.raw[4] |= 0x40
	} else {
		r.raw[4] &^= 0x40
	}
}

func (r *Room) HasDropBit() bool { return r.raw[4]&0x80 != 0 }
func (r *Room) SetDropBit(v bool) {
	if v {
		r.raw[4] |= 0x80
	} else {
		r.raw[4] &^= 0x80
	}
}

// --- byte 5: item (5 bits), room action (3 bits) ---

func (r *Room) rawItemField() byte { return r.raw[5] & 0x1F }
func (r *Room) setItemField(v byte) {
	r.raw[5] = (r.raw[5] &^ 0x1F) | (v & 0x1F)
}

func (r *Room) Item() game.Item { return game.Item(r.rawItemField()) }

func (r *Room) SetItem(it game.Item) { r.setItemField(byte(it)) }

func (r *Room) RoomAction() game.RoomAction {
	return game.RoomAction((r.raw[5] >> 5) & 0x07)
}

func (r *Room) SetRoomAction(a game.RoomAction) {
	r.raw[5] = (r.raw[5] &^ 0xE0) | (byte(a) << 5)
}

// --- byte 2, bits 5-6: item position (2 bits, "table 5" in the data
// model prose is this room's own byte 2 high bits) ---

func (r *Room) ItemPosition() game.ItemPosition {
	return game.ItemPosition((r.raw[2] >> 5) & 0x03)
}

func (r *Room) SetItemPosition(p game.ItemPosition) error {
	allowed := r.RoomType().AllowedItemPositions()
	ok := false
	for _, a := range allowed {
		if a == p {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("room: item position %d not allowed for room type %v", p, r.RoomType())
	}
	r.raw[2] = (r.raw[2] &^ 0x60) | (byte(p) << 5)
	return nil
}

// --- byte 3, bits 0-5: enemy code (6 low bits + 1 high bit borrowed
// from byte 2 bit 7, giving 7 bits total per the data model) ---

func (r *Room) Enemy() game.Enemy {
	low := r.raw[3] & 0x3F
	high := (r.raw[2] >> 7) << 6
	return game.Enemy(high | low)
}

func (r *Room) SetEnemy(e game.Enemy) {
	r.raw[3] = (r.raw[3] &^ 0x3F) | (byte(e) & 0x3F)
	r.raw[2] = (r.raw[2] &^ 0x80) | ((byte(e) << 1) & 0x80)
}

// HasStaircase reports whether this room presents a stairway to the
// player: either the room type unconditionally has one, or it can
// host a push-block stair, the movable-block bit is set, and no wall
// is a shutter door (a shutter takes precedence — pushing the block
// opens the shutter instead of revealing a stair).
func (r *Room) HasStaircase() bool {
	t := r.RoomType()
	if t.HasOpenStaircase() {
		return true
	}
	if !t.CanHostPushBlockStaircase() || !r.HasMovableBlockBit() {
		return false
	}
	if t.IsStaircase() {
		return false
	}
	for _, d := range game.Directions {
		if r.WallType(d) == game.ShutterDoor {
			return false
		}
	}
	return true
}

// Visited reports whether the validator's dungeon walk has already
// entered this room from the given direction during the current pass.
func (r *Room) Visited(d game.Direction) bool { return r.visited[d] }

func (r *Room) MarkVisited(d game.Direction) { r.visited[d] = true }

// ClearVisited resets every entry-direction visit mark. It is called
// at the start of each validator fixed-point pass.
func (r *Room) ClearVisited() {
	for k := range r.visited {
		delete(r.visited, k)
	}
}
