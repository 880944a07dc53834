// Package datatable is the single typed window onto the whole ROM
// image: it decodes every Room, Cave, per-level info block, and
// overworld table once at construction time, and re-encodes them
// fresh into a Patch whenever BuildPatch is called. No other package
// touches romimage.Image bytes directly.
package datatable

import "github.com/tetraly/zora-sub000/internal/addr"

// NumLevels is the count of dungeons, 1-indexed in every query below
// (level 0 is never valid).
const NumLevels = 9

// RoomsPerLevel is the room-number space of one level-block: an 8-row
// by 16-column grid, matching the 7-bit room number collector and room
// both assume.
const RoomsPerLevel = 128

// NumOverworldScreens is the overworld's own 8x16 screen grid.
const NumOverworldScreens = 128

// NumCaveSlots covers every game.CaveType value in use, including the
// two virtual caves (Armos, Coast) synthesized from standalone bytes.
const NumCaveSlots = 32

// infoBlockStaircaseSlots is the maximum number of stairway rooms one
// level's info block records, terminated early by infoBlockListEnd if
// the level has fewer.
const infoBlockStaircaseSlots = 8
const infoBlockListEnd = 0xFF
const infoBlockSize = 2 + infoBlockStaircaseSlots + 1 // start room, dir/z1r byte, list, terminator

// mixedGroupMaxMembers bounds how many concrete enemies one mixed-group
// code can expand to; unused trailing slots hold game.EnemyNone.
const mixedGroupMaxMembers = 4

// Each region below occupies one full bank, addressed at the bank's
// base CPU address; this keeps every table's layout arithmetic
// identical (index * recordSize) regardless of the record's actual
// byte width.
const (
	bankLevelRoomsBase  = 0  // banks 0..8: one per level, RoomsPerLevel*room.Size bytes
	bankCaves           = 9
	bankPerLevelInfo    = 10
	bankScreenDest      = 11
	bankOverworldEnemy  = 12
	bankQuestBits       = 13
	bankMixedEnemyGroup = 14
	bankTriforceRooms   = 15
)

func roomAddr(level int, roomNum int) addr.Addr {
	return addr.Addr{
		Bank: uint8(bankLevelRoomsBase + level - 1),
		CPU:  addr.PRGBankBase + uint16(roomNum*6),
	}
}

func caveAddr(slot int) addr.Addr {
	return addr.Addr{Bank: bankCaves, CPU: addr.PRGBankBase + uint16(slot*6)}
}

func infoBlockAddr(level int) addr.Addr {
	return addr.Addr{Bank: bankPerLevelInfo, CPU: addr.PRGBankBase + uint16((level-1)*infoBlockSize)}
}

func screenDestAddr(screen int) addr.Addr {
	return addr.Addr{Bank: bankScreenDest, CPU: addr.PRGBankBase + uint16(screen)}
}

func overworldEnemyAddr(screen int) addr.Addr {
	return addr.Addr{Bank: bankOverworldEnemy, CPU: addr.PRGBankBase + uint16(screen)}
}

func questBitsAddr(screen int) addr.Addr {
	return addr.Addr{Bank: bankQuestBits, CPU: addr.PRGBankBase + uint16(screen)}
}

func mixedGroupAddr(code int) addr.Addr {
	return addr.Addr{Bank: bankMixedEnemyGroup, CPU: addr.PRGBankBase + uint16(code*mixedGroupMaxMembers)}
}

func triforceRoomAddr(level int) addr.Addr {
	return addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + uint16(level-1)}
}
