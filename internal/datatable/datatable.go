package datatable

import (
	"fmt"

	"github.com/tetraly/zora-sub000/internal/cave"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/patch"
	"github.com/tetraly/zora-sub000/internal/room"
	"github.com/tetraly/zora-sub000/internal/romimage"
)

// levelInfo is one level's decoded info block: its start room, raw
// entrance-direction byte, and stairway room list.
type levelInfo struct {
	startRoom    byte
	entranceByte byte
	staircases   []byte
}

// DataTable is the decoded, mutable view of the whole ROM image. It is
// constructed once per attempt and discarded (or reset) between
// retries; BuildPatch always serializes the table's *current* state
// fresh, so repeated calls never accumulate stale entries from an
// earlier, abandoned attempt.
type DataTable struct {
	rooms     [NumLevels + 1][RoomsPerLevel]*room.Room // index 0 unused
	caves     [NumCaveSlots]*cave.Cave
	info      [NumLevels + 1]levelInfo
	screenDst [NumOverworldScreens]game.CaveType
	owEnemy   [NumOverworldScreens]byte
	questBits [NumOverworldScreens]byte
	mixed     [game.MixedGroupCount][mixedGroupMaxMembers]game.Enemy
	triforce  [NumLevels + 1]byte // room holding the level's triforce fragment; levels 1-8 only

	isZ1R bool // true if the ROM was already randomized by this tool before

	regionOverrides map[RegionName][]byte
}

// New decodes a full DataTable from a loaded ROM image. It runs the
// race-ROM precondition check before parsing anything else, per
// romimage.Image.CheckRaceROM's contract.
func New(img *romimage.Image) (*DataTable, error) {
	if err := img.CheckRaceROM(); err != nil {
		return nil, fmt.Errorf("datatable: %w", err)
	}
	return decode(img.Raw)
}

func decode(raw []byte) (*DataTable, error) {
	dt := &DataTable{}

	for level := 1; level <= NumLevels; level++ {
		for roomNum := 0; roomNum < RoomsPerLevel; roomNum++ {
			off := roomAddr(level, roomNum).FileOffset()
			r, err := room.Decode(sliceAt(raw, off, room.Size))
			if err != nil {
				return nil, fmt.Errorf("datatable: level %d room 0x%02X: %w", level, roomNum, err)
			}
			dt.rooms[level][roomNum] = r
		}
	}

	for slot := 0; slot < NumCaveSlots; slot++ {
		off := caveAddr(slot).FileOffset()
		c, err := cave.Decode(sliceAt(raw, off, cave.Size))
		if err != nil {
			return nil, fmt.Errorf("datatable: cave slot 0x%02X: %w", slot, err)
		}
		dt.caves[slot] = c
	}

	allInRange := true
	for level := 1; level <= NumLevels; level++ {
		off := infoBlockAddr(level).FileOffset()
		b := sliceAt(raw, off, infoBlockSize)
		li := levelInfo{startRoom: b[0], entranceByte: b[1]}
		for i := 0; i < infoBlockStaircaseSlots; i++ {
			v := b[2+i]
			if v == infoBlockListEnd {
				break
			}
			li.staircases = append(li.staircases, v)
		}
		dt.info[level] = li
		if li.entranceByte > 4 {
			allInRange = false
		}
	}
	dt.isZ1R = allInRange

	for screen := 0; screen < NumOverworldScreens; screen++ {
		dt.screenDst[screen] = game.CaveType(raw[screenDestAddr(screen).FileOffset()])
		dt.owEnemy[screen] = raw[overworldEnemyAddr(screen).FileOffset()]
		dt.questBits[screen] = raw[questBitsAddr(screen).FileOffset()]
	}

	for code := 0; code < game.MixedGroupCount; code++ {
		off := mixedGroupAddr(code).FileOffset()
		for m := 0; m < mixedGroupMaxMembers; m++ {
			dt.mixed[code][m] = game.Enemy(raw[off+m])
		}
	}

	for level := 1; level <= 8; level++ {
		dt.triforce[level] = raw[triforceRoomAddr(level).FileOffset()]
	}

	return dt, nil
}

// Reset discards every mutation made so far and re-decodes from the
// original image, matching the driver's per-attempt retry loop.
func (dt *DataTable) Reset(img *romimage.Image) error {
	fresh, err := New(img)
	if err != nil {
		return err
	}
	*dt = *fresh
	return nil
}

func sliceAt(raw []byte, off, size int) []byte {
	return raw[off : off+size]
}

// --- queries ---

func (dt *DataTable) checkLevel(level int) {
	if level < 1 || level > NumLevels {
		panic(fmt.Sprintf("datatable: level %d out of range", level))
	}
}

// Room returns the decoded room for (level, roomNum). The returned
// pointer aliases the table's own state: mutating it through Room's
// setters is how every randomizer component edits room data.
func (dt *DataTable) Room(level int, roomNum byte) *room.Room {
	dt.checkLevel(level)
	return dt.rooms[level][roomNum]
}

// RoomLookup returns a collector.RoomLookup closed over one level, for
// handing to collector.Collect without collector importing datatable.
func (dt *DataTable) RoomLookup(level int) func(roomNum byte) *room.Room {
	dt.checkLevel(level)
	return func(roomNum byte) *room.Room {
		if int(roomNum) >= RoomsPerLevel {
			return nil
		}
		return dt.rooms[level][roomNum]
	}
}

func (dt *DataTable) CaveItem(ct game.CaveType, pos int) game.Item {
	return dt.caves[int(ct)%NumCaveSlots].Item(pos)
}

func (dt *DataTable) SetCaveItem(ct game.CaveType, pos int, it game.Item) {
	dt.caves[int(ct)%NumCaveSlots].SetItem(pos, it)
}

func (dt *DataTable) CavePrice(ct game.CaveType, pos int) byte {
	return dt.caves[int(ct)%NumCaveSlots].Price(pos)
}

func (dt *DataTable) SetCavePrice(ct game.CaveType, pos int, price byte) {
	dt.caves[int(ct)%NumCaveSlots].SetPrice(pos, price)
}

func (dt *DataTable) LevelStartRoom(level int) byte {
	dt.checkLevel(level)
	return dt.info[level].startRoom
}

func (dt *DataTable) SetLevelStartRoom(level int, roomNum byte) {
	dt.checkLevel(level)
	dt.info[level].startRoom = roomNum
}

// LevelEntranceDirection implements the is_z1r heuristic: if every
// level's raw entrance byte was in [0,4] at load time, the ROM had
// already been randomized by this tool and that byte names the real
// entry direction; otherwise every level is assumed to enter from the
// south (modeled here as game.Down, the wall side the player comes in
// through when walking up into the entrance room).
func (dt *DataTable) LevelEntranceDirection(level int) game.Direction {
	dt.checkLevel(level)
	if !dt.isZ1R {
		return game.Down
	}
	b := dt.info[level].entranceByte
	if int(b) < len(game.Directions) {
		return game.Directions[b]
	}
	return game.Down
}

func (dt *DataTable) SetLevelEntranceDirection(level int, d game.Direction) {
	dt.checkLevel(level)
	for i, cand := range game.Directions {
		if cand == d {
			dt.info[level].entranceByte = byte(i)
			dt.isZ1R = true
			return
		}
	}
	panic("datatable: SetLevelEntranceDirection: non-cardinal direction")
}

func (dt *DataTable) LevelStaircaseRoomList(level int) []byte {
	dt.checkLevel(level)
	return append([]byte(nil), dt.info[level].staircases...)
}

func (dt *DataTable) SetLevelStaircaseRoomList(level int, rooms []byte) {
	dt.checkLevel(level)
	if len(rooms) > infoBlockStaircaseSlots {
		rooms = rooms[:infoBlockStaircaseSlots]
	}
	dt.info[level].staircases = append([]byte(nil), rooms...)
}

func (dt *DataTable) ScreenDestination(screen byte) game.CaveType {
	return dt.screenDst[int(screen)%NumOverworldScreens]
}

func (dt *DataTable) SetScreenDestination(screen byte, ct game.CaveType) {
	dt.screenDst[int(screen)%NumOverworldScreens] = ct
}

func (dt *DataTable) OverworldEnemyData(screen byte) byte {
	return dt.owEnemy[int(screen)%NumOverworldScreens]
}

func (dt *DataTable) SetOverworldEnemyData(screen byte, v byte) {
	dt.owEnemy[int(screen)%NumOverworldScreens] = v
}

func (dt *DataTable) QuestBits(screen byte) byte {
	return dt.questBits[int(screen)%NumOverworldScreens]
}

func (dt *DataTable) SetQuestBits(screen byte, v byte) {
	dt.questBits[int(screen)%NumOverworldScreens] = v
}

// MixedEnemyGroup resolves a mixed-group enemy code (game.MixedGroupBase
// .. +MixedGroupCount) to its concrete member enemies, trimmed of
// trailing EnemyNone slots.
func (dt *DataTable) MixedEnemyGroup(code game.Enemy) []game.Enemy {
	if !code.IsMixedGroup() {
		return nil
	}
	idx := int(code - game.MixedGroupBase)
	members := dt.mixed[idx]
	out := make([]game.Enemy, 0, mixedGroupMaxMembers)
	for _, m := range members {
		if m == game.EnemyNone {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (dt *DataTable) SetMixedEnemyGroup(code game.Enemy, members []game.Enemy) {
	if !code.IsMixedGroup() {
		panic("datatable: SetMixedEnemyGroup: not a mixed-group code")
	}
	idx := int(code - game.MixedGroupBase)
	var packed [mixedGroupMaxMembers]game.Enemy
	for i, m := range members {
		if i >= mixedGroupMaxMembers {
			break
		}
		packed[i] = m
	}
	dt.mixed[idx] = packed
}

func (dt *DataTable) TriforceRoom(level int) byte {
	if level < 1 || level > 8 {
		panic("datatable: TriforceRoom: level must be 1-8")
	}
	return dt.triforce[level]
}

func (dt *DataTable) SetTriforceRoom(level int, roomNum byte) {
	if level < 1 || level > 8 {
		panic("datatable: SetTriforceRoom: level must be 1-8")
	}
	dt.triforce[level] = roomNum
}

// SetItemPositionCoordinates sets both a room's on-screen item
// position and, transitively, the underlying byte the room type
// allows; it exists as a single call so every caller gets the same
// "is this position legal for this room type" validation instead of
// each reimplementing it.
func (dt *DataTable) SetItemPositionCoordinates(level int, roomNum byte, pos game.ItemPosition) error {
	r := dt.Room(level, roomNum)
	if err := r.SetItemPosition(pos); err != nil {
		return fmt.Errorf("datatable: level %d room 0x%02X: %w", level, roomNum, err)
	}
	return nil
}

// --- patch assembly ---

// BuildPatch serializes the table's current state into a fresh Patch.
// It is never maintained incrementally: every call re-walks every
// room, cave, and table from scratch, so a component that mutates the
// table after an earlier BuildPatch call does not need to "undo"
// anything first.
func (dt *DataTable) BuildPatch() *patch.Patch {
	p := patch.New()

	for level := 1; level <= NumLevels; level++ {
		for roomNum := 0; roomNum < RoomsPerLevel; roomNum++ {
			b := dt.rooms[level][roomNum].Bytes()
			p.Add(roomAddr(level, roomNum).FileOffset(), b[:], nil,
				fmt.Sprintf("level %d room 0x%02X", level, roomNum))
		}
	}

	for slot := 0; slot < NumCaveSlots; slot++ {
		b := dt.caves[slot].Bytes()
		p.Add(caveAddr(slot).FileOffset(), b[:], nil,
			fmt.Sprintf("cave slot 0x%02X", slot))
	}

	for level := 1; level <= NumLevels; level++ {
		li := dt.info[level]
		buf := make([]byte, infoBlockSize)
		buf[0] = li.startRoom
		buf[1] = li.entranceByte
		for i := 0; i < infoBlockStaircaseSlots; i++ {
			if i < len(li.staircases) {
				buf[2+i] = li.staircases[i]
			} else {
				buf[2+i] = infoBlockListEnd
			}
		}
		buf[len(buf)-1] = infoBlockListEnd
		p.Add(infoBlockAddr(level).FileOffset(), buf, nil,
			fmt.Sprintf("level %d info block", level))
	}

	for screen := 0; screen < NumOverworldScreens; screen++ {
		p.Add(screenDestAddr(screen).FileOffset(), []byte{byte(dt.screenDst[screen])}, nil,
			fmt.Sprintf("screen 0x%02X destination", screen))
		p.Add(overworldEnemyAddr(screen).FileOffset(), []byte{dt.owEnemy[screen]}, nil,
			fmt.Sprintf("screen 0x%02X enemy data", screen))
		p.Add(questBitsAddr(screen).FileOffset(), []byte{dt.questBits[screen]}, nil,
			fmt.Sprintf("screen 0x%02X quest bits", screen))
	}

	for code := 0; code < game.MixedGroupCount; code++ {
		members := dt.mixed[code]
		raw := make([]byte, mixedGroupMaxMembers)
		for i, m := range members {
			raw[i] = byte(m)
		}
		p.Add(mixedGroupAddr(code).FileOffset(), raw, nil,
			fmt.Sprintf("mixed enemy group 0x%02X", code+int(game.MixedGroupBase)))
	}

	for level := 1; level <= 8; level++ {
		p.Add(triforceRoomAddr(level).FileOffset(), []byte{dt.triforce[level]}, nil,
			fmt.Sprintf("level %d triforce room", level))
	}

	for name, data := range dt.regionOverrides {
		spec := regionRegistry[name]
		p.Add(spec.Location.FileOffset(), data, nil, fmt.Sprintf("named region %d", name))
	}

	return p
}
