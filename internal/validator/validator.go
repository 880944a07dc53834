// Package validator implements the reachability fixed-point: given a
// DataTable in its current (possibly randomized) state, decide
// whether a full playthrough from the starting inventory can reach
// "the kidnapped is rescued" while collecting every important item.
package validator

import (
	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/room"
)

// maxIterations bounds the fixed-point loop; a pass that still hasn't
// converged after this many iterations is treated as a failure rather
// than looping forever on a pathological DataTable.
const maxIterations = 100

// importantItems is the fixed list HasAllImportantItems checks
// alongside KIDNAPPED_RESCUED for overall seed success.
var importantItems = []game.Item{
	game.ItemWoodSword, game.ItemWhiteSword, game.ItemMagicalSword,
	game.ItemBait, game.ItemRecorder, game.ItemBluCandle, game.ItemRedCandle,
	game.ItemWoodArrow, game.ItemSilverArrow, game.ItemBow, game.ItemMagicalKey,
	game.ItemRaft, game.ItemLadder, game.ItemWand, game.ItemBook,
	game.ItemBlueRing, game.ItemRedRing, game.ItemBoomerang, game.ItemMagicalBoomerang,
	game.ItemLostHillsHint, game.ItemDeadWoodsHint,
}

// Validator owns one fixed-point pass over a DataTable. It holds a
// borrowed reference and never mutates it.
type Validator struct {
	dt *datatable.DataTable
	fl *flags.Flags
	inv *Inventory
}

func New(dt *datatable.DataTable, fl *flags.Flags) *Validator {
	return &Validator{dt: dt, fl: fl}
}

func (v *Validator) whiteSwordHeartsRequired() int {
	data, err := v.dt.ReadRegion(datatable.RegionHeartRequirements)
	if err != nil || len(data) < 1 {
		return 5
	}
	return int(data[0])/16 + 1
}

func (v *Validator) magicalSwordHeartsRequired() int {
	data, err := v.dt.ReadRegion(datatable.RegionHeartRequirements)
	if err != nil || len(data) < 2 {
		return 12
	}
	return int(data[1])/16 + 1
}

// IsSeedValid runs the extra structural checks, then the fixed-point
// walk, and reports overall validity.
func (v *Validator) IsSeedValid() bool {
	if !v.fl.Get("dont_guarantee_starting_sword_or_wand") && !v.hasAccessibleSwordOrWand() {
		return false
	}
	for level := 1; level <= datatable.NumLevels; level++ {
		startRoom := v.dt.LevelStartRoom(level)
		for screen := 0; screen < datatable.NumOverworldScreens; screen++ {
			if v.dt.ScreenDestination(byte(screen)) != game.CaveType(level) {
				continue
			}
			if byte(screen) == startRoom {
				return false
			}
			break
		}
	}

	v.inv = NewInventory()
	if v.fl.Get("randomize_lost_hills_directions") {
		v.inv.AddItem(game.ItemLostHillsHint)
	}
	if v.fl.Get("randomize_dead_woods_directions") {
		v.inv.AddItem(game.ItemDeadWoodsHint)
	}
	v.inv.MarkProgress()

	iterations := 0
	for v.inv.StillProgressing() {
		iterations++
		if iterations > maxIterations {
			return false
		}
		v.inv.ClearProgress()
		v.clearAllVisitMarks()

		for _, dest := range v.accessibleDestinations() {
			if level, ok := dest.LevelIndex(); ok {
				if level == 9 && v.inv.TriforceCount() < 8 {
					continue
				}
				v.walkLevel(level)
				continue
			}
			if v.canEnterCave(dest) {
				v.collectCaveItems(dest)
			}
		}
	}

	if !v.inv.Has(game.ItemKidnappedRescued) {
		return false
	}
	return v.hasAllImportantItems()
}

func (v *Validator) clearAllVisitMarks() {
	for level := 1; level <= datatable.NumLevels; level++ {
		for roomNum := 0; roomNum < datatable.RoomsPerLevel; roomNum++ {
			v.dt.Room(level, byte(roomNum)).ClearVisited()
		}
	}
}

// accessibleDestinations enumerates every overworld screen's
// destination reachable under the current inventory, deduped, in
// screen order. Lost Hills / Dead Woods side effects are modeled as
// granted once, up front in IsSeedValid, not per-visit, since
// this module has no tile-level map to locate the puzzle's own solve
// screen; see DESIGN.md.
func (v *Validator) accessibleDestinations() []game.CaveType {
	seen := map[game.CaveType]bool{}
	var out []game.CaveType
	for screen := 0; screen < datatable.NumOverworldScreens; screen++ {
		bt := blockTypeFor(v.fl, byte(screen))
		if !canAccess(v.inv, bt) {
			continue
		}
		dest := v.dt.ScreenDestination(byte(screen))
		if dest == game.CaveNone || dest.IsAnyRoad() {
			continue
		}
		if seen[dest] {
			continue
		}
		seen[dest] = true
		out = append(out, dest)
	}
	return out
}

func (v *Validator) canEnterCave(ct game.CaveType) bool {
	switch ct {
	case game.CaveWhiteSwordCave:
		return v.inv.HeartCount() >= v.whiteSwordHeartsRequired()
	case game.CaveMagicalSwordCave:
		return v.inv.HeartCount() >= v.magicalSwordHeartsRequired()
	case game.CavePotionShop:
		return v.inv.Has(game.ItemMagicalKey) // this item set has no separate "letter" item; the magical key stands in for it
	case game.CaveCoast:
		return v.inv.Has(game.ItemLadder)
	default:
		return true
	}
}

func (v *Validator) collectCaveItems(ct game.CaveType) {
	for pos := 0; pos < 3; pos++ {
		v.inv.AddItem(v.dt.CaveItem(ct, pos))
	}
}

// hasAccessibleSwordOrWand reports whether the wood sword cave or
// letter cave is reachable through an Open-blocked screen and holds a
// sword or wand.
func (v *Validator) hasAccessibleSwordOrWand() bool {
	for screen := 0; screen < datatable.NumOverworldScreens; screen++ {
		if blockTypeFor(v.fl, byte(screen)) != BlockOpen {
			continue
		}
		dest := v.dt.ScreenDestination(byte(screen))
		if dest != game.CaveWoodSwordCave && dest != game.CaveLetterCave {
			continue
		}
		for pos := 0; pos < 3; pos++ {
			switch v.dt.CaveItem(dest, pos) {
			case game.ItemWoodSword, game.ItemWhiteSword, game.ItemMagicalSword, game.ItemWand:
				return true
			}
		}
	}
	return false
}

func (v *Validator) hasAllImportantItems() bool {
	for _, it := range importantItems {
		if !v.inv.Has(it) {
			return false
		}
	}
	return true
}

// walkNode is one (room, entry direction) pair in the dungeon walk;
// entries are distinguished by direction because chute rooms admit
// different exits depending on entry.
type walkNode struct {
	roomNum byte
	dir     game.Direction
}

// walkLevel performs the dungeon walk for one level: a depth-first
// traversal of (room, entry direction) pairs, starting from the
// level's recorded start room and entrance direction.
func (v *Validator) walkLevel(level int) {
	visited := map[walkNode]bool{}
	stack := []walkNode{{v.dt.LevelStartRoom(level), v.dt.LevelEntranceDirection(level)}}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.roomNum >= datatable.RoomsPerLevel || visited[n] {
			continue
		}
		visited[n] = true
		stack = append(stack, v.visitRoom(level, n.roomNum, n.dir)...)
	}
}

func (v *Validator) visitRoom(level int, roomNum byte, entryDir game.Direction) []walkNode {
	r := v.dt.Room(level, roomNum)

	if !r.Visited(entryDir) {
		r.MarkVisited(entryDir)
		if v.canGetRoomItem(entryDir, r) && r.Item() != game.ItemNoItem {
			v.inv.AddItem(r.Item())
			if r.Item() == game.ItemTriforceFragment {
				v.inv.AddTriforceFragment(level)
			}
		}
		if r.Enemy() == game.EnemyTheBeast && v.canGetRoomItem(entryDir, r) {
			v.inv.AddItem(game.ItemBeastDefeated)
		}
		if r.Enemy() == game.EnemyZelda {
			v.inv.AddItem(game.ItemKidnappedRescued)
		}
	}

	var next []walkNode
	if !r.RoomType().IsStaircase() {
		for _, exitDir := range game.Directions {
			if v.canMove(entryDir, exitDir, level, roomNum, r) {
				next = append(next, walkNode{neighbor(roomNum, exitDir), exitDir.Opposite()})
			}
		}
	}

	if hasStairway(r) {
		for _, stairRoomNum := range v.dt.LevelStaircaseRoomList(level) {
			stair := v.dt.Room(level, stairRoomNum)
			left, right := stair.LeftExit(), stair.RightExit()
			switch {
			case left == roomNum && right == roomNum:
				v.inv.AddItem(stair.Item())
				if stair.Item() == game.ItemTriforceFragment {
					v.inv.AddTriforceFragment(level)
				}
			case left == roomNum && right != roomNum:
				next = append(next, walkNode{right, game.DirStaircase})
			case right == roomNum && left != roomNum:
				next = append(next, walkNode{left, game.DirStaircase})
			}
		}
	}

	return next
}

// hasStairway delegates to room.Room.HasStaircase; visitRoom uses it
// to decide whether to consult the level's staircase room list.
func hasStairway(r *room.Room) bool { return r.HasStaircase() }

// canGetRoomItem reports whether entering this room from entryDir
// permits collecting its item: water/moat rooms need a ladder, a
// drop-bit item needs the enemies defeated first, and chute/T rooms
// restrict which entry axis can reach the drop.
func (v *Validator) canGetRoomItem(entryDir game.Direction, r *room.Room) bool {
	t := r.RoomType()
	switch t {
	case game.RoomTypeWaterMoatRoom, game.RoomTypeNSWaterMoatRoom, game.RoomTypeWaterRoom:
		if !v.inv.Has(game.ItemLadder) {
			return false
		}
	}
	if r.HasDropBit() && !v.canDefeatEnemies(r) {
		return false
	}
	switch t {
	case game.RoomTypeHorizontalChuteRoom:
		if entryDir == game.Up || entryDir == game.Down {
			return false
		}
	case game.RoomTypeVerticalChuteRoom:
		if entryDir == game.Left || entryDir == game.Right {
			return false
		}
	case game.RoomTypeTRoomRightEntrance, game.RoomTypeT_RoomLeftEntrance:
		return false
	}
	return true
}

// canMove reports whether the dungeon walk may cross from roomNum,
// entered via entryDir, out through exitDir.
func (v *Validator) canMove(entryDir, exitDir game.Direction, level int, roomNum byte, r *room.Room) bool {
	t := r.RoomType()
	switch t {
	case game.RoomTypeHorizontalChuteRoom:
		if (entryDir == game.Up || entryDir == game.Down) && (exitDir == game.Left || exitDir == game.Right) {
			return false
		}
	case game.RoomTypeVerticalChuteRoom:
		if (entryDir == game.Left || entryDir == game.Right) && (exitDir == game.Up || exitDir == game.Down) {
			return false
		}
	case game.RoomTypeTRoomRightEntrance, game.RoomTypeT_RoomLeftEntrance:
		return false
	case game.RoomTypeWaterMoatRoom, game.RoomTypeNSWaterMoatRoom, game.RoomTypeWaterRoom:
		if !v.inv.Has(game.ItemLadder) {
			return false
		}
	}

	if exitDir == game.Up && r.Enemy() == game.EnemyHungryNPC && !v.inv.Has(game.ItemBait) {
		return false
	}

	wallType := r.WallType(exitDir)
	switch wallType {
	case game.ShutterDoor:
		if r.RoomAction() == game.ActionBeastDefeatedOpensShutters {
			if !v.inv.Has(game.ItemBeastDefeated) {
				return false
			}
		} else if !v.canDefeatEnemies(r) {
			return false
		}
	case game.SolidWall:
		return false
	case game.LockedDoor1, game.LockedDoor2:
		if !v.inv.HasKey() {
			return false
		}
		v.inv.UseKey(level, roomNum)
	case game.BombHole:
		if !v.inv.HasSwordOrWand() {
			return false
		}
	}
	return true
}

// canDefeatEnemies evaluates the per-enemy combat requirement table
// against the current inventory, expanding mixed enemy groups through
// the ROM's own table.
func (v *Validator) canDefeatEnemies(r *room.Room) bool {
	e := r.Enemy()
	if e == game.EnemyNone {
		return true
	}

	var members []game.Enemy
	if e.IsMixedGroup() {
		members = v.dt.MixedEnemyGroup(e)
	} else {
		members = []game.Enemy{e}
	}

	switch {
	case contains(members, game.EnemyTheBeast):
		if !v.inv.HasBowSilverArrowsAndSword() {
			return false
		}
	case contains(members, game.EnemyDigdogger):
		if !v.inv.HasRecorderAndReusableWeapon() {
			return false
		}
	case contains(members, game.EnemyGohma):
		if !v.inv.HasBowAndArrows() {
			return false
		}
	case contains(members, game.EnemyWizzrobe):
		if !v.inv.HasSword() {
			return false
		}
	case contains(members, game.EnemyGleeok) || contains(members, game.EnemyPatra):
		if !v.inv.HasSwordOrWand() {
			return false
		}
	case allZeroHPMob(members):
		if !v.inv.HasReusableWeaponOrBoomerang() {
			return false
		}
	case contains(members, game.EnemyHungryNPC):
		if !v.inv.Has(game.ItemBait) {
			return false
		}
	case contains(members, game.EnemyPolsVoice):
		if !v.inv.HasSwordOrWand() && !v.inv.HasBowAndArrows() {
			return false
		}
	default:
		if !v.inv.HasReusableWeapon() {
			return false
		}
	}

	if v.fl.Get("avoid_required_hard_combat") && isHardCombat(members) {
		if !(v.inv.HasRing() && v.inv.Has(game.ItemWhiteSword)) {
			return false
		}
	}
	return true
}

func contains(members []game.Enemy, e game.Enemy) bool {
	for _, m := range members {
		if m == e {
			return true
		}
	}
	return false
}

func allZeroHPMob(members []game.Enemy) bool {
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		if m != game.EnemyZeroHPMob {
			return false
		}
	}
	return true
}

func isHardCombat(members []game.Enemy) bool {
	return contains(members, game.EnemyGleeok) || contains(members, game.EnemyPatra)
}

// neighbor computes the room number one step in direction d from
// roomNum on the standard 16-column dungeon grid.
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
		return datatable.RoomsPerLevel // out of range, filtered by the visit guard
	}
	return byte(row*cols + col)
}
