package items

import (
	"time"

	"github.com/tetraly/zora-sub000/internal/collector"
	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/rng"
	"github.com/tetraly/zora-sub000/internal/solver"
)

// RoomDiagnostic snapshots one room's relevant state for a solver-
// failure dump.
type RoomDiagnostic struct {
	RoomNum      byte
	Enemy        game.Enemy
	RoomType     game.RoomType
	Item         game.Item
	Position     game.ItemPosition
	HasStaircase bool
}

// LevelDiagnostic is the detailed dump emitted when a level's minor
// item permutation can't be solved, so the driver (or a human
// investigating a persistently-failing seed) has enough to act on
// without re-running with extra logging.
type LevelDiagnostic struct {
	Level int
	Rooms []RoomDiagnostic
	Flags []string
}

// MinorItemRandomizer permutes the items of each dungeon's collected
// rooms within that dungeon, independently per dungeon; maps, compasses
// and the level-9 triforce of power stay pinned to their rooms.
type MinorItemRandomizer struct {
	dt         *datatable.DataTable
	fl         *flags.Flags
	solverType solver.Type
	timeLimit  time.Duration
}

func NewMinorItemRandomizer(dt *datatable.DataTable, fl *flags.Flags) *MinorItemRandomizer {
	return &MinorItemRandomizer{dt: dt, fl: fl, solverType: solver.RejectionSampling, timeLimit: 5 * time.Second}
}

// isMinorItem is everything the major item randomizer's pool never
// touches: not a major item, not the triforce of power, not the
// "no item"/"nothing" sentinels, and not a map or compass (those never
// shuffle between levels, let alone rooms).
func isMinorItem(it game.Item) bool {
	switch it {
	case game.ItemTriforceOfPower, game.ItemNoItem, game.ItemNothing,
		game.ItemMap, game.ItemCompass:
		return false
	}
	return !it.IsMajor()
}

// Randomize permutes every level in order, stopping at the first
// level that fails to solve (the driver retries the whole attempt
// with a different outer seed rather than patching around a partial
// placement).
func (m *MinorItemRandomizer) Randomize(outerSeed int64) (bool, *LevelDiagnostic) {
	for level := 1; level <= datatable.NumLevels; level++ {
		ok, diag := m.randomizeLevel(level, outerSeed)
		if !ok {
			return false, diag
		}
	}
	return true, nil
}

func (m *MinorItemRandomizer) randomizeLevel(level int, outerSeed int64) (bool, *LevelDiagnostic) {
	levelSeed := rng.PerLevelSeed(outerSeed, level)
	r := rng.New(levelSeed)

	entries := collector.Collect(m.dt.RoomLookup(level), m.dt.LevelStartRoom(level))
	locations := make([]Location, len(entries))
	itemsPool := make([]game.Item, len(entries))
	for i, e := range entries {
		locations[i] = DungeonLocation(level, e.RoomNum)
		itemsPool[i] = e.Item
	}

	// Item position is independent of which item a room ends up with,
	// so it's randomized first, directly on the room.
	for _, e := range entries {
		rm := m.dt.Room(level, e.RoomNum)
		allowed := rm.RoomType().AllowedItemPositions()
		if len(allowed) > 0 {
			pos := rng.Choice(r, allowed)
			_ = rm.SetItemPosition(pos) // allowed came from this room's own type; always legal
		}
	}

	s := solver.New[Location, game.Item](m.solverType)
	s.AddPermutationProblem(locations, itemsPool)

	isItemStaircase := func(loc Location) bool {
		return m.dt.Room(loc.Level, loc.RoomNum).RoomType() == game.RoomTypeItemStaircase
	}

	var itemStaircases []Location
	for _, loc := range locations {
		if isItemStaircase(loc) {
			itemStaircases = append(itemStaircases, loc)
		}
	}

	for _, loc := range itemStaircases {
		s.Forbid(loc, game.ItemNoItem)
	}

	// Maps and compasses never shuffle between rooms, let alone
	// levels: pin each to the location it was collected from.
	for i, it := range itemsPool {
		if it == game.ItemMap || it == game.ItemCompass {
			s.Require(locations[i], it)
		}
	}

	if level == 9 {
		for i, it := range itemsPool {
			if it == game.ItemTriforceOfPower {
				s.Require(locations[i], game.ItemTriforceOfPower)
				break
			}
		}
	}

	if !m.fl.Get("item_stair_can_have_triforce") {
		for _, loc := range itemStaircases {
			s.Forbid(loc, game.ItemTriforceFragment)
			s.Forbid(loc, game.ItemTriforceOfPower)
		}
	}

	if !m.fl.Get("item_stair_can_have_minor_item") {
		seen := map[game.Item]bool{}
		for _, it := range itemsPool {
			if isMinorItem(it) && it != game.ItemTriforceFragment && !seen[it] {
				seen[it] = true
				for _, loc := range itemStaircases {
					s.Forbid(loc, it)
				}
			}
		}
	}

	var majorItemsPresent []game.Item
	seenMajor := map[game.Item]bool{}
	for _, it := range itemsPool {
		if it.IsMajor() && !seenMajor[it] {
			seenMajor[it] = true
			majorItemsPresent = append(majorItemsPresent, it)
		}
	}

	if m.fl.Get("force_major_item_to_boss") && len(majorItemsPresent) > 0 {
		var bossLocs []Location
		for _, loc := range locations {
			if m.dt.Room(loc.Level, loc.RoomNum).Enemy().IsBoss() {
				bossLocs = append(bossLocs, loc)
			}
		}
		if len(bossLocs) > 0 {
			s.AtLeastOneOf(bossLocs, majorItemsPresent)
		}
	}

	if m.fl.Get("force_major_item_to_triforce_room") && len(majorItemsPresent) > 0 {
		var triforceRoomLocs []Location
		for _, loc := range locations {
			if m.dt.Room(loc.Level, loc.RoomNum).RoomType() == game.RoomTypeGannonsTriforceRoom {
				triforceRoomLocs = append(triforceRoomLocs, loc)
			}
		}
		if len(triforceRoomLocs) > 0 {
			s.AtLeastOneOf(triforceRoomLocs, majorItemsPresent)
		}
	}

	solution, ok := s.Solve(levelSeed, m.timeLimit)
	if !ok {
		return false, m.diagnose(level, entries)
	}

	for loc, it := range solution {
		m.dt.Room(loc.Level, loc.RoomNum).SetItem(it)
	}
	return true, nil
}

func (m *MinorItemRandomizer) diagnose(level int, entries []collector.Entry) *LevelDiagnostic {
	diag := &LevelDiagnostic{Level: level, Flags: m.fl.SortedNames()}
	for _, e := range entries {
		rm := m.dt.Room(level, e.RoomNum)
		diag.Rooms = append(diag.Rooms, RoomDiagnostic{
			RoomNum:      e.RoomNum,
			Enemy:        rm.Enemy(),
			RoomType:     rm.RoomType(),
			Item:         rm.Item(),
			Position:     rm.ItemPosition(),
			HasStaircase: rm.HasStaircase(),
		})
	}
	return diag
}
