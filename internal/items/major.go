package items

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tetraly/zora-sub000/internal/collector"
	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/rng"
	"github.com/tetraly/zora-sub000/internal/solver"
)

// ConstraintConflict reports every incompatibility a pre-flight
// constraint check found, rather than just the first: a flag
// combination that's provably infeasible can never be fixed by
// retrying with a different seed, so the randomizer refuses up front
// instead of burning solver attempts.
type ConstraintConflict struct {
	Errors []error
}

func (c *ConstraintConflict) Error() string {
	msgs := make([]string, len(c.Errors))
	for i, e := range c.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("items: %d constraint conflict(s): %s", len(c.Errors), strings.Join(msgs, "; "))
}

// cavePoolEntry is one row of the flag -> overworld-position table
// that controls which cave positions join the major item pool.
type cavePoolEntry struct {
	flagName string
	caveType game.CaveType
	position int
}

var overworldPoolTable = []cavePoolEntry{
	{"shuffle_wood_sword_cave_item", game.CaveWoodSwordCave, 0},
	{"shuffle_white_sword_cave_item", game.CaveWhiteSwordCave, 0},
	{"shuffle_magical_sword_cave_item", game.CaveMagicalSwordCave, 0},
	{"shuffle_letter_cave_item", game.CaveLetterCave, 0},
	{"shuffle_armos_item", game.CaveArmos, 0},
	{"shuffle_coast_item", game.CaveCoast, 0},
	{"shuffle_arrow_shop_item", game.CaveArrowShop, 0},
	{"shuffle_candle_shop_item", game.CaveCandleShop, 0},
	{"shuffle_bait_shop_item", game.CaveBaitShop, 0},
	{"shuffle_ring_shop_item", game.CaveRingShop, 0},
	{"shuffle_potion_shop_items", game.CavePotionShop, 0},
	{"shuffle_potion_shop_items", game.CavePotionShop, 1},
}

// priceRange is a tier's inclusive rupee price bound.
type priceRange struct{ lo, hi int }

var (
	tier1 = priceRange{205, 255} // sword tiers, any ring, magical key
	tier2 = priceRange{80, 120}  // bow, wand, ladder
	tier3 = priceRange{60, 100}  // recorder, any arrows, heart container
	tier4 = priceRange{40, 80}   // everything else
)

func priceTierFor(it game.Item) priceRange {
	switch it {
	case game.ItemWoodSword, game.ItemWhiteSword, game.ItemMagicalSword,
		game.ItemBlueRing, game.ItemRedRing, game.ItemMagicalKey:
		return tier1
	case game.ItemBow, game.ItemWand, game.ItemLadder:
		return tier2
	case game.ItemRecorder, game.ItemWoodArrow, game.ItemSilverArrow, game.ItemHeartContainer:
		return tier3
	default:
		return tier4
	}
}

// MajorItemRandomizer shuffles major items (and, optionally, heart
// containers) across a pool spanning every dungeon plus a
// flag-configured set of overworld cave positions.
type MajorItemRandomizer struct {
	dt         *datatable.DataTable
	fl         *flags.Flags
	solverType solver.Type
	timeLimit  time.Duration
}

func NewMajorItemRandomizer(dt *datatable.DataTable, fl *flags.Flags) *MajorItemRandomizer {
	return &MajorItemRandomizer{dt: dt, fl: fl, solverType: solver.RejectionSampling, timeLimit: 5 * time.Second}
}

// buildPool walks every dungeon via the collector and every
// flag-gated overworld position, returning parallel location/item
// slices in a stable, deterministic order (levels then locations in
// collector visitation order, then the overworld table in declaration
// order).
func (m *MajorItemRandomizer) buildPool() ([]Location, []game.Item) {
	var locations []Location
	var itemsOut []game.Item

	for level := 1; level <= datatable.NumLevels; level++ {
		entries := collector.Collect(m.dt.RoomLookup(level), m.dt.LevelStartRoom(level))
		for _, e := range entries {
			if e.Item.IsMajor() || (e.Item == game.ItemHeartContainer && m.fl.Get("shuffle_dungeon_hearts")) {
				locations = append(locations, DungeonLocation(level, e.RoomNum))
				itemsOut = append(itemsOut, e.Item)
			}
		}
	}

	for _, entry := range overworldPoolTable {
		if !m.fl.Get(entry.flagName) {
			continue
		}
		it := m.dt.CaveItem(entry.caveType, entry.position)
		locations = append(locations, CaveLocation(entry.caveType, entry.position))
		itemsOut = append(itemsOut, it)
	}

	return locations, itemsOut
}

// Randomize builds the pool, wires every constraint, and solves. On a
// provably infeasible flag combination it returns a *ConstraintConflict
// before ever calling the solver. On solver failure (a seed that
// simply didn't work out) it returns (false, nil), signalling the
// driver to retry with a different seed.
func (m *MajorItemRandomizer) Randomize(seed int64) (bool, error) {
	locations, itemsPool := m.buildPool()

	s := solver.New[Location, game.Item](m.solverType)
	s.AddPermutationProblem(locations, itemsPool)

	locsByCave := func(ct game.CaveType) []Location {
		var out []Location
		for _, l := range locations {
			if l.Kind == LocationCave && l.CaveType == ct {
				out = append(out, l)
			}
		}
		return out
	}
	locsByLevel := func(level int) []Location {
		var out []Location
		for _, l := range locations {
			if l.Kind == LocationDungeon && l.Level == level {
				out = append(out, l)
			}
		}
		return out
	}
	poolHas := func(it game.Item) bool {
		for _, v := range itemsPool {
			if v == it {
				return true
			}
		}
		return false
	}
	countInPool := func(it game.Item) int {
		n := 0
		for _, v := range itemsPool {
			if v == it {
				n++
			}
		}
		return n
	}

	// Always-on constraints.
	for _, l := range locations {
		if l.Kind != LocationCave || !l.CaveType.IsShop() {
			continue
		}
		s.Forbid(l, game.ItemHeartContainer)
		if m.fl.Get("progressive_items") {
			for _, base := range []game.Item{game.ItemWoodSword, game.ItemBluCandle, game.ItemWoodArrow, game.ItemBlueRing} {
				if poolHas(base) {
					s.Forbid(l, base)
				}
			}
		}
	}
	for _, l := range locsByCave(game.CaveCoast) {
		s.Forbid(l, game.ItemLadder)
	}
	for _, l := range locations {
		if l.Kind == LocationDungeon {
			s.Forbid(l, game.ItemRedPotion)
		}
	}

	var conflicts []error

	levelNineForce := []struct {
		flag string
		item game.Item
	}{
		{"force_arrow_to_level_nine", game.ItemSilverArrow},
		{"force_ring_to_level_nine", game.ItemRedRing},
		{"force_wand_to_level_nine", game.ItemWand},
		{"force_heart_container_to_level_nine", game.ItemHeartContainer},
	}
	for _, f := range levelNineForce {
		if !m.fl.Get(f.flag) {
			continue
		}
		level9Locs := locsByLevel(9)
		if len(level9Locs) == 0 || !poolHas(f.item) {
			conflicts = append(conflicts, fmt.Errorf("%s requires a level-9 location and %v in the pool", f.flag, f.item))
			continue
		}
		s.AtLeastOneOf(level9Locs, []game.Item{f.item})
	}

	if m.fl.Get("force_two_heart_containers_to_level_nine") {
		if countInPool(game.ItemHeartContainer) < 2 {
			conflicts = append(conflicts, fmt.Errorf("force_two_heart_containers_to_level_nine requires at least 2 heart containers in the pool, found %d", countInPool(game.ItemHeartContainer)))
		} else if len(locsByLevel(9)) < 2 {
			conflicts = append(conflicts, fmt.Errorf("force_two_heart_containers_to_level_nine requires at least 2 level-9 locations"))
		}
	}

	if m.fl.Get("force_heart_container_to_armos") {
		armosLocs := locsByCave(game.CaveArmos)
		if len(armosLocs) == 0 {
			conflicts = append(conflicts, fmt.Errorf("force_heart_container_to_armos requires shuffle_armos_item"))
		} else {
			s.AtLeastOneOf(armosLocs, []game.Item{game.ItemHeartContainer})
		}
	}
	if m.fl.Get("force_heart_container_to_coast") {
		coastLocs := locsByCave(game.CaveCoast)
		if len(coastLocs) == 0 {
			conflicts = append(conflicts, fmt.Errorf("force_heart_container_to_coast requires shuffle_coast_item"))
		} else {
			s.AtLeastOneOf(coastLocs, []game.Item{game.ItemHeartContainer})
		}
	}

	if len(conflicts) > 0 {
		return false, &ConstraintConflict{Errors: conflicts}
	}

	solution, ok := s.Solve(seed, m.timeLimit)
	if !ok {
		return false, nil
	}

	r := rng.New(seed)
	for _, loc := range sortedLocations(solution) {
		it := solution[loc]
		switch loc.Kind {
		case LocationDungeon:
			m.dt.Room(loc.Level, loc.RoomNum).SetItem(it)
		case LocationCave:
			m.dt.SetCaveItem(loc.CaveType, loc.Position, it)
			if loc.CaveType.IsShop() {
				tier := priceTierFor(it)
				m.dt.SetCavePrice(loc.CaveType, loc.Position, byte(r.IntRange(tier.lo, tier.hi)))
			}
		}
	}
	return true, nil
}

// sortedLocations returns a map's keys in a fixed order, so any RNG
// draw made while walking the solution doesn't depend on Go's
// randomized map iteration order: two runs of the same seed must draw
// shop prices in the same sequence to produce byte-identical output.
func sortedLocations(solution map[Location]game.Item) []Location {
	locs := make([]Location, 0, len(solution))
	for loc := range solution {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i], locs[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.RoomNum != b.RoomNum {
			return a.RoomNum < b.RoomNum
		}
		if a.CaveType != b.CaveType {
			return a.CaveType < b.CaveType
		}
		return a.Position < b.Position
	})
	return locs
}
