// Package overworld implements the three overworld-level randomization
// capabilities the spec groups under one component: cave-destination
// shuffling (with recorder-warp recomputation), heart-container
// requirement randomization, and the Lost Hills / Dead Woods
// direction-sequence randomization. The original distillation keeps
// these as a top-level module and a near-duplicate subpackage; this
// package follows the subpackage's algorithmic detail but exposes it
// through the single unified entry point the top-level module's
// prose actually describes.
package overworld

import (
	"fmt"
	"time"

	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/rng"
	"github.com/tetraly/zora-sub000/internal/solver"
)

// woodSwordCaveScreen is the fixed overworld screen the
// pin_wood_sword_cave flag pins to game.CaveWoodSwordCave.
const woodSwordCaveScreen = 0x77

// vanillaLevelScreens and expandedLevelScreens are the two screen sets
// restrict_levels_to_vanilla_screens / restrict_levels_to_expanded_screens
// constrain the nine level caves to.
var vanillaLevelScreens = [9]byte{0x0C, 0x1D, 0x22, 0x37, 0x3B, 0x44, 0x4E, 0x53, 0x5E}

var expandedLevelScreens = append(append([]byte{}, vanillaLevelScreens[:]...),
	0x02, 0x29, 0x48, 0x5A, 0x62)

// directionAlphabet is the 3-direction alphabet the first three steps
// of a Lost Hills / Dead Woods sequence are drawn from; the final step
// is fixed per region (Up for Lost Hills, Down for Dead Woods), so Down
// never appears mid-sequence.
var directionAlphabet = []game.Direction{game.Up, game.Left, game.Right}

// recorderWarpYWhitelist lists the overworld screens whose recorder
// warp uses a non-default Y coordinate.
var recorderWarpYWhitelist = map[byte]byte{
	0x1D: 0xAD,
	0x22: 0xAD,
	0x37: 0xAD,
	0x62: 0x5D,
}

const recorderWarpYDefault = 0x8D

// DirectionHintSink receives the chosen Lost Hills / Dead Woods
// sequence so the hint writer can phrase a matching clue. It is
// satisfied by *hints.Writer; declared narrowly here so this
// package does not import hints.
type DirectionHintSink interface {
	SetDirectionSequenceHint(regionName string, sequence []game.Direction)
}

// Randomizer implements the overworld component's three capabilities.
type Randomizer struct {
	dt         *datatable.DataTable
	fl         *flags.Flags
	hintSink   DirectionHintSink
	solverType solver.Type
	timeLimit  time.Duration
}

func New(dt *datatable.DataTable, fl *flags.Flags, hintSink DirectionHintSink) *Randomizer {
	return &Randomizer{dt: dt, fl: fl, hintSink: hintSink, solverType: solver.RejectionSampling, timeLimit: 5 * time.Second}
}

// Randomize runs all three capabilities in sequence. A false, nil
// return means the cave-destination solve failed for this seed and
// the driver should retry with a different one; a non-nil error means
// a named-region write failed, which never happens with a
// correctly-sized buffer and indicates a programmer error upstream.
func (o *Randomizer) Randomize(seed int64) (bool, error) {
	ok, err := o.shuffleCaveDestinations(seed)
	if err != nil || !ok {
		return ok, err
	}
	if err := o.recomputeRecorderWarps(); err != nil {
		return false, err
	}
	r := rng.New(seed)
	if err := o.randomizeHeartRequirements(r); err != nil {
		return false, err
	}
	if err := o.randomizeDirectionSequences(r); err != nil {
		return false, err
	}
	return true, nil
}

func eligibleCaveScreens(dt *datatable.DataTable) []byte {
	var screens []byte
	for screen := 0; screen < datatable.NumOverworldScreens; screen++ {
		s := byte(screen)
		if dt.QuestBits(s)&0x80 != 0 {
			continue
		}
		dest := dt.ScreenDestination(s)
		if dest == game.CaveNone || dest.IsAnyRoad() {
			continue
		}
		screens = append(screens, s)
	}
	return screens
}

func (o *Randomizer) shuffleCaveDestinations(seed int64) (bool, error) {
	screens := eligibleCaveScreens(o.dt)
	destinations := make([]game.CaveType, len(screens))
	for i, s := range screens {
		destinations[i] = o.dt.ScreenDestination(s)
	}

	s := solver.New[byte, game.CaveType](o.solverType)
	s.AddPermutationProblem(screens, destinations)

	if o.fl.Get("pin_wood_sword_cave") {
		s.Require(woodSwordCaveScreen, game.CaveWoodSwordCave)
	}

	levelCaveTypes := make([]game.CaveType, datatable.NumLevels)
	for level := 1; level <= datatable.NumLevels; level++ {
		levelCaveTypes[level-1] = game.CaveType(level)
	}

	if o.fl.Get("restrict_levels_to_vanilla_screens") {
		forbidNonMembers(s, screens, vanillaLevelScreens[:], levelCaveTypes)
	}
	if o.fl.Get("restrict_levels_to_expanded_screens") {
		forbidNonMembers(s, screens, expandedLevelScreens, levelCaveTypes)
	}

	solution, ok := s.Solve(seed, o.timeLimit)
	if !ok {
		return false, nil
	}
	for screen, dest := range solution {
		o.dt.SetScreenDestination(screen, dest)
	}
	return true, nil
}

// forbidNonMembers forbids every screen not in allowed from receiving
// any of caveTypes.
func forbidNonMembers(s solver.Solver[byte, game.CaveType], screens []byte, allowed []byte, caveTypes []game.CaveType) {
	member := map[byte]bool{}
	for _, a := range allowed {
		member[a] = true
	}
	var forbidden []byte
	for _, sc := range screens {
		if !member[sc] {
			forbidden = append(forbidden, sc)
		}
	}
	s.ForbidAll(forbidden, caveTypes)
}

// recomputeRecorderWarps locates each level's current screen and
// writes its warp target plus Y coordinate into the named region.
func (o *Randomizer) recomputeRecorderWarps() error {
	buf := make([]byte, 16)
	for level := 1; level <= 8; level++ {
		screen := o.findScreenForLevel(level)
		target := westernNeighbor(screen)
		y := recorderWarpYDefault
		if v, ok := recorderWarpYWhitelist[screen]; ok {
			y = int(v)
		}
		buf[(level-1)*2] = target
		buf[(level-1)*2+1] = byte(y)
	}
	return o.dt.WriteRegion(datatable.RegionRecorderWarpTable, buf)
}

func (o *Randomizer) findScreenForLevel(level int) byte {
	want := game.CaveType(level)
	for screen := 0; screen < datatable.NumOverworldScreens; screen++ {
		if o.dt.ScreenDestination(byte(screen)) == want {
			return byte(screen)
		}
	}
	return 0
}

func westernNeighbor(screen byte) byte {
	switch screen {
	case 0x00:
		return 0x00
	case 0x0E:
		return 0x1D
	default:
		return screen - 1
	}
}

func (o *Randomizer) randomizeHeartRequirements(r *rng.RNG) error {
	data, err := o.dt.ReadRegion(datatable.RegionHeartRequirements)
	if err != nil {
		return fmt.Errorf("overworld: %w", err)
	}
	switch {
	case o.fl.Get("randomize_heart_container_requirements"):
		white := r.IntRange(4, 6)
		magical := r.IntRange(10, 12)
		data[0] = byte((white - 1) * 16)
		data[1] = byte((magical - 1) * 16)
	case o.fl.Get("shuffle_magical_sword_cave_item"):
		magical := r.IntRange(10, 12)
		data[1] = byte((magical - 1) * 16)
	default:
		return nil
	}
	return o.dt.WriteRegion(datatable.RegionHeartRequirements, data)
}

func (o *Randomizer) randomizeDirectionSequences(r *rng.RNG) error {
	if o.fl.Get("randomize_lost_hills_directions") {
		seq, err := o.randomizeDirectionSequence(r, datatable.RegionLostHillsSequence, game.Up)
		if err != nil {
			return err
		}
		if o.hintSink != nil {
			o.hintSink.SetDirectionSequenceHint("Lost Hills", seq)
		}
	}
	if o.fl.Get("randomize_dead_woods_directions") {
		seq, err := o.randomizeDirectionSequence(r, datatable.RegionDeadWoodsSequence, game.Down)
		if err != nil {
			return err
		}
		if o.hintSink != nil {
			o.hintSink.SetDirectionSequenceHint("Dead Woods", seq)
		}
	}
	return nil
}

func (o *Randomizer) randomizeDirectionSequence(r *rng.RNG, region datatable.RegionName, last game.Direction) ([]game.Direction, error) {
	seq := make([]game.Direction, 4)
	for i := 0; i < 3; i++ {
		seq[i] = rng.Choice(r, directionAlphabet)
	}
	seq[3] = last

	buf := make([]byte, 4)
	for i, d := range seq {
		buf[i] = byte(d)
	}
	if err := o.dt.WriteRegion(region, buf); err != nil {
		return nil, fmt.Errorf("overworld: %w", err)
	}
	return seq, nil
}
