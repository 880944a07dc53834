package overworld

import (
	"testing"

	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
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

func TestRandomizeSucceedsWithNoEligibleScreens(t *testing.T) {
	dt := syntheticDataTable(t)
	r := New(dt, flags.New(), nil)
	ok, err := r.Randomize(1)
	if err != nil || !ok {
		t.Fatalf("expected trivial success, got ok=%v err=%v", ok, err)
	}
}

func TestPinWoodSwordCaveIsHonored(t *testing.T) {
	dt := syntheticDataTable(t)
	dt.SetQuestBits(woodSwordCaveScreen, 0x00)
	dt.SetScreenDestination(woodSwordCaveScreen, game.CaveLetterCave)
	dt.SetQuestBits(0x10, 0x00)
	dt.SetScreenDestination(0x10, game.CaveWoodSwordCave)

	fl := flags.New()
	fl.Set("pin_wood_sword_cave", true)

	r := New(dt, fl, nil)
	ok, err := r.Randomize(5)
	if err != nil || !ok {
		t.Fatalf("expected success, got ok=%v err=%v", ok, err)
	}
	if dt.ScreenDestination(woodSwordCaveScreen) != game.CaveWoodSwordCave {
		t.Fatalf("expected the wood sword cave pinned to screen 0x%02X", woodSwordCaveScreen)
	}
}

func TestDirectionSequenceFixesLastStep(t *testing.T) {
	dt := syntheticDataTable(t)
	fl := flags.New()
	fl.Set("randomize_lost_hills_directions", true)
	fl.Set("randomize_dead_woods_directions", true)

	var got []game.Direction
	sink := hintSinkFunc(func(name string, seq []game.Direction) {
		if name == "Lost Hills" {
			got = seq
		}
	})

	r := New(dt, fl, sink)
	ok, err := r.Randomize(17)
	if err != nil || !ok {
		t.Fatalf("expected success, got ok=%v err=%v", ok, err)
	}
	if len(got) != 4 || got[3] != game.Up {
		t.Fatalf("expected a 4-step sequence ending in Up, got %v", got)
	}
}

type hintSinkFunc func(regionName string, sequence []game.Direction)

func (f hintSinkFunc) SetDirectionSequenceHint(regionName string, sequence []game.Direction) {
	f(regionName, sequence)
}
