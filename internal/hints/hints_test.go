package hints

import (
	"strings"
	"testing"

	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/rng"
)

func TestEncodeTextBlank(t *testing.T) {
	got := encodeText([]string{""})
	want := []byte{blankSpace, blankSpace | bitEndText}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("encodeText(blank) = %v, want %v", got, want)
	}
}

func TestEncodeTextSingleLineCenteringAndEndBits(t *testing.T) {
	got := encodeText([]string{"HI"})
	if len(got) == 0 {
		t.Fatalf("expected non-empty encoding")
	}
	last := got[len(got)-1]
	if last&bitEndText != bitEndText {
		t.Fatalf("expected end-of-text bits set on final byte, got %#x", last)
	}
	// "HI" is 2 chars; leadingPadding(2) = (22-2)/2+1 = 11 pad bytes.
	for i := 0; i < 11; i++ {
		if got[i] != padByte {
			t.Fatalf("byte %d = %#x, want pad byte %#x", i, got[i], padByte)
		}
	}
	if got[11] != charToByte['H'] {
		t.Fatalf("byte 11 = %#x, want H encoding %#x", got[11], charToByte['H'])
	}
}

func TestEncodeTextTruncatesLongLines(t *testing.T) {
	long := strings.Repeat("A", 40)
	got := encodeText([]string{long})
	// Truncated to maxLineLen chars plus the one mandatory leading pad
	// byte once there's no room left to center.
	want := maxLineLen + 1
	if len(got) != want {
		t.Fatalf("expected %d encoded bytes after truncation, got %d", want, len(got))
	}
}

func TestEncodeTextThreeLinesSetsContinuationBits(t *testing.T) {
	got := encodeText([]string{"GO UP, LEFT,", "RIGHT, DOWN", "THE MOUNTAIN AHEAD"})
	var line1End, line2End, textEnd int
	count := 0
	for i, b := range got {
		if b&bitEndText == bitEndText {
			textEnd = i
			count++
			continue
		}
		if b&bitEndLine2 == bitEndLine2 {
			line2End = i
			count++
		} else if b&bitEndLine1 == bitEndLine1 {
			line1End = i
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected exactly one of each line-break marker, found %d", count)
	}
	if line1End >= line2End || line2End >= textEnd {
		t.Fatalf("expected markers in line order, got line1=%d line2=%d text=%d", line1End, line2End, textEnd)
	}
}

func TestFillWithCommunityHintsPrioritizesPriorityList(t *testing.T) {
	w := New(rng.New(1))
	w.FillWithCommunityHints()

	for i, want := range priorityHints {
		slot := i + 1
		got, ok := w.slots[slot]
		if !ok {
			t.Fatalf("slot %d unset after FillWithCommunityHints", slot)
		}
		if len(got) != len(want) {
			t.Fatalf("slot %d = %v, want priority hint %v", slot, got, want)
		}
	}
}

func TestFillWithCommunityHintsSkipsAlreadySetSlots(t *testing.T) {
	w := New(rng.New(2))
	w.SetHint(1, []string{"RESERVED"})
	w.FillWithCommunityHints()

	if got := w.slots[1]; len(got) != 1 || got[0] != "RESERVED" {
		t.Fatalf("slot 1 = %v, want explicit hint preserved", got)
	}
	// Slot 2 should now hold the first priority hint, since slot 1 was
	// already taken and priority hints fill in slot order.
	if got := w.slots[2]; len(got) != len(priorityHints[0]) {
		t.Fatalf("slot 2 = %v, want first priority hint shifted in", got)
	}
}

func TestFillWithBlankHints(t *testing.T) {
	w := New(rng.New(3))
	w.FillWithBlankHints()

	if got := w.slots[1]; len(got) != 1 || got[0] != "" {
		t.Fatalf("slot 1 = %v, want blank", got)
	}
	if got := w.slots[2]; len(got) != 1 || got[0] != "TEST HINT 02" {
		t.Fatalf("slot 2 = %v, want labeled placeholder", got)
	}
}

func TestGetPatchWritesPointerAndDataForEverySetSlot(t *testing.T) {
	w := New(rng.New(4))
	w.SetHint(1, []string{"HELLO"})
	w.SetHint(2, []string{"WORLD"})

	p, diags := w.GetPatch()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if p.EntryCount() != 4 {
		t.Fatalf("expected 4 patch entries (2 pointers + 2 data blocks), got %d", p.EntryCount())
	}
}

func TestGetPatchSkipsUnsetSlots(t *testing.T) {
	w := New(rng.New(5))
	w.SetHint(1, []string{"ONLY ONE"})

	p, diags := w.GetPatch()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if p.EntryCount() != 2 {
		t.Fatalf("expected 2 patch entries for the single set slot, got %d", p.EntryCount())
	}
}

func TestGetPatchOverflowGuardEmitsDiagnostic(t *testing.T) {
	w := New(rng.New(6))
	longLines := []string{
		strings.Repeat("A", maxLineLen),
		strings.Repeat("B", maxLineLen),
		strings.Repeat("C", maxLineLen),
	}
	for slot := 1; slot <= NumSlots; slot++ {
		w.SetHint(slot, longLines)
	}

	_, diags := w.GetPatch()
	if len(diags) == 0 {
		t.Fatalf("expected at least one overflow diagnostic when every slot holds a maximal hint")
	}
}

func TestSetDirectionSequenceHintLostHills(t *testing.T) {
	w := New(rng.New(7))
	w.SetDirectionSequenceHint("Lost Hills", []game.Direction{game.Left, game.Right, game.Left, game.Up})

	lines := w.slots[SlotLostHills]
	if len(lines) != 3 {
		t.Fatalf("expected a 3-line hint, got %v", lines)
	}
	if lines[0] != "GO LEFT, RIGHT," {
		t.Fatalf("line 0 = %q, want %q", lines[0], "GO LEFT, RIGHT,")
	}
	if lines[1] != "LEFT, UP" {
		t.Fatalf("line 1 = %q, want %q", lines[1], "LEFT, UP")
	}
	if lines[2] != "THE MOUNTAIN AHEAD" {
		t.Fatalf("line 2 = %q, want %q", lines[2], "THE MOUNTAIN AHEAD")
	}
}

func TestSetDirectionSequenceHintDeadWoods(t *testing.T) {
	w := New(rng.New(8))
	w.SetDirectionSequenceHint("Dead Woods", []game.Direction{game.Up, game.Right, game.Left, game.Down})

	lines := w.slots[SlotDeadWoods]
	if len(lines) != 3 {
		t.Fatalf("expected a 3-line hint, got %v", lines)
	}
	if lines[0] != "GO NORTH, EAST," {
		t.Fatalf("line 0 = %q, want %q", lines[0], "GO NORTH, EAST,")
	}
	if lines[1] != "WEST, SOUTH TO" {
		t.Fatalf("line 1 = %q, want %q", lines[1], "WEST, SOUTH TO")
	}
	if lines[2] != "THE FOREST OF MAZE" {
		t.Fatalf("line 2 = %q, want %q", lines[2], "THE FOREST OF MAZE")
	}
}

func TestSetDirectionSequenceHintUnknownRegionIgnored(t *testing.T) {
	w := New(rng.New(9))
	w.SetDirectionSequenceHint("Some Other Region", []game.Direction{game.Up, game.Up, game.Up, game.Up})

	if _, ok := w.slots[SlotLostHills]; ok {
		t.Fatalf("unrelated region name should not touch Lost Hills slot")
	}
	if _, ok := w.slots[SlotDeadWoods]; ok {
		t.Fatalf("unrelated region name should not touch Dead Woods slot")
	}
}
