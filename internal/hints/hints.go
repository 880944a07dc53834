// Package hints owns the 38 in-ROM hint slots: priority hints set
// directly by other components, a shuffled pool of community flavor
// text filling whatever slots are left, and numbered placeholder text
// for unset slots when the community pool is not used.
package hints

import (
	"fmt"

	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/patch"
	"github.com/tetraly/zora-sub000/internal/rng"
)

// NumSlots is the number of addressable hint slots.
const NumSlots = 38

// SlotLostHills and SlotDeadWoods are the two slots the direction-
// sequence hints occupy; every other slot is either set explicitly by
// a caller or filled from the community pool.
const (
	SlotLostHills = 4
	SlotDeadWoods = 8
)

const (
	pointerTableStart = 0x4010
	dataStart         = 0x405C
	maxDataEnd        = 0x4550
	bankMemoryBase    = 0x8000
)

// Diagnostic reports a non-fatal anomaly encountered while building
// the hint patch.
type Diagnostic struct {
	Slot    int
	Message string
}

// Writer accumulates hint text for every slot and produces the final
// patch. The zero value is not usable; construct with New.
type Writer struct {
	rng   *rng.RNG
	slots map[int][]string
}

// New returns a Writer drawing from r for community-hint shuffling.
func New(r *rng.RNG) *Writer {
	return &Writer{rng: r, slots: make(map[int][]string)}
}

// SetHint assigns explicit text to one slot, overwriting anything
// already there. lines holds 1-3 display lines.
func (w *Writer) SetHint(slot int, lines []string) {
	w.slots[slot] = lines
}

// SetDirectionSequenceHint implements overworld.DirectionHintSink,
// turning a chosen Lost Hills / Dead Woods direction sequence into its
// named hint slot's text.
func (w *Writer) SetDirectionSequenceHint(regionName string, sequence []game.Direction) {
	switch regionName {
	case "Lost Hills":
		w.SetHint(SlotLostHills, directionSequenceLines(sequence, lostHillsDirText,
			"", "THE MOUNTAIN AHEAD"))
	case "Dead Woods":
		w.SetHint(SlotDeadWoods, directionSequenceLines(sequence, deadWoodsDirText,
			" TO", "THE FOREST OF MAZE"))
	}
}

var lostHillsDirText = map[game.Direction]string{
	game.Up: "UP", game.Down: "DOWN", game.Left: "LEFT", game.Right: "RIGHT",
}

var deadWoodsDirText = map[game.Direction]string{
	game.Up: "NORTH", game.Down: "SOUTH", game.Left: "WEST", game.Right: "EAST",
}

// directionSequenceLines builds the three-line "GO X, Y, / Z, W[,
// suffix] / landmark" hint shape both direction-sequence regions use.
func directionSequenceLines(sequence []game.Direction, dirText map[game.Direction]string, line2Suffix, landmark string) []string {
	text := make([]string, len(sequence))
	for i, d := range sequence {
		s, ok := dirText[d]
		if !ok {
			s = "?"
		}
		text[i] = s
	}
	if len(text) != 4 {
		return []string{"GO " + joinComma(text)}
	}
	return []string{
		fmt.Sprintf("GO %s, %s,", text[0], text[1]),
		fmt.Sprintf("%s, %s%s", text[2], text[3], line2Suffix),
		landmark,
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// FillWithCommunityHints assigns the priority list first, then a
// shuffled copy of the flavor pool, to every slot SetHint hasn't
// already claimed.
func (w *Writer) FillWithCommunityHints() {
	pool := append([][]string(nil), communityHints...)
	w.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	all := append([][]string(nil), priorityHints...)
	all = append(all, pool...)

	idx := 0
	for slot := 1; slot <= NumSlots; slot++ {
		if _, set := w.slots[slot]; set {
			continue
		}
		if idx >= len(all) {
			break
		}
		w.slots[slot] = all[idx]
		idx++
	}
}

// FillWithBlankHints assigns placeholder text to every still-unset
// slot; the driver calls it instead of FillWithCommunityHints when
// community_hints is off. Slot 1 is left blank; the rest are labeled
// by number.
func (w *Writer) FillWithBlankHints() {
	for slot := 1; slot <= NumSlots; slot++ {
		if _, set := w.slots[slot]; set {
			continue
		}
		if slot == 1 {
			w.slots[slot] = []string{""}
			continue
		}
		w.slots[slot] = []string{fmt.Sprintf("TEST HINT %02d", slot)}
	}
}

// GetPatch writes every set slot's encoded text into the hint data
// region, linearly from dataStart, and its pointer into the pointer
// table. A slot whose encoded text would cross maxDataEnd is replaced
// with the blank encoding and reported as a Diagnostic; a slot never
// set is skipped entirely, leaving its pointer unwritten.
func (w *Writer) GetPatch() (*patch.Patch, []Diagnostic) {
	p := patch.New()
	var diags []Diagnostic

	offset := dataStart
	for slot := 1; slot <= NumSlots; slot++ {
		lines, ok := w.slots[slot]
		if !ok {
			continue
		}

		encoded := encodeText(lines)
		if offset+len(encoded) >= maxDataEnd {
			diags = append(diags, Diagnostic{
				Slot:    slot,
				Message: fmt.Sprintf("hint #%d would exceed the hint data region; wrote a blank hint instead", slot),
			})
			encoded = encodeText([]string{""})
		}

		p.Add(offset, encoded, nil, fmt.Sprintf("hint slot %d text", slot))

		memAddr := bankMemoryBase + (offset - pointerTableStart)
		bankOffset := memAddr - bankMemoryBase
		low := byte(bankOffset & 0xFF)
		high := byte((bankOffset>>8)&0xFF) | 0x80
		pointerAddr := pointerTableStart + (slot-1)*2
		p.Add(pointerAddr, []byte{low, high}, nil, fmt.Sprintf("hint slot %d pointer", slot))

		offset += len(encoded)
	}

	return p, diags
}
