// Package flags implements the randomizer's full flag system: the
// ~45 named boolean flags across seven categories (grounded on
// original_source/logic/flags.py), flagstring encode/decode (spec.md
// §6), YAML load/save (SPEC_FULL.md §2.2, grounded on
// dshills-dungo's dungeon.Config), and the flag-compatibility
// pre-checks the driver runs before attempting any seed.
package flags

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups related flags for display purposes.
type Category int

const (
	ItemShuffle Category = iota
	ItemChanges
	OverworldRandomization
	LogicAndDifficulty
	QualityOfLife
	Experimental
	Legacy
)

// Info describes one flag's metadata.
type Info struct {
	Name        string
	DisplayName string
	Help        string
	Category    Category
}

// Registry lists every flag this randomizer recognizes, in
// declaration order. Flagstring bits are consumed against this same
// order (spec.md §6), so reordering this slice changes every existing
// flagstring's meaning and must never happen casually.
var Registry = []Info{
	{"progressive_items", "Progressive Items", "Sword/candle/arrow/ring upgrade chains instead of independent tiers.", ItemShuffle},
	{"shuffle_dungeon_hearts", "Shuffle Dungeon Heart Containers", "Include dungeon heart containers in the major item pool.", ItemShuffle},
	{"shuffle_armos_item", "Shuffle Armos Item", "Include the Armos virtual cave position in the major item pool.", ItemShuffle},
	{"shuffle_coast_item", "Shuffle Coast Item", "Include the Coast virtual cave position in the major item pool.", ItemShuffle},
	{"shuffle_magical_sword_cave_item", "Shuffle Magical Sword Cave Item", "Include the magical sword cave in the major item pool.", ItemShuffle},
	{"shuffle_wood_sword_cave_item", "Shuffle Wood Sword Cave Item", "Include the wood sword cave in the major item pool.", ItemShuffle},
	{"shuffle_white_sword_cave_item", "Shuffle White Sword Cave Item", "Include the white sword cave in the major item pool.", ItemShuffle},
	{"shuffle_letter_cave_item", "Shuffle Letter Cave Item", "Include the letter cave in the major item pool.", ItemShuffle},
	{"shuffle_arrow_shop_item", "Shuffle Arrow Shop Item", "Include the arrow shop's item in the major item pool.", ItemShuffle},
	{"shuffle_candle_shop_item", "Shuffle Candle Shop Item", "Include the candle shop's item in the major item pool.", ItemShuffle},
	{"shuffle_bait_shop_item", "Shuffle Bait Shop Item", "Include the bait shop's item in the major item pool.", ItemShuffle},
	{"shuffle_ring_shop_item", "Shuffle Ring Shop Item", "Include the ring shop's item in the major item pool.", ItemShuffle},
	{"shuffle_potion_shop_items", "Shuffle Potion Shop Items", "Include both potion shop item positions in the major item pool.", ItemShuffle},
	{"shuffle_minor_dungeon_items", "Shuffle Minor Dungeon Items", "Shuffle bombs/keys/rupees within each dungeon.", ItemShuffle},
	{"item_stair_can_have_triforce", "Item Staircases Can Hold Triforce", "Allow the level's triforce to land on an item staircase.", ItemShuffle},
	{"item_stair_can_have_minor_item", "Item Staircases Can Hold Minor Items", "Allow minor items on item staircases.", ItemShuffle},
	{"force_major_item_to_boss", "Force Major Item To Boss Room", "At least one boss room must hold a major item.", ItemShuffle},
	{"force_major_item_to_triforce_room", "Force Major Item To Triforce Room", "The triforce room must additionally hold a major item.", ItemShuffle},

	{"force_arrow_to_level_nine", "Force Arrow To Level 9", "Pin an arrow item to a level-9 location.", ItemChanges},
	{"force_ring_to_level_nine", "Force Ring To Level 9", "Pin a ring item to a level-9 location.", ItemChanges},
	{"force_wand_to_level_nine", "Force Wand To Level 9", "Pin the wand to a level-9 location.", ItemChanges},
	{"force_heart_container_to_level_nine", "Force Heart Container To Level 9", "Pin a heart container to a level-9 location.", ItemChanges},
	{"force_two_heart_containers_to_level_nine", "Force Two Heart Containers To Level 9", "Require at least two heart containers end up in level 9.", ItemChanges},
	{"force_heart_container_to_armos", "Force Heart Container To Armos", "Pin a heart container to the Armos position.", ItemChanges},
	{"force_heart_container_to_coast", "Force Heart Container To Coast", "Pin a heart container to the Coast position.", ItemChanges},

	{"pin_wood_sword_cave", "Pin Wood Sword Cave", "Keep the wood sword cave's destination unshuffled.", OverworldRandomization},
	{"restrict_levels_to_vanilla_screens", "Restrict Levels To Vanilla Screens", "Only shuffle level entrances among the 9 vanilla level screens.", OverworldRandomization},
	{"restrict_levels_to_expanded_screens", "Restrict Levels To Expanded Screens", "Shuffle level entrances among a 14-screen expanded set.", OverworldRandomization},
	{"randomize_heart_container_requirements", "Randomize Heart Requirements", "Randomize the white/magical sword cave heart requirements.", OverworldRandomization},
	{"randomize_lost_hills_directions", "Randomize Lost Hills Directions", "Randomize the Lost Hills direction sequence.", OverworldRandomization},
	{"randomize_dead_woods_directions", "Randomize Dead Woods Directions", "Randomize the Dead Woods direction sequence.", OverworldRandomization},

	{"increased_bait_blocks", "Increased Bait Blocks", "Solidify dungeon walls around the hungry-NPC room, forcing a bait detour.", LogicAndDifficulty},
	{"avoid_required_hard_combat", "Avoid Required Hard Combat", "Additionally require ring + white sword for certain bosses.", LogicAndDifficulty},
	{"dont_guarantee_starting_sword_or_wand", "Don't Guarantee Starting Sword Or Wand", "Skip the reachable-starting-weapon seed-validity check.", LogicAndDifficulty},

	{"increased_standing_items", "Increased Standing Items", "All floor items are visible from the start instead of appearing as drop items after combat.", LogicAndDifficulty},
	{"reduced_push_blocks", "Reduced Push Blocks", "Rooms that require a push block after combat only require combat.", LogicAndDifficulty},
	{"increased_drop_items_in_push_block_rooms", "Increased Drop Items In Push Block Rooms", "Push-block rooms holding an item become drop-item rooms instead.", LogicAndDifficulty},
	{"increased_drop_items_in_non_push_block_rooms", "Increased Drop Items In Non-Push-Block Rooms", "Standing-item rooms holding an item become drop-item rooms instead.", LogicAndDifficulty},

	{"community_hints", "Community Hints", "Fill unset hint slots from the community flavor-text pool instead of numbered placeholder text.", QualityOfLife},

	{"verbose_diagnostics", "Verbose Diagnostics", "Include extra detail in solver-failure diagnostics.", QualityOfLife},

	{"experimental_assignment_solver", "Experimental Assignment Solver", "Use the assignment solver instead of rejection sampling by default.", Experimental},

	{"legacy_bait_blocks_alias", "Legacy Bait Blocks Alias", "Retained only for old flagstrings; behaves identically to increased_bait_blocks.", Legacy},
}

var byName = func() map[string]Info {
	m := make(map[string]Info, len(Registry))
	for _, i := range Registry {
		m[i.Name] = i
	}
	return m
}()

// Flags is a dynamic-attribute boolean map, mirroring the Python
// original's Flags class: unknown flag names default to false rather
// than erroring, because the flagstring/YAML surfaces are both
// user-editable and meant to tolerate flags added in a later version.
type Flags struct {
	values map[string]bool
}

// New returns a Flags value with every flag defaulted to false.
func New() *Flags {
	return &Flags{values: make(map[string]bool)}
}

// Get returns the flag's current value, false for any name not in the
// Registry or not yet set.
func (f *Flags) Get(name string) bool { return f.values[name] }

// Set assigns a flag's value regardless of whether name is in the
// Registry (unknown names are accepted and simply never consulted by
// any component).
func (f *Flags) Set(name string, v bool) {
	if f.values == nil {
		f.values = make(map[string]bool)
	}
	f.values[name] = v
}

// yamlDoc is the on-disk shape for YAML-loaded flag files.
type yamlDoc struct {
	Flags map[string]bool `yaml:"flags"`
}

// FromYAML reads and unmarshals a YAML flag file, mirroring
// dungeon.LoadConfig's read-then-unmarshal shape. It does no further
// validation: names not in the Registry are accepted as-is.
func FromYAML(path string) (*Flags, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flags: reading %s: %w", path, err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("flags: parsing YAML: %w", err)
	}
	f := New()
	for name, v := range doc.Flags {
		f.Set(name, v)
	}
	return f, nil
}

// ToYAML serializes the currently-true flags to YAML bytes.
func (f *Flags) ToYAML() ([]byte, error) {
	doc := yamlDoc{Flags: make(map[string]bool)}
	for name := range f.values {
		if f.values[name] {
			doc.Flags[name] = true
		}
	}
	return yaml.Marshal(doc)
}

// flagstringAlphabet is the 8-letter, 3-bit-per-character alphabet
// spec.md §6 defines for the compact flagstring encoding.
const flagstringAlphabet = "BCDFGHKL"

// nonComplexOrder is the declaration order flagstring bits are
// consumed against: every Registry flag except the legacy alias,
// which flagstrings never address directly.
func nonComplexOrder() []string {
	out := make([]string, 0, len(Registry))
	for _, i := range Registry {
		if i.Category == Legacy {
			continue
		}
		out = append(out, i.Name)
	}
	return out
}

// DecodeFlagstring parses a flagstring per spec.md §6: each character
// (case-insensitive) encodes 3 bits via its position in
// flagstringAlphabet, concatenated MSB-first; the resulting bit
// string is consumed one bit per flag in declaration order. Trailing
// bits beyond the flag count are ignored; missing bits default to 0.
func DecodeFlagstring(s string) (*Flags, error) {
	if s == "" {
		return New(), nil
	}
	var bits []bool
	for _, r := range strings.ToUpper(s) {
		idx := strings.IndexRune(flagstringAlphabet, r)
		if idx < 0 {
			return nil, fmt.Errorf("flags: invalid flagstring character %q", r)
		}
		for shift := 2; shift >= 0; shift-- {
			bits = append(bits, (idx>>uint(shift))&1 == 1)
		}
	}

	f := New()
	order := nonComplexOrder()
	for i, name := range order {
		if i >= len(bits) {
			break
		}
		f.Set(name, bits[i])
	}
	return f, nil
}

// EncodeFlagstring is the inverse of DecodeFlagstring, used to derive
// the output filename's flagstring component.
func EncodeFlagstring(f *Flags) string {
	order := nonComplexOrder()
	var bits []bool
	for _, name := range order {
		bits = append(bits, f.Get(name))
	}
	for len(bits)%3 != 0 {
		bits = append(bits, false)
	}

	var sb strings.Builder
	for i := 0; i < len(bits); i += 3 {
		v := 0
		for j := 0; j < 3; j++ {
			v = v<<1 | boolToInt(bits[i+j])
		}
		sb.WriteByte(flagstringAlphabet[v])
	}
	return sb.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ValidateCompatibility runs the driver's pre-attempt flag-combination
// checks (spec.md §7.2-3), returning every conflict found rather than
// just the first, since retrying a seed cannot fix a provably
// infeasible flag combination.
func (f *Flags) ValidateCompatibility() []error {
	var errs []error

	if f.Get("force_two_heart_containers_to_level_nine") &&
		!f.Get("shuffle_dungeon_hearts") &&
		!f.Get("shuffle_armos_item") && !f.Get("shuffle_coast_item") {
		errs = append(errs, fmt.Errorf(
			"force_two_heart_containers_to_level_nine requires at least one heart-container source (shuffle_dungeon_hearts, shuffle_armos_item, or shuffle_coast_item)"))
	}

	if f.Get("force_heart_container_to_coast") && !f.Get("shuffle_coast_item") {
		errs = append(errs, fmt.Errorf(
			"force_heart_container_to_coast requires shuffle_coast_item"))
	}

	if f.Get("force_heart_container_to_armos") && !f.Get("shuffle_armos_item") {
		errs = append(errs, fmt.Errorf(
			"force_heart_container_to_armos requires shuffle_armos_item"))
	}

	return errs
}

// SortedNames returns every currently-true flag name, sorted, for
// stable logging/output.
func (f *Flags) SortedNames() []string {
	names := make([]string, 0, len(f.values))
	for name, v := range f.values {
		if v {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup returns the registry metadata for a flag name, if known.
func Lookup(name string) (Info, bool) {
	i, ok := byName[name]
	return i, ok
}
