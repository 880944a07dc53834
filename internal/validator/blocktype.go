package validator

import (
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/game"
)

// BlockType is the item requirement guarding access to one overworld
// screen.
type BlockType int

const (
	BlockOpen BlockType = iota
	BlockBomb
	BlockLadder
	BlockLadderBomb
	BlockRaft
	BlockRaftBomb
	BlockCandle
	BlockRecorder
	BlockPowerBracelet
	BlockPowerBraceletBomb
	BlockLostHillsHint
	BlockDeadWoodsHint
)

// coastScreen is the fixed overworld screen holding the Coast item
// position; it is always Ladder-blocked regardless of any table entry.
const coastScreen = 0x5F

// vanillaBlockTypes is the small subset of the 128 overworld screens
// whose access is gated by something other than open movement. Every
// screen not listed here defaults to BlockOpen.
var vanillaBlockTypes = map[byte]BlockType{
	0x0E: BlockBomb,
	0x0F: BlockBomb,
	0x1E: BlockBomb,
	0x1F: BlockBomb,
	0x22: BlockCandle,
	0x34: BlockRaft,
	0x3A: BlockRaftBomb,
	0x44: BlockRaft,
	0x53: BlockPowerBracelet,
	0x55: BlockPowerBraceletBomb,
	0x5B: BlockRecorder,
	0x61: BlockLadderBomb,
}

// lostHillsScreens and deadWoodsScreens are the overworld screens
// whose block type becomes a virtual hint gate once the corresponding
// direction-sequence flag is set (matching the hint item IsSeedValid
// grants up front under the same flag, see
// Validator.accessibleDestinations).
var lostHillsScreens = map[byte]bool{0x0B: true, 0x0C: true, 0x0D: true}
var deadWoodsScreens = map[byte]bool{0x70: true, 0x71: true, 0x72: true}

// blockTypeFor resolves screen's current block type, honoring the
// flags that turn specific screens into virtual hint gates.
func blockTypeFor(fl *flags.Flags, screen byte) BlockType {
	if screen == coastScreen {
		return BlockLadder
	}
	if fl.Get("randomize_lost_hills_directions") && lostHillsScreens[screen] {
		return BlockLostHillsHint
	}
	if fl.Get("randomize_dead_woods_directions") && deadWoodsScreens[screen] {
		return BlockDeadWoodsHint
	}
	if bt, ok := vanillaBlockTypes[screen]; ok {
		return bt
	}
	return BlockOpen
}

// canAccess reports whether inv satisfies block type bt.
func canAccess(inv *Inventory, bt BlockType) bool {
	switch bt {
	case BlockOpen:
		return true
	case BlockBomb:
		return inv.HasSwordOrWand()
	case BlockLadder:
		return inv.Has(game.ItemLadder)
	case BlockLadderBomb:
		return inv.HasSwordOrWand() && inv.Has(game.ItemLadder)
	case BlockRaft:
		return inv.Has(game.ItemRaft)
	case BlockRaftBomb:
		return inv.HasSwordOrWand() && inv.Has(game.ItemRaft)
	case BlockCandle:
		return inv.HasCandle()
	case BlockRecorder:
		return inv.Has(game.ItemRecorder)
	case BlockPowerBracelet:
		return inv.Has(game.ItemWand)
	case BlockPowerBraceletBomb:
		return inv.HasSwordOrWand() && inv.Has(game.ItemWand)
	case BlockLostHillsHint:
		return inv.Has(game.ItemLostHillsHint)
	case BlockDeadWoodsHint:
		return inv.Has(game.ItemDeadWoodsHint)
	default:
		return false
	}
}
