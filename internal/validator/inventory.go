package validator

import "github.com/tetraly/zora-sub000/internal/game"

// keyUse identifies one locked door a key has already been spent on,
// so revisiting it (from either side) never costs a second key.
type keyUse struct {
	level   int
	roomNum byte
}

// Inventory is the fixed-point walk's accumulated state: every
// collected item, heart container count, spare keys, and the
// per-level triforce pieces obtained so far. It has no in-ROM
// representation; it exists only for the duration of one validator
// pass.
type Inventory struct {
	items           map[game.Item]bool
	heartContainers int
	keys            int
	usedKeyDoors    map[keyUse]bool
	triforceLevels  map[int]bool
	progressing     bool
}

// NewInventory returns the starting inventory: 3 hearts, no items.
func NewInventory() *Inventory {
	return &Inventory{
		items:          make(map[game.Item]bool),
		heartContainers: 3,
		usedKeyDoors:   make(map[keyUse]bool),
		triforceLevels: make(map[int]bool),
	}
}

func (inv *Inventory) Has(it game.Item) bool { return inv.items[it] }

func (inv *Inventory) HeartCount() int    { return inv.heartContainers }
func (inv *Inventory) TriforceCount() int { return len(inv.triforceLevels) }

func (inv *Inventory) MarkProgress()      { inv.progressing = true }
func (inv *Inventory) ClearProgress()     { inv.progressing = false }
func (inv *Inventory) StillProgressing() bool { return inv.progressing }

// AddItem folds one collected item into the inventory, applying the
// progressive-item upgrade chains (a second wood sword becomes a
// white sword, a third becomes a magical sword, and so on) and
// ignoring decorative/non-progress items (maps, compasses, rupees,
// the sentinel "no item").
func (inv *Inventory) AddItem(it game.Item) {
	switch it {
	case game.ItemNoItem, game.ItemNothing, game.ItemMap, game.ItemCompass,
		game.ItemBombs, game.ItemFiveRupees, game.ItemRupee, game.ItemTriforceOfPower:
		return
	case game.ItemHeartContainer:
		inv.heartContainers++
		inv.MarkProgress()
		return
	case game.ItemSingleKey, game.ItemAnyKey:
		inv.keys++
		inv.MarkProgress()
		return
	}

	before := len(inv.items)
	switch {
	case it == game.ItemWoodSword && inv.items[game.ItemWhiteSword]:
		inv.items[game.ItemMagicalSword] = true
	case it == game.ItemWoodSword && inv.items[game.ItemWoodSword]:
		inv.items[game.ItemWhiteSword] = true
	case it == game.ItemBlueRing && inv.items[game.ItemBlueRing]:
		inv.items[game.ItemRedRing] = true
	case it == game.ItemBluCandle && inv.items[game.ItemBluCandle]:
		inv.items[game.ItemRedCandle] = true
	case it == game.ItemWoodArrow && inv.items[game.ItemWoodArrow]:
		inv.items[game.ItemSilverArrow] = true
	default:
		inv.items[it] = true
	}
	if len(inv.items) != before {
		inv.MarkProgress()
	}
}

// AddTriforceFragment records level's triforge piece; obtaining the
// same level's piece twice (a revisit) does not recount it.
func (inv *Inventory) AddTriforceFragment(level int) {
	if inv.triforceLevels[level] {
		return
	}
	inv.triforceLevels[level] = true
	inv.MarkProgress()
}

func (inv *Inventory) HasKey() bool {
	return inv.items[game.ItemMagicalKey] || inv.keys > 0
}

// UseKey spends one key on the door at (level, roomNum), unless the
// magical key (which never depletes) is held, or this exact door has
// already been paid for.
func (inv *Inventory) UseKey(level int, roomNum byte) {
	if inv.items[game.ItemMagicalKey] {
		return
	}
	k := keyUse{level, roomNum}
	if inv.usedKeyDoors[k] {
		return
	}
	inv.keys--
	inv.usedKeyDoors[k] = true
}

func (inv *Inventory) HasSword() bool {
	return inv.items[game.ItemWoodSword] || inv.items[game.ItemWhiteSword] || inv.items[game.ItemMagicalSword]
}

func (inv *Inventory) HasSwordOrWand() bool { return inv.HasSword() || inv.items[game.ItemWand] }

func (inv *Inventory) HasReusableWeapon() bool {
	return inv.HasSwordOrWand() || inv.items[game.ItemRedCandle]
}

func (inv *Inventory) HasBoomerang() bool {
	return inv.items[game.ItemBoomerang] || inv.items[game.ItemMagicalBoomerang]
}

func (inv *Inventory) HasReusableWeaponOrBoomerang() bool {
	return inv.HasReusableWeapon() || inv.HasBoomerang()
}

func (inv *Inventory) HasRecorderAndReusableWeapon() bool {
	return inv.items[game.ItemRecorder] && inv.HasReusableWeapon()
}

func (inv *Inventory) HasBowAndArrows() bool {
	return inv.items[game.ItemBow] && (inv.items[game.ItemWoodArrow] || inv.items[game.ItemSilverArrow])
}

func (inv *Inventory) HasBowSilverArrowsAndSword() bool {
	return inv.HasSword() && inv.items[game.ItemBow] && inv.items[game.ItemSilverArrow]
}

func (inv *Inventory) HasCandle() bool {
	return inv.items[game.ItemBluCandle] || inv.items[game.ItemRedCandle]
}

func (inv *Inventory) HasRing() bool {
	return inv.items[game.ItemBlueRing] || inv.items[game.ItemRedRing]
}
