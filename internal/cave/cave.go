// Package cave implements the six-byte Cave record: three item slots
// and three matching price bytes, plus the two "virtual caves"
// (Armos, Coast) synthesized from standalone ROM addresses.
package cave

import (
	"fmt"

	"github.com/tetraly/zora-sub000/internal/game"
)

// Size is the byte length of a Cave record.
const Size = 6

// NumPositions is the number of item slots a cave holds.
const NumPositions = 3

// legacyPriceTriple and its healed replacement: a data-healing quirk
// preserved for wire compatibility with ROMs produced by an older
// upstream tool.
var legacyPriceTriple = [3]byte{0x00, 0x0A, 0x00}
var healedPriceTriple = [3]byte{0x00, 0x1E, 0x00}

// Cave is the decoded view of one cave's item and price data.
type Cave struct {
	itemBytes  [NumPositions]byte // each byte's two high bits are opaque and preserved verbatim
	priceBytes [NumPositions]byte
}

// Decode parses a 6-byte cave record: three item bytes followed by
// three price bytes. It applies the legacy price-triple healing quirk.
func Decode(b []byte) (*Cave, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("cave: Decode: want %d bytes, got %d", Size, len(b))
	}
	c := &Cave{}
	copy(c.itemBytes[:], b[0:3])
	copy(c.priceBytes[:], b[3:6])
	if c.priceBytes == legacyPriceTriple {
		c.priceBytes = healedPriceTriple
	}
	return c, nil
}

// Bytes returns the record's current 6-byte encoding.
func (c *Cave) Bytes() [Size]byte {
	var out [Size]byte
	copy(out[0:3], c.itemBytes[:])
	copy(out[3:6], c.priceBytes[:])
	return out
}

func (c *Cave) checkPosition(pos int) {
	if pos < 0 || pos >= NumPositions {
		panic("cave: position out of range")
	}
}

// Item returns the item held at the given position (0..2). The two
// opaque high bits of the underlying byte are masked off.
func (c *Cave) Item(pos int) game.Item {
	c.checkPosition(pos)
	return game.Item(c.itemBytes[pos] & 0x3F)
}

// SetItem overwrites the item at the given position, preserving the
// byte's two opaque high bits.
func (c *Cave) SetItem(pos int, it game.Item) {
	c.checkPosition(pos)
	c.itemBytes[pos] = (c.itemBytes[pos] &^ 0x3F) | (byte(it) & 0x3F)
}

// Price returns the rupee price at the given position.
func (c *Cave) Price(pos int) byte {
	c.checkPosition(pos)
	return c.priceBytes[pos]
}

// SetPrice overwrites the rupee price at the given position.
func (c *Cave) SetPrice(pos int, price byte) {
	c.checkPosition(pos)
	c.priceBytes[pos] = price
}
