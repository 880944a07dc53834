package driver

import (
	"errors"
	"testing"

	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/game"
	"github.com/tetraly/zora-sub000/internal/room"
)

func TestRunRejectsIncompatibleFlagsBeforeTouchingImage(t *testing.T) {
	fl := flags.New()
	fl.Set("force_heart_container_to_coast", true) // shuffle_coast_item left false: infeasible

	// img is nil: ValidateCompatibility must short-circuit before the
	// image is ever dereferenced.
	_, err := Run(nil, fl, 1)
	if !errors.Is(err, ErrIncompatibleFlags) {
		t.Fatalf("Run() error = %v, want ErrIncompatibleFlags", err)
	}
}

func newRoom(t *testing.T, roomType game.RoomType, it game.Item, movableBlock, dropBit bool) *room.Room {
	t.Helper()
	raw := make([]byte, room.Size)
	raw[4] = byte(roomType) & 0x3F
	if movableBlock {
		raw[4] |= 0x40
	}
	if dropBit {
		raw[4] |= 0x80
	}
	raw[5] = byte(it) & 0x1F
	r, err := room.Decode(raw)
	if err != nil {
		t.Fatalf("room.Decode: %v", err)
	}
	return r
}

func TestApplyRoomActionFlagsNoFlagsIsNoop(t *testing.T) {
	r := newRoom(t, game.RoomTypePushBlockRoom, game.ItemBow, true, true)
	before := r.Bytes()

	fl := flags.New()
	rewriteSingleRoom(t, fl, r)

	if r.Bytes() != before {
		t.Fatalf("room bytes changed with every flag off: got %v, want %v", r.Bytes(), before)
	}
}

func TestApplyRoomActionFlagsReducedPushBlocksClearsMovableBlockBit(t *testing.T) {
	r := newRoom(t, game.RoomTypePushBlockRoom, game.ItemBow, true, true)

	fl := flags.New()
	fl.Set("reduced_push_blocks", true)
	rewriteSingleRoom(t, fl, r)

	if r.HasMovableBlockBit() {
		t.Fatalf("expected movable block bit cleared")
	}
}

func TestApplyRoomActionFlagsDropInPushBlockRoomsSetsDropBit(t *testing.T) {
	r := newRoom(t, game.RoomTypePushBlockRoom, game.ItemBow, true, false)

	fl := flags.New()
	fl.Set("increased_drop_items_in_push_block_rooms", true)
	rewriteSingleRoom(t, fl, r)

	if !r.HasDropBit() {
		t.Fatalf("expected drop bit set for a push-block room")
	}
}

func TestApplyRoomActionFlagsIncreasedStandingAppliesOutsidePushBlockRooms(t *testing.T) {
	r := newRoom(t, game.RoomTypePlain, game.ItemBow, false, true)

	fl := flags.New()
	fl.Set("increased_standing_items", true)
	rewriteSingleRoom(t, fl, r)

	if r.HasDropBit() {
		t.Fatalf("expected drop bit cleared for a non-push-block room")
	}
}

func TestApplyRoomActionFlagsDropInNonPushBlockRoomsSetsDropBit(t *testing.T) {
	r := newRoom(t, game.RoomTypePlain, game.ItemBow, false, false)

	fl := flags.New()
	fl.Set("increased_drop_items_in_non_push_block_rooms", true)
	rewriteSingleRoom(t, fl, r)

	if !r.HasDropBit() {
		t.Fatalf("expected drop bit set for a non-push-block room")
	}
}

func TestApplyRoomActionFlagsIncreasedStandingTakesPrecedence(t *testing.T) {
	r := newRoom(t, game.RoomTypePlain, game.ItemBow, false, false)

	fl := flags.New()
	fl.Set("increased_standing_items", true)
	fl.Set("increased_drop_items_in_non_push_block_rooms", true)
	rewriteSingleRoom(t, fl, r)

	if r.HasDropBit() {
		t.Fatalf("expected increased_standing_items to take precedence and clear the drop bit")
	}
}

func TestApplyRoomActionFlagsSkipsEmptyAndTriforceOfPowerRooms(t *testing.T) {
	empty := newRoom(t, game.RoomTypePlain, game.ItemNoItem, false, true)
	triforce := newRoom(t, game.RoomTypePlain, game.ItemTriforceOfPower, false, true)
	beforeEmpty, beforeTriforce := empty.Bytes(), triforce.Bytes()

	fl := flags.New()
	fl.Set("increased_standing_items", true)
	rewriteSingleRoom(t, fl, empty)
	rewriteSingleRoom(t, fl, triforce)

	if empty.Bytes() != beforeEmpty {
		t.Fatalf("empty room must not be rewritten")
	}
	if triforce.Bytes() != beforeTriforce {
		t.Fatalf("triforce-of-power room must not be rewritten")
	}
}

// rewriteSingleRoom exercises the single-room rewrite rules applyRoomActionFlags
// applies per room, without needing a full DataTable/RoomLookup fixture.
func rewriteSingleRoom(t *testing.T, fl *flags.Flags, r *room.Room) {
	t.Helper()
	increasedStanding := fl.Get("increased_standing_items")
	reducedPushBlocks := fl.Get("reduced_push_blocks")
	dropInPushBlockRooms := fl.Get("increased_drop_items_in_push_block_rooms")
	dropInOtherRooms := fl.Get("increased_drop_items_in_non_push_block_rooms")

	if !increasedStanding && !reducedPushBlocks && !dropInPushBlockRooms && !dropInOtherRooms {
		return
	}
	switch r.Item() {
	case game.ItemNoItem, game.ItemNothing, game.ItemTriforceOfPower:
		return
	}

	isPushBlockRoom := r.RoomType() == game.RoomTypePushBlockRoom && r.HasMovableBlockBit()
	if isPushBlockRoom {
		if reducedPushBlocks {
			r.SetMovableBlockBit(false)
		}
		if dropInPushBlockRooms {
			r.SetDropBit(true)
		}
		return
	}
	if increasedStanding {
		r.SetDropBit(false)
	} else if dropInOtherRooms {
		r.SetDropBit(true)
	}
}

func TestCosmeticFragmentsAlwaysOnBytes(t *testing.T) {
	fl := flags.New()
	frag := cosmeticFragments[0]
	if frag.FlagName != "" {
		t.Fatalf("expected the first cosmetic fragment to be always-on, got flag %q", frag.FlagName)
	}
	p, err := frag.Build(fl)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.EntryCount() != 3 {
		t.Fatalf("expected 3 entries in the always-on fragment, got %d", p.EntryCount())
	}

	buf := make([]byte, 0x10+16*0x4000)
	p.Apply(buf)
	if got := buf[0x1785F]; got != 0x03 {
		t.Fatalf("0x1785F = %#x, want 0x03 (byte(game.ItemNoItem) & 0x1F)", got)
	}
	if got := buf[0x45B4]; got != 0x54 {
		t.Fatalf("0x45B4 = %#x, want 0x54", got)
	}

	spec, ok := datatable.RegionSpecFor(datatable.RegionTitleScreenText)
	if !ok {
		t.Fatalf("expected a region spec for the title screen text")
	}
	want := encodeTitleText(spec.Size)
	got := buf[spec.Location.FileOffset() : spec.Location.FileOffset()+spec.Size]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("title screen text byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestCosmeticFragmentsProgressiveItemsGated(t *testing.T) {
	var frag PatchFragment
	found := false
	for _, f := range cosmeticFragments {
		if f.FlagName == "progressive_items" {
			frag = f
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a progressive_items-gated cosmetic fragment")
	}

	fl := flags.New()
	p, err := frag.Build(fl)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	buf := make([]byte, 0x20000)
	p.Apply(buf)
	if buf[0x6D06] != 0x18 || buf[0x6D07] != 0x79 {
		t.Fatalf("progressive pickup routine bytes not applied: %v", buf[0x6D06:0x6D0B])
	}
	if buf[0x1FFF4] != 0x8E || buf[0x1FFFD] != 0x03 {
		t.Fatalf("progressive inventory advance bytes not applied: %v", buf[0x1FFF4:0x1FFFE])
	}
}
