package driver

import (
	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/game"
)

// applyRoomActionFlags adjusts how dungeon items are gated by combat
// and push-blocks, per the four difficulty flags. It operates on the
// room's drop bit (standing item vs. combat-gated item) and movable
// block bit (push-block required vs. not), since this is what the
// validator actually reads to decide whether an item is reachable —
// not the room's action/secret-trigger field, which the validator
// never consults for item collection.
func applyRoomActionFlags(dt *datatable.DataTable, fl *flags.Flags) {
	increasedStanding := fl.Get("increased_standing_items")
	reducedPushBlocks := fl.Get("reduced_push_blocks")
	dropInPushBlockRooms := fl.Get("increased_drop_items_in_push_block_rooms")
	dropInOtherRooms := fl.Get("increased_drop_items_in_non_push_block_rooms")

	if !increasedStanding && !reducedPushBlocks && !dropInPushBlockRooms && !dropInOtherRooms {
		return
	}

	for level := 1; level <= datatable.NumLevels; level++ {
		lookup := dt.RoomLookup(level)
		for roomNum := 0; roomNum < datatable.RoomsPerLevel; roomNum++ {
			r := lookup(byte(roomNum))
			if r == nil {
				continue
			}
			switch r.Item() {
			case game.ItemNoItem, game.ItemNothing, game.ItemTriforceOfPower:
				continue
			}

			isPushBlockRoom := r.RoomType() == game.RoomTypePushBlockRoom && r.HasMovableBlockBit()
			if isPushBlockRoom {
				if reducedPushBlocks {
					r.SetMovableBlockBit(false)
				}
				if dropInPushBlockRooms {
					r.SetDropBit(true)
				}
				continue
			}

			if increasedStanding {
				r.SetDropBit(false)
			} else if dropInOtherRooms {
				r.SetDropBit(true)
			}
		}
	}
}
