package datatable

import (
	"fmt"

	"github.com/tetraly/zora-sub000/internal/addr"
)

// RegionName identifies one generic named ROM region: a handful of
// small, self-contained byte ranges (title-screen text, palette sets,
// the hint-writer's character table) that don't fit the room/cave/
// overworld table shapes but still need read/write access and a
// vanilla default for reset.
type RegionName int

const (
	RegionTitleScreenText RegionName = iota
	RegionFileSelectPalette
	RegionHintCharacterTable
	RegionHashCodeDisplay
	RegionRecorderWarpTable
	RegionHeartRequirements
	RegionLostHillsSequence
	RegionDeadWoodsSequence
)

// RegionSpec describes one named region's location, size, and
// read/write permissions, mirroring the teacher's named-mutable-region
// contract.
type RegionSpec struct {
	Name     RegionName
	Location addr.Addr
	Size     int
	Readable bool
	Writable bool
	Default  []byte
}

// regionRegistry is the fixed catalogue of named regions this
// randomizer knows about.
var regionRegistry = map[RegionName]RegionSpec{
	RegionTitleScreenText: {
		Name:     RegionTitleScreenText,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x100},
		Size:     32,
		Readable: true,
		Writable: true,
		Default:  make([]byte, 32),
	},
	RegionFileSelectPalette: {
		Name:     RegionFileSelectPalette,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x120},
		Size:     16,
		Readable: true,
		Writable: true,
		Default:  make([]byte, 16),
	},
	RegionHintCharacterTable: {
		Name:     RegionHintCharacterTable,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x140},
		Size:     48,
		Readable: true,
		Writable: false,
		Default:  make([]byte, 48),
	},
	RegionHashCodeDisplay: {
		Name:     RegionHashCodeDisplay,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x180},
		Size:     4,
		Readable: true,
		Writable: true,
		Default:  make([]byte, 4),
	},
	RegionRecorderWarpTable: {
		Name:     RegionRecorderWarpTable,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x190},
		Size:     16, // 8 levels x {target screen, Y coordinate}
		Readable: true,
		Writable: true,
		Default:  make([]byte, 16),
	},
	RegionHeartRequirements: {
		Name:     RegionHeartRequirements,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x1A0},
		Size:     2, // white-sword cave, magical-sword cave; each (hearts-1)*16
		Readable: true,
		Writable: true,
		Default:  []byte{0x30, 0x90}, // vanilla 4 hearts, 10 hearts
	},
	RegionLostHillsSequence: {
		Name:     RegionLostHillsSequence,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x1A4},
		Size:     4,
		Readable: true,
		Writable: true,
		Default:  make([]byte, 4),
	},
	RegionDeadWoodsSequence: {
		Name:     RegionDeadWoodsSequence,
		Location: addr.Addr{Bank: bankTriforceRooms, CPU: addr.PRGBankBase + 0x1A8},
		Size:     4,
		Readable: true,
		Writable: true,
		Default:  make([]byte, 4),
	},
}

// RegionSpecFor exposes a named region's metadata to callers (the
// driver uses it to locate the title-screen text and hash-code display
// regions).
func RegionSpecFor(name RegionName) (RegionSpec, bool) {
	spec, ok := regionRegistry[name]
	return spec, ok
}

// ReadRegion returns the current bytes of a named region. It is an
// error to read a region marked unreadable or one not in the
// registry.
func (dt *DataTable) ReadRegion(name RegionName) ([]byte, error) {
	spec, ok := regionRegistry[name]
	if !ok {
		return nil, fmt.Errorf("datatable: unknown region %d", name)
	}
	if !spec.Readable {
		return nil, fmt.Errorf("datatable: region %d is not readable", name)
	}
	if v, ok := dt.regionOverrides[name]; ok {
		return append([]byte(nil), v...), nil
	}
	return append([]byte(nil), spec.Default...), nil
}

// WriteRegion overwrites a named region's bytes, staged in memory
// until the next BuildPatch call. It is an error to write a region
// marked unwritable, or to write the wrong number of bytes.
func (dt *DataTable) WriteRegion(name RegionName, data []byte) error {
	spec, ok := regionRegistry[name]
	if !ok {
		return fmt.Errorf("datatable: unknown region %d", name)
	}
	if !spec.Writable {
		return fmt.Errorf("datatable: region %d is not writable", name)
	}
	if len(data) != spec.Size {
		return fmt.Errorf("datatable: region %d wants %d bytes, got %d", name, spec.Size, len(data))
	}
	if dt.regionOverrides == nil {
		dt.regionOverrides = make(map[RegionName][]byte)
	}
	dt.regionOverrides[name] = append([]byte(nil), data...)
	return nil
}
