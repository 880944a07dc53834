// Package addr translates between CPU addresses (as used by the 6502
// program code baked into the ROM) and file offsets into the ROM image
// on disk. The two differ by the 16-byte iNES header plus a
// bank-relative adjustment, mirroring the split the original game's
// own memory map imposes.
package addr

// HeaderSize is the length of the iNES header prefixed to the PRG/CHR
// data in the ROM file.
const HeaderSize = 0x10

// BankSize is the size of one PRG-ROM bank as mapped into CPU space.
const BankSize = 0x4000

// PRGBankBase is the CPU address at which banked PRG-ROM is mapped.
const PRGBankBase = 0x8000

// Addr is a fully-specified ROM address: a bank number plus a
// CPU-space offset within that bank.
type Addr struct {
	Bank uint8
	CPU  uint16
}

// FileOffset returns the address's position in the ROM file, including
// the iNES header.
func (a Addr) FileOffset() int {
	if a.CPU < PRGBankBase {
		// Fixed bank: addressed directly, no bank multiplication.
		return HeaderSize + int(a.CPU)
	}
	return HeaderSize + int(a.Bank)*BankSize + int(a.CPU-PRGBankBase)
}

// FromFileOffset reconstructs the bank/CPU pair that produced a given
// file offset, assuming the offset falls within banked PRG-ROM space.
func FromFileOffset(offset int) Addr {
	rel := offset - HeaderSize
	bank := uint8(rel / BankSize)
	cpu := uint16(rel%BankSize) + PRGBankBase
	return Addr{Bank: bank, CPU: cpu}
}
