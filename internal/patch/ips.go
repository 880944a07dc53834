package patch

import (
	"encoding/binary"
	"fmt"
)

var ipsMagic = []byte("PATCH")
var ipsEOF = []byte("EOF")

// AddFromIPS parses an International Patching System overlay and adds
// every record it contains to the patch. IPS records are
// {offset:u24-be, size:u16-be, data}; size==0 encodes a run-length
// record {count:u16-be, byte:u8} instead of literal data. The file
// ends with the 3-byte literal "EOF" in place of an offset.
func (p *Patch) AddFromIPS(data []byte) error {
	if len(data) < 5 || string(data[0:5]) != string(ipsMagic) {
		return fmt.Errorf("patch: AddFromIPS: missing PATCH header")
	}
	i := 5
	for {
		if i+3 > len(data) {
			return fmt.Errorf("patch: AddFromIPS: truncated record at offset %d", i)
		}
		if string(data[i:i+3]) == string(ipsEOF) {
			return nil
		}
		offset := int(data[i])<<16 | int(data[i+1])<<8 | int(data[i+2])
		i += 3

		if i+2 > len(data) {
			return fmt.Errorf("patch: AddFromIPS: truncated size field at offset %d", i)
		}
		size := int(binary.BigEndian.Uint16(data[i : i+2]))
		i += 2

		if size == 0 {
			// RLE record.
			if i+3 > len(data) {
				return fmt.Errorf("patch: AddFromIPS: truncated RLE record at offset %d", i)
			}
			count := int(binary.BigEndian.Uint16(data[i : i+2]))
			fill := data[i+2]
			i += 3
			run := make([]byte, count)
			for j := range run {
				run[j] = fill
			}
			p.Add(offset, run, nil, "ips overlay (rle)")
			continue
		}

		if i+size > len(data) {
			return fmt.Errorf("patch: AddFromIPS: truncated data record at offset %d", i)
		}
		p.Add(offset, data[i:i+size], nil, "ips overlay")
		i += size
	}
}
