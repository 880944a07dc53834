package hints

// charToByte is the 46-entry printable character table hint text is
// encoded against. Characters outside this set fall back to the pad
// byte 0x25 rather than failing the whole hint.
var charToByte = map[byte]byte{
	'0': 0x00, '1': 0x01, '2': 0x02, '3': 0x03, '4': 0x04,
	'5': 0x05, '6': 0x06, '7': 0x07, '8': 0x08, '9': 0x09,
	'A': 0x0A, 'B': 0x0B, 'C': 0x0C, 'D': 0x0D, 'E': 0x0E,
	'F': 0x0F, 'G': 0x10, 'H': 0x11, 'I': 0x12, 'J': 0x13,
	'K': 0x14, 'L': 0x15, 'M': 0x16, 'N': 0x17, 'O': 0x18,
	'P': 0x19, 'Q': 0x1A, 'R': 0x1B, 'S': 0x1C, 'T': 0x1D,
	'U': 0x1E, 'V': 0x1F, 'W': 0x20, 'X': 0x21, 'Y': 0x22,
	'Z': 0x23, ' ': 0x24, '~': 0x25, ',': 0x28, '!': 0x29,
	'\'': 0x2A, '&': 0x2B, '.': 0x2C, '"': 0x2D, '?': 0x2E,
	'-': 0x2F,
}

const (
	padByte     = 0x25
	blankSpace  = 0x24
	maxLineLen  = 22
	bitEndLine1 = 0x80
	bitEndLine2 = 0x40
	bitEndText  = 0xC0
)

// encodeText implements the centering, padding and line-break
// encoding rules: 1-3 lines, each up to 22 printable characters,
// leading-space padded and roughly centered, with the continuation
// bits set on the last byte of every line but the final one and the
// end-of-text bits set on the true final byte. A hint with no content
// on any line encodes as the fixed two-byte blank form.
func encodeText(lines []string) []byte {
	hasContent := false
	for _, l := range lines {
		if trimTrailingSpace(l) != "" {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return []byte{blankSpace, blankSpace | bitEndText}
	}

	var out []byte
	for i, line := range lines {
		line = trimTrailingSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxLineLen {
			line = line[:maxLineLen]
		}

		left := leadingPadding(len(line))
		for n := 0; n < left; n++ {
			out = append(out, padByte)
		}
		for j := 0; j < len(line); j++ {
			out = append(out, encodeChar(line[j]))
		}

		if i < len(lines)-1 {
			switch i {
			case 0:
				out[len(out)-1] |= bitEndLine1
			case 1:
				out[len(out)-1] |= bitEndLine2
			}
		}
	}
	if len(out) > 0 {
		out[len(out)-1] |= bitEndText
	}
	return out
}

// leadingPadding mirrors the original's centering arithmetic: 22 text
// positions are available per line, at least one of which is always a
// leading pad byte; when there's room to center, the remaining padding
// is split with a left-side bias on odd totals.
func leadingPadding(lineLen int) int {
	available := maxLineLen - lineLen
	if available < 2 {
		return 1
	}
	if available%2 == 0 {
		return available/2 + 1
	}
	return available/2 + 2
}

// EncodeSingleLine encodes s against the same character table as
// hint text, with no padding, centering, or line-break bits — for
// fixed-width ROM text fields outside the hint system (title screen,
// file-select strings) that want the character set but not the hint
// layout rules.
func EncodeSingleLine(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = encodeChar(s[i])
	}
	return out
}

func encodeChar(c byte) byte {
	upper := c
	if upper >= 'a' && upper <= 'z' {
		upper -= 'a' - 'A'
	}
	if b, ok := charToByte[upper]; ok {
		return b
	}
	return padByte
}

func trimTrailingSpace(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == ' ' {
		i--
	}
	return s[:i]
}
