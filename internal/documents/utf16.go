package documents

import "unicode/utf16"

// utf16Len counts the UTF-16 code units of s. LSP characters are counted
// in these units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// utf16ToByte returns the byte offset in line of the given UTF-16 unit
// count. A count that falls inside a surrogate pair clamps to the start of
// that rune; one past the end clamps to len(line).
func utf16ToByte(line string, units int) int {
	n := 0
	for i, r := range line {
		if n >= units {
			return i
		}
		n += utf16.RuneLen(r)
		if n > units {
			return i
		}
	}
	return len(line)
}
