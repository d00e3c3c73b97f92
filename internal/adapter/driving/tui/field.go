package tui

import "strings"

// maxFieldLen caps input per field.
const maxFieldLen = 128

// field is a single-line text input. The cursor always sits at the end.
type field struct {
	value  []rune
	masked bool
}

func (f *field) insert(r []rune) {
	for _, c := range r {
		if len(f.value) >= maxFieldLen {
			return
		}
		if c < ' ' {
			continue
		}
		f.value = append(f.value, c)
	}
}

func (f *field) backspace() {
	if len(f.value) > 0 {
		f.value = f.value[:len(f.value)-1]
	}
}

func (f *field) clear() {
	f.value = nil
}

func (f field) String() string {
	return string(f.value)
}

// display returns the text drawn on screen; masked fields show one bullet
// per rune.
func (f field) display() string {
	if f.masked {
		return strings.Repeat("•", len(f.value))
	}
	return string(f.value)
}
