package control

import "unicode"

// Keys binds keyboard letters to stimuli. Screen y grows downwards, so w
// pushes the controlled body up the screen along -y.
var Keys = map[rune]Stimulus{
	'w': MinusY,
	's': PlusY,
	'a': MinusX,
	'd': PlusX,
	'i': PlusZ,
	'k': MinusZ,
}

// ForKey looks up a key case-insensitively.
func ForKey(r rune) (Stimulus, bool) {
	s, ok := Keys[unicode.ToLower(r)]
	return s, ok
}
