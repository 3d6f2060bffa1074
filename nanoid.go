package pollnet

import (
	"crypto/rand"
)

// nanoidAlphabet is the standard URL-safe nanoid alphabet.
const nanoidAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"

// nanoidLength is the standard nanoid default id size.
const nanoidLength = 21

// NewID returns a random URL-safe identifier, the Go-native replacement
// for get_nanoid(): ID generation is an out-of-scope "tiny utility" per
// the library's own framing of external collaborators, and no package
// anywhere in the surrounding ecosystem reference set provides nanoid,
// so this draws directly on crypto/rand rather than a third-party
// generator.
func NewID() string {
	buf := make([]byte, nanoidLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failing means the OS entropy source is broken
	}
	id := make([]byte, nanoidLength)
	for i, b := range buf {
		id[i] = nanoidAlphabet[int(b)%len(nanoidAlphabet)]
	}
	return string(id)
}
