package utils

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// IDs appear in storage keys and URLs, so the alphabet is limited to characters that
// need no escaping in either.
var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// ValidID reports whether id is non-empty, at most 64 characters and uses only the ID
// alphabet plus '_' and '-', which hand-written seed IDs may contain.
func ValidID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(nanoidAlphabet, r) && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
