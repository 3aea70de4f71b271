package format

import (
	"strings"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// PartyIdentity renders the name, ID number and address of p. Blank parts are
// omitted together with their label.
func PartyIdentity(p types.Party) string {
	return phrase(", ",
		strings.TrimSpace(p.FullName),
		prefixed("ת.ז. ", p.IDNumber),
		prefixed("מ", p.Address),
	)
}

// PartyLine is PartyIdentity followed by the phone number, when there is one.
func PartyLine(p types.Party) string {
	return phrase(", ", PartyIdentity(p), prefixed("טלפון ", p.Phone))
}
