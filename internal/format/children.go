package format

import (
	"strings"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// ChildBasic is the one line form used by claims that only need to identify the children.
func ChildBasic(c types.Child) string {
	return phrase(", ",
		strings.TrimSpace(c.FirstName+" "+c.LastName),
		prefixed("ת.ז. ", c.IDNumber),
		prefixed("יליד/ת ", FormatDate(c.BirthDate)),
	)
}

// ChildDetailed appends address, the other parent's name and the relationship paragraph.
// The relationship text is placed verbatim.
func ChildDetailed(c types.Child) string {
	return phrase("\n",
		ChildBasic(c),
		prefixed("כתובת: ", c.Address),
		prefixed("שם ההורה: ", c.NameOfParent),
		strings.TrimSpace(c.ChildRelationship),
	)
}

func ChildrenBasic(children []types.Child) string    { return List(children, ChildBasic) }
func ChildrenDetailed(children []types.Child) string { return List(children, ChildDetailed) }
