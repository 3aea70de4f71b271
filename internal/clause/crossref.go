package clause

import (
	"slices"
	"strings"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// NoChildrenMarker replaces the children listing when the parties have no shared children.
const NoChildrenMarker = "אין לצדדים ילדים משותפים."

var references = map[types.ClaimType]string{
	types.ClaimProperty: "ענייני הרכוש מוסדרים בתביעת הרכוש המצורפת, ראו תביעת הרכוש.",
	types.ClaimCustody:  "ענייני המשמורת וזמני השהות מוסדרים בתביעת המשמורת המצורפת, ראו תביעת המשמורת.",
	types.ClaimAlimony:  "ענייני המזונות מוסדרים בתביעת המזונות המצורפת, ראו תביעת המזונות.",
}

// AgreementSection renders one topic of a divorce agreement. A referenceClaim section
// points at the separately filed claim when that claim is selected; when it is not, the
// section falls back to its own text. A custom section is its text verbatim.
func AgreementSection(topic types.ClaimType, section types.AgreementSection, selected []types.ClaimType) string {
	switch section.Mode {
	case types.SectionReferenceClaim:
		if ref, ok := references[topic]; ok && slices.Contains(selected, topic) {
			return ref
		}
		return strings.TrimSpace(section.Text)
	case types.SectionCustom:
		return strings.TrimSpace(section.Text)
	default:
		return ""
	}
}

// ChildrenOrMarker returns the formatted children listing, or the no-children marker.
func ChildrenOrMarker(formatted string, count int) string {
	if count == 0 {
		return NoChildrenMarker
	}
	return formatted
}
