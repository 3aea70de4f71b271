package types

import (
	"fmt"
	"slices"
)

type ClaimType string

const (
	ClaimProperty         ClaimType = "property"
	ClaimCustody          ClaimType = "custody"
	ClaimAlimony          ClaimType = "alimony"
	ClaimDivorce          ClaimType = "divorce"
	ClaimDivorceAgreement ClaimType = "divorceAgreement"
)

// CanonicalClaimOrder is the order claim sections appear in a combined document,
// independent of the order the wizard recorded them in.
var CanonicalClaimOrder = []ClaimType{
	ClaimProperty,
	ClaimAlimony,
	ClaimCustody,
	ClaimDivorce,
	ClaimDivorceAgreement,
}

var claimLabels = map[ClaimType]string{
	ClaimProperty:         "תביעת רכוש",
	ClaimCustody:          "תביעת משמורת",
	ClaimAlimony:          "תביעת מזונות",
	ClaimDivorce:          "תביעת גירושין",
	ClaimDivorceAgreement: "הסכם גירושין",
}

func (c ClaimType) Valid() bool {
	_, ok := claimLabels[c]
	return ok
}

// Label is the Hebrew name of the claim, used for section titles and upload folders.
func (c ClaimType) Label() string {
	return claimLabels[c]
}

func (c ClaimType) String() string {
	return string(c)
}

func ParseClaimType(s string) (ClaimType, error) {
	c := ClaimType(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownClaim, s)
	}
	return c, nil
}

// SortClaims returns a copy of claims in canonical order.
func SortClaims(claims []ClaimType) []ClaimType {
	out := make([]ClaimType, 0, len(claims))
	for _, c := range CanonicalClaimOrder {
		if slices.Contains(claims, c) {
			out = append(out, c)
		}
	}
	return out
}
