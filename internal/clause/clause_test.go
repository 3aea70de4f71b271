package clause

import (
	"testing"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(sel []types.ClauseSelection) []string {
	out := make([]string, len(sel))
	for i, s := range sel {
		out[i] = s.ID
	}
	return out
}

func TestIncomeDisparityThreshold(t *testing.T) {
	assert.True(t, HasIncomeDisparity(20000, 10000), "ratio exactly 2.0 is included")
	assert.True(t, HasIncomeDisparity(10000, 20000))
	assert.False(t, HasIncomeDisparity(19999, 10000))
	assert.True(t, HasIncomeDisparity(8000, 0))
	assert.False(t, HasIncomeDisparity(0, 0))
}

func TestSelectPropertyBoundary(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	at := cat.Select(types.ClaimProperty, Facts{ApplicantIncome: 20000, RespondentIncome: 10000})
	assert.Contains(t, ids(at), "unequalDivision")

	below := cat.Select(types.ClaimProperty, Facts{ApplicantIncome: 19999, RespondentIncome: 10000})
	assert.NotContains(t, ids(below), "unequalDivision")
}

func TestOrdinalStability(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	with := cat.Select(types.ClaimProperty, Facts{ApplicantIncome: 30000, RespondentIncome: 10000})
	without := cat.Select(types.ClaimProperty, Facts{ApplicantIncome: 12000, RespondentIncome: 10000})

	if diff := cmp.Diff([]string{"equalDivision", "unequalDivision", "appraiser", "debtsDivision", "costs"}, ids(with)); diff != "" {
		t.Fatalf("with disparity (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"equalDivision", "appraiser", "debtsDivision", "costs"}, ids(without)); diff != "" {
		t.Fatalf("without disparity (-want +got):\n%s", diff)
	}

	// the conditional clause sits at its declared position, ordinal 2
	assert.Equal(t, 2, with[1].Ordinal)
	assert.Equal(t, "unequalDivision", with[1].ID)

	// ordinals stay contiguous from 1 in both configurations
	for _, sel := range [][]types.ClauseSelection{with, without} {
		for i, s := range sel {
			assert.Equal(t, i+1, s.Ordinal)
		}
	}

	// the base clause at ordinal 1 is untouched
	assert.Equal(t, with[0], without[0])
}

func TestSelectIsDeterministic(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	facts := Facts{ApplicantIncome: 5000, RespondentIncome: 25000, Children: 2, WelfareReport: true, SpousalSupport: true}
	for _, claim := range types.CanonicalClaimOrder {
		first := cat.Select(claim, facts)
		for range 5 {
			if diff := cmp.Diff(first, cat.Select(claim, facts)); diff != "" {
				t.Fatalf("%s selection changed (-first +again):\n%s", claim, diff)
			}
		}
	}
}

func TestChildrenConditions(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	none := cat.Select(types.ClaimCustody, Facts{})
	assert.Equal(t, []string{"noSharedChildren", "costs"}, ids(none))

	two := cat.Select(types.ClaimCustody, Facts{Children: 2, WelfareReport: true})
	assert.Equal(t, []string{"custodyOrder", "visitation", "welfareReport", "costs"}, ids(two))

	alimony := cat.Select(types.ClaimAlimony, Facts{Children: 1})
	assert.Equal(t, []string{"childSupport", "extraordinaryExpenses", "linkage", "costs"}, ids(alimony))
}

func TestParseRejectsBadCatalogues(t *testing.T) {
	_, err := Parse([]byte("remedies:\n  pets:\n    - id: a\n      text: x\n"))
	assert.ErrorIs(t, err, types.ErrUnknownClaim)

	_, err = Parse([]byte("remedies:\n  property:\n    - id: a\n      text: x\n      when: sometimes\n"))
	assert.ErrorContains(t, err, "unknown condition")

	_, err = Parse([]byte("remedies:\n  property:\n    - id: a\n      text: x\n    - id: a\n      text: y\n"))
	assert.ErrorContains(t, err, "duplicate clause")
}

func TestAgreementSection(t *testing.T) {
	selected := []types.ClaimType{types.ClaimDivorceAgreement, types.ClaimProperty}

	ref := AgreementSection(types.ClaimProperty, types.AgreementSection{Mode: types.SectionReferenceClaim}, selected)
	assert.Contains(t, ref, "ראו תביעת הרכוש")

	fallback := AgreementSection(types.ClaimCustody,
		types.AgreementSection{Mode: types.SectionReferenceClaim, Text: "המשמורת תהיה משותפת."}, selected)
	assert.Equal(t, "המשמורת תהיה משותפת.", fallback)

	custom := AgreementSection(types.ClaimAlimony,
		types.AgreementSection{Mode: types.SectionCustom, Text: " האב ישלם 3,000 ₪ לחודש. "}, selected)
	assert.Equal(t, "האב ישלם 3,000 ₪ לחודש.", custom)

	assert.Equal(t, "", AgreementSection(types.ClaimAlimony, types.AgreementSection{Mode: types.SectionNone, Text: "x"}, selected))
}

func TestChildrenOrMarker(t *testing.T) {
	assert.Equal(t, NoChildrenMarker, ChildrenOrMarker("", 0))
	assert.Equal(t, "נועה", ChildrenOrMarker("נועה", 1))
}
