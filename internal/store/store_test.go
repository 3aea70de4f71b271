package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

func TestBuildUpdateClauseIsOrdered(t *testing.T) {
	got := buildUpdateClause(map[string]any{"payload": nil, "applicant_name": nil, "submitted_at": nil})
	assert.Equal(t, "applicant_name = EXCLUDED.applicant_name, payload = EXCLUDED.payload, submitted_at = EXCLUDED.submitted_at", got)
}

func TestSubmissionRowRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	sub := &types.Submission{
		ID:             "sub_1",
		BasicInfo:      types.BasicInfo{Applicant: types.Party{FullName: "דנה כהן", IDNumber: "123"}},
		SelectedClaims: []types.ClaimType{types.ClaimProperty, types.ClaimDivorce},
		Signature:      types.Payload("data:image/png;base64,AAAA"),
	}

	row, err := encodeSubmission(sub, now)
	require.NoError(t, err)
	assert.Equal(t, "דנה כהן", row.ApplicantName)
	assert.Equal(t, []string{"property", "divorce"}, row.SelectedClaims)
	assert.Equal(t, now, row.SubmittedAt)

	back, err := decodeSubmission(row)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, back.ID)
	assert.Equal(t, sub.SelectedClaims, back.SelectedClaims)
	assert.Equal(t, sub.Signature, back.Signature)
	assert.Equal(t, now, back.SubmittedAt)
}

func TestSubmissionUpsertQuery(t *testing.T) {
	row, err := encodeSubmission(&types.Submission{ID: "sub_2", SelectedClaims: []types.ClaimType{types.ClaimCustody}}, time.Now())
	require.NoError(t, err)

	query, args, err := submissionUpsert(row)
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO law4us.submissions")
	assert.Contains(t, query, "ON CONFLICT (id) DO UPDATE SET applicant_id_number = EXCLUDED.applicant_id_number")
	assert.NotContains(t, query, "id = EXCLUDED.id,")
	assert.NotContains(t, query, "created_at = EXCLUDED")
	assert.Contains(t, query, "$1")
	assert.Len(t, args, len(submissionColumns))
}
