package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// SubmissionSaver is satisfied by store.SubmissionRepository.
type SubmissionSaver interface {
	SaveSubmission(ctx context.Context, sub *types.Submission) error
}

// Submissions returns the demo submissions used for local development. IDs are fixed so
// reseeding updates rows in place.
//
// To generate new IDs: `go run ./cmd/law4us nanoid`
func Submissions() []*types.Submission {
	submittedAt := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	return []*types.Submission{
		{
			ID: "q7WcN2kz0dXbYv4LmA9sTf3RhJ6uPe1G",
			BasicInfo: types.BasicInfo{
				Applicant: types.Party{
					FullName: "מיכל לוי",
					IDNumber: "012345674",
					Address:  "רחוב הרצל 12, תל אביב",
					Phone:    "050-1234567",
					Gender:   "female",
				},
				Respondent: types.Party{
					FullName: "אבי לוי",
					IDNumber: "023456789",
					Address:  "רחוב ויצמן 4, רמת גן",
					Gender:   "male",
				},
				MarriageDate:     "2010-06-24",
				RelationshipType: "married",
			},
			SelectedClaims: []types.ClaimType{types.ClaimProperty, types.ClaimCustody, types.ClaimAlimony},
			FormData: types.FormData{
				Children: []types.Child{
					{FirstName: "נועה", LastName: "לוי", IDNumber: "334455667", BirthDate: "2012-03-01", NameOfParent: "מיכל לוי", ChildRelationship: "נועה מתגוררת עם אמה ורואה את אביה פעמיים בשבוע."},
					{FirstName: "יונתן", LastName: "לוי", IDNumber: "445566778", BirthDate: "2016-09-17", NameOfParent: "מיכל לוי"},
				},
				Property: &types.PropertyClaim{
					Apartments:       []types.FinancialItem{{Description: "דירת 4 חדרים ברחוב הרצל", Value: "2,400,000", Owner: "משותף", PurchaseDate: "2011-02-01"}},
					Vehicles:         []types.FinancialItem{{Description: "טויוטה קורולה 2019", Value: "85,000", Owner: "הנתבע"}},
					Savings:          []types.FinancialItem{{Description: "חשבון חיסכון בבנק לאומי", Amount: "120,000"}},
					Benefits:         []types.FinancialItem{{Description: "קרן השתלמות", Amount: "64,000"}},
					Debts:            []types.FinancialItem{{Description: "משכנתא", Amount: "900,000", Creditor: "בנק מזרחי טפחות"}},
					ApplicantIncome:  "9,500",
					RespondentIncome: "28,000",
				},
				Custody: &types.CustodyClaim{
					RequestedArrangement: "משמורת אצל האם עם הסדרי שהות רחבים לאב",
					VisitationProposal:   "ימי שני ורביעי ממוצאי הלימודים ועד 19:30, וסוף שבוע לסירוגין",
					WelfareReport:        "yes",
				},
				Alimony: &types.AlimonyClaim{
					RequestedAmount:  "6,500",
					ApplicantIncome:  "9,500",
					RespondentIncome: "28,000",
					Needs:            "מזון, ביגוד, חינוך, חוגים והוצאות רפואיות",
				},
			},
			SubmittedAt: submittedAt,
		},
		{
			ID: "Hx3Ke8pR5vYq1TnD0wZbLc7MfG2sUa9J",
			BasicInfo: types.BasicInfo{
				Applicant:        types.Party{FullName: "רונית כהן", IDNumber: "034567894", Address: "רחוב הנביאים 8, חיפה"},
				Respondent:       types.Party{FullName: "דוד כהן", IDNumber: "045678904", Address: "רחוב יפו 30, ירושלים"},
				MarriageDate:     "2015-11-05",
				RelationshipType: "married",
			},
			SelectedClaims: []types.ClaimType{types.ClaimDivorce, types.ClaimDivorceAgreement},
			FormData: types.FormData{
				Divorce: &types.DivorceClaim{
					Reasons:        "הצדדים חיים בנפרד מזה שנתיים ואין סיכוי לשלום בית.",
					SeparationDate: "2022-08-01",
					ReligiousCourt: "no",
				},
				DivorceAgreement: &types.DivorceAgreementClaim{
					Property:        types.AgreementSection{Mode: types.SectionCustom, Text: "הדירה תימכר והתמורה תחולק שווה בשווה."},
					Custody:         types.AgreementSection{Mode: types.SectionNone},
					Alimony:         types.AgreementSection{Mode: types.SectionNone},
					AgreementDate:   "2024-01-02",
					AdditionalTerms: "לצדדים אין ולא יהיו כל טענות ותביעות נוספות זה כלפי זה.",
				},
			},
			SubmittedAt: submittedAt.Add(48 * time.Hour),
		},
	}
}

// SeedSubmissions upserts every demo submission.
func SeedSubmissions(ctx context.Context, repo SubmissionSaver) error {
	subs := Submissions()
	fmt.Printf("Seeding %d submissions...\n", len(subs))

	for _, sub := range subs {
		if err := sub.Validate(); err != nil {
			return fmt.Errorf("invalid seed submission %s: %w", sub.ID, err)
		}

		fmt.Printf("  Upserting submission: %s (%s)\n", sub.ID, sub.BasicInfo.Applicant.FullName)
		if err := repo.SaveSubmission(ctx, sub); err != nil {
			return fmt.Errorf("failed to upsert submission %s: %w", sub.ID, err)
		}
	}

	fmt.Printf("\nSeed complete: %d upserted\n", len(subs))
	return nil
}
