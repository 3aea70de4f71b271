package compose

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Law4Us/Law4Us-sub002/internal/clause"
	"github.com/Law4Us/Law4Us-sub002/internal/format"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

// Lawyer identifies the filing attorney named in the power of attorney.
type Lawyer struct {
	Name    string
	License string
}

var relationshipTypes = map[string]string{
	"married":   "נשואים",
	"commonLaw": "ידועים בציבור",
}

// Values builds the flat token map every template of a submission is filled from.
// Claim sub-objects that were not supplied contribute empty strings.
func Values(sub *types.Submission, claims []types.ClaimType, now time.Time, lawyer Lawyer) map[string]any {
	info := sub.BasicInfo
	children := sub.FormData.Children

	v := map[string]any{
		"date":             format.FormatDate(now.Format("2006-01-02")),
		"claimTitles":      claimTitles(claims),
		"lawyerName":       lawyer.Name,
		"lawyerLicense":    lawyer.License,
		"marriageDate":     format.FormatDate(info.MarriageDate),
		"relationshipType": relationshipType(info.RelationshipType),
		"childrenBasic":    format.ChildrenBasic(children),
		"childrenDetailed": clause.ChildrenOrMarker(format.ChildrenDetailed(children), len(children)),
		"childrenCount":    strconv.Itoa(len(children)),
	}
	party(v, "applicant", info.Applicant)
	party(v, "respondent", info.Respondent)

	property := sub.FormData.Property
	if property == nil {
		property = &types.PropertyClaim{}
	}
	v["apartments"] = format.Apartments(property.Apartments)
	v["vehicles"] = format.Vehicles(property.Vehicles)
	v["savings"] = format.Savings(property.Savings)
	v["benefits"] = format.Benefits(property.Benefits)
	v["debts"] = format.Debts(property.Debts)
	v["totalSavings"] = format.FormatAmount(format.TotalSavings(property.Savings))
	v["totalBenefits"] = format.FormatAmount(format.TotalBenefits(property.Benefits))
	v["totalDebts"] = format.FormatAmount(format.TotalDebts(property.Debts))
	v["applicantIncome"] = format.FormatFigure(string(property.ApplicantIncome))
	v["respondentIncome"] = format.FormatFigure(string(property.RespondentIncome))
	v["incomeRatio"] = ratio(format.IncomeRatio(
		format.ParseAmount(string(property.ApplicantIncome)),
		format.ParseAmount(string(property.RespondentIncome)),
	))
	v["propertyDetails"] = strings.TrimSpace(property.Details)

	alimony := sub.FormData.Alimony
	if alimony == nil {
		alimony = &types.AlimonyClaim{}
	}
	v["alimonyAmount"] = format.FormatFigure(string(alimony.RequestedAmount))
	v["alimonyNeeds"] = strings.TrimSpace(alimony.Needs)
	v["alimonyApplicantIncome"] = format.FormatFigure(string(alimony.ApplicantIncome))
	v["alimonyRespondentIncome"] = format.FormatFigure(string(alimony.RespondentIncome))
	v["spousalSupport"] = format.YesNo(alimony.SpousalSupport)

	custody := sub.FormData.Custody
	if custody == nil {
		custody = &types.CustodyClaim{}
	}
	v["custodyArrangement"] = strings.TrimSpace(custody.RequestedArrangement)
	v["visitationProposal"] = strings.TrimSpace(custody.VisitationProposal)
	v["custodyReasons"] = strings.TrimSpace(custody.Reasons)
	v["welfareReport"] = format.YesNo(custody.WelfareReport)

	divorce := sub.FormData.Divorce
	if divorce == nil {
		divorce = &types.DivorceClaim{}
	}
	v["separationDate"] = format.FormatDate(divorce.SeparationDate)
	v["divorceReasons"] = strings.TrimSpace(divorce.Reasons)
	v["religiousCourt"] = format.YesNo(divorce.ReligiousCourt)

	agreement := sub.FormData.DivorceAgreement
	if agreement == nil {
		agreement = &types.DivorceAgreementClaim{}
	}
	v["agreementDate"] = format.FormatDate(agreement.AgreementDate)
	v["agreementProperty"] = clause.AgreementSection(types.ClaimProperty, agreement.Property, sub.SelectedClaims)
	v["agreementCustody"] = clause.AgreementSection(types.ClaimCustody, agreement.Custody, sub.SelectedClaims)
	v["agreementAlimony"] = clause.AgreementSection(types.ClaimAlimony, agreement.Alimony, sub.SelectedClaims)
	v["additionalTerms"] = strings.TrimSpace(agreement.AdditionalTerms)

	return v
}

// Facts computes the clause selection inputs for one claim.
func Facts(sub *types.Submission, claim types.ClaimType) clause.Facts {
	f := clause.Facts{Children: len(sub.FormData.Children)}

	switch claim {
	case types.ClaimProperty:
		if p := sub.FormData.Property; p != nil {
			f.ApplicantIncome = format.ParseAmount(string(p.ApplicantIncome))
			f.RespondentIncome = format.ParseAmount(string(p.RespondentIncome))
		}
	case types.ClaimAlimony:
		if a := sub.FormData.Alimony; a != nil {
			f.ApplicantIncome = format.ParseAmount(string(a.ApplicantIncome))
			f.RespondentIncome = format.ParseAmount(string(a.RespondentIncome))
			f.SpousalSupport = format.IsYes(a.SpousalSupport)
		}
	case types.ClaimCustody:
		if c := sub.FormData.Custody; c != nil {
			f.WelfareReport = format.IsYes(c.WelfareReport)
		}
	}
	return f
}

func party(v map[string]any, prefix string, p types.Party) {
	v[prefix+"Name"] = strings.TrimSpace(p.FullName)
	v[prefix+"Id"] = strings.TrimSpace(p.IDNumber)
	v[prefix+"Address"] = strings.TrimSpace(p.Address)
	v[prefix+"Phone"] = strings.TrimSpace(p.Phone)
	v[prefix+"Email"] = strings.TrimSpace(p.Email)
	v[prefix+"BirthDate"] = format.FormatDate(p.BirthDate)
	v[prefix+"Identity"] = format.PartyIdentity(p)
	v[prefix+"Line"] = format.PartyLine(p)
}

func claimTitles(claims []types.ClaimType) string {
	labels := make([]string, len(claims))
	for i, c := range claims {
		labels[i] = c.Label()
	}
	return strings.Join(labels, ", ")
}

func relationshipType(s string) string {
	if t, ok := relationshipTypes[s]; ok {
		return t
	}
	return strings.TrimSpace(s)
}

// ratio renders an income ratio with one decimal, "" when there is nothing to compare.
func ratio(r float64) string {
	if r == 0 || math.IsInf(r, 0) || math.IsNaN(r) {
		return ""
	}
	return strconv.FormatFloat(math.Round(r*10)/10, 'f', -1, 64)
}
