package types

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Submission is the complete input payload describing one client's filing.
type Submission struct {
	ID              string           `json:"id,omitempty"`
	BasicInfo       BasicInfo        `json:"basicInfo"`
	SelectedClaims  []ClaimType      `json:"selectedClaims"`
	FormData        FormData         `json:"formData"`
	Signature       Payload          `json:"signature,omitempty"`
	LawyerSignature Payload          `json:"lawyerSignature,omitempty"`
	Attachments     []AttachmentSpec `json:"attachments,omitempty"`
	PaymentData     map[string]any   `json:"paymentData,omitempty"`
	SubmittedAt     time.Time        `json:"submittedAt"`
}

// Validate checks the invariants every consumer of a submission relies on.
func (s *Submission) Validate() error {
	if len(s.SelectedClaims) == 0 {
		return ErrNoClaims
	}

	seen := make(map[ClaimType]bool, len(s.SelectedClaims))
	for _, c := range s.SelectedClaims {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownClaim, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: %q", ErrDuplicateClaim, c)
		}
		seen[c] = true
	}

	return nil
}

func (s *Submission) HasClaim(c ClaimType) bool {
	return slices.Contains(s.SelectedClaims, c)
}

// Claims returns the selected claims in canonical order.
func (s *Submission) Claims() []ClaimType {
	return SortClaims(s.SelectedClaims)
}

type BasicInfo struct {
	Applicant        Party  `json:"applicant"`
	Respondent       Party  `json:"respondent"`
	MarriageDate     string `json:"marriageDate,omitempty"`
	RelationshipType string `json:"relationshipType,omitempty"` // married, commonLaw
}

type Party struct {
	FullName  string `json:"fullName"`
	IDNumber  string `json:"idNumber"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
	Gender    string `json:"gender,omitempty"` // male, female
}

// FormData holds the claim specific sub-objects plus fields shared by every claim.
type FormData struct {
	Children []Child `json:"children,omitempty"`

	Property         *PropertyClaim         `json:"property,omitempty"`
	Custody          *CustodyClaim          `json:"custody,omitempty"`
	Alimony          *AlimonyClaim          `json:"alimony,omitempty"`
	Divorce          *DivorceClaim          `json:"divorce,omitempty"`
	DivorceAgreement *DivorceAgreementClaim `json:"divorceAgreement,omitempty"`
}

type Child struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	IDNumber          string `json:"idNumber"`
	BirthDate         string `json:"birthDate"`
	Address           string `json:"address,omitempty"`
	NameOfParent      string `json:"nameOfParent,omitempty"`
	ChildRelationship string `json:"childRelationship,omitempty"`
}

// Amount is a numeric string as typed by the client. It may carry thousands
// separators or currency symbols; JSON numbers are accepted too.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// FinancialItem covers apartments, vehicles, savings, benefits and debts.
type FinancialItem struct {
	Description  string `json:"description"`
	Amount       Amount `json:"amount,omitempty"`
	Value        Amount `json:"value,omitempty"`
	Owner        string `json:"owner,omitempty"`
	PurchaseDate string `json:"purchaseDate,omitempty"`
	Creditor     string `json:"creditor,omitempty"`
	Appendix     string `json:"appendix,omitempty"`
}

// Figure returns Amount, falling back to Value.
func (f FinancialItem) Figure() string {
	if f.Amount != "" {
		return string(f.Amount)
	}
	return string(f.Value)
}

type PropertyClaim struct {
	Apartments       []FinancialItem `json:"apartments,omitempty"`
	Vehicles         []FinancialItem `json:"vehicles,omitempty"`
	Savings          []FinancialItem `json:"savings,omitempty"`
	Benefits         []FinancialItem `json:"benefits,omitempty"`
	Debts            []FinancialItem `json:"debts,omitempty"`
	ApplicantIncome  Amount          `json:"applicantIncome,omitempty"`
	RespondentIncome Amount          `json:"respondentIncome,omitempty"`
	Details          string          `json:"details,omitempty"`
}

type CustodyClaim struct {
	RequestedArrangement string `json:"requestedArrangement,omitempty"`
	VisitationProposal   string `json:"visitationProposal,omitempty"`
	Reasons              string `json:"reasons,omitempty"`
	WelfareReport        string `json:"welfareReport,omitempty"` // yes/no in any spelling
}

type AlimonyClaim struct {
	RequestedAmount  Amount `json:"requestedAmount,omitempty"`
	ApplicantIncome  Amount `json:"applicantIncome,omitempty"`
	RespondentIncome Amount `json:"respondentIncome,omitempty"`
	Needs            string `json:"needs,omitempty"`
	SpousalSupport   string `json:"spousalSupport,omitempty"` // yes/no in any spelling
}

type DivorceClaim struct {
	Reasons        string `json:"reasons,omitempty"`
	SeparationDate string `json:"separationDate,omitempty"`
	ReligiousCourt string `json:"religiousCourt,omitempty"` // yes/no in any spelling
}

type SectionMode string

const (
	SectionReferenceClaim SectionMode = "referenceClaim"
	SectionCustom         SectionMode = "custom"
	SectionNone           SectionMode = "none"
)

// AgreementSection configures one topic of a divorce agreement: either a reference to a
// separately filed claim, or caller supplied text.
type AgreementSection struct {
	Mode SectionMode `json:"mode"`
	Text string      `json:"text,omitempty"`
}

type DivorceAgreementClaim struct {
	Property        AgreementSection `json:"property"`
	Custody         AgreementSection `json:"custody"`
	Alimony         AgreementSection `json:"alimony"`
	AgreementDate   string           `json:"agreementDate,omitempty"`
	AdditionalTerms string           `json:"additionalTerms,omitempty"`
}

// AttachmentSpec is a labeled, ordered group of page images appended as an exhibit.
// Label is a Hebrew ordinal letter ("א", "ב", ...); each image is one page.
type AttachmentSpec struct {
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Images      []Payload `json:"images"`
}

// PageCount is the number of physical pages the attachment occupies.
func (a AttachmentSpec) PageCount() int {
	return len(a.Images)
}
