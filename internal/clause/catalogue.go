// Package clause decides which optional legal remedies and cross-claim references
// appear in a document, and numbers the selected remedies.
package clause

import (
	_ "embed"
	"fmt"

	"github.com/Law4Us/Law4Us-sub002/internal/format"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"

	"gopkg.in/yaml.v3"
)

//go:embed clauses.yaml
var defaultCatalogue []byte

// DisparityThreshold is the income ratio at and above which the unequal division
// remedy is included.
const DisparityThreshold = 2.0

type Condition string

const (
	Always          Condition = ""
	IncomeDisparity Condition = "incomeDisparity"
	HasChildren     Condition = "hasChildren"
	NoChildren      Condition = "noChildren"
	WelfareReport   Condition = "welfareReport"
	SpousalSupport  Condition = "spousalSupport"
)

// Facts are the computed inputs the conditions are evaluated against.
type Facts struct {
	ApplicantIncome  float64
	RespondentIncome float64
	Children         int
	WelfareReport    bool
	SpousalSupport   bool
}

var conditions = map[Condition]func(Facts) bool{
	Always:          func(Facts) bool { return true },
	IncomeDisparity: func(f Facts) bool { return HasIncomeDisparity(f.ApplicantIncome, f.RespondentIncome) },
	HasChildren:     func(f Facts) bool { return f.Children > 0 },
	NoChildren:      func(f Facts) bool { return f.Children == 0 },
	WelfareReport:   func(f Facts) bool { return f.WelfareReport },
	SpousalSupport:  func(f Facts) bool { return f.SpousalSupport },
}

// HasIncomeDisparity reports whether the higher income is at least twice the lower one.
func HasIncomeDisparity(a, b float64) bool {
	return format.IncomeRatio(a, b) >= DisparityThreshold
}

type Definition struct {
	ID   string    `yaml:"id"`
	Text string    `yaml:"text"`
	When Condition `yaml:"when"`
}

type Catalogue struct {
	remedies map[types.ClaimType][]Definition
}

// Default parses the embedded catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// Parse reads a YAML catalogue and rejects unknown claim types, unknown conditions and
// duplicate clause IDs within a claim.
func Parse(data []byte) (*Catalogue, error) {
	var raw struct {
		Remedies map[string][]Definition `yaml:"remedies"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse clause catalogue: %w", err)
	}

	c := &Catalogue{remedies: make(map[types.ClaimType][]Definition, len(raw.Remedies))}
	for name, defs := range raw.Remedies {
		claim, err := types.ParseClaimType(name)
		if err != nil {
			return nil, fmt.Errorf("clause catalogue: %w", err)
		}

		seen := make(map[string]bool, len(defs))
		for _, d := range defs {
			if d.ID == "" {
				return nil, fmt.Errorf("clause catalogue: %s: clause without id", name)
			}
			if seen[d.ID] {
				return nil, fmt.Errorf("clause catalogue: %s: duplicate clause %q", name, d.ID)
			}
			if _, ok := conditions[d.When]; !ok {
				return nil, fmt.Errorf("clause catalogue: %s/%s: unknown condition %q", name, d.ID, d.When)
			}
			seen[d.ID] = true
		}
		c.remedies[claim] = defs
	}

	return c, nil
}

// Definitions returns the declared remedies of a claim type in declared order.
func (c *Catalogue) Definitions(claim types.ClaimType) []Definition {
	return c.remedies[claim]
}

// Select evaluates the claim's remedies against facts. Selected clauses keep their
// declared relative order and are numbered contiguously from 1.
func (c *Catalogue) Select(claim types.ClaimType, facts Facts) []types.ClauseSelection {
	var out []types.ClauseSelection
	for _, d := range c.remedies[claim] {
		if !conditions[d.When](facts) {
			continue
		}
		out = append(out, types.ClauseSelection{
			ID:      d.ID,
			Text:    d.Text,
			Ordinal: len(out) + 1,
		})
	}
	return out
}
