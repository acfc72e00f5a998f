package domain

import "strings"

// Environment names a deployment target of the assortment search API. The
// environment selects the host; the shop id selects the tenant.
type Environment string

const (
	EnvProd    Environment = "prod"
	EnvStaging Environment = "staging"
	EnvDev     Environment = "dev"
)

// ParseEnvironment normalizes and validates an environment name
func ParseEnvironment(s string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(s))); env {
	case EnvProd, EnvStaging, EnvDev:
		return env, nil
	default:
		return "", NewValidationError("unknown environment %q (expected prod, staging or dev)", s)
	}
}

// ConceptGroup is one required concept, expressed as interchangeable
// lowercase spellings (e.g. "hdr10+", "hdr 10 plus", "hdr10plus"). A product
// satisfies the group when any one variation appears in its serialized text;
// a product is relevant when every group is satisfied.
type ConceptGroup []string

// AnalysisRequest carries everything one assortment check needs
type AnalysisRequest struct {
	ShopID            string
	Environment       Environment
	Query             string
	ResultSize        int
	Groups            []ConceptGroup
	IncludeTranscript bool
}

// ProductRef identifies one ranked product in a report
type ProductRef struct {
	Position  int    `json:"position"` // 1-based rank in the result list
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
}

// IrrelevantProduct is a ProductRef plus the concept groups it failed
type IrrelevantProduct struct {
	ProductRef
	// FailedGroups holds the 0-based indices of unsatisfied concept groups,
	// in the order the groups were supplied.
	FailedGroups []int `json:"failed_group_indices"`
}

// AnalysisReport is the outcome of one assortment quality check. Product
// lists preserve the original ranking; FailureSummary counts, per concept
// group index, how many products failed that group.
type AnalysisReport struct {
	Query              string              `json:"query"`
	TotalProducts      int                 `json:"total_products"`
	RelevantCount      int                 `json:"relevant_count"`
	IrrelevantCount    int                 `json:"irrelevant_count"`
	RelevancePercent   float64             `json:"relevance_percent"`
	RelevantProducts   []ProductRef        `json:"relevant_products"`
	IrrelevantProducts []IrrelevantProduct `json:"irrelevant_products"`
	FailureSummary     map[int]int         `json:"failure_summary"`
	Transcript         string              `json:"transcript,omitempty"`
}
