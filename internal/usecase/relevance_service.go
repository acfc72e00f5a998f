package usecase

import (
	"fmt"
	"log"
	"strings"

	"github.com/assortcheck/backend/internal/domain"
)

// RelevanceService classifies ranked products against concept groups and
// assembles the assortment quality report. It is pure: the same products and
// groups always produce an identical report.
type RelevanceService struct {
	enableDebugLogging bool
}

// NewRelevanceService creates a new relevance service
func NewRelevanceService(enableDebugLogging bool) *RelevanceService {
	return &RelevanceService{
		enableDebugLogging: enableDebugLogging,
	}
}

// Analyze classifies every product, in ranking order, against the concept
// groups. A product is relevant only when every group is satisfied, a group
// being satisfied when any of its variations appears as a substring of the
// product's serialized lowercase text.
func (s *RelevanceService) Analyze(query string, products []domain.Product, groups []domain.ConceptGroup, includeTranscript bool) *domain.AnalysisReport {
	report := &domain.AnalysisReport{
		Query:              query,
		TotalProducts:      len(products),
		RelevantProducts:   []domain.ProductRef{},
		IrrelevantProducts: []domain.IrrelevantProduct{},
		FailureSummary:     map[int]int{},
	}

	for i, product := range products {
		ref := domain.ProductRef{
			Position:  i + 1,
			ProductID: product.ID,
			Title:     product.Title,
		}

		failed := unsatisfiedGroups(product.SearchText(), groups)
		if len(failed) == 0 {
			report.RelevantCount++
			report.RelevantProducts = append(report.RelevantProducts, ref)
			continue
		}

		report.IrrelevantProducts = append(report.IrrelevantProducts, domain.IrrelevantProduct{
			ProductRef:   ref,
			FailedGroups: failed,
		})
		// A single irrelevant product bumps the counter of every group it failed
		for _, idx := range failed {
			report.FailureSummary[idx]++
		}

		if s.enableDebugLogging {
			log.Printf("[ANALYZE] #%d %q failed groups %v", ref.Position, ref.Title, failed)
		}
	}

	report.IrrelevantCount = len(report.IrrelevantProducts)
	if report.TotalProducts > 0 {
		report.RelevancePercent = float64(report.RelevantCount) / float64(report.TotalProducts) * 100
	}

	if includeTranscript {
		report.Transcript = buildTranscript(query, products)
	}

	if s.enableDebugLogging {
		log.Printf("[ANALYZE] %d/%d relevant for %q", report.RelevantCount, report.TotalProducts, query)
	}

	return report
}

// unsatisfiedGroups returns the 0-based indices of concept groups with no
// variation present in text, in group order. An empty result means relevant.
func unsatisfiedGroups(text string, groups []domain.ConceptGroup) []int {
	var failed []int
	for i, group := range groups {
		satisfied := false
		for _, variation := range group {
			if strings.Contains(text, strings.ToLower(variation)) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			failed = append(failed, i)
		}
	}
	return failed
}

// buildTranscript flattens the result list into a plain-text export for
// free-text review outside the tool. It plays no part in classification.
func buildTranscript(query string, products []domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search query: %s\n", query)
	for i, product := range products {
		fmt.Fprintf(&b, "\n#%d %s\n%s\n", i+1, product.Title, product.Description)
	}
	return b.String()
}
