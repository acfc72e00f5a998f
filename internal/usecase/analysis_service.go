package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/assortcheck/backend/internal/domain"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL           time.Duration
	MaxResultSize      int
	EnableDebugLogging bool
}

// AnalysisService runs one assortment quality check end to end: validate the
// request, fetch the ranked products (through a short-lived cache), classify
// them and assemble the report. One analysis is one outbound call plus one
// in-memory pass; nothing is retried and no report is ever persisted.
type AnalysisService struct {
	cache         domain.CacheRepository
	searchClient  domain.SearchClient
	relevance     *RelevanceService
	cacheTTL      time.Duration
	maxResultSize int
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(
	cache domain.CacheRepository,
	searchClient domain.SearchClient,
	config AnalysisServiceConfig,
) *AnalysisService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	maxResultSize := config.MaxResultSize
	if maxResultSize <= 0 {
		maxResultSize = 1000
	}

	return &AnalysisService{
		cache:         cache,
		searchClient:  searchClient,
		relevance:     NewRelevanceService(config.EnableDebugLogging),
		cacheTTL:      cacheTTL,
		maxResultSize: maxResultSize,
	}
}

// Analyze performs one assortment quality check.
// Flow: validate -> cached products or search API -> classify -> report.
func (s *AnalysisService) Analyze(ctx context.Context, request *domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	if err := s.validate(request); err != nil {
		return nil, err
	}

	shopID := strings.TrimSpace(request.ShopID)
	query := strings.TrimSpace(request.Query)
	env, _ := domain.ParseEnvironment(string(request.Environment)) // validated above
	cacheKey := s.cacheKey(shopID, env, query, request.ResultSize)

	products, ok := s.cachedProducts(ctx, cacheKey)
	if !ok {
		var err error
		products, err = s.searchClient.Search(ctx, shopID, env, query, request.ResultSize)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, cacheKey, products, s.cacheTTL); err != nil {
			// A cache failure never fails the analysis
			log.Printf("[ANALYZE] cache set failed for %q: %v", cacheKey, err)
		}
	}

	return s.relevance.Analyze(query, products, request.Groups, request.IncludeTranscript), nil
}

// validate rejects unusable requests before any network call is made
func (s *AnalysisService) validate(request *domain.AnalysisRequest) error {
	if request == nil {
		return domain.NewValidationError("request is required")
	}
	if strings.TrimSpace(request.ShopID) == "" {
		return domain.NewValidationError("shop id is required")
	}
	if _, err := domain.ParseEnvironment(string(request.Environment)); err != nil {
		return err
	}
	if strings.TrimSpace(request.Query) == "" {
		return domain.NewValidationError("search query is required")
	}
	if request.ResultSize < 1 || request.ResultSize > s.maxResultSize {
		return domain.NewValidationError("result size must be between 1 and %d", s.maxResultSize)
	}
	// Never rely on vacuous truth: zero groups would classify everything as
	// relevant, which is a usage error, not a finding.
	if len(request.Groups) == 0 {
		return domain.NewValidationError("at least one non-empty concept group is required")
	}
	for i, group := range request.Groups {
		if len(group) == 0 {
			return domain.NewValidationError("concept group %d has no variations", i+1)
		}
	}
	return nil
}

// cacheKey identifies one fetched result set. Concept groups are not part of
// the key: re-running with different groups reuses the same products.
func (s *AnalysisService) cacheKey(shopID string, env domain.Environment, query string, size int) string {
	return fmt.Sprintf("search:%s:%s:%s:%d", shopID, env, strings.ToLower(query), size)
}

func (s *AnalysisService) cachedProducts(ctx context.Context, key string) ([]domain.Product, bool) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	products, ok := value.([]domain.Product)
	if !ok {
		return nil, false
	}
	return products, true
}
