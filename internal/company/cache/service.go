package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arflisch/companyapi/internal/company/models"
	"go.uber.org/zap"
)

const (
	companyKeyPrefix = "company"
	allCompaniesKey  = "companies:all"
)

// CompanyKey returns the cache key for a single company.
func CompanyKey(id int64) string {
	return fmt.Sprintf("%s:%d", companyKeyPrefix, id)
}

// Service provides best-effort caching of companies over a Store.
// No method surfaces an error: failures are logged and reported as a
// miss (reads) or silently dropped (writes), so a slow or broken cache
// can never fail a request.
type Service struct {
	store         Store
	logger        *zap.Logger
	companyTTL    time.Duration
	collectionTTL time.Duration
}

// NewService constructs a Service. companyTTL covers single-entity
// entries, collectionTTL the full-listing entry; the listing churns more
// often and is configured separately.
func NewService(store Store, logger *zap.Logger, companyTTL, collectionTTL time.Duration) *Service {
	return &Service{
		store:         store,
		logger:        logger.Named("company_cache"),
		companyTTL:    companyTTL,
		collectionTTL: collectionTTL,
	}
}

// GetCompany looks up a single company. The second return value is false
// on a miss, a decode failure, or any store error.
func (s *Service) GetCompany(ctx context.Context, id int64) (*models.Company, bool) {
	value, found, err := s.store.Get(ctx, CompanyKey(id))
	if err != nil {
		s.logger.Warn("cache get failed, treating as miss",
			zap.Error(err),
			zap.Int64("company_id", id),
		)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var company models.Company
	if err := json.Unmarshal(value, &company); err != nil {
		s.logger.Warn("failed to decode cached company, treating as miss",
			zap.Error(err),
			zap.Int64("company_id", id),
		)
		return nil, false
	}
	return &company, true
}

// SetCompany stores a single company with the entity TTL.
func (s *Service) SetCompany(ctx context.Context, company *models.Company) {
	value, err := json.Marshal(company)
	if err != nil {
		s.logger.Warn("failed to encode company for cache",
			zap.Error(err),
			zap.Int64("company_id", company.ID),
		)
		return
	}
	if err := s.store.Set(ctx, CompanyKey(company.ID), value, s.companyTTL); err != nil {
		s.logger.Warn("cache set failed",
			zap.Error(err),
			zap.Int64("company_id", company.ID),
		)
	}
}

// RemoveCompany deletes the single-entity key and invalidates the cached
// listing, since a listing containing the removed member is stale.
func (s *Service) RemoveCompany(ctx context.Context, id int64) {
	if err := s.store.Delete(ctx, CompanyKey(id)); err != nil {
		s.logger.Warn("cache delete failed",
			zap.Error(err),
			zap.Int64("company_id", id),
		)
	}
	s.InvalidateAllCompanies(ctx)
}

// GetAllCompanies looks up the cached full listing. The second return
// value distinguishes "not cached" from an empty but valid listing.
func (s *Service) GetAllCompanies(ctx context.Context) ([]models.Company, bool) {
	value, found, err := s.store.Get(ctx, allCompaniesKey)
	if err != nil {
		s.logger.Warn("cache get failed for company listing, treating as miss", zap.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var companies []models.Company
	if err := json.Unmarshal(value, &companies); err != nil {
		s.logger.Warn("failed to decode cached company listing, treating as miss", zap.Error(err))
		return nil, false
	}
	return companies, true
}

// SetAllCompanies stores the full listing with the collection TTL.
func (s *Service) SetAllCompanies(ctx context.Context, companies []models.Company) {
	value, err := json.Marshal(companies)
	if err != nil {
		s.logger.Warn("failed to encode company listing for cache", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, allCompaniesKey, value, s.collectionTTL); err != nil {
		s.logger.Warn("cache set failed for company listing", zap.Error(err))
	}
}

// InvalidateAllCompanies drops the cached listing. Called on every
// create, update, patch, and delete: whole-collection invalidation is the
// simplest policy that never serves a listing missing a just-created
// entity or containing a just-deleted one.
func (s *Service) InvalidateAllCompanies(ctx context.Context) {
	if err := s.store.Delete(ctx, allCompaniesKey); err != nil {
		s.logger.Warn("cache invalidation failed for company listing", zap.Error(err))
	}
}
