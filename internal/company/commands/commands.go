// Package commands implements the use cases for managing Company
// entities: validate input, orchestrate cache and store, map transfer
// shapes, and record operation metrics. It is the surface consumed by
// the transport layer.
//
// Every command returns (value, error). Reads report absence as a valid
// nil result rather than an error; writes surface validation failures as
// *errors.ValidationErrors and missing entities as errors.ErrNotFound,
// both detected before any mutation is attempted.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/arflisch/companyapi/internal/company/errors"
	"github.com/arflisch/companyapi/internal/company/events"
	"github.com/arflisch/companyapi/internal/company/metrics"
	"github.com/arflisch/companyapi/internal/company/models"
	"go.uber.org/zap"
)

// Repository defines the storage interface for Company objects.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	GetAllCompanies(ctx context.Context) ([]models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	PatchCompany(ctx context.Context, update *models.CompanyUpdate) error
	DeleteCompany(ctx context.Context, id int64) error
}

// Cache is the best-effort cache tier in front of the repository. None
// of its methods return errors; a broken cache degrades to misses.
type Cache interface {
	GetCompany(ctx context.Context, id int64) (*models.Company, bool)
	SetCompany(ctx context.Context, company *models.Company)
	RemoveCompany(ctx context.Context, id int64)
	GetAllCompanies(ctx context.Context) ([]models.Company, bool)
	SetAllCompanies(ctx context.Context, companies []models.Company)
	InvalidateAllCompanies(ctx context.Context)
}

// EventProducer publishes lifecycle events without blocking the caller.
type EventProducer interface {
	Produce(eventType events.EventType, company *models.Company)
}

// MetricsRecorder records operation outcomes and durations.
type MetricsRecorder interface {
	RecordOperation(operation, status string)
	RecordDuration(d time.Duration, operation string)
}

// Service provides one method per company use case.
type Service struct {
	repo     Repository
	cache    Cache
	producer EventProducer
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewService constructs a Service from its collaborators.
func NewService(repo Repository, cache Cache, producer EventProducer, recorder MetricsRecorder, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		producer: producer,
		metrics:  recorder,
		logger:   logger.Named("company_commands"),
	}
}

// CreateCompany validates the input, persists a new company, invalidates
// the listing cache, and publishes a company-created event. Publish
// failures never fail the create: the entity has already committed.
func (s *Service) CreateCompany(ctx context.Context, dto *models.CreateCompanyDTO) (*models.CompanyDTO, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration(time.Since(start), metrics.OpCreate) }()

	if err := validateCompanyInput(dto); err != nil {
		s.metrics.RecordOperation(metrics.OpCreate, metrics.StatusValidationError)
		return nil, err
	}

	company := &models.Company{
		Name: dto.Name,
		Vat:  dto.Vat,
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		s.metrics.RecordOperation(metrics.OpCreate, metrics.StatusError)
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.cache.InvalidateAllCompanies(ctx)
	s.metrics.RecordOperation(metrics.OpCreate, metrics.StatusSuccess)
	s.producer.Produce(events.CompanyCreated, company)
	s.logger.Info("company created",
		zap.Int64("company_id", company.ID),
		zap.String("name", company.Name),
	)

	result := company.ToDTO()
	return &result, nil
}

// GetAllCompanies serves the listing cache-aside: a cache hit never
// touches the store, a miss reads the store and populates the cache.
func (s *Service) GetAllCompanies(ctx context.Context) ([]models.CompanyDTO, error) {
	if cached, ok := s.cache.GetAllCompanies(ctx); ok {
		return toDTOs(cached), nil
	}

	companies, err := s.repo.GetAllCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}

	s.cache.SetAllCompanies(ctx, companies)
	return toDTOs(companies), nil
}

// GetCompanyByID serves a single company cache-aside. Absence is a valid
// outcome reported as (nil, nil); there is no negative caching.
func (s *Service) GetCompanyByID(ctx context.Context, id int64) (*models.CompanyDTO, error) {
	if cached, ok := s.cache.GetCompany(ctx, id); ok {
		result := cached.ToDTO()
		return &result, nil
	}

	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	s.cache.SetCompany(ctx, company)
	result := company.ToDTO()
	return &result, nil
}

// UpdateCompany validates the input, requires the company to exist, and
// overwrites all fields.
func (s *Service) UpdateCompany(ctx context.Context, id int64, dto *models.CreateCompanyDTO) (*models.CompanyDTO, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration(time.Since(start), metrics.OpUpdate) }()

	if err := validateCompanyInput(dto); err != nil {
		s.metrics.RecordOperation(metrics.OpUpdate, metrics.StatusValidationError)
		return nil, err
	}

	if _, err := s.repo.GetCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.metrics.RecordOperation(metrics.OpUpdate, metrics.StatusError)
		return nil, fmt.Errorf("failed to get company for update: %w", err)
	}

	company := &models.Company{
		ID:   id,
		Name: dto.Name,
		Vat:  dto.Vat,
	}
	if err := s.repo.UpdateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		s.metrics.RecordOperation(metrics.OpUpdate, metrics.StatusError)
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	s.cache.RemoveCompany(ctx, id)
	s.metrics.RecordOperation(metrics.OpUpdate, metrics.StatusSuccess)

	result := company.ToDTO()
	return &result, nil
}

// PatchCompanyName changes only the company's name.
func (s *Service) PatchCompanyName(ctx context.Context, id int64, name string) error {
	return s.patchCompany(ctx, &models.CompanyUpdate{ID: id, Name: &name},
		validateName(name))
}

// PatchCompanyVat changes only the company's VAT number.
func (s *Service) PatchCompanyVat(ctx context.Context, id int64, vat string) error {
	return s.patchCompany(ctx, &models.CompanyUpdate{ID: id, Vat: &vat},
		validateVat(vat))
}

func (s *Service) patchCompany(ctx context.Context, update *models.CompanyUpdate, violations []string) error {
	start := time.Now()
	defer func() { s.metrics.RecordDuration(time.Since(start), metrics.OpPatch) }()

	if len(violations) > 0 {
		s.metrics.RecordOperation(metrics.OpPatch, metrics.StatusValidationError)
		return &e.ValidationErrors{Messages: violations}
	}

	if _, err := s.repo.GetCompany(ctx, update.ID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.metrics.RecordOperation(metrics.OpPatch, metrics.StatusError)
		return fmt.Errorf("failed to get company for patch: %w", err)
	}

	if err := s.repo.PatchCompany(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.metrics.RecordOperation(metrics.OpPatch, metrics.StatusError)
		return fmt.Errorf("failed to patch company: %w", err)
	}

	s.cache.RemoveCompany(ctx, update.ID)
	s.metrics.RecordOperation(metrics.OpPatch, metrics.StatusSuccess)
	return nil
}

// DeleteCompany requires a positive id and an existing company, then
// removes it from the store and drops both cache entries.
func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	start := time.Now()
	defer func() { s.metrics.RecordDuration(time.Since(start), metrics.OpDelete) }()

	if id <= 0 {
		s.metrics.RecordOperation(metrics.OpDelete, metrics.StatusValidationError)
		return &e.ValidationErrors{Messages: []string{"Valid Id is required."}}
	}

	if _, err := s.repo.GetCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.metrics.RecordOperation(metrics.OpDelete, metrics.StatusError)
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		s.metrics.RecordOperation(metrics.OpDelete, metrics.StatusError)
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.cache.RemoveCompany(ctx, id)
	s.metrics.RecordOperation(metrics.OpDelete, metrics.StatusSuccess)
	return nil
}

func toDTOs(companies []models.Company) []models.CompanyDTO {
	dtos := make([]models.CompanyDTO, 0, len(companies))
	for i := range companies {
		dtos = append(dtos, companies[i].ToDTO())
	}
	return dtos
}
