package db

import (
	"context"
	"errors"
	"fmt"

	e "github.com/arflisch/companyapi/internal/company/errors"
	"github.com/arflisch/companyapi/internal/company/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	return Open(postgres.Open(dsn))
}

// Open connects through the given dialector and migrates the schema.
// Production uses postgres; tests open an in-memory sqlite database.
func Open(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Company{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// CreateCompany persists a new company. The assigned ID is written back
// onto the entity before returning.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetCompany loads a company by id, returning ErrNotFound when absent.
func (r *Repository) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

// GetAllCompanies returns every stored company. Order is not guaranteed.
func (r *Repository) GetAllCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

// UpdateCompany overwrites all fields of the row identified by the
// entity's ID.
func (r *Repository) UpdateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", company.ID).
		Updates(map[string]any{"name": company.Name, "vat": company.Vat})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// PatchCompany updates only the non-nil fields of the update. Nil fields
// are left untouched on the stored row.
func (r *Repository) PatchCompany(ctx context.Context, update *models.CompanyUpdate) error {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Vat != nil {
		fields["vat"] = *update.Vat
	}
	if len(fields) == 0 {
		// Nothing to change; still report absence for unknown ids.
		_, err := r.GetCompany(ctx, update.ID)
		return err
	}

	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", update.ID).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// DeleteCompany removes the row by id, returning ErrNotFound when no row
// was deleted.
func (r *Repository) DeleteCompany(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
