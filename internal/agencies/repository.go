package agencies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAgencyNotFound is returned when an agency lookup matches nothing.
var ErrAgencyNotFound = errors.New("agency not found")

// ErrCompanyNotFound is returned when a company lookup matches nothing.
var ErrCompanyNotFound = errors.New("company not found")

type Repository interface {
	CreateAgency(ctx context.Context, agency *Agency) error
	GetAgencyByID(ctx context.Context, id uuid.UUID) (*Agency, error)
	GetAgencyBySlug(ctx context.Context, slug string) (*Agency, error)
	ListAgencies(ctx context.Context, city string) ([]Agency, error)

	CreateCompany(ctx context.Context, company *Company) error
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAgency(ctx context.Context, agency *Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

func (r *repository) GetAgencyByID(ctx context.Context, id uuid.UUID) (*Agency, error) {
	var agency Agency
	err := r.db.WithContext(ctx).First(&agency, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	return &agency, nil
}

func (r *repository) GetAgencyBySlug(ctx context.Context, slug string) (*Agency, error) {
	var agency Agency
	err := r.db.WithContext(ctx).First(&agency, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	return &agency, nil
}

func (r *repository) ListAgencies(ctx context.Context, city string) ([]Agency, error) {
	var agencies []Agency
	query := r.db.WithContext(ctx).Order("city ASC, district ASC")
	if city != "" {
		query = query.Where("city = ?", city)
	}
	err := query.Find(&agencies).Error
	return agencies, err
}

func (r *repository) CreateCompany(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) ListCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error
	return companies, err
}
