package agencies

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service interface defines the contract for reference-data business logic
type Service interface {
	CreateAgency(ctx context.Context, req CreateAgencyRequest) (*Agency, error)
	GetAgency(ctx context.Context, id string) (*Agency, error)
	ListAgencies(ctx context.Context, city string) ([]Agency, error)

	CreateCompany(ctx context.Context, req CreateCompanyRequest) (*Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateAgency(ctx context.Context, req CreateAgencyRequest) (*Agency, error) {
	agency := &Agency{
		Name:     req.Name,
		Slug:     req.Slug,
		City:     req.City,
		District: req.District,
	}
	if err := s.repo.CreateAgency(ctx, agency); err != nil {
		return nil, fmt.Errorf("failed to create agency: %w", err)
	}
	return agency, nil
}

func (s *service) GetAgency(ctx context.Context, id string) (*Agency, error) {
	agencyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid agency ID: %w", err)
	}
	return s.repo.GetAgencyByID(ctx, agencyID)
}

func (s *service) ListAgencies(ctx context.Context, city string) ([]Agency, error) {
	return s.repo.ListAgencies(ctx, city)
}

func (s *service) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*Company, error) {
	company := &Company{
		Name:  req.Name,
		Code:  req.Code,
		Color: req.Color,
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

func (s *service) ListCompanies(ctx context.Context) ([]Company, error) {
	return s.repo.ListCompanies(ctx)
}
