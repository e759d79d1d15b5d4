package airports

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
)

type AirportUseCase interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
	Create(ctx context.Context, actor domain.User, input AirportInput) (*domain.Airport, error)
	Delete(ctx context.Context, actor domain.User, code string) error
}

const codeRule = "required,len=3,alpha"

type AirportInput struct {
	Code    string `json:"id" binding:"required,len=3,alpha"`
	Name    string `json:"name" binding:"required,max=255"`
	Country string `json:"country" binding:"required,max=255"`
}

type AirportService struct {
	repo repository.AirportRepository
}

func NewAirportService(repo repository.AirportRepository) *AirportService {
	return &AirportService{repo: repo}
}

func (s *AirportService) List(ctx context.Context) ([]domain.Airport, error) {
	return s.repo.List(ctx)
}

func (s *AirportService) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByCode(ctx, code)
}

func (s *AirportService) Create(ctx context.Context, actor domain.User, in AirportInput) (*domain.Airport, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.Country = strings.TrimSpace(in.Country)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	airport := &domain.Airport{Code: in.Code, Name: in.Name, Country: in.Country}
	if err := s.repo.Create(ctx, airport); err != nil {
		return nil, err
	}
	return airport, nil
}

// Delete is refused with repository.ErrConflict while flights use the airport.
func (s *AirportService) Delete(ctx context.Context, actor domain.User, code string) error {
	if !actor.IsEnterprise() {
		return domain.ErrForbiddenRole
	}
	code, err := NormalizeCode(code)
	if err != nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, code)
}

// NormalizeCode upper-cases an IATA code and checks it is three letters.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validation.Var("id", code, codeRule); err != nil {
		return "", err
	}
	return code, nil
}

var _ AirportUseCase = (*AirportService)(nil)
