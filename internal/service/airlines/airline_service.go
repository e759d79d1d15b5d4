package airlines

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
)

type AirlineUseCase interface {
	List(ctx context.Context) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	ListOwned(ctx context.Context, actor domain.User) ([]domain.Airline, error)
	Create(ctx context.Context, actor domain.User, input AirlineInput) (*domain.Airline, error)
	Update(ctx context.Context, actor domain.User, id int64, input AirlineInput) (*domain.Airline, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
}

type AirlineInput struct {
	Name string `json:"name" binding:"required,max=255"`
}

func (in AirlineInput) validate() (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return "", err
	}
	return in.Name, nil
}

type AirlineService struct {
	repo repository.AirlineRepository
}

func NewAirlineService(repo repository.AirlineRepository) *AirlineService {
	return &AirlineService{repo: repo}
}

func (s *AirlineService) List(ctx context.Context) ([]domain.Airline, error) {
	return s.repo.List(ctx)
}

func (s *AirlineService) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirlineService) ListOwned(ctx context.Context, actor domain.User) ([]domain.Airline, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	return s.repo.ListByEnterprise(ctx, actor.ID)
}

func (s *AirlineService) Create(ctx context.Context, actor domain.User, in AirlineInput) (*domain.Airline, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	name, err := in.validate()
	if err != nil {
		return nil, err
	}
	airline := &domain.Airline{Name: name, EnterpriseID: actor.ID}
	if err := s.repo.Create(ctx, airline); err != nil {
		return nil, err
	}
	return airline, nil
}

func (s *AirlineService) Update(ctx context.Context, actor domain.User, id int64, in AirlineInput) (*domain.Airline, error) {
	airline, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if airline.Name, err = in.validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, airline); err != nil {
		return nil, err
	}
	return airline, nil
}

// Delete is refused with repository.ErrConflict while the airline has flights.
func (s *AirlineService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *AirlineService) owned(ctx context.Context, actor domain.User, id int64) (*domain.Airline, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	airline, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !airline.OwnedBy(actor) {
		return nil, domain.ErrUnauthorized
	}
	return airline, nil
}

var _ AirlineUseCase = (*AirlineService)(nil)
