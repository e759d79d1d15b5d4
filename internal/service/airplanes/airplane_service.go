package airplanes

import (
	"context"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
)

const plateRule = "required,max=10"

type AirplaneUseCase interface {
	List(ctx context.Context) ([]domain.Airplane, error)
	GetByPlate(ctx context.Context, plate string) (*domain.Airplane, error)
	Create(ctx context.Context, actor domain.User, input AirplaneInput) (*domain.Airplane, error)
	Update(ctx context.Context, actor domain.User, plate string, input AirplaneInput) (*domain.Airplane, error)
	Delete(ctx context.Context, actor domain.User, plate string) error
}

// AirplaneInput.Plate is read on create only; updates take it from the path.
type AirplaneInput struct {
	Plate    string `json:"plate,omitempty" binding:"omitempty,max=10"`
	Model    string `json:"model" binding:"required,max=255"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

type AirplaneService struct {
	repo repository.AirplaneRepository
}

func NewAirplaneService(repo repository.AirplaneRepository) *AirplaneService {
	return &AirplaneService{repo: repo}
}

func (s *AirplaneService) List(ctx context.Context) ([]domain.Airplane, error) {
	return s.repo.List(ctx)
}

func (s *AirplaneService) GetByPlate(ctx context.Context, plate string) (*domain.Airplane, error) {
	return s.repo.GetByPlate(ctx, strings.ToUpper(strings.TrimSpace(plate)))
}

func (s *AirplaneService) Create(ctx context.Context, actor domain.User, in AirplaneInput) (*domain.Airplane, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	plane, err := in.build(in.Plate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, plane); err != nil {
		return nil, err
	}
	return plane, nil
}

// Update changes model and capacity; the plate is the identity and stays.
func (s *AirplaneService) Update(ctx context.Context, actor domain.User, plate string, in AirplaneInput) (*domain.Airplane, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	plane, err := in.build(plate)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, plane); err != nil {
		return nil, err
	}
	return plane, nil
}

func (s *AirplaneService) Delete(ctx context.Context, actor domain.User, plate string) error {
	if !actor.IsEnterprise() {
		return domain.ErrForbiddenRole
	}
	return s.repo.Delete(ctx, strings.ToUpper(strings.TrimSpace(plate)))
}

func (in AirplaneInput) build(plate string) (*domain.Airplane, error) {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if err := validation.Var("plate", plate, plateRule); err != nil {
		return nil, err
	}
	in.Plate = plate
	in.Model = strings.TrimSpace(in.Model)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return &domain.Airplane{Plate: plate, Model: in.Model, Capacity: in.Capacity}, nil
}

var _ AirplaneUseCase = (*AirplaneService)(nil)
