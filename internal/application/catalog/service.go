package catalog

import (
	"context"
	"errors"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain"
	"github.com/jhoicas/trebol-admin/internal/domain/entity"
)

// Input cuerpo validable de un alta o edición.
type Input interface {
	Validate() error
}

// Service CRUD de un recurso del catálogo. Valida localmente antes de enviar; los errores
// de validación del backend se devuelven tal cual (*domain.ValidationError).
type Service[T any, In Input] struct {
	store Store[T]
	check func(ctx context.Context, in In, id int) error
}

// NewService construye el CRUD sobre store.
func NewService[T any, In Input](store Store[T]) *Service[T, In] {
	return &Service[T, In]{store: store}
}

func (s *Service[T, In]) List(ctx context.Context, q dto.ListQuery) (*dto.Page[T], error) {
	if q.Page < 1 {
		q.Page = 1
	}
	return s.store.List(ctx, q)
}

func (s *Service[T, In]) Get(ctx context.Context, id int) (*T, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}

func (s *Service[T, In]) Create(ctx context.Context, in In) (*T, error) {
	if err := s.validate(ctx, in, 0); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, in)
}

func (s *Service[T, In]) Update(ctx context.Context, id int, in In) (*T, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := s.validate(ctx, in, id); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, in)
}

func (s *Service[T, In]) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	return s.store.Delete(ctx, id)
}

func (s *Service[T, In]) validate(ctx context.Context, in In, id int) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if s.check != nil {
		return s.check(ctx, in, id)
	}
	return nil
}

// UniquenessChecker consulta clients/check_uniqueness/. Lo implementa *api.Client.
type UniquenessChecker interface {
	CheckClientUniqueness(ctx context.Context, field, value string, excludeID int) error
}

// Servicios concretos del catálogo.
type (
	ClientService   = Service[entity.Client, dto.ClientInput]
	ProductService  = Service[entity.Product, dto.ProductInput]
	CategoryService = Service[entity.Category, dto.CategoryInput]
)

// NewClientService CRUD de clientes. Antes de guardar verifica que ci y telefono no estén
// en uso por otro cliente; los mensajes de ambos campos se devuelven juntos.
func NewClientService(store Store[entity.Client], checker UniquenessChecker) *ClientService {
	s := NewService[entity.Client, dto.ClientInput](store)
	s.check = func(ctx context.Context, in dto.ClientInput, id int) error {
		merged := map[string][]string{}
		for field, value := range map[string]string{"ci": in.CI, "telefono": in.Telefono} {
			err := checker.CheckClientUniqueness(ctx, field, value, id)
			if err == nil {
				continue
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			for k, msgs := range verr.Fields {
				merged[k] = append(merged[k], msgs...)
			}
		}
		if len(merged) > 0 {
			return &domain.ValidationError{Fields: merged}
		}
		return nil
	}
	return s
}

// NewProductService CRUD de productos.
func NewProductService(store Store[entity.Product]) *ProductService {
	return NewService[entity.Product, dto.ProductInput](store)
}

// NewCategoryService CRUD de categorías.
func NewCategoryService(store Store[entity.Category]) *CategoryService {
	return NewService[entity.Category, dto.CategoryInput](store)
}
