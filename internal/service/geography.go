// geography.go — сервисы стран, городов и адресов.
// Страны и города читаются через ReferenceCache.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/museum-data/museum-admin/internal/domain/clock"
	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/domain/validate"
	"github.com/museum-data/museum-admin/internal/repository"
)

// CountryService — сервис стран.
type CountryService struct {
	*crud[model.Country, repository.CountryFilter]
	cache *ReferenceCache
}

// NewCountryService создаёт сервис стран.
func NewCountryService(repo repository.CountryRepository, cache *ReferenceCache, clk clock.Clock, logger *slog.Logger) *CountryService {
	rules := entityRules[model.Country]{
		name:     "country",
		identity: func(c *model.Country) *model.Identity { return &c.Identity },
		validate: func(c *model.Country, _ time.Time) error { return validate.Country(c) },
	}
	return &CountryService{
		crud:  newCRUD[model.Country, repository.CountryFilter](repo, rules, clk, logger),
		cache: cache,
	}
}

// Get возвращает страну, сначала из кэша.
func (s *CountryService) Get(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	if c, ok := s.cache.Country(id); ok {
		return c, nil
	}
	c, err := s.crud.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetCountry(c)
	return c, nil
}

// Update изменяет страну и обновляет кэш.
func (s *CountryService) Update(ctx context.Context, c *model.Country) (*model.Country, error) {
	updated, err := s.crud.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.cache.SetCountry(updated)
	return updated, nil
}

// Delete удаляет страну вместе с городами, адресами и музеями.
func (s *CountryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.crud.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.RemoveCountry(id)
	return nil
}

// CityService — сервис городов.
type CityService struct {
	*crud[model.City, repository.CityFilter]
	cache *ReferenceCache
}

// NewCityService создаёт сервис городов.
func NewCityService(repo repository.CityRepository, cache *ReferenceCache, clk clock.Clock, logger *slog.Logger) *CityService {
	rules := entityRules[model.City]{
		name:     "city",
		identity: func(c *model.City) *model.Identity { return &c.Identity },
		validate: func(c *model.City, _ time.Time) error { return validate.City(c) },
	}
	return &CityService{
		crud:  newCRUD[model.City, repository.CityFilter](repo, rules, clk, logger),
		cache: cache,
	}
}

// Get возвращает город, сначала из кэша.
func (s *CityService) Get(ctx context.Context, id uuid.UUID) (*model.City, error) {
	if c, ok := s.cache.City(id); ok {
		return c, nil
	}
	c, err := s.crud.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetCity(c)
	return c, nil
}

// Update изменяет город и обновляет кэш.
func (s *CityService) Update(ctx context.Context, c *model.City) (*model.City, error) {
	updated, err := s.crud.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.cache.SetCity(updated)
	return updated, nil
}

// Delete удаляет город вместе с адресами и музеями.
func (s *CityService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.crud.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.RemoveCity(id)
	return nil
}

// AddressService — сервис адресов.
type AddressService struct {
	*crud[model.Address, repository.AddressFilter]
}

// NewAddressService создаёт сервис адресов.
func NewAddressService(repo repository.AddressRepository, clk clock.Clock, logger *slog.Logger) *AddressService {
	rules := entityRules[model.Address]{
		name:     "address",
		identity: func(a *model.Address) *model.Identity { return &a.Identity },
		validate: func(a *model.Address, _ time.Time) error { return validate.Address(a) },
	}
	return &AddressService{crud: newCRUD[model.Address, repository.AddressFilter](repo, rules, clk, logger)}
}
