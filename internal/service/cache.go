// cache.go — LRU-кэш справочников (страны, города) с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// ReferenceCache — кэш стран и городов по ID.
// Хранит копии значений: изменение полученной записи не меняет кэш.
type ReferenceCache struct {
	countries *expirable.LRU[uuid.UUID, model.Country]
	cities    *expirable.LRU[uuid.UUID, model.City]
}

// NewReferenceCache создаёт кэш с указанным размером (на каждый справочник) и TTL.
func NewReferenceCache(maxSize int, ttl time.Duration) *ReferenceCache {
	return &ReferenceCache{
		countries: expirable.NewLRU[uuid.UUID, model.Country](maxSize, nil, ttl),
		cities:    expirable.NewLRU[uuid.UUID, model.City](maxSize, nil, ttl),
	}
}

func lookup[V any](kind string, cache *expirable.LRU[uuid.UUID, V], id uuid.UUID) (*V, bool) {
	val, ok := cache.Get(id)
	if !ok {
		cacheMissesTotal.WithLabelValues(kind).Inc()
		return nil, false
	}
	cacheHitsTotal.WithLabelValues(kind).Inc()
	return &val, true
}

// Country возвращает страну из кэша.
func (c *ReferenceCache) Country(id uuid.UUID) (*model.Country, bool) {
	return lookup("country", c.countries, id)
}

// SetCountry добавляет или обновляет страну.
func (c *ReferenceCache) SetCountry(country *model.Country) {
	c.countries.Add(country.ID, *country)
}

// RemoveCountry удаляет страну и все города: они могли быть удалены каскадно.
func (c *ReferenceCache) RemoveCountry(id uuid.UUID) {
	c.countries.Remove(id)
	c.cities.Purge()
}

// City возвращает город из кэша.
func (c *ReferenceCache) City(id uuid.UUID) (*model.City, bool) {
	return lookup("city", c.cities, id)
}

// SetCity добавляет или обновляет город.
func (c *ReferenceCache) SetCity(city *model.City) {
	c.cities.Add(city.ID, *city)
}

// RemoveCity удаляет город.
func (c *ReferenceCache) RemoveCity(id uuid.UUID) {
	c.cities.Remove(id)
}

// Len возвращает количество записей (страны, города).
func (c *ReferenceCache) Len() (countries, cities int) {
	return c.countries.Len(), c.cities.Len()
}
