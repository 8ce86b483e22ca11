package model

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Максимальные длины строковых полей (в символах).
const (
	CountryNameMaxLen = 255
	CityNameMaxLen    = 80
	StreetMaxLen      = 255
	HouseNumberMaxLen = 8
)

// Country — страна. Хранится в таблице museum_data.country.
type Country struct {
	Identity
	// Name — название страны
	Name string
}

func (c Country) String() string {
	return c.Name
}

// City — город. Хранится в таблице museum_data.city.
// Пара (Name, CountryID) уникальна.
type City struct {
	Identity
	// CountryID — страна, к которой относится город
	CountryID uuid.UUID
	// Name — название города
	Name string
}

// Address — адрес. Хранится в таблице museum_data.address.
// Полный набор полей уникален; пустые необязательные поля считаются равными.
type Address struct {
	Identity
	// CityID — город
	CityID uuid.UUID
	// Street — название улицы
	Street string
	// HouseNumber — номер дома (12, 12а, 56/58, 56-58а ...)
	HouseNumber string
	// EntranceNumber — номер подъезда (может быть nil)
	EntranceNumber *int16
	// Floor — этаж (может быть nil)
	Floor *int16
	// FlatNumber — номер квартиры (может быть nil)
	FlatNumber *int16
}

// Line возвращает адрес одной строкой без названия города.
// Пустые необязательные части пропускаются.
func (a Address) Line() string {
	parts := []string{a.Street, a.HouseNumber}
	for _, p := range []*int16{a.EntranceNumber, a.Floor, a.FlatNumber} {
		if p != nil {
			parts = append(parts, strconv.Itoa(int(*p)))
		}
	}
	return strings.Join(parts, " ")
}
