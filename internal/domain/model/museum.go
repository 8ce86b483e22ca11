package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Максимальные длины строковых полей (в символах).
const (
	TitleMaxLen = 255
	NameMaxLen  = 80
)

// Museum — музей. Хранится в таблице museum_data.museum.
// Пара (Title, AddressID) уникальна.
type Museum struct {
	Identity
	Timestamps
	// Title — название музея
	Title string
	// AddressID — адрес музея
	AddressID uuid.UUID
	// Rating — рейтинг, не меньше нуля
	Rating float64
}

func (m Museum) String() string {
	return m.Title
}

// Guide — экскурсовод. Хранится в таблице museum_data.guide.
type Guide struct {
	Identity
	Timestamps
	Firstname string
	Lastname  string
	// Birthday — дата рождения (только дата, время не используется)
	Birthday time.Time
}

func (g Guide) String() string {
	return g.Firstname + " " + g.Lastname
}

// Exhibition — выставка музея. Хранится в таблице museum_data.exhibition.
// Theme уникальна глобально.
type Exhibition struct {
	Identity
	Timestamps
	// MuseumID — музей, в котором проходит выставка
	MuseumID uuid.UUID
	// Theme — тема выставки
	Theme string
	// Floor — этаж, не меньше нуля
	Floor int32
	// Info — описание
	Info string
}

func (e Exhibition) String() string {
	return fmt.Sprintf("%s %d", e.Theme, e.Floor)
}

// Exhibit — экспонат. Хранится в таблице museum_data.exhibit.
// Title уникален глобально.
type Exhibit struct {
	Identity
	Timestamps
	// ExpositionID — выставка, к которой относится экспонат
	ExpositionID uuid.UUID
	Title        string
	Info         string
	// Era — эпоха (год или век)
	Era int32
}

// MuseumGuide — связь музея и экскурсовода.
// Хранится в таблице museum_data.museum_guide, пара (MuseumID, GuideID) уникальна.
type MuseumGuide struct {
	Identity
	MuseumID uuid.UUID
	GuideID  uuid.UUID
}

// MuseumDetail — музей вместе с выставками и экскурсоводами.
// Редактируется целиком, как одна форма.
type MuseumDetail struct {
	Museum      Museum
	Exhibitions []Exhibition
	Guides      []MuseumGuide
}

// ExhibitionDetail — выставка вместе с экспонатами.
type ExhibitionDetail struct {
	Exhibition Exhibition
	Exhibits   []Exhibit
}

// GuideDetail — экскурсовод вместе со связями с музеями.
type GuideDetail struct {
	Guide   Guide
	Museums []MuseumGuide
}
