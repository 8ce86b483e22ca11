// dto.go — JSON-представления сущностей API и конвертеры в модели.
package handlers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// CountryDTO — страна.
type CountryDTO struct {
	ID   openapi_types.UUID `json:"id"`
	Name string             `json:"name"`
}

// CityDTO — город.
type CityDTO struct {
	ID        openapi_types.UUID `json:"id"`
	CountryID openapi_types.UUID `json:"country_id"`
	Name      string             `json:"name"`
}

// AddressDTO — адрес.
type AddressDTO struct {
	ID             openapi_types.UUID `json:"id"`
	CityID         openapi_types.UUID `json:"city_id"`
	Street         string             `json:"street"`
	HouseNumber    string             `json:"house_number"`
	EntranceNumber *int16             `json:"entrance_number"`
	Floor          *int16             `json:"floor"`
	FlatNumber     *int16             `json:"flat_number"`
}

// MuseumDTO — музей.
type MuseumDTO struct {
	ID        openapi_types.UUID `json:"id"`
	Title     string             `json:"title"`
	AddressID openapi_types.UUID `json:"address_id"`
	Rating    float64            `json:"rating"`
	Created   *time.Time         `json:"created"`
	Modified  *time.Time         `json:"modified"`
}

// GuideDTO — экскурсовод. Дата рождения передаётся как YYYY-MM-DD.
type GuideDTO struct {
	ID        openapi_types.UUID  `json:"id"`
	Firstname string              `json:"firstname"`
	Lastname  string              `json:"lastname"`
	Birthday  *openapi_types.Date `json:"birthday"`
	Created   *time.Time          `json:"created"`
	Modified  *time.Time          `json:"modified"`
}

// ExhibitionDTO — выставка.
type ExhibitionDTO struct {
	ID       openapi_types.UUID `json:"id"`
	MuseumID openapi_types.UUID `json:"museum_id"`
	Theme    string             `json:"theme"`
	Floor    int32              `json:"floor"`
	Info     string             `json:"info"`
	Created  *time.Time         `json:"created"`
	Modified *time.Time         `json:"modified"`
}

// ExhibitDTO — экспонат.
type ExhibitDTO struct {
	ID           openapi_types.UUID `json:"id"`
	ExpositionID openapi_types.UUID `json:"exposition_id"`
	Title        string             `json:"title"`
	Info         string             `json:"info"`
	Era          int32              `json:"era"`
	Created      *time.Time         `json:"created"`
	Modified     *time.Time         `json:"modified"`
}

// MuseumGuideDTO — связь музея и экскурсовода.
type MuseumGuideDTO struct {
	ID       openapi_types.UUID `json:"id"`
	MuseumID openapi_types.UUID `json:"museum_id"`
	GuideID  openapi_types.UUID `json:"guide_id"`
}

// MuseumDetailDTO — музей вместе с выставками и экскурсоводами.
type MuseumDetailDTO struct {
	MuseumDTO
	Exhibitions []ExhibitionDTO  `json:"exhibitions"`
	Guides      []MuseumGuideDTO `json:"guides"`
}

// ExhibitionDetailDTO — выставка вместе с экспонатами.
type ExhibitionDetailDTO struct {
	ExhibitionDTO
	Exhibits []ExhibitDTO `json:"exhibits"`
}

// GuideDetailDTO — экскурсовод вместе со связями с музеями.
type GuideDetailDTO struct {
	GuideDTO
	Museums []MuseumGuideDTO `json:"museums"`
}

// --- Конвертеры ---

func countryToDTO(c *model.Country) CountryDTO {
	return CountryDTO{ID: c.ID, Name: c.Name}
}

func countryFromDTO(d *CountryDTO) model.Country {
	return model.Country{Identity: model.Identity{ID: d.ID}, Name: d.Name}
}

func cityToDTO(c *model.City) CityDTO {
	return CityDTO{ID: c.ID, CountryID: c.CountryID, Name: c.Name}
}

func cityFromDTO(d *CityDTO) model.City {
	return model.City{Identity: model.Identity{ID: d.ID}, CountryID: d.CountryID, Name: d.Name}
}

func addressToDTO(a *model.Address) AddressDTO {
	return AddressDTO{
		ID:             a.ID,
		CityID:         a.CityID,
		Street:         a.Street,
		HouseNumber:    a.HouseNumber,
		EntranceNumber: a.EntranceNumber,
		Floor:          a.Floor,
		FlatNumber:     a.FlatNumber,
	}
}

func addressFromDTO(d *AddressDTO) model.Address {
	return model.Address{
		Identity:       model.Identity{ID: d.ID},
		CityID:         d.CityID,
		Street:         d.Street,
		HouseNumber:    d.HouseNumber,
		EntranceNumber: d.EntranceNumber,
		Floor:          d.Floor,
		FlatNumber:     d.FlatNumber,
	}
}

func museumToDTO(m *model.Museum) MuseumDTO {
	return MuseumDTO{
		ID:        m.ID,
		Title:     m.Title,
		AddressID: m.AddressID,
		Rating:    m.Rating,
		Created:   m.Created,
		Modified:  m.Modified,
	}
}

func museumFromDTO(d *MuseumDTO) model.Museum {
	return model.Museum{
		Identity:   model.Identity{ID: d.ID},
		Timestamps: model.Timestamps{Created: d.Created, Modified: d.Modified},
		Title:      d.Title,
		AddressID:  d.AddressID,
		Rating:     d.Rating,
	}
}

func guideToDTO(g *model.Guide) GuideDTO {
	return GuideDTO{
		ID:        g.ID,
		Firstname: g.Firstname,
		Lastname:  g.Lastname,
		Birthday:  &openapi_types.Date{Time: g.Birthday},
		Created:   g.Created,
		Modified:  g.Modified,
	}
}

// guideFromDTO оставляет нулевую дату рождения, если поле не передано:
// сервис вернёт ошибку обязательного поля.
func guideFromDTO(d *GuideDTO) model.Guide {
	g := model.Guide{
		Identity:   model.Identity{ID: d.ID},
		Timestamps: model.Timestamps{Created: d.Created, Modified: d.Modified},
		Firstname:  d.Firstname,
		Lastname:   d.Lastname,
	}
	if d.Birthday != nil {
		g.Birthday = d.Birthday.Time
	}
	return g
}

func exhibitionToDTO(e *model.Exhibition) ExhibitionDTO {
	return ExhibitionDTO{
		ID:       e.ID,
		MuseumID: e.MuseumID,
		Theme:    e.Theme,
		Floor:    e.Floor,
		Info:     e.Info,
		Created:  e.Created,
		Modified: e.Modified,
	}
}

func exhibitionFromDTO(d *ExhibitionDTO) model.Exhibition {
	return model.Exhibition{
		Identity:   model.Identity{ID: d.ID},
		Timestamps: model.Timestamps{Created: d.Created, Modified: d.Modified},
		MuseumID:   d.MuseumID,
		Theme:      d.Theme,
		Floor:      d.Floor,
		Info:       d.Info,
	}
}

func exhibitToDTO(e *model.Exhibit) ExhibitDTO {
	return ExhibitDTO{
		ID:           e.ID,
		ExpositionID: e.ExpositionID,
		Title:        e.Title,
		Info:         e.Info,
		Era:          e.Era,
		Created:      e.Created,
		Modified:     e.Modified,
	}
}

func exhibitFromDTO(d *ExhibitDTO) model.Exhibit {
	return model.Exhibit{
		Identity:     model.Identity{ID: d.ID},
		Timestamps:   model.Timestamps{Created: d.Created, Modified: d.Modified},
		ExpositionID: d.ExpositionID,
		Title:        d.Title,
		Info:         d.Info,
		Era:          d.Era,
	}
}

func museumGuideToDTO(mg *model.MuseumGuide) MuseumGuideDTO {
	return MuseumGuideDTO{ID: mg.ID, MuseumID: mg.MuseumID, GuideID: mg.GuideID}
}

func museumGuideFromDTO(d *MuseumGuideDTO) model.MuseumGuide {
	return model.MuseumGuide{Identity: model.Identity{ID: d.ID}, MuseumID: d.MuseumID, GuideID: d.GuideID}
}

func museumDetailToDTO(d *model.MuseumDetail) MuseumDetailDTO {
	dto := MuseumDetailDTO{
		MuseumDTO:   museumToDTO(&d.Museum),
		Exhibitions: make([]ExhibitionDTO, 0, len(d.Exhibitions)),
		Guides:      make([]MuseumGuideDTO, 0, len(d.Guides)),
	}
	for i := range d.Exhibitions {
		dto.Exhibitions = append(dto.Exhibitions, exhibitionToDTO(&d.Exhibitions[i]))
	}
	for i := range d.Guides {
		dto.Guides = append(dto.Guides, museumGuideToDTO(&d.Guides[i]))
	}
	return dto
}

func museumDetailFromDTO(d *MuseumDetailDTO) model.MuseumDetail {
	detail := model.MuseumDetail{
		Museum:      museumFromDTO(&d.MuseumDTO),
		Exhibitions: make([]model.Exhibition, 0, len(d.Exhibitions)),
		Guides:      make([]model.MuseumGuide, 0, len(d.Guides)),
	}
	for i := range d.Exhibitions {
		detail.Exhibitions = append(detail.Exhibitions, exhibitionFromDTO(&d.Exhibitions[i]))
	}
	for i := range d.Guides {
		detail.Guides = append(detail.Guides, museumGuideFromDTO(&d.Guides[i]))
	}
	return detail
}

func exhibitionDetailToDTO(d *model.ExhibitionDetail) ExhibitionDetailDTO {
	dto := ExhibitionDetailDTO{
		ExhibitionDTO: exhibitionToDTO(&d.Exhibition),
		Exhibits:      make([]ExhibitDTO, 0, len(d.Exhibits)),
	}
	for i := range d.Exhibits {
		dto.Exhibits = append(dto.Exhibits, exhibitToDTO(&d.Exhibits[i]))
	}
	return dto
}

func exhibitionDetailFromDTO(d *ExhibitionDetailDTO) model.ExhibitionDetail {
	detail := model.ExhibitionDetail{
		Exhibition: exhibitionFromDTO(&d.ExhibitionDTO),
		Exhibits:   make([]model.Exhibit, 0, len(d.Exhibits)),
	}
	for i := range d.Exhibits {
		detail.Exhibits = append(detail.Exhibits, exhibitFromDTO(&d.Exhibits[i]))
	}
	return detail
}

func guideDetailToDTO(d *model.GuideDetail) GuideDetailDTO {
	dto := GuideDetailDTO{
		GuideDTO: guideToDTO(&d.Guide),
		Museums:  make([]MuseumGuideDTO, 0, len(d.Museums)),
	}
	for i := range d.Museums {
		dto.Museums = append(dto.Museums, museumGuideToDTO(&d.Museums[i]))
	}
	return dto
}

func guideDetailFromDTO(d *GuideDetailDTO) model.GuideDetail {
	detail := model.GuideDetail{
		Guide:   guideFromDTO(&d.GuideDTO),
		Museums: make([]model.MuseumGuide, 0, len(d.Museums)),
	}
	for i := range d.Museums {
		detail.Museums = append(detail.Museums, museumGuideFromDTO(&d.Museums[i]))
	}
	return detail
}
