package validate

import (
	"time"

	"github.com/museum-data/museum-admin/internal/domain/model"
)

// Наборы правил для сущностей. Возвращают Errors со всеми нарушениями
// или nil. now — текущий момент, используется для дат и отметок времени.

// Country проверяет страну.
func Country(c *model.Country) error {
	var errs Errors
	errs.Add(text("name", c.Name, model.CountryNameMaxLen))
	return errs.Err()
}

// City проверяет город.
func City(c *model.City) error {
	var errs Errors
	errs.Add(Reference("country_id", c.CountryID))
	errs.Add(text("name", c.Name, model.CityNameMaxLen))
	return errs.Err()
}

// Address проверяет адрес.
func Address(a *model.Address) error {
	var errs Errors
	errs.Add(Reference("city_id", a.CityID))

	if err := text("street", a.Street, model.StreetMaxLen); err != nil {
		errs.Add(err)
	} else {
		errs.Add(StreetName(a.Street))
	}

	if err := text("house_number", a.HouseNumber, model.HouseNumberMaxLen); err != nil {
		errs.Add(err)
	} else {
		errs.Add(HouseNumber(a.HouseNumber))
	}
	return errs.Err()
}

// Museum проверяет музей.
func Museum(m *model.Museum, now time.Time) error {
	var errs Errors
	errs.Add(text("title", m.Title, model.TitleMaxLen))
	errs.Add(Reference("address_id", m.AddressID))
	errs.Add(NonNegative("rating", m.Rating))
	errs.Add(timestamps(m.Timestamps, now))
	return errs.Err()
}

// Guide проверяет экскурсовода.
func Guide(g *model.Guide, now time.Time) error {
	var errs Errors
	errs.Add(text("firstname", g.Firstname, model.NameMaxLen))
	errs.Add(text("lastname", g.Lastname, model.NameMaxLen))
	if g.Birthday.IsZero() {
		errs.Add(&FieldError{
			Field:   "birthday",
			Value:   nil,
			Code:    CodeRequired,
			Message: "This field is required.",
		})
	} else {
		errs.Add(Birthday(g.Birthday, now))
	}
	errs.Add(timestamps(g.Timestamps, now))
	return errs.Err()
}

// Exhibition проверяет выставку.
func Exhibition(e *model.Exhibition, now time.Time) error {
	var errs Errors
	errs.Add(Reference("museum_id", e.MuseumID))
	errs.Add(text("theme", e.Theme, model.TitleMaxLen))
	errs.Add(NonNegative("floor", e.Floor))
	errs.Add(Required("info", e.Info))
	errs.Add(timestamps(e.Timestamps, now))
	return errs.Err()
}

// Exhibit проверяет экспонат.
func Exhibit(e *model.Exhibit, now time.Time) error {
	var errs Errors
	errs.Add(Reference("exposition_id", e.ExpositionID))
	errs.Add(text("title", e.Title, model.TitleMaxLen))
	errs.Add(Required("info", e.Info))
	errs.Add(timestamps(e.Timestamps, now))
	return errs.Err()
}

// MuseumGuide проверяет связь музея и экскурсовода.
func MuseumGuide(mg *model.MuseumGuide) error {
	var errs Errors
	errs.Add(Reference("museum_id", mg.MuseumID))
	errs.Add(Reference("guide_id", mg.GuideID))
	return errs.Err()
}

// text — обязательная строка с ограничением длины.
func text(field, value string, limit int) error {
	if err := Required(field, value); err != nil {
		return err
	}
	return MaxLength(field, value, limit)
}

func timestamps(ts model.Timestamps, now time.Time) error {
	var errs Errors
	errs.Add(NotInFuture("created", ts.Created, now))
	errs.Add(NotInFuture("modified", ts.Modified, now))
	return errs.Err()
}
