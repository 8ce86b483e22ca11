// catalog.go — сервисы экскурсоводов, выставок, экспонатов
// и связей музей — экскурсовод.
package service

import (
	"log/slog"
	"time"

	"github.com/museum-data/museum-admin/internal/domain/clock"
	"github.com/museum-data/museum-admin/internal/domain/model"
	"github.com/museum-data/museum-admin/internal/domain/validate"
	"github.com/museum-data/museum-admin/internal/repository"
)

// GuideService — сервис экскурсоводов.
type GuideService struct {
	*crud[model.Guide, repository.GuideFilter]
	tx StoreRunner
}

// NewGuideService создаёт сервис экскурсоводов.
// Возраст проверяется относительно текущей даты clk.
func NewGuideService(repo repository.GuideRepository, tx StoreRunner, clk clock.Clock, logger *slog.Logger) *GuideService {
	rules := entityRules[model.Guide]{
		name:       "guide",
		identity:   func(g *model.Guide) *model.Identity { return &g.Identity },
		timestamps: func(g *model.Guide) *model.Timestamps { return &g.Timestamps },
		validate:   validate.Guide,
	}
	return &GuideService{
		crud: newCRUD[model.Guide, repository.GuideFilter](repo, rules, clk, logger),
		tx:   tx,
	}
}

// ExhibitionService — сервис выставок.
type ExhibitionService struct {
	*crud[model.Exhibition, repository.ExhibitionFilter]
	tx StoreRunner
}

// NewExhibitionService создаёт сервис выставок.
func NewExhibitionService(repo repository.ExhibitionRepository, tx StoreRunner, clk clock.Clock, logger *slog.Logger) *ExhibitionService {
	return &ExhibitionService{
		crud: newCRUD[model.Exhibition, repository.ExhibitionFilter](repo, exhibitionRules, clk, logger),
		tx:   tx,
	}
}

var exhibitionRules = entityRules[model.Exhibition]{
	name:       "exhibition",
	identity:   func(e *model.Exhibition) *model.Identity { return &e.Identity },
	timestamps: func(e *model.Exhibition) *model.Timestamps { return &e.Timestamps },
	validate:   validate.Exhibition,
}

// ExhibitService — сервис экспонатов.
type ExhibitService struct {
	*crud[model.Exhibit, repository.ExhibitFilter]
}

// NewExhibitService создаёт сервис экспонатов.
func NewExhibitService(repo repository.ExhibitRepository, clk clock.Clock, logger *slog.Logger) *ExhibitService {
	rules := entityRules[model.Exhibit]{
		name:       "exhibit",
		identity:   func(e *model.Exhibit) *model.Identity { return &e.Identity },
		timestamps: func(e *model.Exhibit) *model.Timestamps { return &e.Timestamps },
		validate:   validate.Exhibit,
	}
	return &ExhibitService{crud: newCRUD[model.Exhibit, repository.ExhibitFilter](repo, rules, clk, logger)}
}

// MuseumGuideService — сервис связей музей — экскурсовод.
type MuseumGuideService struct {
	*crud[model.MuseumGuide, repository.MuseumGuideFilter]
}

// NewMuseumGuideService создаёт сервис связей музей — экскурсовод.
func NewMuseumGuideService(repo repository.MuseumGuideRepository, clk clock.Clock, logger *slog.Logger) *MuseumGuideService {
	return &MuseumGuideService{crud: newCRUD[model.MuseumGuide, repository.MuseumGuideFilter](repo, museumGuideRules, clk, logger)}
}

var museumGuideRules = entityRules[model.MuseumGuide]{
	name:     "museum_guide",
	identity: func(mg *model.MuseumGuide) *model.Identity { return &mg.Identity },
	validate: func(mg *model.MuseumGuide, _ time.Time) error { return validate.MuseumGuide(mg) },
}
