package service

import (
	"fmt"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/museum-data/museum-admin/internal/domain/validate"
)

// Prometheus-метрики сервисного слоя.
var (
	validationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ma_validation_failures_total",
		Help: "Количество нарушений правил валидации по сущностям и полям.",
	}, []string{"entity", "field"})

	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ma_cache_hits_total",
		Help: "Попадания в кэш справочников.",
	}, []string{"kind"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ma_cache_misses_total",
		Help: "Промахи кэша справочников.",
	}, []string{"kind"})
)

// invalid учитывает нарушения в метриках и оборачивает их в ErrValidation.
func invalid(entity string, err error) error {
	if errs, ok := validate.AsErrors(err); ok {
		for _, fe := range errs {
			validationFailuresTotal.WithLabelValues(entity, fieldLabel(fe.Field)).Inc()
		}
	}
	return fmt.Errorf("%w: %w", ErrValidation, err) //nolint:errorlint // намеренный двойной wrap
}

var itemIndex = regexp.MustCompile(`\[\d+\]`)

// fieldLabel убирает индексы элементов (exhibitions[3].theme → exhibitions[].theme),
// чтобы число значений лейбла не зависело от размера формы.
func fieldLabel(field string) string {
	return itemIndex.ReplaceAllString(field, "[]")
}
