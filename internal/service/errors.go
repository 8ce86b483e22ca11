// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"

	"github.com/museum-data/museum-admin/internal/domain/validate"
	"github.com/museum-data/museum-admin/internal/repository"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	// Цепочка содержит validate.Errors с нарушениями по полям.
	ErrValidation = errors.New("ошибка валидации")
)

// mapRepoError переводит ошибку репозитория в ошибку сервиса.
// Нарушение внешнего ключа или CHECK становится ошибкой валидации поля.
func mapRepoError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}

	var ce *repository.ConstraintError
	if errors.As(err, &ce) {
		switch {
		case errors.Is(ce, repository.ErrConflict):
			return fmt.Errorf("%w: %w", ErrConflict, ce) //nolint:errorlint // намеренный двойной wrap
		case errors.Is(ce, repository.ErrInvalidReference):
			return fmt.Errorf("%w: %w", ErrValidation, validate.Errors{{ //nolint:errorlint // намеренный двойной wrap
				Field:   ce.Field,
				Code:    validate.CodeInvalidReference,
				Message: "Referenced record does not exist.",
			}})
		case errors.Is(ce, repository.ErrCheckViolation):
			return fmt.Errorf("%w: %w", ErrValidation, validate.Errors{{ //nolint:errorlint // намеренный двойной wrap
				Field:   ce.Field,
				Code:    validate.CodeNegative,
				Message: "Value should be equal or greater than zero.",
			}})
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
