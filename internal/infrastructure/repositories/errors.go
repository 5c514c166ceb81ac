package repositories

import (
	"errors"
	"time"

	domainerrors "devqa.backend/internal/domain/errors"
	"gorm.io/gorm"
)

// translateError maps driver errors to domain sentinels. It relies on the
// connection being opened with gorm.Config.TranslateError.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(domainerrors.ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return errors.Join(domainerrors.ErrInvalidInput, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainerrors.ErrNotFound
	}
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nonNilURLs(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
