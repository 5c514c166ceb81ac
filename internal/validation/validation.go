// Package validation checks input structs against their `binding` tags, the
// same tags gin enforces on request bodies, and reports failures as
// domain validation errors.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	domainerrors "devqa.backend/internal/domain/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("maxbytes", maxBytes)
	})
	return validate
}

// maxBytes limits the encoded length of a string. bcrypt only accepts
// passwords up to 72 bytes, which max= would count in characters.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// jsonFieldName reports fields by their JSON name so clients see the keys
// they sent.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Struct validates v and returns nil or a validation *AppError.
func Struct(v interface{}) error {
	if err := instance().Struct(v); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts validator output into a validation *AppError. Errors
// of other kinds (malformed JSON, wrong types) become a plain bad request.
func Translate(err error) *domainerrors.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainerrors.BadRequest("invalid request body")
	}

	fields := make([]domainerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domainerrors.FieldError{
			Field: fieldPath(fe),
			Rule:  rule(fe),
		})
	}
	return domainerrors.Validation("validation failed", fields)
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func rule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// ginValidator lets gin's binding use the shared validator so request
// bodies report the same field names as usecase inputs.
type ginValidator struct{}

func (ginValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return nil
		}
		return instance().Struct(obj)
	case reflect.Struct:
		return instance().Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := (ginValidator{}).ValidateStruct(v.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ginValidator) Engine() interface{} {
	return instance()
}

// UseWithGin installs the shared validator as gin's binding validator.
func UseWithGin() {
	binding.Validator = ginValidator{}
}
