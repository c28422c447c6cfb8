package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	minYear    = 1900
)

// profileFields порядок проверки полей, первая ошибка уходит клиенту
var profileFields = []string{"birth_date", "birth_time", "birth_location", "birth_country"}

// profileInput правила для тела POST /profile
type profileInput struct {
	BirthDate     string `json:"birth_date" validate:"required,datetime=2006-01-02,birthdate_range"`
	BirthTime     string `json:"birth_time" validate:"required,datetime=15:04"`
	BirthLocation string `json:"birth_location" validate:"required,min=2,max=100"`
	BirthCountry  string `json:"birth_country" validate:"required,min=2,max=100"`
}

// Validator проверяет данные о рождении и возвращает *domain.ValidationError
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := &Validator{
		validate: validator.New(),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.validate.RegisterValidation("birthdate_range", v.birthDateInRange)

	return v
}

func (v *Validator) ValidateProfile(body map[string]any) (domain.BirthData, error) {
	values := make(map[string]string, len(profileFields))
	for _, field := range profileFields {
		raw, ok := body[field]
		if !ok || raw == nil {
			return domain.BirthData{}, &domain.ValidationError{Field: field, Reason: "Field is required"}
		}
		s, ok := raw.(string)
		if !ok {
			return domain.BirthData{}, &domain.ValidationError{Field: field, Reason: "Must be a string"}
		}
		values[field] = strings.TrimSpace(s)
	}

	input := profileInput{
		BirthDate:     values["birth_date"],
		BirthTime:     values["birth_time"],
		BirthLocation: values["birth_location"],
		BirthCountry:  values["birth_country"],
	}

	if err := v.validate.Struct(input); err != nil {
		return domain.BirthData{}, toValidationError(err)
	}

	return domain.BirthData{
		BirthDate:     input.BirthDate,
		BirthTime:     input.BirthTime,
		BirthLocation: input.BirthLocation,
		BirthCountry:  input.BirthCountry,
	}, nil
}

// birthDateInRange дата не раньше 1900 года и не в будущем
func (v *Validator) birthDateInRange(fl validator.FieldLevel) bool {
	date, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	if date.Year() < minYear {
		return false
	}
	today := v.now().UTC().Truncate(24 * time.Hour)
	return !date.After(today)
}

func toValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	return &domain.ValidationError{
		Field:  fe.Field(),
		Reason: reasonFor(fe),
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "datetime":
		if fe.Param() == timeLayout {
			return "Must be in HH:MM format (24-hour)"
		}
		return "Must be in YYYY-MM-DD format"
	case "birthdate_range":
		return "Must be between 1900-01-01 and today"
	case "min":
		if fe.Kind() != reflect.String {
			return "Must be at least " + fe.Param()
		}
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Kind() != reflect.String {
			return "Must be at most " + fe.Param()
		}
		return "Must be at most " + fe.Param() + " characters"
	default:
		return "Invalid value"
	}
}
