package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/salon-api/internal/model"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)

var registerOnce sync.Once

// Register installs the custom tags on gin's binding validator. Safe to call
// more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not validator/v10")
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn installs the custom tags and JSON field naming on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)

	tags := map[string]validator.Func{
		// timeslot accepts any 24-hour HH:MM; app.time_slots only shapes the
		// availability grid.
		"timeslot": func(fl validator.FieldLevel) bool {
			return model.ValidTimeOfDay(fl.Field().String())
		},
		"weekday": func(fl validator.FieldLevel) bool {
			_, ok := model.ParseWeekday(fl.Field().String())
			return ok
		},
		"phone": func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Message turns a binding error into a single client-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "timeslot":
		return fmt.Sprintf("%s must be a time in HH:MM format", field)
	case "weekday":
		return fmt.Sprintf("%s contains an unknown weekday %q", field, fe.Value())
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
