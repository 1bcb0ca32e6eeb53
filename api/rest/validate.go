package rest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/kasuganosora/fighterdemo/server/model"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("rest: gin binding engine is not go-playground/validator")
		}
		if err := v.RegisterValidation("skillname", validSkillName); err != nil {
			panic(err)
		}
	})
}

// validSkillName rejects names that would not survive the delimited column.
func validSkillName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && !strings.Contains(s, model.SkillDelimiter)
}

// validationMessage turns a bind error into a short client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "skillname":
		return fmt.Sprintf("%s must be non-empty and must not contain %q", field, model.SkillDelimiter)
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
