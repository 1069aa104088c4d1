package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// validate checks request bodies. Besides the built-in tags it knows
// "rootdomain" and "contact_email", which apply the same rules as the
// submission form.
var validate = newValidator()

// domainEmailRequest is the body of POST /analyze and POST /notifications.
type domainEmailRequest struct {
	Domain string `json:"domain" validate:"required,rootdomain"`
	Email  string `json:"email"  validate:"required,contact_email"`
}

func (req *domainEmailRequest) normalize() {
	req.Domain = strings.TrimSpace(req.Domain)
	req.Email = strings.TrimSpace(req.Email)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("rootdomain", func(fl validator.FieldLevel) bool {
		return models.ValidDomain(fl.Field().String())
	})
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return models.ValidEmail(fl.Field().String())
	})
	return v
}

// fieldErrors maps each failing json field to the tag it failed.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
