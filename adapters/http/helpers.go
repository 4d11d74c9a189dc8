package http

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/i18n"
	"github.com/khoahotran/cv-portfolio/pkg/validate"
)

// bindError turns a binding failure into a field-keyed validation error when the
// validator produced one.
func bindError(err error, details string) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			name := fe.Field()
			fields[strings.ToLower(name[:1])+name[1:]] = validate.FieldMessage(fe)
		}
		return apperror.NewValidation(fields)
	}
	return apperror.NewInvalidInput(details, err)
}

func localeParam(c *gin.Context) (i18n.Locale, error) {
	l, err := i18n.Parse(c.Param("locale"))
	if err != nil {
		return "", apperror.NewInvalidInput("unsupported locale", err)
	}
	return l, nil
}
