// Package validation checks user supplied text against the field
// constraints declared on the domain creation structs.
package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails on an empty tag or nil func
	_ = validate.RegisterValidation("storable", storable)
	return &Validator{validate: validate}
}

// storable rejects strings PostgreSQL refuses to store in a text column:
// invalid UTF-8 and NUL bytes.
func storable(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// codeFor maps a failed field check to its redirect code. Length failures
// use tooShort.
func codeFor(err error, tooShort string) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Tag() == "storable" {
		return internal_errors.CodeInvalidText
	}
	return tooShort
}

// Name expects an already trimmed name. Length is counted in runes.
func (v *Validator) Name(name domain.UserName) error {
	if err := v.validate.StructPartial(domain.UserCreationData{Name: name}, "Name"); err != nil {
		return internal_errors.Validation(codeFor(err, internal_errors.CodeNameTooShort))
	}
	return nil
}

func (v *Validator) MessageText(text domain.MsgText) error {
	if err := v.validate.StructPartial(domain.MessageCreationData{Text: text}, "Text"); err != nil {
		return internal_errors.Validation(codeFor(err, internal_errors.CodeMessageTooShort))
	}
	return nil
}

func (v *Validator) CommentText(text domain.CommentText) error {
	if err := v.validate.StructPartial(domain.CommentCreationData{Text: text}, "Text"); err != nil {
		return internal_errors.Validation(codeFor(err, internal_errors.CodeCommentTooShort))
	}
	return nil
}
