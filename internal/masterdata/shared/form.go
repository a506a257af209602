package shared

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Modal describes the state of an entity form: create or edit, plus the
// notice shown after a failed submit.
type Modal struct {
	Editing bool
	ID      int64
	Error   string
	Errors  map[string]string
}

// Validate runs struct tag validation and returns messages keyed by field.
func Validate(form any) map[string]string {
	errs := make(map[string]string)
	if err := validate.Struct(form); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				switch fe.Tag() {
				case "required":
					errs[fe.Field()] = "This field is required"
				case "email":
					errs[fe.Field()] = "Enter a valid email address"
				case "hexcolor":
					errs[fe.Field()] = "Enter a color like #000000"
				default:
					errs[fe.Field()] = "Invalid value"
				}
			}
		}
	}
	return errs
}
