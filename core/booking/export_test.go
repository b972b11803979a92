package booking

import (
	"github.com/go-playground/validator/v10"

	"github.com/fsnd-projects/fsnd/core"
)

func NewTestValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}
