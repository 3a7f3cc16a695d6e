package providers

import (
	"path/filepath"

	"e84consent/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks the service settings. Consent overrides are operator
// input and are deliberately left unchecked.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	v.AddValidator("unixPath", func(val interface{}) bool {
		s, ok := val.(string)
		return ok && s != "" && filepath.IsAbs(s)
	})
	if !v.Validate() {
		return v.Errors
	}
	return nil
}
