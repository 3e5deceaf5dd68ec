// Package validation validates configuration and case manifests.
//
// Struct tag validation (go-playground/validator) covers static
// configuration; the programmatic Validator collects errors for checks that
// need code, such as regular expression compilation or file existence.
//
// # Struct Tag Validation
//
//	type SolverConfig struct {
//	    NodeCapacity int `validate:"gt=0"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("cases[0].spec", c.Spec)
//	err := v.Validate()
package validation
