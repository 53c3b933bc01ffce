package commands

import (
	"unicode/utf8"

	e "github.com/arflisch/companyapi/internal/company/errors"
	"github.com/arflisch/companyapi/internal/company/models"
)

const (
	maxNameLength = 50
	maxVatLength  = 20
)

// validateCompanyInput checks every business rule on the input and
// returns one message per violated rule, so callers see the full list in
// a single round trip. A nil input is itself a validation failure.
func validateCompanyInput(dto *models.CreateCompanyDTO) error {
	if dto == nil {
		return &e.ValidationErrors{Messages: []string{"Company data is required."}}
	}

	violations := &e.ValidationErrors{}
	for _, msg := range validateName(dto.Name) {
		violations.Add(msg)
	}
	for _, msg := range validateVat(dto.Vat) {
		violations.Add(msg)
	}
	if violations.HasErrors() {
		return violations
	}
	return nil
}

func validateName(name string) []string {
	var violations []string
	if name == "" {
		violations = append(violations, "Company name is required.")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		violations = append(violations, "Company name must not exceed 50 characters.")
	}
	return violations
}

func validateVat(vat string) []string {
	var violations []string
	if vat == "" {
		violations = append(violations, "VAT number is required.")
	}
	if utf8.RuneCountInString(vat) > maxVatLength {
		violations = append(violations, "VAT number must not exceed 20 characters.")
	}
	return violations
}
