package domain

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("kingdom", validateKingdom)
	// Report json names so field errors line up with form field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validator returns the shared validator used for domain types.
func Validator() *validator.Validate {
	return validatorInstance
}

func validateKingdom(fl validator.FieldLevel) bool {
	return Kingdom(fl.Field().String()).Valid()
}

// SpeciesForm holds the raw strings submitted by the species form.
type SpeciesForm struct {
	ScientificName  string `form:"scientific_name"`
	CommonName      string `form:"common_name"`
	Kingdom         string `form:"kingdom"`
	TotalPopulation string `form:"total_population"`
	Image           string `form:"image"`
	Description     string `form:"description"`
	Endangered      string `form:"endangered"`
}

// EndangeredChecked reports whether the endangered field is set.
func (f SpeciesForm) EndangeredChecked() bool {
	switch strings.ToLower(strings.TrimSpace(f.Endangered)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// FieldErrors maps a form field name to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ParseSpeciesForm validates raw form values and normalises them into a
// SpeciesInput. Blank optional values become nil. A non-nil FieldErrors
// means the input must not be submitted.
func ParseSpeciesForm(f SpeciesForm) (SpeciesInput, FieldErrors) {
	errs := FieldErrors{}
	in := SpeciesInput{
		ScientificName: strings.TrimSpace(f.ScientificName),
		CommonName:     blankToNil(f.CommonName),
		Kingdom:        Kingdom(strings.TrimSpace(f.Kingdom)),
		Image:          blankToNil(f.Image),
		Description:    blankToNil(f.Description),
		Endangered:     f.EndangeredChecked(),
	}

	if raw := strings.TrimSpace(f.TotalPopulation); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs["total_population"] = "Total population must be a whole number."
		} else {
			in.TotalPopulation = &n
		}
	}

	if err := validatorInstance.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs["_"] = err.Error()
		}
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = fieldMessage(fe)
			}
		}
	}

	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "scientific_name":
		return "Scientific name is required."
	case "kingdom":
		return fmt.Sprintf("Kingdom must be one of %s.", kingdomList())
	case "total_population":
		return "Total population must be a positive integer."
	case "image":
		return "Image must be a valid URL."
	}
	return fmt.Sprintf("Failed the %q check.", fe.Tag())
}

func kingdomList() string {
	names := make([]string, len(kingdoms))
	for i, k := range kingdoms {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func blankToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
