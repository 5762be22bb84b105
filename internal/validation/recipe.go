// Package validation guards inputs before they reach storage.
package validation

import (
	"fmt"
	"strings"

	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/errors"
)

// Recipe bounds.
const (
	TitleMinLen       = 3
	TitleMaxLen       = 200
	InstructionMinLen = 5
	PeopleServedMin   = 1
	PeopleServedMax   = 1000
	TimeMaxMinutes    = 10080 // 7 days
	CountryMaxLen     = 100
	DescriptionMaxLen = 5000
)

// RecipePayload carries the validated fields of a create request.
type RecipePayload struct {
	Title        string
	Description  string
	Country      string
	Ingredients  []recipe.Ingredient
	Procedure    []recipe.Step
	PeopleServed int
	PrepTime     int
	CookTime     int
}

// ValidateRecipe checks a full recipe payload and returns the first failure
// as a ValidationFailed error.
func ValidateRecipe(p RecipePayload) error {
	if err := validateTitle(p.Title); err != nil {
		return err
	}
	if err := validateIngredients(p.Ingredients); err != nil {
		return err
	}
	if err := validateProcedure(p.Procedure); err != nil {
		return err
	}
	if err := validatePeopleServed(p.PeopleServed); err != nil {
		return err
	}
	if err := validateTime("prep_time", p.PrepTime); err != nil {
		return err
	}
	if err := validateTime("cook_time", p.CookTime); err != nil {
		return err
	}
	if err := validateCountry(p.Country); err != nil {
		return err
	}
	return validateDescription(p.Description)
}

// ValidateRecipeUpdate checks only the fields present on a typed patch.
func ValidateRecipeUpdate(u recipe.Update) error {
	if u.Title != nil {
		if err := validateTitle(*u.Title); err != nil {
			return err
		}
	}
	if u.Ingredients != nil {
		if err := validateIngredients(*u.Ingredients); err != nil {
			return err
		}
	}
	if u.Procedure != nil {
		if err := validateProcedure(*u.Procedure); err != nil {
			return err
		}
	}
	if u.PeopleServed != nil {
		if err := validatePeopleServed(*u.PeopleServed); err != nil {
			return err
		}
	}
	if u.PrepTime != nil {
		if err := validateTime("prep_time", *u.PrepTime); err != nil {
			return err
		}
	}
	if u.CookTime != nil {
		if err := validateTime("cook_time", *u.CookTime); err != nil {
			return err
		}
	}
	if u.Country != nil {
		if err := validateCountry(*u.Country); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if err := validateDescription(*u.Description); err != nil {
			return err
		}
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.ValidationFailed("missing required field: title")
	}
	if len(title) < TitleMinLen {
		return errors.ValidationFailed(fmt.Sprintf("title must be at least %d characters long", TitleMinLen))
	}
	if len(title) > TitleMaxLen {
		return errors.ValidationFailed(fmt.Sprintf("title must be less than %d characters", TitleMaxLen))
	}
	return nil
}

func validateIngredients(ingredients []recipe.Ingredient) error {
	if len(ingredients) == 0 {
		return errors.ValidationFailed("at least one ingredient is required")
	}
	for i, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return errors.ValidationFailed(fmt.Sprintf("ingredient %d must have a name", i+1))
		}
		if strings.TrimSpace(ing.Quantity) == "" {
			return errors.ValidationFailed(fmt.Sprintf("ingredient %d must have a quantity", i+1))
		}
	}
	return nil
}

func validateProcedure(steps []recipe.Step) error {
	if len(steps) == 0 {
		return errors.ValidationFailed("at least one procedure step is required")
	}
	for i, step := range steps {
		if len(strings.TrimSpace(step.Instruction)) < InstructionMinLen {
			return errors.ValidationFailed(
				fmt.Sprintf("procedure step %d instruction must be at least %d characters", i+1, InstructionMinLen))
		}
	}
	return nil
}

func validatePeopleServed(n int) error {
	if n < PeopleServedMin {
		return errors.ValidationFailed(fmt.Sprintf("people_served must be at least %d", PeopleServedMin))
	}
	if n > PeopleServedMax {
		return errors.ValidationFailed(fmt.Sprintf("people_served cannot exceed %d", PeopleServedMax))
	}
	return nil
}

func validateTime(field string, minutes int) error {
	if minutes < 0 {
		return errors.ValidationFailed(fmt.Sprintf("%s cannot be negative", field))
	}
	if minutes > TimeMaxMinutes {
		return errors.ValidationFailed(fmt.Sprintf("%s seems unreasonably long (max 7 days)", field))
	}
	return nil
}

func validateCountry(country string) error {
	if len(country) > CountryMaxLen {
		return errors.ValidationFailed(fmt.Sprintf("country name too long (max %d characters)", CountryMaxLen))
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > DescriptionMaxLen {
		return errors.ValidationFailed(fmt.Sprintf("description too long (max %d characters)", DescriptionMaxLen))
	}
	return nil
}

// CollapseWhitespace trims a string and folds internal whitespace runs into
// single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeRecipe cleans a validated payload in place: whitespace collapse on
// title and description, trimmed ingredient and step fields, normalized
// country, and sequential step numbering.
func NormalizeRecipe(p *RecipePayload) {
	p.Title = CollapseWhitespace(p.Title)
	p.Description = CollapseWhitespace(p.Description)
	p.Country = NormalizeCountry(p.Country)

	for i := range p.Ingredients {
		p.Ingredients[i].Name = strings.TrimSpace(p.Ingredients[i].Name)
		p.Ingredients[i].Quantity = strings.TrimSpace(p.Ingredients[i].Quantity)
		p.Ingredients[i].Notes = strings.TrimSpace(p.Ingredients[i].Notes)
	}
	for i := range p.Procedure {
		if p.Procedure[i].Number == 0 {
			p.Procedure[i].Number = i + 1
		}
		p.Procedure[i].Instruction = strings.TrimSpace(p.Procedure[i].Instruction)
		p.Procedure[i].Notes = strings.TrimSpace(p.Procedure[i].Notes)
	}
}
