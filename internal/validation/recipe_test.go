package validation

import (
	"strings"
	"testing"

	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/errors"
)

func validPayload() RecipePayload {
	return RecipePayload{
		Title:       "Jollof Rice",
		Description: "A West African classic.",
		Country:     "Nigeria",
		Ingredients: []recipe.Ingredient{
			{Name: "Rice", Quantity: "2 cups"},
			{Name: "Tomatoes", Quantity: "4"},
		},
		Procedure: []recipe.Step{
			{Number: 1, Instruction: "Blend the tomatoes and peppers."},
			{Number: 2, Instruction: "Simmer the rice in the sauce."},
		},
		PeopleServed: 4,
		PrepTime:     20,
		CookTime:     45,
	}
}

func assertValidationFailed(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !errors.Is(err, errors.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestValidateRecipeAcceptsValidPayload(t *testing.T) {
	if err := ValidateRecipe(validPayload()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRecipeTitleBounds(t *testing.T) {
	p := validPayload()
	p.Title = "ab"
	assertValidationFailed(t, ValidateRecipe(p))

	p.Title = strings.Repeat("x", TitleMaxLen+1)
	assertValidationFailed(t, ValidateRecipe(p))

	p.Title = "   "
	assertValidationFailed(t, ValidateRecipe(p))
}

func TestValidateRecipeRequiresStructuredIngredients(t *testing.T) {
	p := validPayload()
	p.Ingredients = nil
	assertValidationFailed(t, ValidateRecipe(p))

	p = validPayload()
	p.Ingredients[0].Quantity = " "
	assertValidationFailed(t, ValidateRecipe(p))

	p = validPayload()
	p.Ingredients[1].Name = ""
	assertValidationFailed(t, ValidateRecipe(p))
}

func TestValidateRecipeProcedureSteps(t *testing.T) {
	p := validPayload()
	p.Procedure = nil
	assertValidationFailed(t, ValidateRecipe(p))

	p = validPayload()
	p.Procedure[0].Instruction = "Mix"
	assertValidationFailed(t, ValidateRecipe(p))
}

func TestValidateRecipeNumericBounds(t *testing.T) {
	p := validPayload()
	p.PeopleServed = 0
	assertValidationFailed(t, ValidateRecipe(p))

	p = validPayload()
	p.PeopleServed = PeopleServedMax + 1
	assertValidationFailed(t, ValidateRecipe(p))

	p = validPayload()
	p.PrepTime = -1
	assertValidationFailed(t, ValidateRecipe(p))

	p = validPayload()
	p.CookTime = TimeMaxMinutes + 1
	assertValidationFailed(t, ValidateRecipe(p))
}

func TestValidateRecipeTextLimits(t *testing.T) {
	p := validPayload()
	p.Country = strings.Repeat("a", CountryMaxLen+1)
	assertValidationFailed(t, ValidateRecipe(p))

	p = validPayload()
	p.Description = strings.Repeat("a", DescriptionMaxLen+1)
	assertValidationFailed(t, ValidateRecipe(p))
}

func TestValidateRecipeUpdateChecksOnlyPresentFields(t *testing.T) {
	bad := "x"
	u := recipe.Update{Title: &bad}
	assertValidationFailed(t, ValidateRecipeUpdate(u))

	if err := ValidateRecipeUpdate(recipe.Update{}); err != nil {
		t.Fatalf("empty update should pass: %v", err)
	}

	served := 6
	if err := ValidateRecipeUpdate(recipe.Update{PeopleServed: &served}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeRecipe(t *testing.T) {
	p := validPayload()
	p.Title = "  Jollof   Rice  "
	p.Country = "nigeria"
	p.Ingredients[0].Name = "  Rice "
	p.Procedure = []recipe.Step{
		{Instruction: " Blend the tomatoes. "},
		{Instruction: "Simmer the rice."},
	}

	NormalizeRecipe(&p)

	if p.Title != "Jollof Rice" {
		t.Fatalf("title not collapsed: %q", p.Title)
	}
	if p.Country != "Nigeria" {
		t.Fatalf("country not normalized: %q", p.Country)
	}
	if p.Ingredients[0].Name != "Rice" {
		t.Fatalf("ingredient not trimmed: %q", p.Ingredients[0].Name)
	}
	if p.Procedure[0].Number != 1 || p.Procedure[1].Number != 2 {
		t.Fatalf("steps not renumbered: %+v", p.Procedure)
	}
	if p.Procedure[0].Instruction != "Blend the tomatoes." {
		t.Fatalf("instruction not trimmed: %q", p.Procedure[0].Instruction)
	}
}

func TestNormalizeCountryAliases(t *testing.T) {
	cases := map[string]string{
		"usa":            "United States",
		"UK":             "United Kingdom",
		" united  states ": "United States",
		"ghana":          "Ghana",
		"south africa":   "South Africa",
		"":               "",
	}
	for in, want := range cases {
		if got := NormalizeCountry(in); got != want {
			t.Fatalf("NormalizeCountry(%q) = %q, want %q", in, got, want)
		}
	}
}
