package accounts

import (
	"github.com/recipe-room/recipe-room/internal/app/domain/recipe"
	"github.com/recipe-room/recipe-room/internal/app/storage"
)

func recipeOwnedBy(ownerID string) recipe.Recipe {
	return recipe.Recipe{
		OwnerID:      ownerID,
		Title:        "Test Dish",
		Ingredients:  []recipe.Ingredient{{Name: "Salt", Quantity: "1 tsp"}},
		Procedure:    []recipe.Step{{Number: 1, Instruction: "Season to taste."}},
		PeopleServed: 1,
	}
}

func listAll() storage.RecipeFilter {
	return storage.RecipeFilter{Limit: 100}
}
