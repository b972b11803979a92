package coffee

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/fsnd-projects/fsnd/core"
)

// Permissions granted by the identity provider in the `permissions` claim.
const (
	PermGetDrinksDetail = "get:drinks-detail"
	PermPostDrinks      = "post:drinks"
	PermPatchDrinks     = "patch:drinks"
	PermDeleteDrinks    = "delete:drinks"
)

type Ingredient struct {
	Name  string `json:"name" validate:"required,notblank"`
	Color string `json:"color" validate:"required,notblank"`
	Parts int    `json:"parts" validate:"required,min=1"`
}

// Recipe decodes from either a single ingredient object or a list of them.
type Recipe []Ingredient

func (r *Recipe) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var ing Ingredient
		if err := json.Unmarshal(data, &ing); err != nil {
			return err
		}
		*r = Recipe{ing}
		return nil
	}
	var list []Ingredient
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*r = list
	return nil
}

type Drink struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Recipe Recipe `json:"recipe"`
}

type (
	ShortIngredient struct {
		Color string `json:"color"`
		Parts int    `json:"parts"`
	}

	// ShortDrink is the public representation of a Drink: ingredient names are hidden.
	ShortDrink struct {
		ID     int               `json:"id"`
		Title  string            `json:"title"`
		Recipe []ShortIngredient `json:"recipe"`
	}
)

func (d Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, ing := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ing.Color, Parts: ing.Parts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long is the detailed representation of a Drink, including ingredient names.
func (d Drink) Long() Drink {
	if d.Recipe == nil {
		d.Recipe = Recipe{}
	}
	return d
}

// NewDrink contains information needed to create a new Drink.
type NewDrink struct {
	Title  string `json:"title" validate:"required,notblank"`
	Recipe Recipe `json:"recipe" validate:"required,min=1,dive"`
}

func (nd *NewDrink) Validate(validate *validator.Validate) error {
	nd.Title = core.CleanString(nd.Title)
	for i := range nd.Recipe {
		nd.Recipe[i].Name = core.CleanString(nd.Recipe[i].Name)
		nd.Recipe[i].Color = core.CleanString(nd.Recipe[i].Color)
	}
	return validate.Struct(nd)
}

// UpdateDrink defines what information may be provided to modify an existing Drink.
type UpdateDrink struct {
	Title  *string `json:"title" validate:"omitnil,notblank"`
	Recipe *Recipe `json:"recipe" validate:"omitnil,min=1,dive"`
}

func (ud *UpdateDrink) Validate(validate *validator.Validate) error {
	if ud.Title != nil {
		title := core.CleanString(*ud.Title)
		ud.Title = &title
	}
	return validate.Struct(ud)
}

// Apply returns orig with the set fields of ud.
func (ud UpdateDrink) Apply(orig Drink) Drink {
	if ud.Title != nil {
		orig.Title = *ud.Title
	}
	if ud.Recipe != nil {
		orig.Recipe = *ud.Recipe
	}
	return orig
}

// ShortDrinks maps drinks to their short representation.
func ShortDrinks(drinks []Drink) []ShortDrink {
	out := make([]ShortDrink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Short())
	}
	return out
}

// LongDrinks maps drinks to their long representation.
func LongDrinks(drinks ...Drink) []Drink {
	out := make([]Drink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Long())
	}
	return out
}
