// Package menu is the static recipe catalog. It maps a coffee type and
// size to the ingredient quantities a single cup consumes. The catalog
// is immutable and loaded with the process.
package menu

import (
	"math"

	"github.com/BrekotkinaKarina/coffee-track/core"
)

type CoffeeType string

const (
	Latte      CoffeeType = "latte"
	Americano  CoffeeType = "americano"
	Cappuccino CoffeeType = "cappuccino"
	Espresso   CoffeeType = "espresso"
)

func ParseCoffeeType(v string) (CoffeeType, error) {
	switch v {
	case string(Latte):
		return Latte, nil
	case string(Americano):
		return Americano, nil
	case string(Cappuccino):
		return Cappuccino, nil
	case string(Espresso):
		return Espresso, nil
	default:
		return "", &core.ValidationError{Reason: "invalid coffee type: " + v}
	}
}

type Size string

const (
	Small  Size = "small"
	Medium Size = "medium"
	Large  Size = "large"
)

func ParseSize(v string) (Size, error) {
	switch v {
	case string(Small):
		return Small, nil
	case string(Medium):
		return Medium, nil
	case string(Large):
		return Large, nil
	default:
		return "", &core.ValidationError{Reason: "invalid coffee size: " + v}
	}
}

// Multiplier scales every base recipe quantity for the size.
func (s Size) Multiplier() float64 {
	switch s {
	case Small:
		return 0.8
	case Large:
		return 1.2
	default:
		return 1.0
	}
}

type Ingredient string

const (
	Milk        Ingredient = "milk"
	Water       Ingredient = "water"
	CoffeeBeans Ingredient = "coffee-beans"
	Foam        Ingredient = "foam"
	Syrup       Ingredient = "syrup"
)

// Ingredients returns the full closed set in catalog order.
func Ingredients() []Ingredient {
	return []Ingredient{Milk, Water, CoffeeBeans, Foam, Syrup}
}

func ParseIngredient(v string) (Ingredient, error) {
	for _, i := range Ingredients() {
		if v == string(i) {
			return i, nil
		}
	}
	return "", &core.ValidationError{Reason: "invalid ingredient: " + v}
}

// Unit is the measurement unit quantities of the ingredient are
// expressed in: milliliters for liquids, grams otherwise.
func (i Ingredient) Unit() string {
	switch i {
	case Milk, Water, Syrup:
		return "ml"
	default:
		return "g"
	}
}

var recipes = map[CoffeeType]map[Ingredient]float64{
	Latte: {
		Milk:        200,
		CoffeeBeans: 18,
		Foam:        50,
	},
	Americano: {
		Water:       150,
		CoffeeBeans: 15,
	},
	Cappuccino: {
		Milk:        100,
		CoffeeBeans: 18,
		Foam:        100,
	},
	Espresso: {
		CoffeeBeans: 7,
		Water:       30,
	},
}

// IngredientsFor computes the ingredient usage for quantity cups of the
// given coffee and size, rounded to integral units per ingredient.
func IngredientsFor(c CoffeeType, s Size, quantity int) map[Ingredient]int64 {
	usage := make(map[Ingredient]int64, len(recipes[c]))
	for ingredient, base := range recipes[c] {
		usage[ingredient] = int64(math.Round(base * s.Multiplier() * float64(quantity)))
	}
	return usage
}
