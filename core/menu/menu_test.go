package menu_test

import (
	"testing"

	"github.com/BrekotkinaKarina/coffee-track/core/menu"
)

func TestIngredientsFor(t *testing.T) {
	tests := []struct {
		name string

		coffeeType menu.CoffeeType
		size       menu.Size
		quantity   int

		want map[menu.Ingredient]int64
	}{
		{
			name:       "medium latte uses base quantities",
			coffeeType: menu.Latte,
			size:       menu.Medium,
			quantity:   1,
			want: map[menu.Ingredient]int64{
				menu.Milk:        200,
				menu.CoffeeBeans: 18,
				menu.Foam:        50,
			},
		},
		{
			name:       "two small americanos scale and round",
			coffeeType: menu.Americano,
			size:       menu.Small,
			quantity:   2,
			want: map[menu.Ingredient]int64{
				menu.Water:       240,
				menu.CoffeeBeans: 24,
			},
		},
		{
			name:       "large latte rounds fractional beans up",
			coffeeType: menu.Latte,
			size:       menu.Large,
			quantity:   1,
			want: map[menu.Ingredient]int64{
				menu.Milk:        240,
				menu.CoffeeBeans: 22,
				menu.Foam:        60,
			},
		},
		{
			name:       "small espresso rounds fractional beans up",
			coffeeType: menu.Espresso,
			size:       menu.Small,
			quantity:   1,
			want: map[menu.Ingredient]int64{
				menu.CoffeeBeans: 6,
				menu.Water:       24,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := menu.IngredientsFor(test.coffeeType, test.size, test.quantity)

			if len(got) != len(test.want) {
				t.Errorf("ingredient count got=%d want=%d", len(got), len(test.want))
			}
			for ingredient, amount := range test.want {
				if got[ingredient] != amount {
					t.Errorf("%s got=%d want=%d", ingredient, got[ingredient], amount)
				}
			}
		})
	}
}

func TestParseCoffeeType(t *testing.T) {
	if _, err := menu.ParseCoffeeType("latte"); err != nil {
		t.Errorf("did not want error, got=%v", err)
	}
	if _, err := menu.ParseCoffeeType("mocha"); err == nil {
		t.Error("expected error, got none")
	}
}

func TestParseSize(t *testing.T) {
	if _, err := menu.ParseSize("large"); err != nil {
		t.Errorf("did not want error, got=%v", err)
	}
	if _, err := menu.ParseSize("venti"); err == nil {
		t.Error("expected error, got none")
	}
}

func TestParseIngredient(t *testing.T) {
	if _, err := menu.ParseIngredient("coffee-beans"); err != nil {
		t.Errorf("did not want error, got=%v", err)
	}
	if _, err := menu.ParseIngredient("sugar"); err == nil {
		t.Error("expected error, got none")
	}
}

func TestDisplayNames(t *testing.T) {
	if got := menu.CoffeeBeans.DisplayName(); got != "кофе" {
		t.Errorf("display name got=%s want=кофе", got)
	}
	if got := menu.Latte.DisplayName(); got != "Латте" {
		t.Errorf("display name got=%s want=Латте", got)
	}
}

func TestUnits(t *testing.T) {
	tests := map[menu.Ingredient]string{
		menu.Milk:        "ml",
		menu.Water:       "ml",
		menu.Syrup:       "ml",
		menu.CoffeeBeans: "g",
		menu.Foam:        "g",
	}
	for ingredient, want := range tests {
		if got := ingredient.Unit(); got != want {
			t.Errorf("%s unit got=%s want=%s", ingredient, got, want)
		}
	}
}
