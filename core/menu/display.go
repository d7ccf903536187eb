package menu

// Localized display names carried over from the original menu
// configuration. Kept separate from the identity values so storage
// keys and API enums stay ASCII.

var coffeeNames = map[CoffeeType]string{
	Latte:      "Латте",
	Americano:  "Американо",
	Cappuccino: "Капучино",
	Espresso:   "Эспрессо",
}

func (c CoffeeType) DisplayName() string {
	return coffeeNames[c]
}

var ingredientNames = map[Ingredient]string{
	Milk:        "молоко",
	Water:       "вода",
	CoffeeBeans: "кофе",
	Foam:        "пенка",
	Syrup:       "сироп",
}

func (i Ingredient) DisplayName() string {
	return ingredientNames[i]
}
