package grocery

import (
	"strings"

	"github.com/homecart/homecart/internal/model"
)

// Categorize returns a category slug for the given item name.
// It performs case-insensitive matching: exact match first, then substring
// match. Falls back to "other" if no match is found.
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return model.CategoryOther
	}

	// Phase 1: exact match
	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	// Phase 2: substring match (ordered more-specific first)
	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return model.CategoryOther
}

var exactMatch = map[string]string{
	// Produce
	"apple":      model.CategoryProduce,
	"apples":     model.CategoryProduce,
	"banana":     model.CategoryProduce,
	"bananas":    model.CategoryProduce,
	"orange":     model.CategoryProduce,
	"oranges":    model.CategoryProduce,
	"lemon":      model.CategoryProduce,
	"lemons":     model.CategoryProduce,
	"lime":       model.CategoryProduce,
	"limes":      model.CategoryProduce,
	"avocado":    model.CategoryProduce,
	"avocados":   model.CategoryProduce,
	"tomato":     model.CategoryProduce,
	"tomatoes":   model.CategoryProduce,
	"potato":     model.CategoryProduce,
	"potatoes":   model.CategoryProduce,
	"onion":      model.CategoryProduce,
	"onions":     model.CategoryProduce,
	"garlic":     model.CategoryProduce,
	"lettuce":    model.CategoryProduce,
	"spinach":    model.CategoryProduce,
	"kale":       model.CategoryProduce,
	"broccoli":   model.CategoryProduce,
	"carrots":    model.CategoryProduce,
	"celery":     model.CategoryProduce,
	"cucumber":   model.CategoryProduce,
	"cucumbers":  model.CategoryProduce,
	"peppers":    model.CategoryProduce,
	"mushrooms":  model.CategoryProduce,
	"corn":       model.CategoryProduce,
	"grapes":     model.CategoryProduce,
	"berries":    model.CategoryProduce,
	"strawberry": model.CategoryProduce,

	// Dairy
	"milk":         model.CategoryDairy,
	"cheese":       model.CategoryDairy,
	"butter":       model.CategoryDairy,
	"yogurt":       model.CategoryDairy,
	"cream":        model.CategoryDairy,
	"sour cream":   model.CategoryDairy,
	"eggs":         model.CategoryDairy,
	"cream cheese": model.CategoryDairy,

	// Meat & Seafood
	"chicken": model.CategoryMeat,
	"beef":    model.CategoryMeat,
	"pork":    model.CategoryMeat,
	"bacon":   model.CategoryMeat,
	"sausage": model.CategoryMeat,
	"turkey":  model.CategoryMeat,
	"ham":     model.CategoryMeat,
	"salmon":  model.CategoryMeat,
	"shrimp":  model.CategoryMeat,
	"tuna":    model.CategoryMeat,

	// Bakery
	"bread":     model.CategoryBakery,
	"bagels":    model.CategoryBakery,
	"buns":      model.CategoryBakery,
	"tortillas": model.CategoryBakery,
	"croissant": model.CategoryBakery,
	"muffins":   model.CategoryBakery,

	// Frozen
	"ice cream":    model.CategoryFrozen,
	"frozen pizza": model.CategoryFrozen,

	// Pantry
	"rice":         model.CategoryPantry,
	"pasta":        model.CategoryPantry,
	"flour":        model.CategoryPantry,
	"sugar":        model.CategoryPantry,
	"salt":         model.CategoryPantry,
	"pepper":       model.CategoryPantry,
	"olive oil":    model.CategoryPantry,
	"cereal":       model.CategoryPantry,
	"oatmeal":      model.CategoryPantry,
	"beans":        model.CategoryPantry,
	"peanut butter": model.CategoryPantry,
	"ketchup":      model.CategoryPantry,
	"mustard":      model.CategoryPantry,
	"mayo":         model.CategoryPantry,
	"honey":        model.CategoryPantry,

	// Beverages
	"coffee":       model.CategoryBeverages,
	"tea":          model.CategoryBeverages,
	"juice":        model.CategoryBeverages,
	"soda":         model.CategoryBeverages,
	"water":        model.CategoryBeverages,
	"orange juice": model.CategoryBeverages,
	"beer":         model.CategoryBeverages,
	"wine":         model.CategoryBeverages,

	// Snacks
	"chips":    model.CategorySnacks,
	"crackers": model.CategorySnacks,
	"cookies":  model.CategorySnacks,
	"popcorn":  model.CategorySnacks,
	"pretzels": model.CategorySnacks,
	"granola":  model.CategorySnacks,

	// Household
	"paper towels":  model.CategoryHousehold,
	"toilet paper":  model.CategoryHousehold,
	"dish soap":     model.CategoryHousehold,
	"laundry detergent": model.CategoryHousehold,
	"trash bags":    model.CategoryHousehold,
	"sponges":       model.CategoryHousehold,
	"aluminum foil": model.CategoryHousehold,
	"batteries":     model.CategoryHousehold,

	// Personal Care
	"shampoo":    model.CategoryPersonal,
	"conditioner": model.CategoryPersonal,
	"toothpaste": model.CategoryPersonal,
	"deodorant":  model.CategoryPersonal,
	"soap":       model.CategoryPersonal,
	"razors":     model.CategoryPersonal,
	"lotion":     model.CategoryPersonal,
	"sunscreen":  model.CategoryPersonal,
}

type substringEntry struct {
	keyword  string
	category string
}

// Ordered so more specific keywords win: "frozen" before "pizza", "juice"
// before "orange".
var substringMatches = []substringEntry{
	{"frozen", model.CategoryFrozen},

	{"chicken", model.CategoryMeat},
	{"beef", model.CategoryMeat},
	{"pork", model.CategoryMeat},
	{"steak", model.CategoryMeat},
	{"fish", model.CategoryMeat},
	{"salmon", model.CategoryMeat},
	{"shrimp", model.CategoryMeat},
	{"bacon", model.CategoryMeat},
	{"sausage", model.CategoryMeat},

	{"yogurt", model.CategoryDairy},
	{"cheese", model.CategoryDairy},
	{"milk", model.CategoryDairy},
	{"cream", model.CategoryDairy},
	{"butter", model.CategoryDairy},

	{"bread", model.CategoryBakery},
	{"bagel", model.CategoryBakery},
	{"roll", model.CategoryBakery},
	{"tortilla", model.CategoryBakery},
	{"muffin", model.CategoryBakery},
	{"cake", model.CategoryBakery},

	{"juice", model.CategoryBeverages},
	{"coffee", model.CategoryBeverages},
	{"tea", model.CategoryBeverages},
	{"soda", model.CategoryBeverages},
	{"water", model.CategoryBeverages},
	{"drink", model.CategoryBeverages},

	{"chip", model.CategorySnacks},
	{"cracker", model.CategorySnacks},
	{"cookie", model.CategorySnacks},
	{"candy", model.CategorySnacks},
	{"chocolate", model.CategorySnacks},

	{"detergent", model.CategoryHousehold},
	{"cleaner", model.CategoryHousehold},
	{"paper towel", model.CategoryHousehold},
	{"toilet paper", model.CategoryHousehold},
	{"dish soap", model.CategoryHousehold},
	{"trash bag", model.CategoryHousehold},
	{"foil", model.CategoryHousehold},

	{"shampoo", model.CategoryPersonal},
	{"toothpaste", model.CategoryPersonal},
	{"deodorant", model.CategoryPersonal},
	{"lotion", model.CategoryPersonal},
	{"razor", model.CategoryPersonal},

	{"canned", model.CategoryPantry},
	{"sauce", model.CategoryPantry},
	{"oil", model.CategoryPantry},
	{"spice", model.CategoryPantry},
	{"bean", model.CategoryPantry},
	{"rice", model.CategoryPantry},
	{"pasta", model.CategoryPantry},
	{"cereal", model.CategoryPantry},

	{"apple", model.CategoryProduce},
	{"banana", model.CategoryProduce},
	{"berry", model.CategoryProduce},
	{"lettuce", model.CategoryProduce},
	{"spinach", model.CategoryProduce},
	{"salad", model.CategoryProduce},
	{"vegetable", model.CategoryProduce},
	{"fruit", model.CategoryProduce},
}
