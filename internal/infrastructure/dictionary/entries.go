package dictionary

import "github.com/SquaredPiano/emissionary/internal/domain"

// defaultEntries is the built-in food dictionary.
//
// Emission factors are kg CO2e per kg of food, FAO-attributed estimates.
// Earlier revisions of the data disagreed on some factors (beef in
// particular appeared as high as 60.0 in a Poore & Nemecek-derived table);
// this table is canonical because it is the only one that also carries the
// typical weights, categories and alias keywords the resolver depends on.
func defaultEntries() []domain.FoodEntry {
	return []domain.FoodEntry{
		// Meat & poultry (highest emissions)
		{CanonicalName: "beef", Category: "meat", Subcategory: "red_meat", EmissionFactor: 27.0, TypicalWeightKg: 0.25,
			Aliases: []string{"beef", "steak", "burger", "ground beef", "roast beef", "brisket", "ribeye", "sirloin", "tenderloin"}},
		{CanonicalName: "lamb", Category: "meat", Subcategory: "red_meat", EmissionFactor: 13.3, TypicalWeightKg: 0.25,
			Aliases: []string{"lamb", "mutton", "lamb chop", "lamb shoulder"}},
		{CanonicalName: "pork", Category: "meat", Subcategory: "red_meat", EmissionFactor: 12.1, TypicalWeightKg: 0.25,
			Aliases: []string{"pork", "bacon", "ham", "sausage", "hot dog", "pork chop", "prosciutto", "pancetta"}},
		{CanonicalName: "chicken", Category: "meat", Subcategory: "poultry", EmissionFactor: 6.9, TypicalWeightKg: 0.5,
			Aliases: []string{"chicken", "turkey", "poultry", "breast", "thigh", "wing", "drumstick", "whole chicken", "drumsticks"}},
		{CanonicalName: "duck", Category: "meat", Subcategory: "poultry", EmissionFactor: 5.8, TypicalWeightKg: 0.5,
			Aliases: []string{"duck", "duck breast"}},
		{CanonicalName: "fish", Category: "seafood", Subcategory: "fish", EmissionFactor: 6.1, TypicalWeightKg: 0.15,
			Aliases: []string{"fish", "cod", "salmon", "tuna"}},

		// Dairy
		{CanonicalName: "milk", Category: "dairy", Subcategory: "milk", EmissionFactor: 3.2, TypicalWeightKg: 1.0,
			Aliases: []string{"milk", "skim milk", "whole milk", "2% milk", "1% milk"}},
		{CanonicalName: "cheese", Category: "dairy", Subcategory: "cheese", EmissionFactor: 13.5, TypicalWeightKg: 0.25,
			Aliases: []string{"cheese", "cheddar", "mozzarella", "parmesan", "swiss", "brie", "gouda", "feta", "blue cheese"}},
		{CanonicalName: "yogurt", Category: "dairy", Subcategory: "yogurt", EmissionFactor: 2.2, TypicalWeightKg: 0.5,
			Aliases: []string{"yogurt", "greek yogurt", "plain yogurt", "vanilla yogurt"}},
		{CanonicalName: "butter", Category: "dairy", Subcategory: "butter", EmissionFactor: 12.1, TypicalWeightKg: 0.25,
			Aliases: []string{"butter", "margarine", "spread"}},
		{CanonicalName: "eggs", Category: "dairy", Subcategory: "eggs", EmissionFactor: 4.8, TypicalWeightKg: 0.06,
			Aliases: []string{"egg", "eggs", "egg white", "egg yolk", "dozen eggs"}},
		{CanonicalName: "cream", Category: "dairy", Subcategory: "cream", EmissionFactor: 2.9, TypicalWeightKg: 0.25,
			Aliases: []string{"cream", "heavy cream", "whipping cream", "half and half"}},

		// Grains & cereals
		{CanonicalName: "bread", Category: "grains", Subcategory: "bread", EmissionFactor: 1.1, TypicalWeightKg: 0.5,
			Aliases: []string{"bread", "white bread", "whole wheat", "sourdough", "bagel", "croissant", "bun"}},
		{CanonicalName: "rice", Category: "grains", Subcategory: "rice", EmissionFactor: 2.7, TypicalWeightKg: 0.5,
			Aliases: []string{"rice", "white rice", "brown rice", "basmati", "jasmine", "wild rice"}},
		{CanonicalName: "pasta", Category: "grains", Subcategory: "pasta", EmissionFactor: 1.8, TypicalWeightKg: 0.5,
			Aliases: []string{"pasta", "spaghetti", "macaroni", "penne", "linguine", "fettuccine"}},
		{CanonicalName: "oats", Category: "grains", Subcategory: "cereal", EmissionFactor: 1.0, TypicalWeightKg: 0.5,
			Aliases: []string{"oat", "oats", "oatmeal", "granola"}},
		{CanonicalName: "corn", Category: "grains", Subcategory: "corn", EmissionFactor: 0.9, TypicalWeightKg: 0.5,
			Aliases: []string{"corn", "popcorn", "cornmeal", "tortilla", "corn chips"}},
		{CanonicalName: "wheat", Category: "grains", Subcategory: "flour", EmissionFactor: 0.9, TypicalWeightKg: 0.5,
			Aliases: []string{"wheat", "flour", "whole wheat flour"}},
		{CanonicalName: "cereal", Category: "grains", Subcategory: "cereal", EmissionFactor: 1.2, TypicalWeightKg: 0.5,
			Aliases: []string{"cereal", "corn flakes", "cheerios", "frosted flakes"}},

		// Fruits & vegetables
		{CanonicalName: "apple", Category: "fruits", Subcategory: "apples", EmissionFactor: 0.4, TypicalWeightKg: 0.18,
			Aliases: []string{"apple", "apples", "gala", "fuji", "granny smith", "red delicious"}},
		{CanonicalName: "banana", Category: "fruits", Subcategory: "bananas", EmissionFactor: 0.6, TypicalWeightKg: 0.12,
			Aliases: []string{"banana", "bananas"}},
		{CanonicalName: "orange", Category: "fruits", Subcategory: "citrus", EmissionFactor: 0.5, TypicalWeightKg: 0.15,
			Aliases: []string{"orange", "oranges", "mandarin", "clementine", "tangerine"}},
		{CanonicalName: "grapes", Category: "fruits", Subcategory: "grapes", EmissionFactor: 0.6, TypicalWeightKg: 0.1,
			Aliases: []string{"grape", "grapes", "raisin"}},
		{CanonicalName: "tomato", Category: "vegetables", Subcategory: "tomatoes", EmissionFactor: 0.4, TypicalWeightKg: 0.12,
			Aliases: []string{"tomato", "tomatoes", "cherry tomato", "roma tomato"}},
		{CanonicalName: "potato", Category: "vegetables", Subcategory: "potatoes", EmissionFactor: 0.2, TypicalWeightKg: 0.17,
			Aliases: []string{"potato", "potatoes", "russet", "red potato", "sweet potato", "yam"}},
		{CanonicalName: "carrot", Category: "vegetables", Subcategory: "root_vegetables", EmissionFactor: 0.3, TypicalWeightKg: 0.08,
			Aliases: []string{"carrot", "carrots", "baby carrot"}},
		{CanonicalName: "lettuce", Category: "vegetables", Subcategory: "leafy_greens", EmissionFactor: 0.2, TypicalWeightKg: 0.1,
			Aliases: []string{"lettuce", "spinach", "kale", "greens", "arugula", "romaine", "iceberg"}},
		{CanonicalName: "onion", Category: "vegetables", Subcategory: "onions", EmissionFactor: 0.5, TypicalWeightKg: 0.1,
			Aliases: []string{"onion", "onions", "red onion", "white onion", "yellow onion", "red onions"}},
		{CanonicalName: "cucumber", Category: "vegetables", Subcategory: "cucumbers", EmissionFactor: 0.3, TypicalWeightKg: 0.15,
			Aliases: []string{"cucumber", "cucumbers", "pickle", "pickles"}},
		{CanonicalName: "zucchini", Category: "vegetables", Subcategory: "squash", EmissionFactor: 0.4, TypicalWeightKg: 0.15,
			Aliases: []string{"zucchini", "squash", "squash zucchini"}},

		// Legumes
		{CanonicalName: "beans", Category: "vegetables", Subcategory: "legumes", EmissionFactor: 0.8, TypicalWeightKg: 0.4,
			Aliases: []string{"beans", "black beans", "kidney beans", "pinto beans"}},
		{CanonicalName: "lentils", Category: "vegetables", Subcategory: "legumes", EmissionFactor: 0.9, TypicalWeightKg: 0.4,
			Aliases: []string{"lentils", "red lentils", "green lentils"}},

		// Other
		{CanonicalName: "sugar", Category: "processed", Subcategory: "sweetener", EmissionFactor: 1.7, TypicalWeightKg: 0.5,
			Aliases: []string{"sugar", "white sugar", "brown sugar"}},
		{CanonicalName: "salt", Category: "processed", Subcategory: "seasoning", EmissionFactor: 0.1, TypicalWeightKg: 0.5,
			Aliases: []string{"salt", "sea salt", "table salt"}},
		{CanonicalName: "oil", Category: "oils", Subcategory: "oil", EmissionFactor: 3.3, TypicalWeightKg: 0.5,
			Aliases: []string{"oil", "olive oil", "vegetable oil", "canola oil"}},
		{CanonicalName: "yeast", Category: "processed", Subcategory: "baking", EmissionFactor: 1.2, TypicalWeightKg: 0.05,
			Aliases: []string{"yeast", "baking yeast", "dry yeast"}},
	}
}
