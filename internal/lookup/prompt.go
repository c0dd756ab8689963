// internal/lookup/prompt.go
package lookup

import (
	"fmt"
	"strings"
)

// NoAllergiesText is embedded in the outgoing request when the stored
// profile has no allergy entries.
const NoAllergiesText = "no specific allergies mentioned"

const systemPrompt = "You are a food allergy safety assistant. " +
	"You analyze restaurant menus for allergen exposure and classify every menu item " +
	"into exactly one of three safety tiers: \"More Safe\", \"Questionable\", or \"Avoid\". " +
	"Base the classification only on the allergies provided. Respond with JSON matching the requested schema."

// SystemPrompt returns the fixed system instruction for the lookup call.
func SystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt assembles the natural-language instruction embedding the
// restaurant name and comma-joined allergy list. FoodName is advisory; it
// narrows attention but never restricts the exhaustive breakdown.
func BuildUserPrompt(restaurantName, foodName string, allergies []string) string {
	allergyText := NoAllergiesText
	if len(allergies) > 0 {
		allergyText = strings.Join(allergies, ", ")
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("My allergies: %s.", allergyText))
	parts = append(parts, fmt.Sprintf("Restaurant: %s.", restaurantName))
	if strings.TrimSpace(foodName) != "" {
		parts = append(parts, fmt.Sprintf("I am especially interested in: %s.", strings.TrimSpace(foodName)))
	}
	parts = append(parts, "Provide an exhaustive breakdown of the menu, categorizing every item by safety tier.")
	parts = append(parts, "For each item include your reasoning and the questions I should ask the staff.")
	parts = append(parts, "Also include a short summary of allergen exposure at this restaurant.")

	return strings.Join(parts, "\n")
}
