package reference

// taxonomyOrder preserves the presentation order of default categories.
var taxonomyOrder = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Utilities",
	"Healthcare",
	"Entertainment",
	"Travel",
	"Financial Services",
	"Personal Care",
	"Education",
	"Home & Garden",
	"Other",
}

// taxonomy is the default category tree used by the fallback classifier.
var taxonomy = map[string][]string{
	"Food & Dining":      {"Restaurant", "Fast Food", "Coffee Shop", "Grocery", "Bar/Club"},
	"Transportation":     {"Gas Station", "Rideshare", "Public Transit", "Parking", "Auto Service"},
	"Shopping":           {"Retail", "Online", "Warehouse", "Clothing", "Electronics"},
	"Utilities":          {"Electric", "Gas", "Water", "Internet", "Telecom"},
	"Healthcare":         {"Pharmacy", "Doctor", "Dentist", "Hospital", "Insurance"},
	"Entertainment":      {"Streaming", "Music", "Movies", "Events", "Gaming"},
	"Travel":             {"Hotel", "Airline", "Car Rental", "Vacation"},
	"Financial Services": {"Bank Fee", "ATM", "Investment", "Insurance"},
	"Personal Care":      {"Salon", "Spa", "Gym", "Beauty"},
	"Education":          {"Tuition", "Books", "Supplies", "Online Course"},
	"Home & Garden":      {"Hardware", "Furniture", "Garden", "Home Improvement"},
	"Other":              {"General", "Miscellaneous"},
}

// Categories returns the default category names in presentation order.
func Categories() []string {
	out := make([]string, len(taxonomyOrder))
	copy(out, taxonomyOrder)
	return out
}

// Subcategories returns the subcategories of a default category, nil when the
// category is unknown.
func Subcategories(category string) []string {
	subs, ok := taxonomy[category]
	if !ok {
		return nil
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// Taxonomy returns a copy of the full default category tree.
func Taxonomy() map[string][]string {
	out := make(map[string][]string, len(taxonomy))
	for category, subs := range taxonomy {
		copied := make([]string, len(subs))
		copy(copied, subs)
		out[category] = copied
	}
	return out
}

// InTaxonomy reports whether a category/subcategory pair exists in the
// default tree.
func InTaxonomy(category, subcategory string) bool {
	for _, sub := range taxonomy[category] {
		if sub == subcategory {
			return true
		}
	}
	return false
}
