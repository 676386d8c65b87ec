// Package reference holds the read-only lookup tables consulted during
// classification: the MCC code table, the vendor table, and the default
// taxonomy. All tables are loaded at startup and never mutated.
package reference

import (
	"regexp"
	"strings"
)

// MCCEntry describes a single ISO 18245 merchant category code.
type MCCEntry struct {
	Description string
	Category    string
	Subcategory string
}

var mccFormat = regexp.MustCompile(`^\d{4}$`)

// mccCodes maps 4-digit MCC codes to taxonomy placements.
var mccCodes = map[string]MCCEntry{
	// Food & dining
	"5411": {Description: "Grocery Stores, Supermarkets", Category: "Food & Dining", Subcategory: "Grocery"},
	"5422": {Description: "Freezer and Locker Meat Provisioners", Category: "Food & Dining", Subcategory: "Grocery"},
	"5441": {Description: "Candy, Nut, and Confectionery Stores", Category: "Food & Dining", Subcategory: "Grocery"},
	"5451": {Description: "Dairy Products Stores", Category: "Food & Dining", Subcategory: "Grocery"},
	"5462": {Description: "Bakeries", Category: "Food & Dining", Subcategory: "Grocery"},
	"5499": {Description: "Miscellaneous Food Stores", Category: "Food & Dining", Subcategory: "Grocery"},
	"5811": {Description: "Caterers", Category: "Food & Dining", Subcategory: "Restaurant"},
	"5812": {Description: "Eating Places, Restaurants", Category: "Food & Dining", Subcategory: "Restaurant"},
	"5813": {Description: "Drinking Places (Alcoholic Beverages)", Category: "Food & Dining", Subcategory: "Bar/Club"},
	"5814": {Description: "Fast Food Restaurants", Category: "Food & Dining", Subcategory: "Fast Food"},
	"5921": {Description: "Package Stores - Beer, Wine, Liquor", Category: "Food & Dining", Subcategory: "Grocery"},

	// Transportation
	"4111": {Description: "Transportation - Subway, Commuter Trains", Category: "Transportation", Subcategory: "Public Transit"},
	"4112": {Description: "Passenger Railways", Category: "Transportation", Subcategory: "Public Transit"},
	"4121": {Description: "Taxicabs and Limousines", Category: "Transportation", Subcategory: "Rideshare"},
	"4131": {Description: "Bus Lines", Category: "Transportation", Subcategory: "Public Transit"},
	"4214": {Description: "Motor Freight Carriers and Trucking", Category: "Transportation", Subcategory: "Auto Service"},
	"4784": {Description: "Tolls and Bridge Fees", Category: "Transportation", Subcategory: "Parking"},
	"4789": {Description: "Transportation Services", Category: "Transportation", Subcategory: "Public Transit"},
	"5511": {Description: "Car and Truck Dealers (New & Used)", Category: "Transportation", Subcategory: "Auto Service"},
	"5531": {Description: "Auto and Home Supply Stores", Category: "Transportation", Subcategory: "Auto Service"},
	"5532": {Description: "Automotive Tire Stores", Category: "Transportation", Subcategory: "Auto Service"},
	"5533": {Description: "Automotive Parts and Accessories", Category: "Transportation", Subcategory: "Auto Service"},
	"5541": {Description: "Service Stations (Gas Stations)", Category: "Transportation", Subcategory: "Gas Station"},
	"5542": {Description: "Automated Fuel Dispensers", Category: "Transportation", Subcategory: "Gas Station"},
	"7523": {Description: "Parking Lots and Garages", Category: "Transportation", Subcategory: "Parking"},
	"7538": {Description: "Automotive Service Shops", Category: "Transportation", Subcategory: "Auto Service"},
	"7542": {Description: "Car Washes", Category: "Transportation", Subcategory: "Auto Service"},

	// Travel
	"3351": {Description: "Car Rental Agencies", Category: "Travel", Subcategory: "Car Rental"},
	"4411": {Description: "Cruise Lines", Category: "Travel", Subcategory: "Vacation"},
	"4511": {Description: "Airlines", Category: "Travel", Subcategory: "Airline"},
	"4722": {Description: "Travel Agencies", Category: "Travel", Subcategory: "Vacation"},
	"7011": {Description: "Hotels, Motels, Resorts", Category: "Travel", Subcategory: "Hotel"},
	"7512": {Description: "Automobile Rental Agency", Category: "Travel", Subcategory: "Car Rental"},

	// Shopping
	"5200": {Description: "Home Supply Warehouse Stores", Category: "Home & Garden", Subcategory: "Home Improvement"},
	"5211": {Description: "Lumber and Building Materials", Category: "Home & Garden", Subcategory: "Hardware"},
	"5251": {Description: "Hardware Stores", Category: "Home & Garden", Subcategory: "Hardware"},
	"5261": {Description: "Nurseries and Lawn and Garden Supply", Category: "Home & Garden", Subcategory: "Garden"},
	"5311": {Description: "Department Stores", Category: "Shopping", Subcategory: "Retail"},
	"5331": {Description: "Variety Stores", Category: "Shopping", Subcategory: "Retail"},
	"5399": {Description: "Miscellaneous General Merchandise", Category: "Shopping", Subcategory: "Retail"},
	"5611": {Description: "Men's and Boys' Clothing Stores", Category: "Shopping", Subcategory: "Clothing"},
	"5621": {Description: "Women's Ready-to-Wear Stores", Category: "Shopping", Subcategory: "Clothing"},
	"5651": {Description: "Family Clothing Stores", Category: "Shopping", Subcategory: "Clothing"},
	"5661": {Description: "Shoe Stores", Category: "Shopping", Subcategory: "Clothing"},
	"5691": {Description: "Men's and Women's Clothing Stores", Category: "Shopping", Subcategory: "Clothing"},
	"5712": {Description: "Furniture and Home Furnishings", Category: "Home & Garden", Subcategory: "Furniture"},
	"5732": {Description: "Electronics Stores", Category: "Shopping", Subcategory: "Electronics"},
	"5734": {Description: "Computer Software Stores", Category: "Shopping", Subcategory: "Electronics"},
	"5942": {Description: "Book Stores", Category: "Education", Subcategory: "Books"},
	"5943": {Description: "Stationery, Office Supplies", Category: "Education", Subcategory: "Supplies"},
	"5945": {Description: "Hobby, Toy, and Game Shops", Category: "Entertainment", Subcategory: "Gaming"},
	"5964": {Description: "Direct Marketing - Catalog Merchant", Category: "Shopping", Subcategory: "Online"},
	"5969": {Description: "Direct Marketing - Other", Category: "Shopping", Subcategory: "Online"},
	"5999": {Description: "Miscellaneous Retail Stores", Category: "Shopping", Subcategory: "Retail"},
	"5300": {Description: "Wholesale Clubs", Category: "Shopping", Subcategory: "Warehouse"},

	// Utilities
	"4812": {Description: "Telecommunication Equipment", Category: "Shopping", Subcategory: "Electronics"},
	"4814": {Description: "Telecommunication Services", Category: "Utilities", Subcategory: "Telecom"},
	"4816": {Description: "Computer Network Services", Category: "Utilities", Subcategory: "Internet"},
	"4899": {Description: "Cable, Satellite, Pay Television", Category: "Utilities", Subcategory: "Internet"},
	"4900": {Description: "Utilities - Electric, Gas, Water", Category: "Utilities", Subcategory: "Electric"},

	// Healthcare
	"4119": {Description: "Ambulance Services", Category: "Healthcare", Subcategory: "Hospital"},
	"5912": {Description: "Drug Stores and Pharmacies", Category: "Healthcare", Subcategory: "Pharmacy"},
	"8011": {Description: "Doctors", Category: "Healthcare", Subcategory: "Doctor"},
	"8021": {Description: "Dentists and Orthodontists", Category: "Healthcare", Subcategory: "Dentist"},
	"8062": {Description: "Hospitals", Category: "Healthcare", Subcategory: "Hospital"},
	"8099": {Description: "Medical Services", Category: "Healthcare", Subcategory: "Doctor"},

	// Entertainment
	"5815": {Description: "Digital Goods - Media", Category: "Entertainment", Subcategory: "Streaming"},
	"5816": {Description: "Digital Goods - Games", Category: "Entertainment", Subcategory: "Gaming"},
	"5817": {Description: "Digital Goods - Applications", Category: "Entertainment", Subcategory: "Streaming"},
	"7832": {Description: "Motion Picture Theaters", Category: "Entertainment", Subcategory: "Movies"},
	"7922": {Description: "Theatrical Producers, Ticket Agencies", Category: "Entertainment", Subcategory: "Events"},
	"7929": {Description: "Bands, Orchestras, Entertainers", Category: "Entertainment", Subcategory: "Events"},
	"7994": {Description: "Video Game Arcades", Category: "Entertainment", Subcategory: "Gaming"},
	"7996": {Description: "Amusement Parks", Category: "Entertainment", Subcategory: "Events"},

	// Financial services
	"4829": {Description: "Wires, Money Orders", Category: "Financial Services", Subcategory: "Bank Fee"},
	"6011": {Description: "Automated Cash Disbursements", Category: "Financial Services", Subcategory: "ATM"},
	"6012": {Description: "Financial Institutions", Category: "Financial Services", Subcategory: "Bank Fee"},
	"6211": {Description: "Security Brokers/Dealers", Category: "Financial Services", Subcategory: "Investment"},
	"6300": {Description: "Insurance Sales and Underwriting", Category: "Financial Services", Subcategory: "Insurance"},

	// Personal care
	"7230": {Description: "Beauty and Barber Shops", Category: "Personal Care", Subcategory: "Salon"},
	"7298": {Description: "Health and Beauty Spas", Category: "Personal Care", Subcategory: "Spa"},
	"7997": {Description: "Membership Clubs (Sports, Recreation)", Category: "Personal Care", Subcategory: "Gym"},

	// Education
	"8211": {Description: "Elementary and Secondary Schools", Category: "Education", Subcategory: "Tuition"},
	"8220": {Description: "Colleges, Universities", Category: "Education", Subcategory: "Tuition"},
	"8299": {Description: "Educational Services", Category: "Education", Subcategory: "Online Course"},
}

// ValidMCC reports whether a code is a well-formed 4-digit MCC.
func ValidMCC(code string) bool {
	return mccFormat.MatchString(code)
}

// NormalizeMCC strips spaces and dashes from an MCC code.
func NormalizeMCC(code string) string {
	code = strings.ReplaceAll(code, " ", "")
	return strings.ReplaceAll(code, "-", "")
}

// LookupMCC resolves a normalized MCC code against the table.
func LookupMCC(code string) (MCCEntry, bool) {
	entry, ok := mccCodes[NormalizeMCC(code)]
	return entry, ok
}
