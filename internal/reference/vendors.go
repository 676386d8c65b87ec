package reference

import (
	"sort"
	"strings"
)

// vendorMCC maps known brand names (uppercase) to the MCC code that best
// describes them. Categories come from resolving the code through the MCC
// table so vendor and MCC classifications can never disagree.
var vendorMCC = map[string]string{
	"UBER":      "4121",
	"LYFT":      "4121",
	"SHELL":     "5541",
	"EXXON":     "5541",
	"CHEVRON":   "5541",
	"STARBUCKS": "5812",
	"MCDONALDS": "5814",
	"CHIPOTLE":  "5812",
	"WALMART":   "5311",
	"TARGET":    "5311",
	"AMAZON":    "5964",
	"COSTCO":    "5300",
	"NETFLIX":   "5815",
	"SPOTIFY":   "5815",
	"HULU":      "5815",
	"CVS":       "5912",
	"WALGREENS": "5912",
	"AT&T":      "4814",
	"VERIZON":   "4814",
	"COMCAST":   "4899",
}

// vendorOrder fixes the scan order for substring search so overlapping names
// resolve deterministically.
var vendorOrder = func() []string {
	names := make([]string, 0, len(vendorMCC))
	for name := range vendorMCC {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// VendorMatch is a resolved vendor lookup.
type VendorMatch struct {
	Vendor  string
	MCCCode string
	Entry   MCCEntry
}

// LookupVendor resolves a merchant name against the vendor table by exact
// case-insensitive match.
func LookupVendor(merchantName string) (VendorMatch, bool) {
	name := strings.ToUpper(strings.TrimSpace(merchantName))
	code, ok := vendorMCC[name]
	if !ok {
		return VendorMatch{}, false
	}
	entry, ok := LookupMCC(code)
	if !ok {
		return VendorMatch{}, false
	}
	return VendorMatch{Vendor: name, MCCCode: code, Entry: entry}, true
}

// SearchVendor resolves a merchant name by substring containment in either
// direction. Used as a weaker follow-up when the exact lookup misses.
func SearchVendor(merchantName string) (VendorMatch, bool) {
	name := strings.ToUpper(strings.TrimSpace(merchantName))
	if name == "" {
		return VendorMatch{}, false
	}
	for _, vendor := range vendorOrder {
		if !strings.Contains(name, vendor) && !strings.Contains(vendor, name) {
			continue
		}
		entry, ok := LookupMCC(vendorMCC[vendor])
		if !ok {
			continue
		}
		return VendorMatch{Vendor: vendor, MCCCode: vendorMCC[vendor], Entry: entry}, true
	}
	return VendorMatch{}, false
}
