package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// Destination identifies a storefront section the host can navigate to
type Destination struct {
	Name  string `json:"name"`
	Route string `json:"route"`
}

// Storefront destinations
var (
	Cart        = Destination{Name: "cart", Route: "/cart"}
	Grocery     = Destination{Name: "grocery", Route: "/grocery"}
	Clothing    = Destination{Name: "clothing", Route: "/clothes"}
	Electronics = Destination{Name: "electronics", Route: "/electronics"}
	Checkout    = Destination{Name: "checkout", Route: "/checkout"}
	Auth        = Destination{Name: "auth", Route: "/auth"}
	Home        = Destination{Name: "home", Route: "/"}
)

// Rule maps a keyword set to a destination
type Rule struct {
	Keywords    []string
	Destination Destination
}

// DefaultRules is the storefront routing table. Order matters: keyword sets
// overlap ("pay" is a substring of "payment" and of unrelated words) and the
// first matching rule wins.
var DefaultRules = []Rule{
	{Keywords: []string{"cart", "कार्ट", "ಕಾರ್ಟ್"}, Destination: Cart},
	{Keywords: []string{"grocery", "groceries", "किराना", "ದಿನಸಿ"}, Destination: Grocery},
	{Keywords: []string{"clothes", "clothing", "shirt", "कपड़े", "ಬಟ್ಟೆ"}, Destination: Clothing},
	{Keywords: []string{"electronics", "phone", "इलेक्ट्रॉनिक", "ಎಲೆಕ್ಟ್ರಾನಿಕ್ಸ್"}, Destination: Electronics},
	{Keywords: []string{"checkout", "pay", "payment", "भुगतान", "ಪಾವತಿ"}, Destination: Checkout},
	{Keywords: []string{"login", "signup", "account", "लॉगिन", "ಲಾಗಿನ್"}, Destination: Auth},
	{Keywords: []string{"home", "होम", "ಮನೆ"}, Destination: Home},
}

// Router matches messages against an ordered rule table
type Router struct {
	rules []Rule
}

// NewRouter creates a router over rules, lowercasing keywords once
func NewRouter(rules []Rule) *Router {
	normalized := make([]Rule, len(rules))
	for i, rule := range rules {
		keywords := make([]string, len(rule.Keywords))
		for j, k := range rule.Keywords {
			keywords[j] = strings.ToLower(k)
		}
		normalized[i] = Rule{Keywords: keywords, Destination: rule.Destination}
	}
	return &Router{rules: normalized}
}

// Route returns the destination of the first rule with a keyword contained in message
func (r *Router) Route(message string) (Destination, bool) {
	lower := strings.ToLower(message)
	for _, rule := range r.rules {
		if ContainsAny(lower, rule.Keywords) {
			return rule.Destination, true
		}
	}
	return Destination{}, false
}

// ContainsAny reports whether any keyword is a substring of text
func ContainsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

var markerPattern = regexp.MustCompile(`\[ROUTE:([^\]]*)\]\s*$`)

// Marker renders the navigation token appended to routing replies
func Marker(d Destination) string {
	return fmt.Sprintf("[ROUTE:%s]", d.Route)
}

// ParseMarker extracts the route from a trailing navigation token
func ParseMarker(text string) (string, bool) {
	m := markerPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StripMarker removes a trailing navigation token and the whitespace before it
func StripMarker(text string) string {
	loc := markerPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return strings.TrimRight(text[:loc[0]], " \n")
}
