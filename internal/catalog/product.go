package catalog

// Product is a storefront item. The chat engine only ever reads it.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
}

// DefaultProducts is the demo storefront seeded into an empty catalog
func DefaultProducts() []Product {
	return []Product{
		{ID: "elec-001", Name: "Wireless Headphones", Price: 1000, Category: "electronics",
			Image: "/images/headphones.jpg", Description: "Over-ear Bluetooth headphones with 30h battery."},
		{ID: "elec-002", Name: "Smartphone X2", Price: 14999, Category: "electronics",
			Image: "/images/phone.jpg", Description: "6.5\" display, 128 GB storage."},
		{ID: "cloth-001", Name: "Cotton Kurta", Price: 799, Category: "clothing",
			Image: "/images/kurta.jpg", Description: "Hand-block printed cotton kurta."},
		{ID: "cloth-002", Name: "Denim Shirt", Price: 1299, Category: "clothing",
			Image: "/images/shirt.jpg", Description: "Slim fit, stonewashed."},
		{ID: "groc-001", Name: "Basmati Rice 5kg", Price: 650, Category: "grocery",
			Image: "/images/rice.jpg", Description: "Aged long-grain basmati."},
		{ID: "groc-002", Name: "Filter Coffee 500g", Price: 320, Category: "grocery",
			Image: "/images/coffee.jpg", Description: "Chicory blend, medium roast."},
	}
}
