// Package catalog serves the static product catalog.
package catalog

import "strings"

type Category string

const (
	CategoryHome      Category = "home"
	CategoryCorporate Category = "corporate"
	CategoryCollege   Category = "college"
	CategoryHospital  Category = "hospital"
)

var categoryLabels = map[Category]string{
	CategoryHome:      "Home Use",
	CategoryCorporate: "Corporate Use",
	CategoryCollege:   "Colleges & Schools",
	CategoryHospital:  "Hospitals & Clinics",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryHome, CategoryCorporate, CategoryCollege, CategoryHospital}
}

// Label is the display name of the category.
func (c Category) Label() string {
	return categoryLabels[c]
}

// ParseCategory accepts a category id in any case.
func ParseCategory(value string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	_, ok := categoryLabels[c]
	return c, ok
}

type Variant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Coverage string `json:"coverage"`
	RoomSize string `json:"roomSize"`
	Price    int64  `json:"price"`
	AMCPrice *int64 `json:"amcPrice,omitempty"`
}

type Specifications struct {
	Dimensions               string `json:"dimensions"`
	Weight                   string `json:"weight"`
	PowerConsumption         string `json:"powerConsumption"`
	NoiseLevel               string `json:"noiseLevel"`
	FilterLife               string `json:"filterLife"`
	AlgaeMaintenanceInterval string `json:"algaeMaintenanceInterval"`
}

type MaintenanceCost struct {
	Yearly       int64 `json:"yearly"`
	AMCAvailable bool  `json:"amcAvailable"`
}

type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Category         Category        `json:"category"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription"`
	Image            string          `json:"image"`
	Images           []string        `json:"images,omitempty"`
	Variants         []Variant       `json:"variants"`
	Features         []string        `json:"features"`
	Specifications   Specifications  `json:"specifications"`
	MaintenanceCost  MaintenanceCost `json:"maintenanceCost"`
	Rating           float64         `json:"rating"`
	ReviewCount      int             `json:"reviewCount"`
	InStock          bool            `json:"inStock"`
}

// Variant finds a variant of the product by id.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// StartingPrice is the cheapest variant price.
func (p Product) StartingPrice() int64 {
	var lowest int64
	for i, v := range p.Variants {
		if i == 0 || v.Price < lowest {
			lowest = v.Price
		}
	}
	return lowest
}

// Lookup is the read surface other packages depend on.
type Lookup interface {
	GetProductBySlug(slug string) (Product, bool)
	GetProductByID(id string) (Product, bool)
	GetProductsByCategory(category Category) []Product
	Products() []Product
}

// Catalog is an immutable in-memory product list.
type Catalog struct {
	products []Product
	bySlug   map[string]int
	byID     map[string]int
}

// New indexes products. Later duplicates of a slug or id are ignored.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: products,
		bySlug:   make(map[string]int, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		if _, ok := c.bySlug[p.Slug]; !ok {
			c.bySlug[p.Slug] = i
		}
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
	}
	return c
}

// Default returns the storefront's built-in catalog.
func Default() *Catalog {
	return New(seedProducts())
}

func (c *Catalog) GetProductBySlug(slug string) (Product, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return clone(c.products[i]), true
}

func (c *Catalog) GetProductByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return clone(c.products[i]), true
}

func (c *Catalog) GetProductsByCategory(category Category) []Product {
	out := []Product{}
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, clone(p))
		}
	}
	return out
}

func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = clone(p)
	}
	return out
}

func clone(p Product) Product {
	p.Images = append([]string(nil), p.Images...)
	p.Features = append([]string(nil), p.Features...)
	variants := make([]Variant, len(p.Variants))
	for i, v := range p.Variants {
		if v.AMCPrice != nil {
			price := *v.AMCPrice
			v.AMCPrice = &price
		}
		variants[i] = v
	}
	p.Variants = variants
	return p
}
