package domains

import "sort"

// Code identifies a business domain (the "trade" a tenant registered for).
// The set is closed: product field resolution never reflects over types at
// runtime, it walks this registry.
const (
	HotelTourism      = "hotel_tourism"
	Pharmacy          = "pharmacy"
	Retail            = "retail"
	Agriculture       = "agriculture"
	Electronics       = "electronics"
	Fashion           = "fashion"
	FoodBeverage      = "food_beverage"
	AutoParts         = "auto_parts"
	TechnicalServices = "technical_services"
)

// Kind is the wire type of a domain-specific product field.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindDate   Kind = "date" // YYYY-MM-DD
)

// FieldSpec describes one domain-conditional product field.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Required bool
	Min      *float64 // inclusive lower bound for int/float kinds
	MaxLen   int      // max length for string kinds, 0 = unlimited
}

// Domain is one registry entry: a code, its display label, and the product
// fields it contributes on top of the shared base fields.
type Domain struct {
	Code   string
	Label  string
	Fields []FieldSpec
}

func minVal(v float64) *float64 { return &v }

// registry is the static domain table. Order inside each field list is
// stable; resolution order across domains follows the tenant's stored
// domain_codes.
var registry = map[string]Domain{
	HotelTourism: {
		Code:  HotelTourism,
		Label: "Hotel & Tourism",
		Fields: []FieldSpec{
			{Name: "room_type", Kind: KindString, MaxLen: 100},
			{Name: "max_guests", Kind: KindInt, Min: minVal(1)},
			{Name: "beds", Kind: KindInt, Min: minVal(1)},
			{Name: "check_in_policy", Kind: KindString},
			{Name: "amenities", Kind: KindString},
			{Name: "is_available", Kind: KindBool},
		},
	},
	Pharmacy: {
		Code:  Pharmacy,
		Label: "Pharmacy",
		Fields: []FieldSpec{
			{Name: "manufacturer", Kind: KindString, MaxLen: 200},
			{Name: "dosage", Kind: KindString, MaxLen: 100},
			{Name: "dosage_form", Kind: KindString, MaxLen: 100},
			{Name: "expiry_date", Kind: KindDate},
			{Name: "batch_number", Kind: KindString, MaxLen: 100},
			{Name: "is_prescription_required", Kind: KindBool},
			{Name: "category", Kind: KindString, MaxLen: 100},
		},
	},
	Retail: {
		Code:  Retail,
		Label: "Retail",
		Fields: []FieldSpec{
			{Name: "brand", Kind: KindString, MaxLen: 150},
			{Name: "category", Kind: KindString, MaxLen: 100},
			{Name: "size", Kind: KindString, MaxLen: 50},
			{Name: "color", Kind: KindString, MaxLen: 50},
			{Name: "weight", Kind: KindFloat, Min: minVal(0)},
			{Name: "barcode", Kind: KindString, MaxLen: 100},
		},
	},
	Agriculture: {
		Code:  Agriculture,
		Label: "Agriculture",
		Fields: []FieldSpec{
			{Name: "product_type", Kind: KindString, MaxLen: 100},
			{Name: "unit_of_measure", Kind: KindString, MaxLen: 50},
			{Name: "season", Kind: KindString, MaxLen: 50},
			{Name: "harvest_date", Kind: KindDate},
			{Name: "origin", Kind: KindString, MaxLen: 200},
		},
	},
	Electronics: {
		Code:  Electronics,
		Label: "Electronics",
		Fields: []FieldSpec{
			{Name: "brand", Kind: KindString, MaxLen: 150},
			{Name: "model_number", Kind: KindString, MaxLen: 100},
			{Name: "warranty_months", Kind: KindInt, Min: minVal(0)},
			{Name: "specifications", Kind: KindString},
			{Name: "serial_number", Kind: KindString, MaxLen: 100},
		},
	},
	Fashion: {
		Code:  Fashion,
		Label: "Fashion & Apparel",
		Fields: []FieldSpec{
			{Name: "brand", Kind: KindString, MaxLen: 150},
			{Name: "category", Kind: KindString, MaxLen: 100},
			{Name: "size", Kind: KindString, MaxLen: 50},
			{Name: "color", Kind: KindString, MaxLen: 50},
			{Name: "material", Kind: KindString, MaxLen: 100},
			{Name: "season", Kind: KindString, MaxLen: 50},
		},
	},
	FoodBeverage: {
		Code:  FoodBeverage,
		Label: "Food & Beverage",
		Fields: []FieldSpec{
			{Name: "category", Kind: KindString, MaxLen: 100},
			{Name: "expiry_date", Kind: KindDate},
			{Name: "weight_grams", Kind: KindFloat, Min: minVal(0)},
			{Name: "volume_ml", Kind: KindFloat, Min: minVal(0)},
			{Name: "is_organic", Kind: KindBool},
			{Name: "is_vegetarian", Kind: KindBool},
			{Name: "nutritional_info", Kind: KindString},
		},
	},
	AutoParts: {
		Code:  AutoParts,
		Label: "Automobile Parts",
		Fields: []FieldSpec{
			{Name: "brand", Kind: KindString, MaxLen: 150},
			{Name: "part_number", Kind: KindString, MaxLen: 100},
			{Name: "compatible_vehicles", Kind: KindString},
			{Name: "category", Kind: KindString, MaxLen: 100},
			{Name: "warranty_months", Kind: KindInt, Min: minVal(0)},
		},
	},
	TechnicalServices: {
		Code:  TechnicalServices,
		Label: "Repairs & Technical Services",
		Fields: []FieldSpec{
			{Name: "service_type", Kind: KindString, Required: true, MaxLen: 100},
			{Name: "duration_minutes", Kind: KindInt, Min: minVal(0)},
			{Name: "warranty_days", Kind: KindInt, Min: minVal(0)},
		},
	},
}

// Known reports whether code is a registered domain.
func Known(code string) bool {
	_, ok := registry[code]
	return ok
}

// Get returns the registry entry for code.
func Get(code string) (Domain, bool) {
	d, ok := registry[code]
	return d, ok
}

// Codes returns all registered domain codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Label returns the display label for code, or the code itself when unknown.
func Label(code string) string {
	if d, ok := registry[code]; ok {
		return d.Label
	}
	return code
}
