// Package category defines the fixed registry of operating-cost categories
// used to classify invoices on heating-cost and operating-cost statements.
package category

// Type identifies a cost category.
type Type string

const (
	TypeHeatingFuel    Type = "heating-fuel"
	TypeChimneySweep   Type = "chimney-sweep"
	TypeMaintenance    Type = "maintenance"
	TypeCleaning       Type = "cleaning"
	TypeGardening      Type = "gardening"
	TypeWater          Type = "water"
	TypeDrainage       Type = "drainage"
	TypeInsurance      Type = "insurance"
	TypePropertyTax    Type = "property-tax"
	TypeJanitor        Type = "janitor"
	TypeElevator       Type = "elevator"
	TypeStreetCleaning Type = "street-cleaning"
	TypeWasteDisposal  Type = "waste-disposal"
	TypeLighting       Type = "lighting"
	TypeOther          Type = "other"
)

// AllocationKey is the basis used to split a shared cost across units.
type AllocationKey string

const (
	AllocateByConsumption AllocationKey = "consumption"
	AllocateByLivingSpace AllocationKey = "living-space-m2"
	AllocateByUnitCount   AllocationKey = "unit-count"
)

// ValidKey reports whether k is a known allocation key.
func ValidKey(k AllocationKey) bool {
	switch k {
	case AllocateByConsumption, AllocateByLivingSpace, AllocateByUnitCount:
		return true
	}

	return false
}

// Category describes one cost category: its default allocation key, the
// free-text purpose labels valid for sub-classification, and whether it
// participates in the heating-cost statement.
type Category struct {
	Type            Type
	Name            string // German display name, as rendered on statements
	DefaultKey      AllocationKey
	Purposes        []string
	HeatingRelevant bool
}

// categories is the fixed registry. Order matters: statements render
// groups in this order.
var categories = []Category{
	{
		Type:            TypeHeatingFuel,
		Name:            "Brennstoffkosten",
		DefaultKey:      AllocateByConsumption,
		Purposes:        []string{"Gas", "Heizöl", "Fernwärme", "Pellets"},
		HeatingRelevant: true,
	},
	{
		Type:            TypeChimneySweep,
		Name:            "Schornsteinfeger",
		DefaultKey:      AllocateByLivingSpace,
		Purposes:        []string{"Kehrgebühren", "Immissionsmessung"},
		HeatingRelevant: true,
	},
	{
		Type:            TypeMaintenance,
		Name:            "Wartung",
		DefaultKey:      AllocateByLivingSpace,
		Purposes:        []string{"Heizungswartung", "Aufzugswartung", "Reparatur"},
		HeatingRelevant: true,
	},
	{
		Type:       TypeCleaning,
		Name:       "Gebäudereinigung",
		DefaultKey: AllocateByLivingSpace,
		Purposes:   []string{"Treppenhausreinigung", "Fensterreinigung"},
	},
	{
		Type:       TypeGardening,
		Name:       "Gartenpflege",
		DefaultKey: AllocateByLivingSpace,
		Purposes:   []string{"Rasenpflege", "Baumschnitt", "Winterdienst"},
	},
	{
		Type:       TypeWater,
		Name:       "Wasserversorgung",
		DefaultKey: AllocateByConsumption,
		Purposes:   []string{"Kaltwasser", "Zählermiete"},
	},
	{
		Type:       TypeDrainage,
		Name:       "Entwässerung",
		DefaultKey: AllocateByConsumption,
		Purposes:   []string{"Abwasser", "Niederschlagswasser"},
	},
	{
		Type:       TypeInsurance,
		Name:       "Versicherung",
		DefaultKey: AllocateByLivingSpace,
		Purposes:   []string{"Gebäudeversicherung", "Haftpflicht", "Elementarschaden"},
	},
	{
		Type:       TypePropertyTax,
		Name:       "Grundsteuer",
		DefaultKey: AllocateByLivingSpace,
		Purposes:   []string{"Grundsteuer B"},
	},
	{
		Type:       TypeJanitor,
		Name:       "Hauswart",
		DefaultKey: AllocateByLivingSpace,
		Purposes:   []string{"Hausmeisterdienst"},
	},
	{
		Type:       TypeElevator,
		Name:       "Aufzug",
		DefaultKey: AllocateByUnitCount,
		Purposes:   []string{"Aufzugsbetrieb", "Notrufsystem", "TÜV-Prüfung"},
	},
	{
		Type:       TypeStreetCleaning,
		Name:       "Straßenreinigung",
		DefaultKey: AllocateByLivingSpace,
		Purposes:   []string{"Straßenreinigung"},
	},
	{
		Type:       TypeWasteDisposal,
		Name:       "Müllabfuhr",
		DefaultKey: AllocateByUnitCount,
		Purposes:   []string{"Restmüll", "Biotonne", "Papiertonne", "Sperrmüll"},
	},
	{
		Type:       TypeLighting,
		Name:       "Allgemeinstrom",
		DefaultKey: AllocateByLivingSpace,
		Purposes:   []string{"Treppenhausbeleuchtung", "Außenbeleuchtung"},
	},
	{
		Type:       TypeOther,
		Name:       "Sonstige Betriebskosten",
		DefaultKey: AllocateByUnitCount,
		Purposes:   []string{"Sonstiges"},
	},
}

var byType = func() map[Type]int {
	m := make(map[Type]int, len(categories))
	for i, c := range categories {
		m[c.Type] = i
	}

	return m
}()

// All returns every registered category in statement order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// HeatingRelevant returns the categories that participate in a
// heating-cost statement, in statement order.
func HeatingRelevant() []Category {
	var out []Category

	for _, c := range categories {
		if c.HeatingRelevant {
			out = append(out, c)
		}
	}

	return out
}

// Get looks up a category by type. The second return is false for an
// unknown type; callers are expected to handle absence explicitly.
func Get(t Type) (Category, bool) {
	i, ok := byType[t]
	if !ok {
		return Category{}, false
	}

	return categories[i], true
}
