package classify

import (
	"strings"

	"github.com/jmeindl/umlage/internal/category"
)

// keywordRules maps lowercase substrings commonly found on German
// invoices to cost categories. Order matters: earlier rules win, so the
// more specific terms sit above the generic ones.
var keywordRules = []struct {
	keyword  string
	costType category.Type
}{
	{"heizöl", category.TypeHeatingFuel},
	{"heizoel", category.TypeHeatingFuel},
	{"erdgas", category.TypeHeatingFuel},
	{"fernwärme", category.TypeHeatingFuel},
	{"pellets", category.TypeHeatingFuel},
	{"schornstein", category.TypeChimneySweep},
	{"kaminkehrer", category.TypeChimneySweep},
	{"wartung", category.TypeMaintenance},
	{"instandhaltung", category.TypeMaintenance},
	{"reparatur", category.TypeMaintenance},
	{"treppenhausreinigung", category.TypeCleaning},
	{"reinigung", category.TypeCleaning},
	{"gartenpflege", category.TypeGardening},
	{"baumschnitt", category.TypeGardening},
	// The registry files Winterdienst under Gartenpflege.
	{"winterdienst", category.TypeGardening},
	{"abwasser", category.TypeDrainage},
	{"niederschlagswasser", category.TypeDrainage},
	{"wasserversorgung", category.TypeWater},
	{"trinkwasser", category.TypeWater},
	{"versicherung", category.TypeInsurance},
	{"grundsteuer", category.TypePropertyTax},
	{"hausmeister", category.TypeJanitor},
	{"hauswart", category.TypeJanitor},
	{"aufzug", category.TypeElevator},
	{"fahrstuhl", category.TypeElevator},
	{"straßenreinigung", category.TypeStreetCleaning},
	{"müllabfuhr", category.TypeWasteDisposal},
	{"abfall", category.TypeWasteDisposal},
	{"restmüll", category.TypeWasteDisposal},
	{"beleuchtung", category.TypeLighting},
	{"allgemeinstrom", category.TypeLighting},
}

func matchKeywords(purpose string) (category.Type, bool) {
	lower := strings.ToLower(purpose)
	for _, rule := range keywordRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.costType, true
		}
	}

	return "", false
}
