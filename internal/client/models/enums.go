// Package models defines the client-side data model for food listings:
// the in-progress form state edited by the listing wizard, the enumerated
// domain vocabulary, and draft (de)serialization.
package models

// Category classifies the kind of food being donated.
type Category string

const (
	CategoryProduce  Category = "produce"
	CategoryPrepared Category = "prepared"
	CategoryPackaged Category = "packaged"
	CategoryBakery   Category = "bakery"
	CategoryDairy    Category = "dairy"
	CategoryFrozen   Category = "frozen"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryProduce, CategoryPrepared, CategoryPackaged,
	CategoryBakery, CategoryDairy, CategoryFrozen,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// SuggestedShelfLifeDays returns the default number of days a listing of
// this category is expected to stay good, used to prefill the expiration
// date. Zero means no suggestion.
func (c Category) SuggestedShelfLifeDays() int {
	switch c {
	case CategoryProduce:
		return 3
	case CategoryPrepared:
		return 1
	case CategoryPackaged:
		return 30
	case CategoryBakery:
		return 2
	case CategoryDairy:
		return 7
	case CategoryFrozen:
		return 90
	default:
		return 0
	}
}

// Unit is the measurement unit a donor estimates quantity in.
type Unit string

const (
	UnitServings   Unit = "servings"
	UnitPounds     Unit = "pounds"
	UnitKilograms  Unit = "kilograms"
	UnitPieces     Unit = "pieces"
	UnitContainers Unit = "containers"
	UnitBags       Unit = "bags"
)

var Units = []Unit{
	UnitServings, UnitPounds, UnitKilograms,
	UnitPieces, UnitContainers, UnitBags,
}

func (u Unit) Valid() bool {
	for _, v := range Units {
		if u == v {
			return true
		}
	}
	return false
}

// PickupSlot is a tag for a window during which pickup is offered.
type PickupSlot string

const (
	SlotMorning   PickupSlot = "morning"
	SlotAfternoon PickupSlot = "afternoon"
	SlotEvening   PickupSlot = "evening"
	SlotFlexible  PickupSlot = "flexible"
)

var PickupSlots = []PickupSlot{SlotMorning, SlotAfternoon, SlotEvening, SlotFlexible}

func (p PickupSlot) Valid() bool {
	for _, v := range PickupSlots {
		if p == v {
			return true
		}
	}
	return false
}

// Label returns the human-readable window for the slot.
func (p PickupSlot) Label() string {
	switch p {
	case SlotMorning:
		return "Morning (8AM - 12PM)"
	case SlotAfternoon:
		return "Afternoon (12PM - 5PM)"
	case SlotEvening:
		return "Evening (5PM - 8PM)"
	case SlotFlexible:
		return "Flexible/By Appointment"
	default:
		return string(p)
	}
}

// SafetyItem identifies one item of the food-safety checklist a donor
// acknowledges before publishing.
type SafetyItem string

const (
	SafetyProperStorage     SafetyItem = "proper_storage"
	SafetyNoContamination   SafetyItem = "no_contamination"
	SafetyCleanPreparation  SafetyItem = "clean_preparation"
	SafetySafePackaging     SafetyItem = "safe_packaging"
	SafetyAllergenAwareness SafetyItem = "allergen_awareness"
	SafetyNoRecalls         SafetyItem = "no_recalls"
)

// SafetyItems lists every checklist item, required or not.
var SafetyItems = []SafetyItem{
	SafetyProperStorage, SafetyNoContamination, SafetyCleanPreparation,
	SafetySafePackaging, SafetyAllergenAwareness, SafetyNoRecalls,
}

// RequiredSafetyItems is the subset a listing cannot be published without.
var RequiredSafetyItems = []SafetyItem{
	SafetyProperStorage, SafetyNoContamination, SafetyCleanPreparation,
	SafetySafePackaging, SafetyNoRecalls,
}

func (s SafetyItem) Valid() bool {
	for _, v := range SafetyItems {
		if s == v {
			return true
		}
	}
	return false
}

// Certification identifies an optional food-safety credential a donor
// can attach to a listing.
type Certification string

const (
	CertFoodHandler     Certification = "food_handler"
	CertBusinessLicense Certification = "business_license"
	CertServSafe        Certification = "servsafe"
)

var Certifications = []Certification{CertFoodHandler, CertBusinessLicense, CertServSafe}

func (c Certification) Valid() bool {
	for _, v := range Certifications {
		if c == v {
			return true
		}
	}
	return false
}
