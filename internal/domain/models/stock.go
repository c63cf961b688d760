package models

import (
	"strings"
	"time"
)

// ItemType enumerates the milled products kept in stock and sold.
type ItemType string

const (
	ItemBran       ItemType = "bran"
	ItemHusk       ItemType = "husk"
	ItemBlackRice  ItemType = "black rice"
	ItemBrokenRice ItemType = "broken rice"
	ItemOther      ItemType = "other"

	// legacyOtherLabel is how older records spell ItemOther.
	legacyOtherLabel = "others"
)

// ItemTypes lists the canonical item types in display order.
var ItemTypes = []ItemType{ItemBran, ItemHusk, ItemBlackRice, ItemBrokenRice, ItemOther}

// DefaultStockUnit is used when registration omits a unit.
const DefaultStockUnit = "Bags"

// ParseItemType maps an inbound label onto its canonical ItemType. Hyphenated
// and legacy spellings are accepted.
func ParseItemType(label string) (ItemType, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.ReplaceAll(normalized, "-", " ")

	switch normalized {
	case "":
		return "", Invalid("itemType", "is required")
	case legacyOtherLabel:
		return ItemOther, nil
	}

	for _, t := range ItemTypes {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", Invalid("itemType", "unsupported item type %q", label)
}

// NormalizeItemLabel folds a stored label into a reporting key. Unlike
// ParseItemType it never fails: unknown, empty and legacy labels land in "other".
func NormalizeItemLabel(label string) ItemType {
	t, err := ParseItemType(label)
	if err != nil {
		return ItemOther
	}
	return t
}

// Labels returns every stored spelling of t, used when matching persisted records.
func (t ItemType) Labels() []string {
	if t == ItemOther {
		return []string{string(ItemOther), legacyOtherLabel}
	}
	return []string{string(t)}
}

// StockItem is the available quantity of one item type for one tenant.
type StockItem struct {
	ID                string    `bson:"_id" json:"_id"`
	ClientID          string    `bson:"clientId" json:"clientId"`
	ItemType          ItemType  `bson:"itemType" json:"itemType"`
	AvailableQuantity float64   `bson:"availableQuantity" json:"availableQuantity"`
	Unit              string    `bson:"unit" json:"unit"`
	LastUpdated       time.Time `bson:"lastUpdated" json:"lastUpdated"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StockOperation is the mode of a manual stock update.
type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
)

// ParseStockOperation accepts the three manual update modes. An empty value
// means "set", matching how the update endpoint has always behaved.
func ParseStockOperation(value string) (StockOperation, error) {
	switch op := StockOperation(strings.ToLower(strings.TrimSpace(value))); op {
	case "":
		return StockSet, nil
	case StockAdd, StockSubtract, StockSet:
		return op, nil
	default:
		return "", Invalid("operation", "unsupported operation %q", value)
	}
}
