package enums

import "fmt"

// GiftItemStatus tracks an individual gift item from idea to handed over.
type GiftItemStatus string

const (
	GiftItemStatusIdea      GiftItemStatus = "idea"
	GiftItemStatusReserved  GiftItemStatus = "reserved"
	GiftItemStatusPurchased GiftItemStatus = "purchased"
	GiftItemStatusGiven     GiftItemStatus = "given"
	GiftItemStatusCancelled GiftItemStatus = "cancelled"
)

var validGiftItemStatuses = []GiftItemStatus{
	GiftItemStatusIdea,
	GiftItemStatusReserved,
	GiftItemStatusPurchased,
	GiftItemStatusGiven,
	GiftItemStatusCancelled,
}

// String implements fmt.Stringer.
func (g GiftItemStatus) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GiftItemStatus.
func (g GiftItemStatus) IsValid() bool {
	for _, candidate := range validGiftItemStatuses {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGiftItemStatus converts raw input into a GiftItemStatus.
func ParseGiftItemStatus(value string) (GiftItemStatus, error) {
	for _, candidate := range validGiftItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gift item status %q", value)
}
