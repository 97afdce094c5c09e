package wishlists

import (
	"time"

	"github.com/lib/pq"

	"github.com/giftwheel/giftwheel-backend/internal/users"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
)

// EntryRow is a wishlist item joined with product and recipient fields.
type EntryRow struct {
	ID              string
	HouseholdID     string
	RecipientUserID string
	ProductID       string
	ProductName     string
	FirstName       string
	LastName        string
	Email           *string
	Links           pq.StringArray `gorm:"type:text[]"`
	Notes           *string
	Priority        int
	CreatedAt       time.Time
}

// EntryDTO is the transport shape for one wishlist entry.
type EntryDTO struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Links       []string  `json:"links,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecipientGroup buckets a recipient's wishlist entries for the grouped
// listing.
type RecipientGroup struct {
	RecipientUserID string     `json:"recipient_user_id"`
	DisplayName     string     `json:"display_name"`
	Items           []EntryDTO `json:"items"`
}

func groupByRecipient(rows []EntryRow) []RecipientGroup {
	groups := []RecipientGroup{}
	index := map[string]int{}

	for _, row := range rows {
		i, ok := index[row.RecipientUserID]
		if !ok {
			i = len(groups)
			index[row.RecipientUserID] = i
			groups = append(groups, RecipientGroup{
				RecipientUserID: row.RecipientUserID,
				DisplayName: users.DisplayName(&models.User{
					FirstName: row.FirstName,
					LastName:  row.LastName,
					Email:     row.Email,
				}),
				Items: []EntryDTO{},
			})
		}
		groups[i].Items = append(groups[i].Items, EntryDTO{
			ID:          row.ID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Links:       row.Links,
			Notes:       row.Notes,
			Priority:    row.Priority,
			CreatedAt:   row.CreatedAt,
		})
	}
	return groups
}
