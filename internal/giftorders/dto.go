package giftorders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/giftwheel/giftwheel-backend/internal/participants"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/enums"
)

// OrderDTO is a gift order hydrated with its items and participant sets.
type OrderDTO struct {
	ID         string                     `json:"id"`
	EventID    *string                    `json:"event_id,omitempty"`
	Title      string                     `json:"title"`
	OrderType  enums.OrderType            `json:"order_type"`
	Notes      *string                    `json:"notes,omitempty"`
	Status     enums.OrderStatus          `json:"status"`
	CreatedBy  string                     `json:"created_by"`
	Givers     []participants.UserSummary `json:"givers"`
	Recipients []participants.UserSummary `json:"recipients"`
	Items      []models.GiftItem          `json:"items"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// GiftRow is one entry of the flattened per-household gift listing: a gift
// item joined with its order's metadata.
type GiftRow struct {
	ID            string               `json:"id"`
	OrderID       string               `json:"order_id"`
	OrderTitle    string               `json:"order_title"`
	OrderType     enums.OrderType      `json:"order_type"`
	OrderStatus   enums.OrderStatus    `json:"order_status"`
	EventID       *string              `json:"event_id,omitempty"`
	ProductID     *string              `json:"product_id,omitempty"`
	Title         string               `json:"title"`
	Notes         *string              `json:"notes,omitempty"`
	Status        enums.GiftItemStatus `json:"status"`
	PlannedPrice  *decimal.Decimal     `json:"planned_price,omitempty"`
	PurchasePrice *decimal.Decimal     `json:"purchase_price,omitempty"`
	Currency      *string              `json:"currency,omitempty"`
	PurchasedAt   *time.Time           `json:"purchased_at,omitempty"`
	GivenAt       *time.Time           `json:"given_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func orderToDTO(order *models.GiftOrder, summary *participants.Summary) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:         order.ID,
		EventID:    order.EventID,
		Title:      order.Title,
		OrderType:  order.OrderType,
		Notes:      order.Notes,
		Status:     order.Status,
		CreatedBy:  order.CreatedBy,
		Givers:     []participants.UserSummary{},
		Recipients: []participants.UserSummary{},
		Items:      order.Items,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if dto.Items == nil {
		dto.Items = []models.GiftItem{}
	}
	if summary != nil {
		dto.Givers = summary.Givers
		dto.Recipients = summary.Recipients
	}
	return dto
}
