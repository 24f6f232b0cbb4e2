package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus values. DELIVERED and CANCELLED are terminal.
const (
	OrderStatusDraft     = "DRAFT"
	OrderStatusSubmitted = "SUBMITTED"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// Tracking event labels, kept from the store's original label set
const (
	TrackingOrderCreated   = "ORDEN CREADA"
	TrackingOrderConfirmed = "ORDEN CONFIRMADA"
	TrackingOrderShipped   = "ORDEN ENVIADA"
	TrackingInTransit      = "EN TRÁNSITO"
	TrackingDelivered      = "ENTREGADO"
	TrackingOrderCompleted = "ORDEN COMPLETADA"
	TrackingOrderCancelled = "ORDEN CANCELADA"
)

// PurchaseOrder is the aggregate root for supplier orders. TotalAmount is
// derived from the items and recomputed on every item mutation. Version backs
// the optimistic lock: concurrent transitions on the same order race on a
// compare-and-swap of (status, version).
type PurchaseOrder struct {
	ID                   uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber          string              `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier             *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Status               string              `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	OrderDate            time.Time           `gorm:"type:date;not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time          `gorm:"type:date" json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time          `gorm:"type:date" json:"actual_delivery_date"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	Notes                string              `gorm:"type:text" json:"notes"`
	Version              int                 `gorm:"type:int;not null;default:0" json:"version"`
	Items                []PurchaseOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// PurchaseOrderItem is a line item owned exclusively by its order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product          *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity         int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	ReceivedQuantity int             `gorm:"type:int;not null;default:0" json:"received_quantity"`
}

// TrackingEvent is an immutable, append-only fulfillment record for an order.
// Events are written only by the lifecycle transition, never edited. Sequence
// numbers the events emitted by one transition so that events sharing an
// OccurredAt still list in emission order.
type TrackingEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	StatusLabel string    `gorm:"type:varchar(50);not null" json:"status_label"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Sequence    int       `gorm:"type:int;not null;default:0" json:"sequence"`
	OccurredAt  time.Time `gorm:"not null;index" json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}
