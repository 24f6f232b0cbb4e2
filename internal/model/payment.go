package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus constants. Payments advance strictly with the order lifecycle:
// PENDING on confirmation, PROCESSING on shipment, COMPLETED on delivery.
const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentCompleted  = "COMPLETED"
)

// PaymentMethod constants
const (
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCash     = "CASH"
	PaymentMethodCheck    = "CHECK"
)

// Payment is the supplier payment derived from a confirmed purchase order.
// Amount always equals the order's total at confirmation time; there are no
// partial payments.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Order         *PurchaseOrder  `gorm:"foreignKey:OrderID" json:"-"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier      *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Method        string          `gorm:"type:varchar(20);not null;default:'TRANSFER'" json:"method"`
	Status        string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	InvoiceNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	DueDate       *time.Time      `gorm:"type:date" json:"due_date"`
	PaymentDate   *time.Time      `gorm:"type:date" json:"payment_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
