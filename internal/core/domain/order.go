package domain

// OrderStatus tracks an order from draft to payment.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "draft"
	OrderPending   OrderStatus = "pending"
	OrderApproved  OrderStatus = "approved"
	OrderDelivered OrderStatus = "delivered"
	OrderInvoiced  OrderStatus = "invoiced"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus tracks settlement of an order's invoice.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// OrderItem is one line of an order.
type OrderItem struct {
	Description string  `json:"description" bson:"description" validate:"required"`
	Quantity    float64 `json:"quantity" bson:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" bson:"unit_price" validate:"gte=0"`
}

// Order is a purchase order placed with a supplier, optionally for a job.
// Once invoiced it doubles as the invoice record.
type Order struct {
	Meta          `bson:",inline"`
	Reference     string        `json:"reference,omitempty" bson:"reference,omitempty"`
	SupplierID    string        `json:"supplier_id" bson:"supplier_id" validate:"required"`
	JobID         string        `json:"job_id,omitempty" bson:"job_id,omitempty"`
	Items         []OrderItem   `json:"items" bson:"items" validate:"required,min=1,dive"`
	Total         float64       `json:"total" bson:"total"`
	Status        OrderStatus   `json:"status" bson:"status" validate:"required,oneof=draft pending approved delivered invoiced paid cancelled"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status" validate:"required,oneof=unpaid partial paid"`
	OrderDate     string        `json:"order_date,omitempty" bson:"order_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string        `json:"due_date,omitempty" bson:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
}

// ComputeTotal sums the order lines.
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Quantity * it.UnitPrice
	}
	return total
}
