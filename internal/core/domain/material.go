package domain

// StockStatus describes how much of a material is on hand.
type StockStatus string

const (
	InStock    StockStatus = "in-stock"
	LowStock   StockStatus = "low-stock"
	OutOfStock StockStatus = "out-of-stock"
)

// Material is a stocked consumable used on jobs.
type Material struct {
	Meta       `bson:",inline"`
	Name       string      `json:"name" bson:"name" validate:"required"`
	Category   string      `json:"category,omitempty" bson:"category,omitempty"`
	Unit       string      `json:"unit" bson:"unit" validate:"required"`
	Quantity   float64     `json:"quantity" bson:"quantity" validate:"gte=0"`
	UnitCost   float64     `json:"unit_cost" bson:"unit_cost" validate:"gte=0"`
	SupplierID string      `json:"supplier_id,omitempty" bson:"supplier_id,omitempty"`
	Status     StockStatus `json:"status" bson:"status" validate:"required,oneof=in-stock low-stock out-of-stock"`
}
