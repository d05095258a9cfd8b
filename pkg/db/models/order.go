package models

import (
	"time"

	"github.com/oxygenixlabs/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// ShippingAddress is stored as JSON on the order row.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Order is a placed storefront order.
type Order struct {
	ID              string              `gorm:"column:id;primaryKey"`
	UserID          string              `gorm:"column:user_id;not null;index"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'processing'"`
	Subtotal        int64               `gorm:"column:subtotal;not null"`
	Tax             decimal.Decimal     `gorm:"column:tax;type:numeric(14,2);not null"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(14,2);not null"`
	ShippingAddress ShippingAddress     `gorm:"column:shipping_address;not null;serializer:json"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null"`
	TrackingNumber  *string             `gorm:"column:tracking_number"`
	Lines           []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderLine is one purchased row. Add-on lines carry the parent variant id.
type OrderLine struct {
	OrderID     string `gorm:"column:order_id;primaryKey"`
	Position    int    `gorm:"column:position;primaryKey;autoIncrement:false"`
	ProductID   string `gorm:"column:product_id;not null"`
	VariantID   string `gorm:"column:variant_id;not null"`
	Name        string `gorm:"column:name;not null"`
	VariantName string `gorm:"column:variant_name"`
	IsAddOn     bool   `gorm:"column:is_add_on;not null;default:false"`
	UnitPrice   int64  `gorm:"column:unit_price;not null"`
	Quantity    int    `gorm:"column:quantity;not null"`
	LineTotal   int64  `gorm:"column:line_total;not null"`
}

func (OrderLine) TableName() string { return "order_lines" }
