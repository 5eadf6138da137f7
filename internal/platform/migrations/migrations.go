package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the order schema. Adapters do not automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&orderRecord{})
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:32"`
	OrderDate       time.Time       `gorm:"column:order_date;index:idx_orders_date_invoice"`
	UserID          int64           `gorm:"column:user_id;index"`
	Invoice         string          `gorm:"column:invoice;type:varchar(16);index:idx_orders_date_invoice"`
	ItemType        string          `gorm:"column:item_type;type:varchar(16)"`
	Quantity        decimal.Decimal `gorm:"column:quantity;type:numeric(18,2)"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }
