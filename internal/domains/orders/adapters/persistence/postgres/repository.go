package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. The connection must be
// opened with TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
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

// Create inserts a new order and refuses to overwrite an existing number.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ports.ErrDuplicateID, order.ID())
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// UpdateStatus swaps the stored status from expected to order.Status().
func (r *Repository) UpdateStatus(ctx context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", order.ID(), string(expected)).
		Updates(map[string]any{
			"status":     string(order.Status()),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, order.ID()); err != nil {
			return nil, err
		}
		return nil, ports.ErrStatusConflict
	}
	return r.GetByID(ctx, order.ID())
}

// GetByID fetches an order by its number.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// GetByDateAndInvoice fetches the lowest order number created at date for invoice.
func (r *Repository) GetByDateAndInvoice(ctx context.Context, date time.Time, invoice domain.Invoice) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Where("order_date = ? AND invoice = ?", date.UTC(), string(invoice)).
		Order("id").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// Delete removes an order by number.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Page returns page offset of size limit ordered by order number.
func (r *Repository) Page(ctx context.Context, offset, limit int) (domain.Page, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Page{}, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Count(&total).Error; err != nil {
		return domain.Page{}, err
	}
	if limit <= 0 || offset < 0 {
		return domain.NewPage(nil, offset, limit, total), nil
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Offset(offset * limit).Limit(limit).Find(&records).Error; err != nil {
		return domain.Page{}, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return domain.Page{}, err
		}
		orders = append(orders, order)
	}
	return domain.NewPage(orders, offset, limit, total), nil
}

// PurgeTerminalBefore removes shipped and received orders created before cutoff.
func (r *Repository) PurgeTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Where("status IN ? AND order_date < ?", []string{string(domain.StatusShipped), string(domain.StatusReceived)}, cutoff.UTC()).
		Delete(&orderRecord{})
	return result.RowsAffected, result.Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:              order.ID(),
		OrderDate:       order.OrderDate(),
		UserID:          order.UserID(),
		Invoice:         string(order.Invoice()),
		ItemType:        string(order.ItemType()),
		Quantity:        order.Quantity(),
		ShippingAddress: order.ShippingAddress(),
		Status:          string(order.Status()),
	}
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	order, err := domain.NewOrder(
		r.ID,
		r.OrderDate,
		r.UserID,
		domain.Invoice(r.Invoice),
		domain.ItemType(r.ItemType),
		r.Quantity,
		r.ShippingAddress,
		domain.Status(r.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrCorrupt, r.ID, err)
	}
	return order, nil
}
