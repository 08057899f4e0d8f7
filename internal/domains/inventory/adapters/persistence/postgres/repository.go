package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists inventory in PostgreSQL using GORM. Adjust guards the
// stock invariants inside the UPDATE's WHERE clause so two concurrent
// adjustments can never drive reserved past stock.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&itemRecord{}, &movementRecord{})
	}
	return repo
}

type itemRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	SKU       string    `gorm:"column:sku;size:64;uniqueIndex"`
	Name      string    `gorm:"column:name"`
	Stock     int       `gorm:"column:stock"`
	Reserved  int       `gorm:"column:reserved"`
	Threshold int       `gorm:"column:threshold"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "inventory_items" }

type movementRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	SKU       string    `gorm:"column:sku;size:64;index"`
	Op        string    `gorm:"column:op;type:varchar(16)"`
	Quantity  int       `gorm:"column:quantity"`
	Reason    string    `gorm:"column:reason"`
	OrderID   string    `gorm:"column:order_id;size:64;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (movementRecord) TableName() string { return "inventory_movements" }

func (r *Repository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("item is nil")
	}
	record := itemRecord{
		ID:        item.ID,
		SKU:       item.SKU,
		Name:      item.Name,
		Stock:     item.Stock,
		Reserved:  item.Reserved,
		Threshold: item.Threshold,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       record.Name,
				"stock":      record.Stock,
				"reserved":   record.Reserved,
				"threshold":  record.Threshold,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetBySKU(ctx, record.SKU)
}

func (r *Repository) GetBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record itemRecord
	if err := r.db.WithContext(ctx).First(&record, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []itemRecord
	if err := r.db.WithContext(ctx).Order("sku asc").Find(&records).Error; err != nil {
		return nil, err
	}
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (r *Repository) Adjust(ctx context.Context, sku string, op domain.Op, qty int) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	query := r.db.WithContext(ctx).Model(&itemRecord{}).Where("sku = ?", sku)
	updates := map[string]any{"updated_at": time.Now().UTC()}
	switch op {
	case domain.OpAdd:
		updates["stock"] = gorm.Expr("stock + ?", qty)
	case domain.OpRemove:
		query = query.Where("stock - reserved >= ?", qty)
		updates["stock"] = gorm.Expr("stock - ?", qty)
	case domain.OpReserve:
		query = query.Where("stock - reserved >= ?", qty)
		updates["reserved"] = gorm.Expr("reserved + ?", qty)
	case domain.OpRelease:
		query = query.Where("reserved >= ?", qty)
		updates["reserved"] = gorm.Expr("reserved - ?", qty)
	default:
		return nil, domain.ErrUnknownOp
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Zero rows means either the SKU is missing or the invariant guard
		// rejected the change; replay the operation on a fresh read to
		// surface the precise domain error.
		item, err := r.GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if applyErr := item.Apply(op, qty); applyErr != nil {
			return nil, applyErr
		}
		return nil, errors.New("inventory adjustment raced and was rejected")
	}
	return r.GetBySKU(ctx, sku)
}

func (r *Repository) RecordMovement(ctx context.Context, movement domain.Movement) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := movementRecord{
		ID:       movement.ID,
		SKU:      movement.SKU,
		Op:       string(movement.Op),
		Quantity: movement.Quantity,
		Reason:   movement.Reason,
		OrderID:  movement.OrderID,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *Repository) Movements(ctx context.Context, sku string) ([]domain.Movement, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []movementRecord
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	movements := make([]domain.Movement, 0, len(records))
	for _, rec := range records {
		movements = append(movements, domain.Movement{
			ID:        rec.ID,
			SKU:       rec.SKU,
			Op:        domain.Op(rec.Op),
			Quantity:  rec.Quantity,
			Reason:    rec.Reason,
			OrderID:   rec.OrderID,
			CreatedAt: rec.CreatedAt,
		})
	}
	return movements, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres inventory repository not configured")
	}
	return nil
}

func (r itemRecord) toDomain() *domain.Item {
	return &domain.Item{
		ID:        r.ID,
		SKU:       r.SKU,
		Name:      r.Name,
		Stock:     r.Stock,
		Reserved:  r.Reserved,
		Threshold: r.Threshold,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
