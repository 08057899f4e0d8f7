package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Transition issues a
// single filtered UPDATE so the state precondition and the mutation commit
// together; RowsAffected == 0 distinguishes a lost race from a missing row.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID               string     `gorm:"primaryKey;column:id;size:64"`
	CustomerID       string     `gorm:"column:customer_id;size:64;index"`
	PriceCents       int64      `gorm:"column:price_cents"`
	Pages            int        `gorm:"column:pages"`
	KitSKU           string     `gorm:"column:kit_sku;size:64"`
	State            string     `gorm:"column:state;type:varchar(32);index:idx_orders_state_writer"`
	AssignedWriter   string     `gorm:"column:assigned_writer;size:64;index:idx_orders_state_writer"`
	AssignedQC       string     `gorm:"column:assigned_qc;size:64"`
	SubmissionURL    string     `gorm:"column:submission_url"`
	QCFeedback       string     `gorm:"column:qc_feedback"`
	TrackingID       string     `gorm:"column:tracking_id;size:128"`
	ShippedAt        *time.Time `gorm:"column:shipped_at"`
	DeliveredAt      *time.Time `gorm:"column:delivered_at"`
	GatewayOrderID   string     `gorm:"column:gateway_order_id;size:128"`
	GatewayPaymentID string     `gorm:"column:gateway_payment_id;size:128;index"`
	PaymentStatus    string     `gorm:"column:payment_status;type:varchar(16)"`
	PaidAt           *time.Time `gorm:"column:paid_at"`
	CancelledReason  string     `gorm:"column:cancelled_reason"`
	CreatedAt        time.Time  `gorm:"column:created_at;index"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

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
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

func (r *Repository) ListByState(ctx context.Context, states ...domain.State) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	values := make([]string, 0, len(states))
	for _, state := range states {
		values = append(values, string(state))
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Where("state IN ?", values).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(records), nil
}

func (r *Repository) Transition(ctx context.Context, id string, from []domain.State, change ports.StateChange) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	states := make([]string, 0, len(from))
	for _, state := range from {
		states = append(states, string(state))
	}

	query := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", id).
		Where("state IN ?", states)
	if change.RequireNoWriter {
		query = query.Where("assigned_writer = ''")
	}
	if change.RequireWriter != "" {
		query = query.Where("assigned_writer = ?", change.RequireWriter)
	}

	updates := map[string]any{
		"state":      string(change.To),
		"updated_at": time.Now().UTC(),
	}
	if change.AssignWriter != nil {
		updates["assigned_writer"] = *change.AssignWriter
	}
	if change.ClearWriter {
		updates["assigned_writer"] = ""
	}
	if change.AssignQC != nil {
		updates["assigned_qc"] = *change.AssignQC
	}
	if change.SubmissionURL != nil {
		updates["submission_url"] = *change.SubmissionURL
	}
	if change.QCFeedback != nil {
		updates["qc_feedback"] = *change.QCFeedback
	}
	if change.TrackingID != nil {
		updates["tracking_id"] = *change.TrackingID
	}
	if change.ShippedAt != nil {
		updates["shipped_at"] = *change.ShippedAt
	}
	if change.DeliveredAt != nil {
		updates["delivered_at"] = *change.DeliveredAt
	}
	if change.Payment != nil {
		updates["gateway_order_id"] = change.Payment.GatewayOrderID
		updates["gateway_payment_id"] = change.Payment.GatewayPaymentID
		updates["payment_status"] = string(change.Payment.Status)
		updates["paid_at"] = change.Payment.PaidAt
	}
	if change.CancelReason != nil {
		updates["cancelled_reason"] = *change.CancelReason
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the row is gone or the precondition failed; let the caller
		// re-read and report the actual state.
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrStateConflict
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		PriceCents:       order.PriceCents,
		Pages:            order.Pages,
		KitSKU:           order.KitSKU,
		State:            string(order.State),
		AssignedWriter:   order.Fulfillment.AssignedWriter,
		AssignedQC:       order.Fulfillment.AssignedQC,
		SubmissionURL:    order.Fulfillment.SubmissionURL,
		QCFeedback:       order.Fulfillment.QCFeedback,
		TrackingID:       order.Fulfillment.TrackingID,
		ShippedAt:        order.Fulfillment.ShippedAt,
		DeliveredAt:      order.Fulfillment.DeliveredAt,
		GatewayOrderID:   order.Payment.GatewayOrderID,
		GatewayPaymentID: order.Payment.GatewayPaymentID,
		PaymentStatus:    string(order.Payment.Status),
		PaidAt:           order.Payment.PaidAt,
		CancelledReason:  order.CancelledReason,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		PriceCents: r.PriceCents,
		Pages:      r.Pages,
		KitSKU:     r.KitSKU,
		State:      domain.State(r.State),
		Fulfillment: domain.Fulfillment{
			AssignedWriter: r.AssignedWriter,
			AssignedQC:     r.AssignedQC,
			SubmissionURL:  r.SubmissionURL,
			QCFeedback:     r.QCFeedback,
			TrackingID:     r.TrackingID,
			ShippedAt:      r.ShippedAt,
			DeliveredAt:    r.DeliveredAt,
		},
		Payment: domain.Payment{
			GatewayOrderID:   r.GatewayOrderID,
			GatewayPaymentID: r.GatewayPaymentID,
			Status:           domain.PaymentStatus(r.PaymentStatus),
			PaidAt:           r.PaidAt,
		},
		CancelledReason: r.CancelledReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toDomainSlice(records []orderRecord) []*domain.Order {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders
}
