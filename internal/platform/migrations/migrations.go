// Package migrations applies the relational schema for every bounded
// context in one place, so integration tests and deploy tooling do not
// depend on adapter construction order.
package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&paymentKeyRecord{},
		&itemRecord{},
		&movementRecord{},
		&payoutRecord{},
		&reviewRecord{},
		&notificationRecord{},
		&accountRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
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

type paymentKeyRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:255"`
	OrderID   string    `gorm:"column:order_id;size:64"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (paymentKeyRecord) TableName() string { return "payment_idempotency_keys" }

// Inventory schema mirrors the inventory Postgres adapter.
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

// Payout schema mirrors the writers Postgres adapter.
type payoutRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	WriterID    string    `gorm:"column:writer_id;size:64;index"`
	OrderID     string    `gorm:"column:order_id;size:64;uniqueIndex"`
	Pages       int       `gorm:"column:pages"`
	RateCents   int64     `gorm:"column:rate_cents"`
	AmountCents int64     `gorm:"column:amount_cents"`
	BookedAt    time.Time `gorm:"column:booked_at"`
}

func (payoutRecord) TableName() string { return "writer_payouts" }

// Review schema mirrors the QC Postgres adapter.
type reviewRecord struct {
	ID                 string    `gorm:"primaryKey;column:id;size:64"`
	OrderID            string    `gorm:"column:order_id;size:64;index"`
	ReviewerID         string    `gorm:"column:reviewer_id;size:64;index"`
	Outcome            string    `gorm:"column:outcome;type:varchar(32)"`
	Feedback           string    `gorm:"column:feedback"`
	SubmissionURL      string    `gorm:"column:submission_url"`
	HandwritingLegible bool      `gorm:"column:handwriting_legible"`
	MatchesBrief       bool      `gorm:"column:matches_brief"`
	StationeryCorrect  bool      `gorm:"column:stationery_correct"`
	NoSmudges          bool      `gorm:"column:no_smudges"`
	CreatedAt          time.Time `gorm:"column:created_at;index"`
}

func (reviewRecord) TableName() string { return "qc_reviews" }

// Notification schema mirrors the notifications Postgres adapter.
type notificationRecord struct {
	ID          string         `gorm:"primaryKey;column:id;size:64"`
	EventName   string         `gorm:"column:event_name;size:64;index"`
	OrderID     string         `gorm:"column:order_id;size:64;index"`
	RecipientID string         `gorm:"column:recipient_id;size:64;index"`
	Title       string         `gorm:"column:title"`
	Body        string         `gorm:"column:body"`
	Channels    pq.StringArray `gorm:"column:channels;type:text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at;index"`
}

func (notificationRecord) TableName() string { return "notifications" }

// Account schema mirrors the accounts Postgres adapter.
type accountRecord struct {
	ID               string    `gorm:"primaryKey;column:id;size:64"`
	Name             string    `gorm:"column:name"`
	Email            string    `gorm:"column:email;index"`
	Phone            string    `gorm:"column:phone"`
	Role             string    `gorm:"column:role;type:varchar(16);index"`
	PerPageRateCents int64     `gorm:"column:per_page_rate_cents"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (accountRecord) TableName() string { return "accounts" }
