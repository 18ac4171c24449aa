package domain

import (
	"strings"
	"time"
)

// OrderStatus enumerates the lifecycle states an order moves through.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a raw status string, returning false for unknown values.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further status mutation is permitted from this state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// PaymentStatus enumerates payment sub-states independent of the order status.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	status := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return status, true
	default:
		return "", false
	}
}

// CancelActor identifies who initiated an order cancellation.
type CancelActor string

const (
	CancelActorUser   CancelActor = "user"
	CancelActorAdmin  CancelActor = "admin"
	CancelActorSystem CancelActor = "system"
)

// OrderCustomer is the embedded contact record on an order. UserID links the
// order to a registered account when the buyer was authenticated.
type OrderCustomer struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	UserID  string `bson:"userId,omitempty" json:"userId,omitempty"`
}

// OrderItem is a single line item. TotalPrice is always Quantity * UnitPrice
// and is recomputed at validation time rather than trusted from the client.
type OrderItem struct {
	Name       string  `bson:"name" json:"name"`
	Quantity   int     `bson:"quantity" json:"quantity"`
	UnitPrice  float64 `bson:"unitPrice" json:"unitPrice"`
	TotalPrice float64 `bson:"totalPrice" json:"totalPrice"`
	ProductID  string  `bson:"productId,omitempty" json:"productId,omitempty"`
	ServiceID  string  `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
}

// Pricing is the canonical monetary breakdown of an order after resolution.
type Pricing struct {
	Subtotal   float64 `bson:"subtotal" json:"subtotal"`
	Tax        float64 `bson:"tax,omitempty" json:"tax,omitempty"`
	Discount   float64 `bson:"discount,omitempty" json:"discount,omitempty"`
	Shipping   float64 `bson:"shipping,omitempty" json:"shipping,omitempty"`
	GrandTotal float64 `bson:"grandTotal" json:"grandTotal"`
	Currency   string  `bson:"currency" json:"currency"`
}

// OrderPayment tracks the payment sub-record. TransactionID, when present,
// is unique across all orders.
type OrderPayment struct {
	Status        PaymentStatus `bson:"status" json:"status"`
	Method        string        `bson:"method,omitempty" json:"method,omitempty"`
	TransactionID string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	PaidAt        *time.Time    `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// OrderCancellation is a one-way terminal sub-record; once IsCancelled is set
// the order never leaves the cancelled state.
type OrderCancellation struct {
	IsCancelled bool        `bson:"isCancelled" json:"isCancelled"`
	CancelledBy CancelActor `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	Reason      string      `bson:"reason,omitempty" json:"reason,omitempty"`
	CancelledAt *time.Time  `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// Order represents one customer transaction.
type Order struct {
	ID           string            `bson:"_id" json:"id"`
	OrderNumber  string            `bson:"orderNumber" json:"orderNumber"`
	Status       OrderStatus       `bson:"orderStatus" json:"orderStatus"`
	Customer     OrderCustomer     `bson:"customer" json:"customer"`
	Items        []OrderItem       `bson:"items" json:"items"`
	Pricing      Pricing           `bson:"pricing" json:"pricing"`
	Payment      OrderPayment      `bson:"payment" json:"payment"`
	Cancellation OrderCancellation `bson:"cancellation" json:"cancellation"`
	Notes        string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// OrderTracking is the lightweight projection returned by the public
// track-by-email endpoint.
type OrderTracking struct {
	OrderNumber   string        `json:"orderNumber"`
	Status        OrderStatus   `json:"orderStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// OrderStats summarises the orders collection for the admin stats endpoint.
type OrderStats struct {
	Total       int64                 `json:"total"`
	ByStatus    map[OrderStatus]int64 `json:"byStatus"`
	PaidRevenue float64               `json:"paidRevenue"`
}

// Page is a skip/limit result window. HasMore is true when skip plus the
// returned item count is still below the total.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	Skip       int64
	Limit      int64
}

// HasMore reports whether another page exists past this one.
func (p Page[T]) HasMore() bool {
	return p.Skip+int64(len(p.Items)) < p.TotalCount
}

// User is the persisted profile for a Firebase-authenticated account.
// The document id is the Firebase UID.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PhotoURL  string    `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Locale    string    `bson:"locale,omitempty" json:"locale,omitempty"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PricingPlan is a named plan with a price and feature list. Plans are
// read-only inputs to the dashboard aggregation and to flat order creation.
type PricingPlan struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Price       float64   `bson:"price" json:"price"`
	Period      string    `bson:"period,omitempty" json:"period,omitempty"`
	Features    []string  `bson:"features" json:"features"`
	Highlighted bool      `bson:"highlighted" json:"highlighted"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Banner is a marketing-site hero/banner entry.
type Banner struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Subtitle  string    `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	ImageURL  string    `bson:"imageUrl" json:"imageUrl"`
	LinkURL   string    `bson:"linkUrl,omitempty" json:"linkUrl,omitempty"`
	SortOrder int       `bson:"sortOrder" json:"sortOrder"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Testimonial is a customer quote shown on the marketing site. Quote text is
// sanitised before persistence.
type Testimonial struct {
	ID        string    `bson:"_id" json:"id"`
	Author    string    `bson:"author" json:"author"`
	Role      string    `bson:"role,omitempty" json:"role,omitempty"`
	Quote     string    `bson:"quote" json:"quote"`
	Rating    int       `bson:"rating,omitempty" json:"rating,omitempty"`
	AvatarURL string    `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FAQ is a question/answer pair; the answer may carry limited HTML.
type FAQ struct {
	ID        string    `bson:"_id" json:"id"`
	Question  string    `bson:"question" json:"question"`
	Answer    string    `bson:"answer" json:"answer"`
	SortOrder int       `bson:"sortOrder" json:"sortOrder"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TeamMember is a staff profile on the marketing site.
type TeamMember struct {
	ID        string            `bson:"_id" json:"id"`
	Name      string            `bson:"name" json:"name"`
	Role      string            `bson:"role" json:"role"`
	Bio       string            `bson:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL  string            `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Socials   map[string]string `bson:"socials,omitempty" json:"socials,omitempty"`
	SortOrder int               `bson:"sortOrder" json:"sortOrder"`
	Active    bool              `bson:"active" json:"active"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// ServiceOffering is a service the studio sells (UI/UX, web development, ...).
type ServiceOffering struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Summary     string    `bson:"summary,omitempty" json:"summary,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string    `bson:"icon,omitempty" json:"icon,omitempty"`
	SortOrder   int       `bson:"sortOrder" json:"sortOrder"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Project is a portfolio entry.
type Project struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Slug        string    `bson:"slug" json:"slug"`
	Summary     string    `bson:"summary,omitempty" json:"summary,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CoverURL    string    `bson:"coverUrl,omitempty" json:"coverUrl,omitempty"`
	Gallery     []string  `bson:"gallery,omitempty" json:"gallery,omitempty"`
	Tags        []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Product is a sellable catalog entry.
type Product struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64   `bson:"price" json:"price"`
	CategoryID  string    `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Category groups products. Names are unique.
type Category struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Contact is a contact-form submission.
type Contact struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject   string    `bson:"subject,omitempty" json:"subject,omitempty"`
	Message   string    `bson:"message" json:"message"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
