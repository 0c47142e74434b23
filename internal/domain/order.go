package domain

// OrderStatus values an order moves through. The storage layer does not
// enforce transitions, it only keeps the status index consistent.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusMatched   OrderStatus = "MATCHED"
	OrderStatusClosed    OrderStatus = "CLOSED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is the canonical order row at (ORDER#<id>, METADATA).
//
// GSI1 positions the order under its status, GSI2 under its category and
// GSI3 under its owning client; all three sort by creation time so listings
// come back chronologically.
type Order struct {
	ID          string      `dynamodbav:"id" json:"id"`
	ClientID    string      `dynamodbav:"clientId" json:"clientId"`
	Title       string      `dynamodbav:"title" json:"title"`
	Description string      `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Category    string      `dynamodbav:"category" json:"category"`
	City        string      `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Budget      int64       `dynamodbav:"budget,omitempty" json:"budget,omitempty"`
	Status      OrderStatus `dynamodbav:"status" json:"status"`
	Audited
}

// OrderPatch is the partial update shape for orders.
type OrderPatch struct {
	Title       *string
	Description *string
	Category    *string
	City        *string
	Budget      *int64
	Status      *OrderStatus
}

func (o *Order) Apply(p OrderPatch) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Category != nil {
		o.Category = *p.Category
	}
	if p.City != nil {
		o.City = *p.City
	}
	if p.Budget != nil {
		o.Budget = *p.Budget
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
}

func (o *Order) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "ORDER_STATUS#" + string(o.Status),
		AttrGSI1SK: o.CreatedAt + "#" + o.ID,
		AttrGSI2PK: "ORDER_CATEGORY#" + o.Category,
		AttrGSI2SK: o.CreatedAt + "#" + o.ID,
		AttrGSI3PK: "CLIENT#" + o.ClientID,
		AttrGSI3SK: o.CreatedAt + "#" + o.ID,
	}
}

// ApplicationStatus tracks a master's application to an order.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusAccepted ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// Application lives in the order's partition at
// (ORDER#<orderId>, APPLICATION#<id>). GSI1 lists a master's applications
// across orders.
type Application struct {
	ID       string            `dynamodbav:"id" json:"id"`
	OrderID  string            `dynamodbav:"orderId" json:"orderId"`
	MasterID string            `dynamodbav:"masterId" json:"masterId"`
	Message  string            `dynamodbav:"message,omitempty" json:"message,omitempty"`
	Price    int64             `dynamodbav:"price,omitempty" json:"price,omitempty"`
	Status   ApplicationStatus `dynamodbav:"status" json:"status"`
	Audited
}

type ApplicationPatch struct {
	Message *string
	Price   *int64
	Status  *ApplicationStatus
}

func (a *Application) Apply(p ApplicationPatch) {
	if p.Message != nil {
		a.Message = *p.Message
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

func (a *Application) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "MASTER#" + a.MasterID,
		AttrGSI1SK: "APPLICATION#" + a.CreatedAt + "#" + a.ID,
	}
}
