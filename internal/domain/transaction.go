package domain

// TransactionStatus for the global status index.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
)

// TransactionType for the global type index.
type TransactionType string

const (
	TransactionTypePayment TransactionType = "PAYMENT"
	TransactionTypePayout  TransactionType = "PAYOUT"
	TransactionTypeRefund  TransactionType = "REFUND"
)

// Transaction is stored at (USER#<userId>, TRANSACTION#<id>). Amounts are
// minor currency units; no conversion happens at this layer.
type Transaction struct {
	ID        string            `dynamodbav:"id" json:"id"`
	UserID    string            `dynamodbav:"userId" json:"userId"`
	ProjectID string            `dynamodbav:"projectId,omitempty" json:"projectId,omitempty"`
	Amount    int64             `dynamodbav:"amount" json:"amount"`
	Currency  string            `dynamodbav:"currency" json:"currency"`
	Type      TransactionType   `dynamodbav:"type" json:"type"`
	Status    TransactionStatus `dynamodbav:"status" json:"status"`
	Audited
}

type TransactionPatch struct {
	Status *TransactionStatus
}

func (t *Transaction) Apply(p TransactionPatch) {
	if p.Status != nil {
		t.Status = *p.Status
	}
}

func (t *Transaction) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "TX_STATUS#" + string(t.Status),
		AttrGSI1SK: t.CreatedAt + "#" + t.ID,
		AttrGSI2PK: "TX_TYPE#" + string(t.Type),
		AttrGSI2SK: t.CreatedAt + "#" + t.ID,
	}
}
