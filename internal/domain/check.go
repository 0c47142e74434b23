package domain

// CheckStatus is shared by background checks, disputes and verifications;
// all three use the same status-index shape.
type CheckStatus string

const (
	CheckStatusPending  CheckStatus = "PENDING"
	CheckStatusApproved CheckStatus = "APPROVED"
	CheckStatusRejected CheckStatus = "REJECTED"
)

// BackgroundCheck is the canonical row at (BACKGROUND_CHECK#<id>, METADATA).
type BackgroundCheck struct {
	ID       string      `dynamodbav:"id" json:"id"`
	UserID   string      `dynamodbav:"userId" json:"userId"`
	Provider string      `dynamodbav:"provider,omitempty" json:"provider,omitempty"`
	Status   CheckStatus `dynamodbav:"status" json:"status"`
	Comment  string      `dynamodbav:"comment,omitempty" json:"comment,omitempty"`
	Audited
}

type BackgroundCheckPatch struct {
	Status  *CheckStatus
	Comment *string
}

func (b *BackgroundCheck) Apply(p BackgroundCheckPatch) {
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Comment != nil {
		b.Comment = *p.Comment
	}
}

func (b *BackgroundCheck) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "CHECK_STATUS#" + string(b.Status),
		AttrGSI1SK: b.CreatedAt + "#" + b.ID,
	}
}

// Dispute lives in the reporter's partition at (USER#<userId>, DISPUTE#<id>).
type Dispute struct {
	ID        string      `dynamodbav:"id" json:"id"`
	UserID    string      `dynamodbav:"userId" json:"userId"`
	ProjectID string      `dynamodbav:"projectId" json:"projectId"`
	Reason    string      `dynamodbav:"reason" json:"reason"`
	Status    CheckStatus `dynamodbav:"status" json:"status"`
	Audited
}

type DisputePatch struct {
	Reason *string
	Status *CheckStatus
}

func (d *Dispute) Apply(p DisputePatch) {
	if p.Reason != nil {
		d.Reason = *p.Reason
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
}

func (d *Dispute) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "DISPUTE_STATUS#" + string(d.Status),
		AttrGSI1SK: d.CreatedAt + "#" + d.ID,
	}
}

// Verification is an identity-document review row at
// (USER#<userId>, VERIFICATION#<id>).
type Verification struct {
	ID           string      `dynamodbav:"id" json:"id"`
	UserID       string      `dynamodbav:"userId" json:"userId"`
	DocumentType string      `dynamodbav:"documentType" json:"documentType"`
	DocumentURL  string      `dynamodbav:"documentUrl,omitempty" json:"documentUrl,omitempty"`
	Status       CheckStatus `dynamodbav:"status" json:"status"`
	Audited
}

type VerificationPatch struct {
	Status *CheckStatus
}

func (v *Verification) Apply(p VerificationPatch) {
	if p.Status != nil {
		v.Status = *p.Status
	}
}

func (v *Verification) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "VERIFICATION_STATUS#" + string(v.Status),
		AttrGSI1SK: v.CreatedAt + "#" + v.ID,
	}
}
