package domain

// ProjectStatus tracks a running engagement between a client and a master.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusCancelled ProjectStatus = "CANCELLED"
)

// Project is stored canonically at (PROJECT#<id>, METADATA) and mirrored
// under both parties at (USER#<id>, PROJECT#<createdAt>#<id>) so that each
// side can list its projects with a single partition query. The mirrors are
// re-derived from the canonical row on every update; they carry no state of
// their own.
type Project struct {
	ID       string        `dynamodbav:"id" json:"id"`
	OrderID  string        `dynamodbav:"orderId,omitempty" json:"orderId,omitempty"`
	ClientID string        `dynamodbav:"clientId" json:"clientId"`
	MasterID string        `dynamodbav:"masterId" json:"masterId"`
	Title    string        `dynamodbav:"title" json:"title"`
	Status   ProjectStatus `dynamodbav:"status" json:"status"`
	Budget   int64         `dynamodbav:"budget,omitempty" json:"budget,omitempty"`
	Audited
}

type ProjectPatch struct {
	Title  *string
	Status *ProjectStatus
	Budget *int64
}

func (p *Project) Apply(patch ProjectPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Budget != nil {
		p.Budget = *patch.Budget
	}
}

// IndexKeys: projects rely on their mirror rows rather than a GSI.
func (p *Project) IndexKeys() IndexKeys { return IndexKeys{} }

// MirrorOwners returns the user ids whose partitions carry a mirror copy.
func (p *Project) MirrorOwners() []string {
	return []string{p.ClientID, p.MasterID}
}

// MilestoneStatus values for project milestones.
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "PENDING"
	MilestoneStatusActive    MilestoneStatus = "ACTIVE"
	MilestoneStatusCompleted MilestoneStatus = "COMPLETED"
)

// Milestone lives in its project's partition at
// (PROJECT#<projectId>, MILESTONE#<id>). GSI1 orders milestones globally by
// status and due date, which is what the reminder sweep queries.
type Milestone struct {
	ID        string          `dynamodbav:"id" json:"id"`
	ProjectID string          `dynamodbav:"projectId" json:"projectId"`
	Title     string          `dynamodbav:"title" json:"title"`
	Amount    int64           `dynamodbav:"amount,omitempty" json:"amount,omitempty"`
	DueDate   string          `dynamodbav:"dueDate" json:"dueDate"` // YYYY-MM-DD
	Status    MilestoneStatus `dynamodbav:"status" json:"status"`
	Audited
}

type MilestonePatch struct {
	Title   *string
	Amount  *int64
	DueDate *string
	Status  *MilestoneStatus
}

func (m *Milestone) Apply(p MilestonePatch) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Amount != nil {
		m.Amount = *p.Amount
	}
	if p.DueDate != nil {
		m.DueDate = *p.DueDate
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

func (m *Milestone) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "MILESTONE_STATUS#" + string(m.Status),
		AttrGSI1SK: "DUE#" + m.DueDate + "#" + m.ID,
	}
}
