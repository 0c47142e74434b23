package domain

// ScheduleType distinguishes one-off bookings from weekly recurring slots.
type ScheduleType string

const (
	ScheduleTypeOnce   ScheduleType = "ONCE"
	ScheduleTypeWeekly ScheduleType = "WEEKLY"
)

// CalendarSlot is a master's availability or booking row at
// (USER#<masterId>, CALENDAR#<id>). GSI1 groups slots by schedule day so
// day views don't scan the whole calendar partition. The day component of
// the index key comes from Date for one-off slots and Weekday for weekly
// ones, so changing either attribute (or the schedule type) moves the slot
// in the index.
type CalendarSlot struct {
	ID        string       `dynamodbav:"id" json:"id"`
	MasterID  string       `dynamodbav:"masterId" json:"masterId"`
	Type      ScheduleType `dynamodbav:"scheduleType" json:"scheduleType"`
	Date      string       `dynamodbav:"date,omitempty" json:"date,omitempty"`       // YYYY-MM-DD, ONCE only
	Weekday   string       `dynamodbav:"weekday,omitempty" json:"weekday,omitempty"` // MONDAY..SUNDAY, WEEKLY only
	StartTime string       `dynamodbav:"startTime" json:"startTime"`                 // HH:MM
	EndTime   string       `dynamodbav:"endTime" json:"endTime"`
	Booked    bool         `dynamodbav:"booked" json:"booked"`
	Audited
}

type CalendarSlotPatch struct {
	Type      *ScheduleType
	Date      *string
	Weekday   *string
	StartTime *string
	EndTime   *string
	Booked    *bool
}

func (s *CalendarSlot) Apply(p CalendarSlotPatch) {
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Weekday != nil {
		s.Weekday = *p.Weekday
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.Booked != nil {
		s.Booked = *p.Booked
	}
}

func (s *CalendarSlot) IndexKeys() IndexKeys {
	day := s.Date
	if s.Type == ScheduleTypeWeekly {
		day = s.Weekday
	}
	return IndexKeys{
		AttrGSI1PK: "SCHEDULE#" + s.MasterID + "#" + day,
		AttrGSI1SK: s.StartTime + "#" + s.ID,
	}
}
