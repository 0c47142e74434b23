package repository

// Entity tags stored in the entityType attribute.
const (
	entityUser            = "USER"
	entityOrder           = "ORDER"
	entityApplication     = "APPLICATION"
	entityProject         = "PROJECT"
	entityProjectMirror   = "PROJECT_MIRROR"
	entityMilestone       = "MILESTONE"
	entityRoom            = "ROOM"
	entityRoomParticipant = "ROOM_PARTICIPANT"
	entityMessage         = "MESSAGE"
	entityNotification    = "NOTIFICATION"
	entityTransaction     = "TRANSACTION"
	entityCalendarSlot    = "CALENDAR_SLOT"
	entityBackgroundCheck = "BACKGROUND_CHECK"
	entityDispute         = "DISPUTE"
	entityVerification    = "VERIFICATION"
	entityConnection      = "WS_CONNECTION"
)
