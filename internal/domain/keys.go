// Package domain holds the marketplace entity types and the key-composition
// rules that map them onto the single-table layout.
//
// Every item in the table is addressed by a composite (PK, SK) pair. Access
// patterns that cannot be served by the primary key are satisfied by one of
// three global secondary indexes whose key attributes (GSI1PK/GSI1SK etc.)
// are stored on the item itself and must be kept in sync with the source
// attributes they encode.
package domain

import "fmt"

// Partition key prefixes. These form the on-disk contract and must not
// change without a data migration.
const (
	PrefixUser            = "USER#"
	PrefixOrder           = "ORDER#"
	PrefixProject         = "PROJECT#"
	PrefixRoom            = "ROOM#"
	PrefixConnection      = "WS_CONNECTION#"
	PrefixTransaction     = "TRANSACTION#"
	PrefixBackgroundCheck = "BACKGROUND_CHECK#"
)

// Fixed sort keys for singleton rows within a partition.
const (
	SKProfile  = "PROFILE"
	SKMetadata = "METADATA"
	SKDetails  = "DETAILS"
)

// Secondary index names and their key attributes.
const (
	GSI1 = "GSI1"
	GSI2 = "GSI2"
	GSI3 = "GSI3"

	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"
	AttrGSI3PK = "GSI3PK"
	AttrGSI3SK = "GSI3SK"
)

func UserPK(userID string) string             { return PrefixUser + userID }
func OrderPK(orderID string) string           { return PrefixOrder + orderID }
func ProjectPK(projectID string) string       { return PrefixProject + projectID }
func RoomPK(roomID string) string             { return PrefixRoom + roomID }
func ConnectionPK(connectionID string) string { return PrefixConnection + connectionID }
func BackgroundCheckPK(checkID string) string { return PrefixBackgroundCheck + checkID }

func ApplicationSK(applicationID string) string   { return "APPLICATION#" + applicationID }
func MilestoneSK(milestoneID string) string       { return "MILESTONE#" + milestoneID }
func TransactionSK(transactionID string) string   { return "TRANSACTION#" + transactionID }
func RoomParticipantSK(roomID string) string      { return "ROOM#" + roomID }
func CalendarSlotSK(slotID string) string         { return "CALENDAR#" + slotID }
func DisputeSK(disputeID string) string           { return "DISPUTE#" + disputeID }
func VerificationSK(verificationID string) string { return "VERIFICATION#" + verificationID }

// MessageSK orders messages within a room by creation time, with the
// message id as a tie breaker. CreatedAt is RFC3339 so lexicographic order
// matches chronological order.
func MessageSK(createdAt, messageID string) string {
	return fmt.Sprintf("MSG#%s#%s", createdAt, messageID)
}

// NotificationSK orders a user's notifications newest-last.
func NotificationSK(createdAt, notificationID string) string {
	return fmt.Sprintf("NOTIFICATION#%s#%s", createdAt, notificationID)
}

// ProjectMirrorSK is the sort key of the denormalized project copy stored
// under each party's user partition.
func ProjectMirrorSK(createdAt, projectID string) string {
	return fmt.Sprintf("PROJECT#%s#%s", createdAt, projectID)
}

// SKPrefixMessage and friends are the begins_with prefixes used by
// range queries over a partition.
const (
	SKPrefixMessage      = "MSG#"
	SKPrefixApplication  = "APPLICATION#"
	SKPrefixMilestone    = "MILESTONE#"
	SKPrefixNotification = "NOTIFICATION#"
	SKPrefixTransaction  = "TRANSACTION#"
	SKPrefixRoom         = "ROOM#"
	SKPrefixProject      = "PROJECT#"
	SKPrefixCalendar     = "CALENDAR#"
	SKPrefixDispute      = "DISPUTE#"
	SKPrefixVerification = "VERIFICATION#"
)
