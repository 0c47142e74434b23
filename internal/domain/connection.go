package domain

import "time"

// ConnectionTTL bounds a connection's logical lifetime. A connection not
// touched within the window is dead even if its row still exists.
const ConnectionTTL = 30 * time.Minute

// Connection is a live WebSocket connection row at
// (WS_CONNECTION#<connId>, DETAILS). GSI1 resolves a user's connection set;
// one user may hold many rows (multi-device). ExpiresAt doubles as the
// store's TTL attribute for physical cleanup, but liveness checks never
// rely on deletion timing.
type Connection struct {
	ID          string `dynamodbav:"id" json:"id"`
	UserID      string `dynamodbav:"userId" json:"userId"`
	ConnectedAt string `dynamodbav:"connectedAt" json:"connectedAt"`
	ExpiresAt   int64  `dynamodbav:"expiresAt" json:"expiresAt"` // unix seconds
}

// Live reports whether the connection is still within its expiry window.
func (c *Connection) Live(now time.Time) bool {
	return c.ExpiresAt > now.Unix()
}

func (c *Connection) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: UserPK(c.UserID),
		AttrGSI1SK: ConnectionPK(c.ID),
	}
}
