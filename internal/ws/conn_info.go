package ws

import "time"

// ConnInfo identifies one live stream connection for lifecycle events.
type ConnInfo struct {
	ConnID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func (i ConnInfo) identity() map[string]interface{} {
	return map[string]interface{}{
		"device_id": i.DeviceID,
		"ip":        i.IP,
	}
}
