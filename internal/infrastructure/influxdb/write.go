package influxdb

import (
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordEvent records a translated platform event.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Numeric and boolean values are stored typed; anything else is stored as
// its string form so the point is never dropped for an odd payload.
//
// Example:
//
//	client.RecordEvent("d1", "switch", "switch", "on")
//	client.RecordEvent("d7", "light", "level", 80.0)
func (c *Client) RecordEvent(deviceID, category, property string, value any) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{}
	switch v := value.(type) {
	case float64:
		fields["value"] = v
	case int:
		fields["value"] = float64(v)
	case bool:
		fields["value_bool"] = v
	case string:
		fields["value_str"] = v
	default:
		fields["value_str"] = fmt.Sprintf("%v", v)
	}

	point := write.NewPoint(
		"bridge_events",
		map[string]string{
			"device_id": deviceID,
			"category":  category,
			"property":  property,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
