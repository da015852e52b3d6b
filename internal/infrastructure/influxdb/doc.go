// Package influxdb provides event telemetry recording for Mattergate.
//
// Every platform event the dispatcher forwards to the bridge network is
// recorded as a point in InfluxDB, giving operators a history of what the
// bridge translated and when. Writes are batched and non-blocking; the
// recorder is optional and the bridge runs fine without it.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.RecordEvent("d1", "switch", "switch", "on")
package influxdb
