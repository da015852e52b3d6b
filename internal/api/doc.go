// Package api provides Mattergate's read-only HTTP status surface.
//
// It exposes bridge health, session status, the bridged-device list, and
// commissioning information for operators and monitoring:
//
//	GET /api/v1/health
//	GET /api/v1/bridge/status
//	GET /api/v1/bridge/devices
//	GET /api/v1/bridge/pairing
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use.
package api
