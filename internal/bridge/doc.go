// Package bridge implements the device bridge controller: the logic that
// decides which platform devices become bridged nodes, keeps their
// enrollment state, and forwards live platform events into the bridge
// session.
//
// The moving parts:
//
//   - Registry maps device categories to Adapters. Adapters are stateless
//     translation units registered once at composition time.
//   - Enroller is the per-device enrollment state machine. It decides
//     NotSupported / AlreadySetup / Setup from the device's attachment
//     list, the persisted enrollment record, and the registry.
//   - Dispatcher forwards one platform event through the matching adapter,
//     gated on synced-set membership.
//   - Controller wires it together: startup enumeration, live feed
//     convergence, per-device serialization, and the per-run node map that
//     guarantees discover runs at most once per device per process.
//
// Per-device failures are isolated: one device failing to enroll or
// translate never stops the others. Only startup-wide failures (store,
// enumeration, session start) abort the controller.
package bridge
