// Package adapters provides the per-category adapters that translate
// between platform devices and bridge nodes: switches, lights, and
// outlets.
//
// Adapters are stateless. Discovery creates the node and installs its
// command handler (actuation back into the platform); SendEvent applies
// inbound platform events to node state. Register everything at
// composition time with RegisterAll.
package adapters
