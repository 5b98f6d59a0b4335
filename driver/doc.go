// File: driver/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package driver provides the built-in periodic client: a self-clocked
// implementation of the api.Client contract that fires the process
// callback from a locked OS thread at the rate a buffer-size/sample-rate
// pair implies.
//
// It stands in for a real audio subsystem. Ports carry real buffers and
// events flow through them with the same threading discipline the
// contract demands of any backend: registration and metadata on the
// control side, buffer access strictly inside the callback, nothing
// shared in between except the documented handoff points.
package driver
