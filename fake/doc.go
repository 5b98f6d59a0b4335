// Package fake
// Author: momentics <momentics@gmail.com>
//
// Test doubles for the api.Client contract. The fake client has no clock:
// the test calls Tick to run one process callback synchronously on its own
// goroutine, then inspects port contents directly. Registration and buffer
// failures are injectable per port.
package fake
