// control/version.go
// Author: momentics <momentics@gmail.com>

package control

// Version is reported by every bridge binary's --version flag.
const Version = "0.1.0"
