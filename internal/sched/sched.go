// Package sched wraps the OS scheduling facilities a measurement thread
// needs: pinning to a core, realtime priority, and page locking.
//
// Everything here is best-effort from the caller's point of view: the
// benchmark engine logs failures and keeps measuring at degraded accuracy.
// Callers of PinThread must hold runtime.LockOSThread, otherwise the Go
// scheduler can move the goroutine to a different OS thread and the
// affinity mask pins the wrong one.
package sched

import "errors"

// ErrUnsupported is returned on platforms without the underlying facility.
var ErrUnsupported = errors.New("sched: not supported on this platform")
