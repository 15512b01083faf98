package client

import "errors"

// Errors returned by Client. Connection failures are mapped to these so the
// CLI can tell a stopped watcher from a broken one.
var (
	// ErrDaemonNotRunning means nothing listens on the status socket: the
	// watcher is stopped, or was started with --socket "".
	ErrDaemonNotRunning = errors.New("batalert is not running")

	// ErrPermissionDenied means the socket exists but belongs to another user.
	ErrPermissionDenied = errors.New("permission denied on status socket")

	// ErrNotFound means the watcher does not serve the requested path,
	// usually because it is an older version.
	ErrNotFound = errors.New("not served by this batalert")
)
