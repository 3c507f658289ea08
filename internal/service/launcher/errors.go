package launcher

import "errors"

var (
	// ErrConfiguration means the launcher cannot determine its own setup,
	// such as the installed version. No update check is attempted.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpdateFailed means downloading or applying a release failed.
	// The application is not started afterwards.
	ErrUpdateFailed = errors.New("update failed")
	// ErrLaunchFailed means the application could not be started.
	ErrLaunchFailed = errors.New("launch failed")
)
