package supervisor

import "errors"

// ErrLaunch indicates the command could not be started (not found, not
// executable, ...). No process exists when it is returned.
var ErrLaunch = errors.New("supervisor: launch failed")
