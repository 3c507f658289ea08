package launcher

// State is a step of a launcher run.
type State string

// States of a run, in the order they can be visited.
const (
	StateCheckingLocalVersion  State = "checking-local-version"
	StateCheckingRemoteVersion State = "checking-remote-version"
	StateUpToDate              State = "up-to-date"
	StateUpdating              State = "updating"
	StateLaunching             State = "launching"
	StateDone                  State = "done"
)
