package model

// ReplyMsg is produced when the gateway answered a submitted turn.
type ReplyMsg struct {
	Reply string
	Usage *Usage
}

// ReplyFailedMsg is produced for any failed exchange: transport error,
// non-2xx status, empty reply or a panic inside the call.
type ReplyFailedMsg struct {
	Err error
}

// PingResultMsg carries the result of a liveness probe.
type PingResultMsg struct {
	Err error
}
