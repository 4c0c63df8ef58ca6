// internal/domain/dsu/dispatch.go
package dsu

import "time"

// Outcome classifies how one dispatch attempt ended.
type Outcome string

const (
	// OutcomeSent means the prompt reached the channel. A disabled thread
	// toggle still counts as Sent.
	OutcomeSent Outcome = "SENT"
	// OutcomeSendFailed means the prompt never reached the channel.
	OutcomeSendFailed Outcome = "SEND_FAILED"
	// OutcomeThreadFailed means the prompt was sent but the follow-up
	// discussion thread could not be created.
	OutcomeThreadFailed Outcome = "THREAD_FAILED"
)

// DispatchEvent is the ephemeral record of one send attempt. It lives for the
// duration of a single trigger fire or manual command and surfaces only
// through logs and metrics, never storage.
type DispatchEvent struct {
	Kind           Kind
	TimestampLocal time.Time
	ChannelID      string
	MessageID      string
	ThreadID       string
	Outcome        Outcome
	Reason         string // short machine-ish cause, e.g. "channel id not configured"
	Hint           string // actionable remediation mapped from gateway error codes
	Err            error
}

// Delivered reports whether the prompt itself reached the channel. Thread
// failure does not retract a successful send.
func (e DispatchEvent) Delivered() bool {
	return e.Outcome == OutcomeSent || e.Outcome == OutcomeThreadFailed
}
