package board

import "time"

// Board events published on the event bus. Observers (the MQTT notifier,
// API waiters) receive them non-blockingly.
//
// Available event types:
//   - DragStarted: a source cell was picked up
//   - DragEnded: the drag gesture ended, proposal or not
//   - ProposalIssued: a valid drop produced a swap proposal
//   - SwapResult: a proposal was declined, accepted, or failed
//   - ScheduleReplaced: the engine's answer replaced the local schedule
//   - ExportResult: a schedule export finished
type Event any

// DragStarted reports a new drag source being held.
type DragStarted struct {
	Source CellRef   `json:"source"`
	At     time.Time `json:"at"`
}

// DragEnded reports the held source being cleared.
type DragEnded struct {
	At time.Time `json:"at"`
}

// ProposalIssued reports a swap proposal awaiting confirmation.
type ProposalIssued struct {
	ProposalID string    `json:"proposalId"`
	Room       string    `json:"room"`
	Prompt     string    `json:"prompt"`
	At         time.Time `json:"at"`
}

// SwapResult reports the outcome of a confirmed proposal.
type SwapResult struct {
	ProposalID string    `json:"proposalId"`
	Accepted   bool      `json:"accepted"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// ScheduleReplaced reports a wholesale replacement of the local schedule.
type ScheduleReplaced struct {
	Stats Summary   `json:"stats"`
	At    time.Time `json:"at"`
}

// ExportResult reports a finished export round trip.
type ExportResult struct {
	Filename string    `json:"filename,omitempty"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}
