package workflow

import "fmt"

// Status is the position of a case in the fee uplift workflow.
type Status string

const (
	StatusDraft               Status = "DRAFT"
	StatusReadyToSend         Status = "READY_TO_SEND"
	StatusSentToClient        Status = "SENT_TO_CLIENT"
	StatusClientSigned        Status = "CLIENT_SIGNED"
	StatusClientOptedOut      Status = "CLIENT_OPTED_OUT"
	StatusReceivedPaperwork   Status = "RECEIVED_PAPERWORK"
	StatusSubmittedToProvider Status = "SUBMITTED_TO_PROVIDER"
	StatusProviderUplifted    Status = "PROVIDER_UPLIFTED"
	StatusIOClosedNewFee      Status = "IO_CLOSED_NEW_FEE"
	StatusCompleted           Status = "COMPLETED"
)

// InitialStatus is the status every case is created in.
const InitialStatus = StatusDraft

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusReadyToSend,
		StatusSentToClient,
		StatusClientSigned,
		StatusClientOptedOut,
		StatusReceivedPaperwork,
		StatusSubmittedToProvider,
		StatusProviderUplifted,
		StatusIOClosedNewFee,
		StatusCompleted,
	}
}

// ParseStatus converts a raw value into a known Status.
func ParseStatus(raw string) (Status, error) {
	for _, s := range Statuses() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown case status %q", raw)
}

// IsTerminal reports whether no action leads out of the status.
func (s Status) IsTerminal() bool {
	return len(ActionsFor(s)) == 0
}

func (s Status) String() string {
	return string(s)
}
