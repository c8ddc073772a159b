package workflow

// Key identifies a transition by its source status and action label.
type Key struct {
	From   Status
	Action string
}

// Transition is the outcome of a legal action.
type Transition struct {
	From        Status `json:"from"`
	Action      string `json:"action"`
	To          Status `json:"to"`
	AuditAction string `json:"audit_action"`
}

// Action labels as shown to the teams.
const (
	ActionMarkReadyToSend  = "Mark Ready to Send"
	ActionSendToClient     = "Send to Client"
	ActionMarkClientSigned = "Mark Client Signed"
	ActionMarkClientOptOut = "Mark Client Opted Out"
	ActionMarkDocsReceived = "Mark Docs Received"
	ActionSubmitToProvider = "Submit to Provider"
	ActionProviderUplifted = "Provider Uplifted"
	ActionCloseFeeInIO     = "Close Fee in IO & Create New"
	ActionCompleteCase     = "Complete Case"
)

// transitions is ordered so callers can present actions in a stable order.
var transitions = []Transition{
	{StatusDraft, ActionMarkReadyToSend, StatusReadyToSend, "ready_to_send"},
	{StatusReadyToSend, ActionSendToClient, StatusSentToClient, "sent_to_client"},
	{StatusSentToClient, ActionMarkClientSigned, StatusClientSigned, "client_signed"},
	{StatusSentToClient, ActionMarkClientOptOut, StatusClientOptedOut, "client_opted_out"},
	{StatusClientSigned, ActionMarkDocsReceived, StatusReceivedPaperwork, "received_paperwork"},
	{StatusReceivedPaperwork, ActionSubmitToProvider, StatusSubmittedToProvider, "submitted_to_provider"},
	{StatusSubmittedToProvider, ActionProviderUplifted, StatusProviderUplifted, "provider_uplifted"},
	{StatusProviderUplifted, ActionCloseFeeInIO, StatusIOClosedNewFee, "io_closed_new_fee"},
	{StatusIOClosedNewFee, ActionCompleteCase, StatusCompleted, "completed"},
}

var transitionIndex = func() map[Key]Transition {
	index := make(map[Key]Transition, len(transitions))
	for _, t := range transitions {
		index[Key{From: t.From, Action: t.Action}] = t
	}
	return index
}()

// Lookup resolves the transition for an action taken from a status.
func Lookup(from Status, action string) (Transition, bool) {
	t, ok := transitionIndex[Key{From: from, Action: action}]
	return t, ok
}

// ActionsFor returns the action labels valid from a status, in table order.
func ActionsFor(from Status) []string {
	var actions []string
	for _, t := range transitions {
		if t.From == from {
			actions = append(actions, t.Action)
		}
	}
	return actions
}

// Transitions returns a copy of the full transition table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}
