package workflow

// Default team names. Routing refers to teams by these names only.
const (
	TeamData                 = "Data"
	TeamAdminSolution        = "Admin Solution"
	TeamOpsSupport           = "Ops Support"
	TeamTechExcellenceCenter = "Tech Excellence Center"
	TeamSubmissionNovation   = "Submission & Novation"
	TeamSupportHub           = "Support Hub"
	TeamPost                 = "Post"
	TeamIS                   = "IS"
)

// RoutingPolicy maps a status to the team expected to act next.
type RoutingPolicy map[Status]string

// DefaultRouting is the single source of truth for team assignment.
// COMPLETED has no entry: nobody acts on a completed case.
var DefaultRouting = RoutingPolicy{
	StatusDraft:               TeamData,
	StatusReadyToSend:         TeamAdminSolution,
	StatusSentToClient:        TeamOpsSupport,
	StatusClientSigned:        TeamSubmissionNovation,
	StatusClientOptedOut:      TeamSupportHub,
	StatusReceivedPaperwork:   TeamSubmissionNovation,
	StatusSubmittedToProvider: TeamTechExcellenceCenter,
	StatusProviderUplifted:    TeamIS,
	StatusIOClosedNewFee:      TeamAdminSolution,
}

// NextTeam returns the team hint for a status, if any.
func (p RoutingPolicy) NextTeam(status Status) (string, bool) {
	name, ok := p[status]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// NextTeamHint applies DefaultRouting.
func NextTeamHint(status Status) (string, bool) {
	return DefaultRouting.NextTeam(status)
}
