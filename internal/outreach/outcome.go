package outreach

// Outcome is the terminal classification of one delivery attempt. It is the
// only thing persisted back to the record store; an empty Outcome means the
// attempt has not reached a terminal state yet.
type Outcome string

const (
	OutcomeNone             Outcome = ""
	OutcomeSent             Outcome = "sent"
	OutcomeSentMaybe        Outcome = "sent_maybe"
	OutcomeAlreadyConnected Outcome = "already_connected"
	OutcomePending          Outcome = "pending"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeNoURN            Outcome = "no_urn"
	OutcomeNoConnectButton  Outcome = "no_connect_button"
	OutcomeAPIError         Outcome = "api_error"
	OutcomeError            Outcome = "error"
	OutcomeModalError       Outcome = "modal_error"
	OutcomeFailed           Outcome = "failed"
)

// Success reports whether the outcome counts toward the run's success total.
// sent_maybe is ambiguous (the send control was never located after the modal
// opened) but is treated as success, matching how the platform usually
// behaves; it stays a distinct value so logs and the store can tell it apart.
func (o Outcome) Success() bool {
	return o == OutcomeSent || o == OutcomeSentMaybe
}

// Neutral reports outcomes that are neither success nor failure: the profile
// was reachable but no request was owed (already connected, or an invite is
// already pending).
func (o Outcome) Neutral() bool {
	return o == OutcomeAlreadyConnected || o == OutcomePending
}

// Result pairs an outcome with an optional diagnostic recorded in the store's
// Delivered column.
type Result struct {
	Outcome Outcome
	Detail  string
}
