package enums

// WebhookOutcome is the terminal state of a single provider notification.
type WebhookOutcome string

const (
	WebhookOutcomeEntitlementWritten WebhookOutcome = "entitlement_written"
	WebhookOutcomeIdentifiersMissing WebhookOutcome = "identifiers_missing"
	WebhookOutcomeNotApproved        WebhookOutcome = "not_approved"
	WebhookOutcomeNoOp               WebhookOutcome = "no_op"
)
