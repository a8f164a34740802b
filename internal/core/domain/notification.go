package domain

// NotificationKind classifies the outcome of the arrival gate. Only New
// and Returning are ever surfaced to the notifier; None means "write the
// sighting, tell nobody".
type NotificationKind string

const (
	NotificationNone      NotificationKind = "none"
	NotificationNew       NotificationKind = "new"
	NotificationReturning NotificationKind = "returning"
)

// ArrivalDecision is the output of the notifier gate: whether to notify,
// and why.
type ArrivalDecision struct {
	ShouldNotify bool
	Kind         NotificationKind
}
