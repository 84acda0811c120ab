package notification

// NotificationService dispatches confirmation, cancellation and reminder
// messages. Fire-and-forget from the booking engine's perspective: failures
// are logged by the caller, never propagated to the requester.
type NotificationService interface {
	Send(to, subject, body string) error
}
