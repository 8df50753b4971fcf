package ports

// Notification severities understood by the presentation layer.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Notifier surfaces user-visible messages for errors the request pipeline
// passes through rather than recovers from. Implementations present the
// message however the host application does (toast, status line, log).
type Notifier interface {
	Notify(severity, message string)

	// SessionExpired signals that the session was forcibly cleared and the
	// user must re-authenticate. Hosts typically route to their login entry
	// point.
	SessionExpired()
}
