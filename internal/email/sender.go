// Package email provides outbound email delivery for operational
// notifications.
package email

import "context"

// Sender delivers dispatch notification emails.
type Sender interface {
	// SendAssignmentEmail notifies a technician they have been dispatched to
	// a job.
	SendAssignmentEmail(ctx context.Context, toEmail, technicianName, jobKind, jobID string) error

	// SendReleaseEmail notifies a technician they have been released from a
	// job and are back in the free pool.
	SendReleaseEmail(ctx context.Context, toEmail, technicianName, reason string) error
}

// NoopSender discards all emails. Used when email delivery is disabled.
type NoopSender struct{}

// SendAssignmentEmail implements Sender.
func (NoopSender) SendAssignmentEmail(context.Context, string, string, string, string) error {
	return nil
}

// SendReleaseEmail implements Sender.
func (NoopSender) SendReleaseEmail(context.Context, string, string, string) error {
	return nil
}
