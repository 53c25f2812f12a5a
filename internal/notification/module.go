// Package notification provides event handlers for sending notifications in
// response to dispatch events. It subscribes to the event bus and inverts the
// dependency: the dispatch coordinator never needs to know about email
// providers or templates.
package notification

import (
	"context"

	"aquaops_backend/internal/email"
	"aquaops_backend/internal/events"
	apphttp "aquaops_backend/internal/http"
	"aquaops_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

// New creates a new notification module.
func New(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes is a no-op; the notification module has no HTTP surface.
func (m *Module) RegisterRoutes(*apphttp.RouterContext) {}

// RegisterHandlers subscribes to the dispatch domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.TechnicianAssigned{}.EventName(), m)
	bus.Subscribe(events.TechnicianReleased{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.TechnicianAssigned:
		return m.handleTechnicianAssigned(ctx, e)
	case events.TechnicianReleased:
		return m.handleTechnicianReleased(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleTechnicianAssigned(ctx context.Context, e events.TechnicianAssigned) error {
	jobKind := "installation"
	if e.Target == events.TargetServiceRequest {
		jobKind = "service"
	}

	if err := m.sender.SendAssignmentEmail(ctx, e.TechnicianEmail, e.TechnicianName, jobKind, e.TargetID.String()); err != nil {
		m.log.Error("failed to send assignment email",
			"technicianId", e.TechnicianID,
			"target", e.Target,
			"targetId", e.TargetID,
			"error", err,
		)
		return err
	}
	m.log.Info("assignment email sent", "technicianId", e.TechnicianID, "target", e.Target, "targetId", e.TargetID)
	return nil
}

func (m *Module) handleTechnicianReleased(ctx context.Context, e events.TechnicianReleased) error {
	if err := m.sender.SendReleaseEmail(ctx, e.TechnicianEmail, e.TechnicianName, humanizeReleaseReason(e.Reason)); err != nil {
		m.log.Error("failed to send release email",
			"technicianId", e.TechnicianID,
			"reason", e.Reason,
			"error", err,
		)
		return err
	}
	m.log.Info("release email sent", "technicianId", e.TechnicianID, "reason", e.Reason)
	return nil
}

func humanizeReleaseReason(reason string) string {
	switch reason {
	case events.ReleaseReasonCompleted:
		return "the installation was completed"
	case events.ReleaseReasonRejected:
		return "you declined the assignment"
	case events.ReleaseReasonClosed:
		return "the service request was closed"
	case events.ReleaseReasonRemoved:
		return "an operator reassigned the request"
	default:
		return reason
	}
}
