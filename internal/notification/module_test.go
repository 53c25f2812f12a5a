package notification

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops_backend/internal/events"
	"aquaops_backend/platform/logger"
)

type sentEmail struct {
	kind    string
	to      string
	name    string
	payload string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeSender) SendAssignmentEmail(_ context.Context, toEmail, technicianName, jobKind, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{kind: "assignment:" + jobKind, to: toEmail, name: technicianName, payload: jobID})
	return nil
}

func (f *fakeSender) SendReleaseEmail(_ context.Context, toEmail, technicianName, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{kind: "release", to: toEmail, name: technicianName, payload: reason})
	return nil
}

func TestHandleTechnicianAssigned(t *testing.T) {
	sender := &fakeSender{}
	module := New(sender, logger.New("development"))

	orderID := uuid.New()
	err := module.Handle(context.Background(), events.TechnicianAssigned{
		BaseEvent:       events.NewBaseEvent(),
		OrganizationID:  uuid.New(),
		TechnicianID:    uuid.New(),
		TechnicianName:  "Asha Rao",
		TechnicianEmail: "asha@example.com",
		Target:          events.TargetInstallationOrder,
		TargetID:        orderID,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "assignment:installation", sender.sent[0].kind)
	assert.Equal(t, "asha@example.com", sender.sent[0].to)
	assert.Equal(t, orderID.String(), sender.sent[0].payload)
}

func TestHandleTechnicianReleased(t *testing.T) {
	sender := &fakeSender{}
	module := New(sender, logger.New("development"))

	err := module.Handle(context.Background(), events.TechnicianReleased{
		BaseEvent:       events.NewBaseEvent(),
		OrganizationID:  uuid.New(),
		TechnicianID:    uuid.New(),
		TechnicianName:  "Asha Rao",
		TechnicianEmail: "asha@example.com",
		Target:          events.TargetServiceRequest,
		TargetID:        uuid.New(),
		Reason:          events.ReleaseReasonRejected,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "release", sender.sent[0].kind)
	assert.Equal(t, "you declined the assignment", sender.sent[0].payload)
}

func TestHandlersReceiveEventsFromBus(t *testing.T) {
	sender := &fakeSender{}
	log := logger.New("development")
	module := New(sender, log)

	bus := events.NewInMemoryBus(log)
	module.RegisterHandlers(bus)

	err := bus.PublishSync(context.Background(), events.TechnicianAssigned{
		BaseEvent:       events.NewBaseEvent(),
		TechnicianEmail: "tech@example.com",
		TechnicianName:  "Ravi Kumar",
		Target:          events.TargetServiceRequest,
		TargetID:        uuid.New(),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "assignment:service", sender.sent[0].kind)
}

func TestUnknownEventIsIgnored(t *testing.T) {
	sender := &fakeSender{}
	module := New(sender, logger.New("development"))

	err := module.Handle(context.Background(), events.InstallationCompleted{BaseEvent: events.NewBaseEvent()})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}
