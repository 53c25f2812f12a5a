package events

import "github.com/google/uuid"

// Event names for dispatch domain events.
const (
	EventTechnicianAssigned         = "dispatch.technician_assigned"
	EventTechnicianReleased         = "dispatch.technician_released"
	EventInstallationCompleted      = "dispatch.installation_completed"
	EventServiceRequestClosed       = "dispatch.service_request_closed"
	EventTechnicianDecisionRecorded = "dispatch.technician_decision_recorded"
)

// Assignment targets.
const (
	TargetInstallationOrder = "installation_order"
	TargetServiceRequest    = "service_request"
)

// Release reasons.
const (
	ReleaseReasonCompleted = "installation_completed"
	ReleaseReasonRejected  = "decision_rejected"
	ReleaseReasonClosed    = "request_closed"
	ReleaseReasonRemoved   = "technician_removed"
)

// TechnicianAssigned is published when a technician is dispatched to an
// installation order or a service request.
type TechnicianAssigned struct {
	BaseEvent
	OrganizationID  uuid.UUID
	TechnicianID    uuid.UUID
	TechnicianName  string
	TechnicianEmail string
	Target          string
	TargetID        uuid.UUID
	Reassignment    bool
}

// EventName returns the event identifier.
func (e TechnicianAssigned) EventName() string { return EventTechnicianAssigned }

// TechnicianReleased is published whenever a technician transitions back to
// the free pool, whatever the cause.
type TechnicianReleased struct {
	BaseEvent
	OrganizationID  uuid.UUID
	TechnicianID    uuid.UUID
	TechnicianName  string
	TechnicianEmail string
	Target          string
	TargetID        uuid.UUID
	Reason          string
}

// EventName returns the event identifier.
func (e TechnicianReleased) EventName() string { return EventTechnicianReleased }

// InstallationCompleted is published when a head-admin confirms on-site
// completion of an installation order.
type InstallationCompleted struct {
	BaseEvent
	OrganizationID uuid.UUID
	OrderID        uuid.UUID
	TechnicianID   uuid.UUID
}

// EventName returns the event identifier.
func (e InstallationCompleted) EventName() string { return EventInstallationCompleted }

// ServiceRequestClosed is published when a service request reaches its
// terminal closed state.
type ServiceRequestClosed struct {
	BaseEvent
	OrganizationID uuid.UUID
	RequestID      uuid.UUID
	TechnicianID   uuid.UUID
}

// EventName returns the event identifier.
func (e ServiceRequestClosed) EventName() string { return EventServiceRequestClosed }

// TechnicianDecisionRecorded is published when a technician's accept/reject
// decision on a service request is surfaced into the engine.
type TechnicianDecisionRecorded struct {
	BaseEvent
	OrganizationID uuid.UUID
	RequestID      uuid.UUID
	TechnicianID   uuid.UUID
	Decision       string
}

// EventName returns the event identifier.
func (e TechnicianDecisionRecorded) EventName() string { return EventTechnicianDecisionRecorded }
