package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"aquaops_backend/internal/events"
	instdomain "aquaops_backend/internal/installations/domain"
	reqdomain "aquaops_backend/internal/servicerequests/domain"
	techdomain "aquaops_backend/internal/technicians/domain"
	"aquaops_backend/platform/logger"
)

// fakeStore is an in-memory dispatch store mirroring the compare-and-set
// semantics of the postgres implementation: every mutation re-checks its
// precondition under one lock, so concurrent coordinator calls observe the
// same winner-takes-all behavior as the real transactions.
type fakeStore struct {
	mu          sync.Mutex
	technicians map[uuid.UUID]*techdomain.Technician
	orders      map[uuid.UUID]*instdomain.Order
	requests    map[uuid.UUID]*reqdomain.Request
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		technicians: make(map[uuid.UUID]*techdomain.Technician),
		orders:      make(map[uuid.UUID]*instdomain.Order),
		requests:    make(map[uuid.UUID]*reqdomain.Request),
	}
}

func (f *fakeStore) Technician(_ context.Context, organizationID, id uuid.UUID) (*techdomain.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tech, ok := f.technicians[id]
	if !ok || tech.OrganizationID != organizationID {
		return nil, techdomain.ErrNotFound()
	}
	copied := *tech
	return &copied, nil
}

func (f *fakeStore) ListEligibleTechnicians(_ context.Context, organizationID uuid.UUID, kind techdomain.Kind) ([]techdomain.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	eligible := make([]techdomain.Technician, 0)
	for _, tech := range f.technicians {
		if tech.OrganizationID == organizationID && tech.Eligible() && tech.ServesPool(kind) {
			eligible = append(eligible, *tech)
		}
	}
	return eligible, nil
}

func (f *fakeStore) InstallationOrder(_ context.Context, organizationID, id uuid.UUID) (*instdomain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok || order.OrganizationID != organizationID {
		return nil, instdomain.ErrNotFound()
	}
	copied := *order
	return &copied, nil
}

func (f *fakeStore) ServiceRequest(_ context.Context, organizationID, id uuid.UUID) (*reqdomain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok || request.OrganizationID != organizationID {
		return nil, reqdomain.ErrNotFound()
	}
	copied := *request
	return &copied, nil
}

func (f *fakeStore) markBusyLocked(id uuid.UUID, kind techdomain.Kind) error {
	tech, ok := f.technicians[id]
	if !ok {
		return techdomain.ErrNotFound()
	}
	if !tech.Eligible() || !tech.ServesPool(kind) {
		return techdomain.ErrNotEligible()
	}
	tech.WorkStatus = techdomain.WorkStatusBusy
	return nil
}

func (f *fakeStore) markFreeLocked(id uuid.UUID) {
	if tech, ok := f.technicians[id]; ok {
		tech.WorkStatus = techdomain.WorkStatusFree
	}
}

func (f *fakeStore) AssignInstallationTechnician(_ context.Context, _, orderID, technicianID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return instdomain.ErrNotFound()
	}
	if order.Stages.TechnicianAssigned || order.Stages.InstallationCompleted {
		return instdomain.ErrAlreadyAssigned()
	}
	if err := f.markBusyLocked(technicianID, techdomain.KindInstallation); err != nil {
		return err
	}
	order.Stages.TechnicianAssigned = true
	order.AssignedTechnicianID = &technicianID
	return nil
}

func (f *fakeStore) CompleteInstallation(_ context.Context, _, orderID, technicianID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return instdomain.ErrNotFound()
	}
	if !order.Stages.TechnicianAssigned || order.Stages.InstallationCompleted {
		return instdomain.ErrOrderCompleted()
	}
	order.Stages.InstallationCompleted = true
	f.markFreeLocked(technicianID)
	return nil
}

func sameAssignee(current, observed *uuid.UUID) bool {
	if current == nil || observed == nil {
		return current == nil && observed == nil
	}
	return *current == *observed
}

func (f *fakeStore) AssignServiceTechnician(_ context.Context, _, requestID, technicianID uuid.UUID, observedTechnicianID, releaseTechnicianID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[requestID]
	if !ok {
		return reqdomain.ErrNotFound()
	}
	if request.Status == reqdomain.StatusClosed {
		return reqdomain.ErrRequestClosed()
	}
	if !sameAssignee(request.AssignedTechnicianID, observedTechnicianID) {
		return reqdomain.ErrAssignmentConflict()
	}
	if err := f.markBusyLocked(technicianID, techdomain.KindService); err != nil {
		return err
	}
	request.AssignedTechnicianID = &technicianID
	request.Approval = reqdomain.ApprovalPending
	if releaseTechnicianID != nil && *releaseTechnicianID != technicianID {
		f.markFreeLocked(*releaseTechnicianID)
	}
	return nil
}

func (f *fakeStore) RecordServiceDecision(_ context.Context, _, requestID, technicianID uuid.UUID, decision reqdomain.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[requestID]
	if !ok {
		return reqdomain.ErrNotFound()
	}
	if request.Status != reqdomain.StatusOpen || request.Approval != reqdomain.ApprovalPending {
		return reqdomain.ErrNoPendingDecision()
	}
	if !sameAssignee(request.AssignedTechnicianID, &technicianID) {
		return reqdomain.ErrNoPendingDecision()
	}
	request.Approval = reqdomain.ApprovalStatus(decision)
	if decision == reqdomain.DecisionRejected {
		request.RejectionCount++
		f.markFreeLocked(technicianID)
	}
	return nil
}

func (f *fakeStore) CloseServiceRequest(_ context.Context, _, requestID, technicianID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[requestID]
	if !ok {
		return reqdomain.ErrNotFound()
	}
	if request.Status != reqdomain.StatusOpen || request.Approval != reqdomain.ApprovalAccepted {
		return reqdomain.ErrCloseRequiresAcceptance()
	}
	if !sameAssignee(request.AssignedTechnicianID, &technicianID) {
		return reqdomain.ErrCloseRequiresAcceptance()
	}
	request.Status = reqdomain.StatusClosed
	f.markFreeLocked(technicianID)
	return nil
}

func (f *fakeStore) RemoveServiceTechnician(_ context.Context, _, requestID, technicianID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[requestID]
	if !ok {
		return reqdomain.ErrNotFound()
	}
	if request.Status != reqdomain.StatusOpen {
		return reqdomain.ErrRequestClosed()
	}
	if !sameAssignee(request.AssignedTechnicianID, &technicianID) {
		return reqdomain.ErrAssignmentConflict()
	}
	request.AssignedTechnicianID = nil
	request.Approval = reqdomain.ApprovalAbsent
	f.markFreeLocked(technicianID)
	return nil
}

// recordingBus captures published events synchronously for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) named(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	matched := make([]events.Event, 0)
	for _, e := range b.events {
		if e.EventName() == name {
			matched = append(matched, e)
		}
	}
	return matched
}

type fixture struct {
	store *fakeStore
	bus   *recordingBus
	coord *Coordinator
	orgID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	bus := &recordingBus{}
	return &fixture{
		store: store,
		bus:   bus,
		coord: NewCoordinator(store, bus, logger.New("development")),
		orgID: uuid.New(),
	}
}

func (fx *fixture) addTechnician(kind techdomain.Kind) uuid.UUID {
	tech := &techdomain.Technician{
		ID:             uuid.New(),
		OrganizationID: fx.orgID,
		Name:           "Asha Rao",
		Email:          "asha@example.com",
		Kind:           kind,
		IsActive:       true,
		WorkStatus:     techdomain.WorkStatusFree,
		KycStatus:      techdomain.KycStatusApproved,
	}
	fx.store.technicians[tech.ID] = tech
	return tech.ID
}

func (fx *fixture) addOrder() uuid.UUID {
	order := &instdomain.Order{
		ID:             uuid.New(),
		OrganizationID: fx.orgID,
		CustomerID:     uuid.New(),
		PlanID:         uuid.New(),
	}
	fx.store.orders[order.ID] = order
	return order.ID
}

func (fx *fixture) addRequest() uuid.UUID {
	request := &reqdomain.Request{
		ID:             uuid.New(),
		OrganizationID: fx.orgID,
		DeviceID:       uuid.New(),
		UserID:         uuid.New(),
		ServiceType:    "filter_replacement",
		Location:       "Pune",
		Status:         reqdomain.StatusOpen,
	}
	fx.store.requests[request.ID] = request
	return request.ID
}

func TestAssignInstallation(t *testing.T) {
	fx := newFixture(t)
	techID := fx.addTechnician(techdomain.KindInstallation)
	orderID := fx.addOrder()

	order, err := fx.coord.AssignInstallation(context.Background(), fx.orgID, orderID, techID)
	require.NoError(t, err)
	assert.Equal(t, instdomain.StateAssigned, order.State())
	require.NotNil(t, order.AssignedTechnicianID)
	assert.Equal(t, techID, *order.AssignedTechnicianID)

	tech, err := fx.store.Technician(context.Background(), fx.orgID, techID)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusBusy, tech.WorkStatus)

	assigned := fx.bus.named(events.EventTechnicianAssigned)
	require.Len(t, assigned, 1)
	event := assigned[0].(events.TechnicianAssigned)
	assert.Equal(t, events.TargetInstallationOrder, event.Target)
	assert.False(t, event.Reassignment)
}

func TestAssignInstallationRefusals(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(fx *fixture, techID uuid.UUID)
		wantMsg string
	}{
		{
			"inactive technician",
			func(fx *fixture, techID uuid.UUID) { fx.store.technicians[techID].IsActive = false },
			techdomain.ErrInactive().Error(),
		},
		{
			"kyc pending",
			func(fx *fixture, techID uuid.UUID) {
				fx.store.technicians[techID].KycStatus = techdomain.KycStatusPending
			},
			techdomain.ErrKycNotApproved().Error(),
		},
		{
			"already busy",
			func(fx *fixture, techID uuid.UUID) {
				fx.store.technicians[techID].WorkStatus = techdomain.WorkStatusBusy
			},
			techdomain.ErrAlreadyBusy().Error(),
		},
		{
			"wrong pool",
			func(fx *fixture, techID uuid.UUID) {
				fx.store.technicians[techID].Kind = techdomain.KindService
			},
			techdomain.ErrWrongPool().Error(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t)
			techID := fx.addTechnician(techdomain.KindInstallation)
			orderID := fx.addOrder()
			tc.prepare(fx, techID)

			_, err := fx.coord.AssignInstallation(context.Background(), fx.orgID, orderID, techID)
			require.Error(t, err)
			assert.Equal(t, tc.wantMsg, err.Error())

			// A refused assignment leaves the order untouched.
			order, err := fx.store.InstallationOrder(context.Background(), fx.orgID, orderID)
			require.NoError(t, err)
			assert.Equal(t, instdomain.StateAwaitingAssignment, order.State())
		})
	}
}

func TestAssignInstallationOrderConflicts(t *testing.T) {
	fx := newFixture(t)
	firstTech := fx.addTechnician(techdomain.KindInstallation)
	secondTech := fx.addTechnician(techdomain.KindAny)
	orderID := fx.addOrder()

	_, err := fx.coord.AssignInstallation(context.Background(), fx.orgID, orderID, firstTech)
	require.NoError(t, err)

	// The order committed to its technician; a second assignment is refused
	// and the second technician stays free.
	_, err = fx.coord.AssignInstallation(context.Background(), fx.orgID, orderID, secondTech)
	require.Error(t, err)
	assert.Equal(t, instdomain.ErrAlreadyAssigned().Error(), err.Error())

	tech, err := fx.store.Technician(context.Background(), fx.orgID, secondTech)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusFree, tech.WorkStatus)
}

func TestCompleteInstallation(t *testing.T) {
	fx := newFixture(t)
	techID := fx.addTechnician(techdomain.KindInstallation)
	orderID := fx.addOrder()

	_, err := fx.coord.CompleteInstallation(context.Background(), fx.orgID, orderID)
	require.Error(t, err, "completion requires an assigned technician")

	_, err = fx.coord.AssignInstallation(context.Background(), fx.orgID, orderID, techID)
	require.NoError(t, err)

	order, err := fx.coord.CompleteInstallation(context.Background(), fx.orgID, orderID)
	require.NoError(t, err)
	assert.Equal(t, instdomain.StateCompleted, order.State())

	tech, err := fx.store.Technician(context.Background(), fx.orgID, techID)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusFree, tech.WorkStatus)

	// Completed is terminal.
	_, err = fx.coord.CompleteInstallation(context.Background(), fx.orgID, orderID)
	require.Error(t, err)

	released := fx.bus.named(events.EventTechnicianReleased)
	require.Len(t, released, 1)
	assert.Equal(t, events.ReleaseReasonCompleted, released[0].(events.TechnicianReleased).Reason)
}

func TestServiceRequestLifecycle(t *testing.T) {
	fx := newFixture(t)
	techID := fx.addTechnician(techdomain.KindService)
	requestID := fx.addRequest()

	request, err := fx.coord.AssignService(context.Background(), fx.orgID, requestID, techID)
	require.NoError(t, err)
	assert.Equal(t, reqdomain.ApprovalPending, request.Approval)

	// Closure needs acceptance first.
	_, err = fx.coord.CloseService(context.Background(), fx.orgID, requestID)
	require.Error(t, err)
	assert.Equal(t, reqdomain.ErrCloseRequiresAcceptance().Error(), err.Error())

	request, err = fx.coord.RecordDecision(context.Background(), fx.orgID, requestID, reqdomain.DecisionAccepted)
	require.NoError(t, err)
	assert.Equal(t, reqdomain.ApprovalAccepted, request.Approval)

	// Acceptance keeps the technician on duty until closure.
	tech, err := fx.store.Technician(context.Background(), fx.orgID, techID)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusBusy, tech.WorkStatus)

	// A second decision has nothing pending to act on.
	_, err = fx.coord.RecordDecision(context.Background(), fx.orgID, requestID, reqdomain.DecisionAccepted)
	require.Error(t, err)

	request, err = fx.coord.CloseService(context.Background(), fx.orgID, requestID)
	require.NoError(t, err)
	assert.Equal(t, reqdomain.StatusClosed, request.Status)

	tech, err = fx.store.Technician(context.Background(), fx.orgID, techID)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusFree, tech.WorkStatus)

	// Closed is terminal for every lifecycle action.
	_, err = fx.coord.AssignService(context.Background(), fx.orgID, requestID, techID)
	require.Error(t, err)
	_, err = fx.coord.CloseService(context.Background(), fx.orgID, requestID)
	require.Error(t, err)
}

func TestServiceRejectionAndReassignment(t *testing.T) {
	fx := newFixture(t)
	firstTech := fx.addTechnician(techdomain.KindService)
	secondTech := fx.addTechnician(techdomain.KindAny)
	requestID := fx.addRequest()

	_, err := fx.coord.AssignService(context.Background(), fx.orgID, requestID, firstTech)
	require.NoError(t, err)

	request, err := fx.coord.RecordDecision(context.Background(), fx.orgID, requestID, reqdomain.DecisionRejected)
	require.NoError(t, err)
	assert.Equal(t, reqdomain.ApprovalRejected, request.Approval)
	assert.Equal(t, 1, request.RejectionCount)
	assert.True(t, request.Reassignable())

	// A rejection releases the technician immediately.
	tech, err := fx.store.Technician(context.Background(), fx.orgID, firstTech)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusFree, tech.WorkStatus)

	request, err = fx.coord.AssignService(context.Background(), fx.orgID, requestID, secondTech)
	require.NoError(t, err)
	assert.Equal(t, reqdomain.ApprovalPending, request.Approval)
	assert.Equal(t, secondTech, *request.AssignedTechnicianID)

	assigned := fx.bus.named(events.EventTechnicianAssigned)
	require.Len(t, assigned, 2)
	assert.True(t, assigned[1].(events.TechnicianAssigned).Reassignment)
}

func TestServiceReassignmentAfterAcceptance(t *testing.T) {
	fx := newFixture(t)
	firstTech := fx.addTechnician(techdomain.KindService)
	secondTech := fx.addTechnician(techdomain.KindService)
	requestID := fx.addRequest()

	_, err := fx.coord.AssignService(context.Background(), fx.orgID, requestID, firstTech)
	require.NoError(t, err)
	_, err = fx.coord.RecordDecision(context.Background(), fx.orgID, requestID, reqdomain.DecisionAccepted)
	require.NoError(t, err)

	request, err := fx.coord.AssignService(context.Background(), fx.orgID, requestID, secondTech)
	require.NoError(t, err)
	assert.Equal(t, reqdomain.ApprovalPending, request.Approval)
	assert.Equal(t, secondTech, *request.AssignedTechnicianID)

	// The displaced technician goes back to the free pool; only the new
	// assignee is on duty.
	first, err := fx.store.Technician(context.Background(), fx.orgID, firstTech)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusFree, first.WorkStatus)
	second, err := fx.store.Technician(context.Background(), fx.orgID, secondTech)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusBusy, second.WorkStatus)

	released := fx.bus.named(events.EventTechnicianReleased)
	require.Len(t, released, 1)
	event := released[0].(events.TechnicianReleased)
	assert.Equal(t, firstTech, event.TechnicianID)
	assert.Equal(t, events.ReleaseReasonRemoved, event.Reason)
}

// TestAssignServiceStaleSnapshotConflict replays two operators whose request
// reads both happened before either write. The second write must fail on the
// assignee check and leave its technician free.
func TestAssignServiceStaleSnapshotConflict(t *testing.T) {
	fx := newFixture(t)
	firstTech := fx.addTechnician(techdomain.KindService)
	secondTech := fx.addTechnician(techdomain.KindService)
	requestID := fx.addRequest()

	err := fx.store.AssignServiceTechnician(context.Background(), fx.orgID, requestID, firstTech, nil, nil)
	require.NoError(t, err)

	err = fx.store.AssignServiceTechnician(context.Background(), fx.orgID, requestID, secondTech, nil, nil)
	require.Error(t, err)
	assert.Equal(t, reqdomain.ErrAssignmentConflict().Error(), err.Error())

	// The winner keeps the request; the loser's technician is not stranded.
	request, err := fx.store.ServiceRequest(context.Background(), fx.orgID, requestID)
	require.NoError(t, err)
	assert.Equal(t, firstTech, *request.AssignedTechnicianID)
	second, err := fx.store.Technician(context.Background(), fx.orgID, secondTech)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusFree, second.WorkStatus)
}

// TestRecordDecisionStaleTechnician covers a decision raced by a
// reassignment: the decision carries the old assignee and must not consume
// the new assignee's pending approval or free them.
func TestRecordDecisionStaleTechnician(t *testing.T) {
	fx := newFixture(t)
	firstTech := fx.addTechnician(techdomain.KindService)
	secondTech := fx.addTechnician(techdomain.KindService)
	requestID := fx.addRequest()

	err := fx.store.AssignServiceTechnician(context.Background(), fx.orgID, requestID, firstTech, nil, nil)
	require.NoError(t, err)
	err = fx.store.AssignServiceTechnician(context.Background(), fx.orgID, requestID, secondTech, &firstTech, &firstTech)
	require.NoError(t, err)

	err = fx.store.RecordServiceDecision(context.Background(), fx.orgID, requestID, firstTech, reqdomain.DecisionRejected)
	require.Error(t, err)

	request, err := fx.store.ServiceRequest(context.Background(), fx.orgID, requestID)
	require.NoError(t, err)
	assert.Equal(t, reqdomain.ApprovalPending, request.Approval)
	assert.Equal(t, secondTech, *request.AssignedTechnicianID)
	assert.Equal(t, 0, request.RejectionCount)
	second, err := fx.store.Technician(context.Background(), fx.orgID, secondTech)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusBusy, second.WorkStatus)
}

func TestRemoveTechnician(t *testing.T) {
	fx := newFixture(t)
	techID := fx.addTechnician(techdomain.KindService)
	requestID := fx.addRequest()

	_, err := fx.coord.RemoveTechnician(context.Background(), fx.orgID, requestID)
	require.Error(t, err, "nothing to remove on an unassigned request")

	_, err = fx.coord.AssignService(context.Background(), fx.orgID, requestID, techID)
	require.NoError(t, err)

	request, err := fx.coord.RemoveTechnician(context.Background(), fx.orgID, requestID)
	require.NoError(t, err)
	assert.Nil(t, request.AssignedTechnicianID)
	assert.Equal(t, reqdomain.ApprovalAbsent, request.Approval)

	tech, err := fx.store.Technician(context.Background(), fx.orgID, techID)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusFree, tech.WorkStatus)
}

func TestEligibleTechnicians(t *testing.T) {
	fx := newFixture(t)
	installerID := fx.addTechnician(techdomain.KindInstallation)
	fx.addTechnician(techdomain.KindService)
	anyID := fx.addTechnician(techdomain.KindAny)
	busyID := fx.addTechnician(techdomain.KindInstallation)
	fx.store.technicians[busyID].WorkStatus = techdomain.WorkStatusBusy

	eligible, err := fx.coord.EligibleTechnicians(context.Background(), fx.orgID, techdomain.KindInstallation)
	require.NoError(t, err)
	ids := make([]uuid.UUID, len(eligible))
	for i, tech := range eligible {
		ids[i] = tech.ID
	}
	assert.ElementsMatch(t, []uuid.UUID{installerID, anyID}, ids)

	all, err := fx.coord.EligibleTechnicians(context.Background(), fx.orgID, techdomain.KindAny)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = fx.coord.EligibleTechnicians(context.Background(), fx.orgID, techdomain.Kind("plumbing"))
	require.Error(t, err)
}

// TestConcurrentAssignmentSingleWinner drives two assignments of the same
// technician to different orders at once. Exactly one must win; the loser
// gets the eligibility conflict and no partial state.
func TestConcurrentAssignmentSingleWinner(t *testing.T) {
	fx := newFixture(t)
	techID := fx.addTechnician(techdomain.KindInstallation)
	firstOrder := fx.addOrder()
	secondOrder := fx.addOrder()

	results := make([]error, 2)
	var g errgroup.Group
	g.Go(func() error {
		_, results[0] = fx.coord.AssignInstallation(context.Background(), fx.orgID, firstOrder, techID)
		return nil
	})
	g.Go(func() error {
		_, results[1] = fx.coord.AssignInstallation(context.Background(), fx.orgID, secondOrder, techID)
		return nil
	})
	require.NoError(t, g.Wait())

	var wins, losses int
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	tech, err := fx.store.Technician(context.Background(), fx.orgID, techID)
	require.NoError(t, err)
	assert.Equal(t, techdomain.WorkStatusBusy, tech.WorkStatus)

	var assignedOrders int
	for _, orderID := range []uuid.UUID{firstOrder, secondOrder} {
		order, err := fx.store.InstallationOrder(context.Background(), fx.orgID, orderID)
		require.NoError(t, err)
		if order.Stages.TechnicianAssigned {
			assignedOrders++
		}
	}
	assert.Equal(t, 1, assignedOrders)
}
