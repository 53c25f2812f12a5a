package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestStateDerivation(t *testing.T) {
	techID := uuid.New()
	tests := []struct {
		name  string
		order Order
		want  State
	}{
		{"fresh order", Order{}, StateAwaitingAssignment},
		{
			"paid but unassigned",
			Order{Stages: Stages{PaymentReceived: true, KycVerified: true}},
			StateAwaitingAssignment,
		},
		{
			"assigned",
			Order{Stages: Stages{TechnicianAssigned: true}, AssignedTechnicianID: &techID},
			StateAssigned,
		},
		{
			"completed",
			Order{Stages: Stages{TechnicianAssigned: true, InstallationCompleted: true}, AssignedTechnicianID: &techID},
			StateCompleted,
		},
	}

	for _, tc := range tests {
		if got := tc.order.State(); got != tc.want {
			t.Errorf("%s: State() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCheckAssignable(t *testing.T) {
	var order Order
	if err := order.CheckAssignable(); err != nil {
		t.Errorf("fresh order should be assignable, got %v", err)
	}

	// Payment and KYC gates are informational only; assignment can proceed in
	// parallel with them.
	order.Stages.PaymentReceived = false
	order.Stages.KycVerified = false
	if err := order.CheckAssignable(); err != nil {
		t.Errorf("unpaid order should still be assignable, got %v", err)
	}

	order.Stages.TechnicianAssigned = true
	if err := order.CheckAssignable(); err == nil {
		t.Error("assigned order should refuse reassignment")
	}

	order.Stages.InstallationCompleted = true
	if err := order.CheckAssignable(); err == nil {
		t.Error("completed order should refuse assignment")
	}
}

func TestCheckCompletable(t *testing.T) {
	var order Order
	if err := order.CheckCompletable(); err == nil {
		t.Error("unassigned order should not be completable")
	}

	order.Stages.TechnicianAssigned = true
	if err := order.CheckCompletable(); err != nil {
		t.Errorf("assigned order should be completable, got %v", err)
	}

	order.Stages.InstallationCompleted = true
	if err := order.CheckCompletable(); err == nil {
		t.Error("completed order is terminal; completing again should fail")
	}
}
