package domain

import (
	"testing"

	"aquaops_backend/platform/apperr"
)

func eligibleTechnician() Technician {
	return Technician{
		Name:       "Ravi Kumar",
		Kind:       KindAny,
		IsActive:   true,
		WorkStatus: WorkStatusFree,
		KycStatus:  KycStatusApproved,
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Technician)
		want   bool
	}{
		{"active free approved", func(*Technician) {}, true},
		{"inactive", func(tech *Technician) { tech.IsActive = false }, false},
		{"busy", func(tech *Technician) { tech.WorkStatus = WorkStatusBusy }, false},
		{"kyc pending", func(tech *Technician) { tech.KycStatus = KycStatusPending }, false},
		{"kyc rejected", func(tech *Technician) { tech.KycStatus = KycStatusRejected }, false},
	}

	for _, tc := range tests {
		tech := eligibleTechnician()
		tc.mutate(&tech)
		if got := tech.Eligible(); got != tc.want {
			t.Errorf("%s: Eligible() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestServesPool(t *testing.T) {
	tests := []struct {
		techKind Kind
		pool     Kind
		want     bool
	}{
		{KindAny, KindInstallation, true},
		{KindAny, KindService, true},
		{KindInstallation, KindInstallation, true},
		{KindInstallation, KindService, false},
		{KindService, KindService, true},
		{KindService, KindInstallation, false},
		{KindInstallation, KindAny, true},
	}

	for _, tc := range tests {
		tech := eligibleTechnician()
		tech.Kind = tc.techKind
		if got := tech.ServesPool(tc.pool); got != tc.want {
			t.Errorf("ServesPool(%q) with kind %q = %v, want %v", tc.pool, tc.techKind, got, tc.want)
		}
	}
}

func TestCheckAssignableReportsFailingPredicate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Technician)
		wantMsg string
	}{
		{"eligible", func(*Technician) {}, ""},
		{"inactive", func(tech *Technician) { tech.IsActive = false }, "technician account is deactivated"},
		{"unapproved", func(tech *Technician) { tech.KycStatus = KycStatusPending }, "technician KYC is not approved"},
		{"busy", func(tech *Technician) { tech.WorkStatus = WorkStatusBusy }, "technician is already on duty"},
		{"wrong pool", func(tech *Technician) { tech.Kind = KindService }, "technician does not serve this kind of work"},
	}

	for _, tc := range tests {
		tech := eligibleTechnician()
		tc.mutate(&tech)
		err := tech.CheckAssignable(KindInstallation)

		if tc.wantMsg == "" {
			if err != nil {
				t.Errorf("%s: CheckAssignable returned %v, want nil", tc.name, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%s: CheckAssignable returned nil, want error", tc.name)
			continue
		}
		if err.Error() != tc.wantMsg {
			t.Errorf("%s: error = %q, want %q", tc.name, err.Error(), tc.wantMsg)
		}
		if !apperr.Is(err, apperr.KindConflict) {
			t.Errorf("%s: error kind is not conflict", tc.name)
		}
	}
}

func TestCheckModifiableFrozenWhileBusy(t *testing.T) {
	tech := eligibleTechnician()
	if err := tech.CheckModifiable(); err != nil {
		t.Errorf("free technician should be modifiable, got %v", err)
	}

	tech.WorkStatus = WorkStatusBusy
	err := tech.CheckModifiable()
	if err == nil {
		t.Fatal("busy technician should not be modifiable")
	}
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("error kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestValidKind(t *testing.T) {
	for _, kind := range []Kind{KindInstallation, KindService, KindAny} {
		if !ValidKind(kind) {
			t.Errorf("ValidKind(%q) = false, want true", kind)
		}
	}
	if ValidKind("plumbing") {
		t.Error(`ValidKind("plumbing") = true, want false`)
	}
}

func TestValidKycStatus(t *testing.T) {
	for _, status := range []KycStatus{KycStatusPending, KycStatusApproved, KycStatusRejected} {
		if !ValidKycStatus(status) {
			t.Errorf("ValidKycStatus(%q) = false, want true", status)
		}
	}
	if ValidKycStatus("verified") {
		t.Error(`ValidKycStatus("verified") = true, want false`)
	}
}
