package model

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"", StatusPending, true},
		{"pending", StatusPending, true},
		{"confirmed", StatusConfirmed, true},
		{"rejected", StatusRejected, true},
		{"shipped", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	if !StatusPending.CanTransitionTo(StatusConfirmed) {
		t.Error("pending -> confirmed should be allowed")
	}
	if !StatusPending.CanTransitionTo(StatusRejected) {
		t.Error("pending -> rejected should be allowed")
	}
	if StatusPending.CanTransitionTo(StatusPending) {
		t.Error("pending -> pending should not be allowed")
	}

	// Confirmed and rejected are terminal.
	for _, from := range []Status{StatusConfirmed, StatusRejected} {
		for _, to := range []Status{StatusPending, StatusConfirmed, StatusRejected} {
			if from.CanTransitionTo(to) {
				t.Errorf("%s -> %s should not be allowed", from, to)
			}
		}
	}
}

func TestAvailable(t *testing.T) {
	r := InventoryRecord{Quantity: 10, ReservedQuantity: 3}
	if got := r.Available(); got != 7 {
		t.Errorf("expected available 7, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	records := []InventoryRecord{
		{Status: StatusConfirmed, Quantity: 20, SKUMRP: 5},
		{Status: StatusPending, Quantity: 5, SKUMRP: 10},
		{Status: "", Quantity: 3, SKUMRP: 1}, // missing status counts as pending
		{Status: StatusRejected, Quantity: 8, SKUMRP: 2},
	}

	s := Summarize(records)

	if s.ConfirmedCount != 1 || s.PendingCount != 2 || s.RejectedCount != 1 {
		t.Errorf("unexpected status counts: %+v", s)
	}
	if s.ConfirmedCount+s.PendingCount+s.RejectedCount != s.TotalRecords {
		t.Error("status counts do not add up to total records")
	}
	if s.TotalStock != 36 {
		t.Errorf("expected total stock 36, got %d", s.TotalStock)
	}
	if s.LowStockCount != 3 {
		t.Errorf("expected 3 low-stock records, got %d", s.LowStockCount)
	}
	if s.TotalValue != 20*5+5*10+3*1+8*2 {
		t.Errorf("unexpected total value %v", s.TotalValue)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (InventorySummary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleAdmin) || !ValidRole(RoleVendor) {
		t.Error("admin and vendor should be valid roles")
	}
	if ValidRole("manager") || ValidRole("") {
		t.Error("unknown roles should be invalid")
	}
}
