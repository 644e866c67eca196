package domain

import "testing"

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() || StatusConfirmed.Terminal() {
		t.Error("pending and confirmed must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Error("completed and cancelled must be terminal")
	}
}

func TestTransitionSources(t *testing.T) {
	cases := map[BookingStatus][]BookingStatus{
		StatusConfirmed: {StatusPending},
		StatusCompleted: {StatusConfirmed},
		StatusCancelled: {StatusPending, StatusConfirmed},
		StatusPending:   nil,
	}

	for next, want := range cases {
		got := TransitionSources(next)
		if len(got) != len(want) {
			t.Fatalf("sources of %s: expected %v, got %v", next, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("sources of %s: expected %v, got %v", next, want, got)
			}
		}
	}
}

func TestCancelSources_ExcludesCompleted(t *testing.T) {
	for _, s := range CancelSources() {
		if s == StatusCompleted {
			t.Fatal("completed bookings must not be cancellable")
		}
	}
}

func TestBookingView_Involves(t *testing.T) {
	v := &BookingView{
		Booking: Booking{ClientID: "client-1"},
		Artisan: &BookingArtisan{UserID: "artisan-user-1"},
	}

	if !v.Involves("client-1") || !v.Involves("artisan-user-1") {
		t.Error("both parties must be involved")
	}
	if v.Involves("someone-else") {
		t.Error("third party must not be involved")
	}
}
