package booking

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	start := at(9, 0)
	end := at(10, 0)

	cases := []struct {
		name   string
		status ReservationStatus
		now    time.Time
		want   ReservationStatus
	}{
		{"confirmed before start", ReservationConfirmed, at(8, 0), ReservationConfirmed},
		{"confirmed at start", ReservationConfirmed, at(9, 0), ReservationInProgress},
		{"confirmed mid interval", ReservationConfirmed, at(9, 30), ReservationInProgress},
		{"confirmed at end", ReservationConfirmed, at(10, 0), ReservationCompleted},
		{"confirmed after end", ReservationConfirmed, at(11, 0), ReservationCompleted},
		{"cancelled stays cancelled", ReservationCancelled, at(9, 30), ReservationCancelled},
		{"completed stays completed", ReservationCompleted, at(9, 30), ReservationCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(tc.status, start, end, tc.now); got != tc.want {
				t.Fatalf("DeriveStatus = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestComputeDisplayStatus(t *testing.T) {
	now := at(9, 30)
	covering := []ReservationWindow{{Status: ReservationConfirmed, Start: at(9, 0), End: at(10, 0)}}
	cancelled := []ReservationWindow{{Status: ReservationCancelled, Start: at(9, 0), End: at(10, 0)}}
	later := []ReservationWindow{{Status: ReservationConfirmed, Start: at(14, 0), End: at(15, 0)}}

	cases := []struct {
		name         string
		status       RoomStatus
		reservations []ReservationWindow
		want         DisplayStatus
	}{
		{"available room with live booking", RoomAvailable, covering, DisplayInUse},
		{"maintenance room with live booking reads in use", RoomMaintenance, covering, DisplayInUse},
		{"available room with only future booking", RoomAvailable, later, DisplayIdle},
		{"cancelled booking does not occupy", RoomAvailable, cancelled, DisplayIdle},
		{"maintenance room without booking", RoomMaintenance, nil, DisplayMaintenance},
		{"decommissioned room", RoomDecommissioned, nil, DisplayDecommissioned},
		{"unknown stored value", RoomStatus("retired"), nil, DisplayUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeDisplayStatus(tc.status, tc.reservations, now); got != tc.want {
				t.Fatalf("ComputeDisplayStatus = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCurrentWindow(t *testing.T) {
	now := at(9, 30)
	windows := []ReservationWindow{
		{ReservationID: "cancelled", Subject: "standup", Status: ReservationCancelled, Start: at(9, 0), End: at(10, 0)},
		{ReservationID: "live", Subject: "review", Status: ReservationConfirmed, Start: at(9, 0), End: at(10, 0)},
	}

	window, ok := CurrentWindow(windows, now)
	if !ok {
		t.Fatal("expected a covering window")
	}
	if window.ReservationID != "live" {
		t.Fatalf("expected live window, got %s", window.ReservationID)
	}

	if _, ok := CurrentWindow(windows, at(11, 0)); ok {
		t.Fatal("expected no covering window after the interval")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"SYSTEM_ADMIN", RoleSystemAdmin, true},
		{"leader", RoleLeader, true},
		{"  normal_employee ", RoleNormalEmployee, true},
		{"MANAGER", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		role, ok := ParseRole(tc.input)
		if ok != tc.ok || role != tc.want {
			t.Fatalf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.input, role, ok, tc.want, tc.ok)
		}
	}

	if !RoleSystemAdmin.IsAdmin() || RoleLeader.IsAdmin() {
		t.Fatal("IsAdmin must hold only for SYSTEM_ADMIN")
	}
}
