package booking

import "time"

// RoomStatus is the operational status an administrator assigns to a room.
type RoomStatus string

const (
	RoomAvailable      RoomStatus = "available"
	RoomMaintenance    RoomStatus = "maintenance"
	RoomDecommissioned RoomStatus = "decommissioned"
)

// Valid reports whether the status is one of the enumerated room states.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomMaintenance, RoomDecommissioned:
		return true
	}
	return false
}

// ReservationStatus is the persisted lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCancelled  ReservationStatus = "cancelled"
	ReservationInProgress ReservationStatus = "in_progress"
	ReservationCompleted  ReservationStatus = "completed"
)

// Valid reports whether the status is one of the enumerated reservation states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCancelled, ReservationInProgress, ReservationCompleted:
		return true
	}
	return false
}

// EquipmentStatus is the condition state of a piece of room equipment.
type EquipmentStatus string

const (
	EquipmentNormal      EquipmentStatus = "normal"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentScrapped    EquipmentStatus = "scrapped"
)

// Valid reports whether the status is one of the enumerated equipment states.
func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentNormal, EquipmentMaintenance, EquipmentScrapped:
		return true
	}
	return false
}

// DisplayStatus is the single human-facing status shown per room in listings.
// It combines the room's operational status with live reservation coverage.
type DisplayStatus string

const (
	DisplayIdle           DisplayStatus = "idle"
	DisplayInUse          DisplayStatus = "in_use"
	DisplayMaintenance    DisplayStatus = "maintenance"
	DisplayDecommissioned DisplayStatus = "decommissioned"
	DisplayUnknown        DisplayStatus = "unknown"
)

// Covers reports whether the half-open interval [start, end) contains the
// reference instant.
func Covers(start, end, reference time.Time) bool {
	return !reference.Before(start) && reference.Before(end)
}

// DeriveStatus returns the display-time lifecycle state of a reservation. A
// confirmed reservation whose interval contains now reads as in progress, and
// one whose interval has fully passed reads as completed. Cancelled
// reservations and explicitly stored states pass through unchanged.
func DeriveStatus(status ReservationStatus, start, end, now time.Time) ReservationStatus {
	if status != ReservationConfirmed {
		return status
	}
	if Covers(start, end, now) {
		return ReservationInProgress
	}
	if !now.Before(end) {
		return ReservationCompleted
	}
	return ReservationConfirmed
}

// ComputeDisplayStatus resolves the status shown for a room in listings. An
// active non-cancelled reservation covering now wins over the room's own
// operational status: an occupied room reads as in use even while flagged for
// maintenance. With no live booking the operational status maps directly, and
// unrecognised stored values render as unknown.
func ComputeDisplayStatus(status RoomStatus, reservations []ReservationWindow, now time.Time) DisplayStatus {
	for _, window := range reservations {
		if window.Status == ReservationCancelled {
			continue
		}
		if Covers(window.Start, window.End, now) {
			return DisplayInUse
		}
	}

	switch status {
	case RoomAvailable:
		return DisplayIdle
	case RoomMaintenance:
		return DisplayMaintenance
	case RoomDecommissioned:
		return DisplayDecommissioned
	default:
		return DisplayUnknown
	}
}

// ReservationWindow is the subset of a reservation the display aggregation
// needs to decide whether a room is currently occupied.
type ReservationWindow struct {
	ReservationID string
	Subject       string
	Status        ReservationStatus
	Start         time.Time
	End           time.Time
}

// CurrentWindow returns the non-cancelled reservation covering now, if any.
func CurrentWindow(reservations []ReservationWindow, now time.Time) (ReservationWindow, bool) {
	for _, window := range reservations {
		if window.Status == ReservationCancelled {
			continue
		}
		if Covers(window.Start, window.End, now) {
			return window, true
		}
	}
	return ReservationWindow{}, false
}
