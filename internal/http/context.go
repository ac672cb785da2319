package http

import (
	"context"

	"github.com/example/roombooking/internal/application"
)

type contextKey string

const (
	principalContextKey     contextKey = "principal"
	roomIDContextKey        contextKey = "room_id"
	roomTypeIDContextKey    contextKey = "room_type_id"
	userIDContextKey        contextKey = "user_id"
	equipmentIDContextKey   contextKey = "equipment_id"
	reservationIDContextKey contextKey = "reservation_id"
	permissionIDContextKey  contextKey = "permission_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithRoomTypeID injects the room type identifier resolved from the request path.
func ContextWithRoomTypeID(ctx context.Context, roomTypeID string) context.Context {
	return context.WithValue(ctx, roomTypeIDContextKey, roomTypeID)
}

// RoomTypeIDFromContext extracts a room type identifier previously associated with the context.
func RoomTypeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomTypeIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// ContextWithEquipmentID injects the equipment identifier resolved from the request path.
func ContextWithEquipmentID(ctx context.Context, equipmentID string) context.Context {
	return context.WithValue(ctx, equipmentIDContextKey, equipmentID)
}

// EquipmentIDFromContext extracts an equipment identifier previously associated with the context.
func EquipmentIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(equipmentIDContextKey).(string)
	return id, ok
}

// ContextWithReservationID injects the reservation identifier resolved from the request path.
func ContextWithReservationID(ctx context.Context, reservationID string) context.Context {
	return context.WithValue(ctx, reservationIDContextKey, reservationID)
}

// ReservationIDFromContext extracts a reservation identifier previously associated with the context.
func ReservationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(reservationIDContextKey).(string)
	return id, ok
}

// ContextWithPermissionID injects the permission mapping identifier resolved from the request path.
func ContextWithPermissionID(ctx context.Context, permissionID string) context.Context {
	return context.WithValue(ctx, permissionIDContextKey, permissionID)
}

// PermissionIDFromContext extracts a permission mapping identifier previously associated with the context.
func PermissionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(permissionIDContextKey).(string)
	return id, ok
}
