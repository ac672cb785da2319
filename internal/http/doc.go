// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"username","password"}.
//     Response: {"token","expires_at","user"} with the token also surfaced via
//     the `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted
//     from the Authorization header or session cookie. Returns 204 No Content
//     and clears the cookie.
//   - PUT /sessions/current/password: changes the authenticated user's password
//     after verifying the current one.
//   - GET /users, GET /users/{id}, POST /users, PUT /users/{id},
//     DELETE /users/{id}: account management endpoints exchanging the `userDTO`
//     payload defined in user_handler.go. Listing and mutations require admin
//     privileges; GET /users/{id} additionally allows self lookup.
//   - GET /rooms, GET /rooms/{id}, POST /rooms, PUT /rooms/{id},
//     DELETE /rooms/{id}: room catalog endpoints exchanging the `roomDTO`
//     payload defined in room_handler.go. Listings are filtered by the caller's
//     view grants; mutations require a manage grant on the room's type.
//   - GET /rooms/{id}/reservations: the reservations booked against one room.
//   - GET /room-statuses: every visible room with its live display status and
//     the reservation currently occupying it.
//   - GET /room-types, POST /room-types, PUT /room-types/{id},
//     DELETE /room-types/{id}: room category administration.
//   - GET /equipment (optionally ?room_id=), POST /equipment,
//     PUT /equipment/{id}, DELETE /equipment/{id}: equipment inventory
//     administration.
//   - GET /reservations (optionally ?user_id=), POST /reservations,
//     PUT /reservations/{id}, POST /reservations/{id}/cancel: reservation
//     management exchanging the `reservationDTO` payload defined in
//     reservation_handler.go. Creation and updates run the conflict check
//     transactionally and reject overlaps with 409 RESERVATION_CONFLICT.
//   - GET /permissions, POST /permissions, PUT /permissions/{id},
//     DELETE /permissions/{id}, POST /permissions/defaults: the role and
//     room-type permission matrix. Seeding defaults preserves edited rows.
//   - GET /stats: dashboard counters (total rooms, available rooms, today's
//     bookings).
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
