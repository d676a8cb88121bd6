// Package auth provides the account side of the contacts service: user
// registration, credential checks, session tokens and email verification.
//
// Sessions:
//   - TokenService signs HS256 JWTs whose subject is the user id. Every token
//     carries a unique jti so two logins never produce the same string.
//   - A user holds at most one session. Login stores the issued token on the
//     user row and Logout clears it. Authenticate only accepts the exact token
//     currently stored, so older tokens stop working as soon as they are
//     replaced even though their signature is still valid.
//
// Verification:
//   - Registration stores a random verification token and emails a link to
//     /api/users/verify/<token>. Login is refused until the link is visited.
//     Email delivery is best-effort, failures are logged and never fail the
//     request.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by SessionManager to
//     describe registration, login, logout and verification events. Sinks run
//     best-effort (errors are logged) so you can forward to metrics or a queue
//     without blocking authentication.
package auth
