// Package errors provides structured error handling with error codes for
// the account packages.
//
// Errors carry a stable machine-readable code, a human-readable message,
// optional details, and an optional wrapped cause. Callers match on codes
// rather than message text:
//
//	user, err := svc.GetUser(ctx, id)
//	if errors.IsCode(err, errors.ErrCodeUserNotFound) {
//		// handle missing user
//	}
//
// Constructors cover the common cases:
//
//	return errors.NotFound("user", id.String())
//	return errors.InvalidInput("password", "cannot be empty")
//	return errors.InternalWrap(err, "failed to query users")
package errors
