// db/errors.go
package db

import "errors"

// Business-rule failures surfaced by the repo. Controllers map these onto
// HTTP statuses; anything else is an internal error.
var (
	ErrForbidden            = errors.New("not authorized for this record")
	ErrOutOfStock           = errors.New("gadget is out of stock")
	ErrInsufficientStock    = errors.New("insufficient gadget quantity")
	ErrAlreadyReturned      = errors.New("assignment already returned")
	ErrAlreadyProcessed     = errors.New("request already processed")
	ErrOnlyPendingDeletable = errors.New("only pending requests can be deleted")
	ErrEmailTaken           = errors.New("user with this email already exists")
	ErrUserHasOpenLoans     = errors.New("user still holds unreturned assignments")
)
