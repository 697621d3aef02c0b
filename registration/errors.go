package registration

import "errors"

var (
	ErrInvalidIndex    = errors.New("index must consist of 6 digits")
	ErrDeliveryFailed  = errors.New("verification email could not be delivered")
	ErrWrongCode       = errors.New("wrong registration code")
	ErrAttemptNotFound = errors.New("registration attempt not found or expired")
	ErrMemberNotFound  = errors.New("member not registered")
)
