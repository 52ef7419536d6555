package sponsors

import "errors"

var (
	ErrSponsorNotFound = errors.New("sponsor not found")
	ErrInvalidSponsor  = errors.New("invalid sponsor")
)
