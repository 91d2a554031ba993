package domain

import "errors"

var (
	// ErrNoPrice means extraction could not derive either an MRP or a sale
	// price by any method. Callers decide whether that is fatal.
	ErrNoPrice = errors.New("no derivable price")

	// ErrInvalidURL means the submitted URL is missing or malformed.
	ErrInvalidURL = errors.New("invalid product url")

	// ErrUnsupportedSite means the URL does not belong to the supported shop.
	ErrUnsupportedSite = errors.New("unsupported site")

	// ErrDuplicateURL means the user already tracks this URL.
	ErrDuplicateURL = errors.New("product already tracked")

	// ErrNotFound means the product or alert does not exist, or is not owned
	// by the requesting user.
	ErrNotFound = errors.New("not found")
)
