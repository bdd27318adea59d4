package mutation

import "errors"

var (
	ErrRecordNotFound     = errors.New("mutation record not found")
	ErrFamilyCardNotFound = errors.New("family card not found")
	ErrUnknownKind        = errors.New("unknown mutation kind")

	ErrNIKTaken = errors.New("nik already registered for this mutation kind")

	ErrNameRequired      = errors.New("name is required")
	ErrNIKRequired       = errors.New("nik is required")
	ErrEventDateRequired = errors.New("event date is required")
	ErrInvalidDate       = errors.New("event date must be YYYY-MM-DD")
	ErrAddressRequired   = errors.New("address is required for this mutation kind")
)
