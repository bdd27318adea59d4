package resident

import "errors"

var (
	ErrFamilyCardNotFound    = errors.New("family card not found")
	ErrHouseholdHeadNotFound = errors.New("household head not found")
	ErrFamilyMemberNotFound  = errors.New("family member not found")

	ErrNoKKTaken         = errors.New("no_kk already registered")
	ErrNIKTaken          = errors.New("nik already registered")
	ErrFamilyCardHasHead = errors.New("family card already has a household head")
	ErrFamilyCardInUse   = errors.New("family card still has a household head or members")

	ErrNoKKRequired       = errors.New("no_kk is required")
	ErrNIKRequired        = errors.New("nik is required")
	ErrNameRequired       = errors.New("name is required")
	ErrFamilyCardRequired = errors.New("family_card_id is required")
)
