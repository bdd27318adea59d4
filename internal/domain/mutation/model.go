package mutation

import (
	"time"

	"village-admin-go/pkg/optional"
)

// Kind names one demographic event table.
type Kind string

const (
	KindBirthEntry Kind = "birth-entry"
	KindDeath      Kind = "death"
	KindMoveOut    Kind = "move-out"
)

var kinds = []Kind{KindBirthEntry, KindDeath, KindMoveOut}

func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

func ParseKind(value string) (Kind, error) {
	for _, kind := range kinds {
		if string(kind) == value {
			return kind, nil
		}
	}
	return "", ErrUnknownKind
}

func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// Table is the storage table holding records of this kind.
func (k Kind) Table() string {
	switch k {
	case KindBirthEntry:
		return "birth_entries"
	case KindDeath:
		return "deaths"
	case KindMoveOut:
		return "move_outs"
	default:
		return ""
	}
}

// AddressField is the wire name of the kind specific address.
func (k Kind) AddressField() string {
	switch k {
	case KindDeath:
		return "death_address"
	case KindMoveOut:
		return "destination_address"
	default:
		return "previous_address"
	}
}

// AddressRequired reports whether the address must be present: the place of
// death and the move-out destination are mandatory, the previous address of a
// birth or move-in is not.
func (k Kind) AddressRequired() bool {
	return k == KindDeath || k == KindMoveOut
}

type Record struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	NIK          string    `gorm:"column:nik;size:32;not null"`
	EventDate    time.Time `gorm:"column:event_date;type:date;not null"`
	Address      *string   `gorm:"column:address"`
	FamilyCardID *string   `gorm:"column:family_card_id;type:uuid"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	FamilyCard *CardSummary `gorm:"-"`
}

// CardSummary is the linked family card as shown next to an event.
type CardSummary struct {
	ID            string
	NoKK          string
	HouseholdHead *HeadSummary
}

type HeadSummary struct {
	ID   string
	Name string
}

type CreateInput struct {
	Name         string
	NIK          string
	EventDate    string
	Address      *string
	FamilyCardID *string
}

// Patch leaves absent fields untouched. FamilyCardID set to null or an empty
// string removes the card link.
type Patch struct {
	Name         optional.Value[string]
	NIK          optional.Value[string]
	EventDate    optional.Value[string]
	Address      optional.Value[string]
	FamilyCardID optional.Value[string]
}

func (p Patch) isEmpty() bool {
	return !p.Name.IsSet() && !p.NIK.IsSet() && !p.EventDate.IsSet() &&
		!p.Address.IsSet() && !p.FamilyCardID.IsSet()
}
