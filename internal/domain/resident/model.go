package resident

import (
	"time"

	"village-admin-go/pkg/optional"
)

// FamilyCard is the household registration unit (Kartu Keluarga).
// HouseholdHeadID, once set, points at a head whose FamilyCardID is this card.
type FamilyCard struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	NoKK            string    `gorm:"column:no_kk;size:32;not null;uniqueIndex"`
	Province        string    `gorm:"column:province"`
	Regency         string    `gorm:"column:regency"`
	District        string    `gorm:"column:district"`
	Village         string    `gorm:"column:village"`
	Hamlet          string    `gorm:"column:hamlet"`
	RW              string    `gorm:"column:rw"`
	RT              string    `gorm:"column:rt"`
	PostalCode      string    `gorm:"column:postal_code"`
	HouseholdHeadID *string   `gorm:"column:household_head_id;type:uuid;uniqueIndex"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	HouseholdHead *HouseholdHead `gorm:"foreignKey:HouseholdHeadID;references:ID"`
	Members       []FamilyMember `gorm:"foreignKey:FamilyCardID;references:ID"`
}

// Documents are relative paths of scanned files, nil when not uploaded.
type Documents struct {
	ScanKTP          *string `gorm:"column:scan_ktp"`
	ScanKK           *string `gorm:"column:scan_kk"`
	ScanBirthCert    *string `gorm:"column:scan_akta_lahir"`
	ScanMarriageBook *string `gorm:"column:scan_buku_nikah"`
}

type Person struct {
	NIK                string     `gorm:"column:nik;size:32;not null;uniqueIndex"`
	Name               string     `gorm:"column:name;not null"`
	BirthCertificateNo *string    `gorm:"column:birth_certificate_no"`
	Gender             *string    `gorm:"column:gender"`
	BirthPlace         *string    `gorm:"column:birth_place"`
	BirthDate          *time.Time `gorm:"column:birth_date;type:date"`
	BloodType          *string    `gorm:"column:blood_type"`
	Religion           *string    `gorm:"column:religion"`
	MaritalStatus      *string    `gorm:"column:marital_status"`
	Education          *string    `gorm:"column:education"`
	Occupation         *string    `gorm:"column:occupation"`
	FatherName         *string    `gorm:"column:father_name"`
	MotherName         *string    `gorm:"column:mother_name"`
	Documents
}

type HouseholdHead struct {
	ID string `gorm:"type:uuid;primaryKey"`
	Person
	FamilyCardID string    `gorm:"column:family_card_id;type:uuid;not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	FamilyCard *FamilyCard `gorm:"foreignKey:FamilyCardID;references:ID"`
}

type FamilyMember struct {
	ID string `gorm:"type:uuid;primaryKey"`
	Person
	Relationship *string   `gorm:"column:relationship"`
	FamilyCardID string    `gorm:"column:family_card_id;type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	FamilyCard *FamilyCard `gorm:"foreignKey:FamilyCardID;references:ID"`
}

// Resident is a directory entry across heads and members.
type Resident struct {
	NIK  string `gorm:"column:nik"`
	Name string `gorm:"column:name"`
}

type FamilyCardInput struct {
	NoKK       string
	Province   string
	Regency    string
	District   string
	Village    string
	Hamlet     string
	RW         string
	RT         string
	PostalCode string
}

type FamilyCardPatch struct {
	NoKK       optional.Value[string]
	Province   optional.Value[string]
	Regency    optional.Value[string]
	District   optional.Value[string]
	Village    optional.Value[string]
	Hamlet     optional.Value[string]
	RW         optional.Value[string]
	RT         optional.Value[string]
	PostalCode optional.Value[string]
}

type PersonInput struct {
	NIK                string
	Name               string
	BirthCertificateNo *string
	Gender             *string
	BirthPlace         *string
	BirthDate          *time.Time
	BloodType          *string
	Religion           *string
	MaritalStatus      *string
	Education          *string
	Occupation         *string
	FatherName         *string
	MotherName         *string
}

// PersonPatch leaves absent fields untouched. An explicit null or empty string
// clears an optional field; NIK and Name can be changed but never cleared.
type PersonPatch struct {
	NIK                optional.Value[string]
	Name               optional.Value[string]
	BirthCertificateNo optional.Value[string]
	Gender             optional.Value[string]
	BirthPlace         optional.Value[string]
	BirthDate          optional.Value[time.Time]
	BloodType          optional.Value[string]
	Religion           optional.Value[string]
	MaritalStatus      optional.Value[string]
	Education          optional.Value[string]
	Occupation         optional.Value[string]
	FatherName         optional.Value[string]
	MotherName         optional.Value[string]
}

type CreateHouseholdHeadInput struct {
	Person       PersonInput
	FamilyCardID string
	Documents    Documents
}

type UpdateHouseholdHeadInput struct {
	Person    PersonPatch
	Documents Documents
}

type CreateFamilyMemberInput struct {
	Person       PersonInput
	Relationship *string
	FamilyCardID string
	Documents    Documents
}

type UpdateFamilyMemberInput struct {
	Person       PersonPatch
	Relationship optional.Value[string]
	FamilyCardID optional.Value[string]
	Documents    Documents
}

// Paths lists the non-empty document paths.
func (d Documents) Paths() []string {
	var paths []string
	for _, p := range []*string{d.ScanKTP, d.ScanKK, d.ScanBirthCert, d.ScanMarriageBook} {
		if p != nil && *p != "" {
			paths = append(paths, *p)
		}
	}
	return paths
}

// replace installs every uploaded path and returns the paths it displaced.
func (d *Documents) replace(uploaded Documents) []string {
	var superseded []string
	swap := func(dst **string, src *string) {
		if src == nil {
			return
		}
		if *dst != nil && **dst != "" && **dst != *src {
			superseded = append(superseded, **dst)
		}
		value := *src
		*dst = &value
	}
	swap(&d.ScanKTP, uploaded.ScanKTP)
	swap(&d.ScanKK, uploaded.ScanKK)
	swap(&d.ScanBirthCert, uploaded.ScanBirthCert)
	swap(&d.ScanMarriageBook, uploaded.ScanMarriageBook)
	return superseded
}

func (p PersonPatch) isEmpty() bool {
	return !p.NIK.IsSet() && !p.Name.IsSet() && !p.BirthCertificateNo.IsSet() &&
		!p.Gender.IsSet() && !p.BirthPlace.IsSet() && !p.BirthDate.IsSet() &&
		!p.BloodType.IsSet() && !p.Religion.IsSet() && !p.MaritalStatus.IsSet() &&
		!p.Education.IsSet() && !p.Occupation.IsSet() && !p.FatherName.IsSet() &&
		!p.MotherName.IsSet()
}

func (in UpdateHouseholdHeadInput) isEmpty() bool {
	return in.Person.isEmpty() && len(in.Documents.Paths()) == 0
}

func (in UpdateFamilyMemberInput) isEmpty() bool {
	return in.Person.isEmpty() && !in.Relationship.IsSet() && !in.FamilyCardID.IsSet() &&
		len(in.Documents.Paths()) == 0
}
