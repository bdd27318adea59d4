package residents

import (
	"time"

	residentdomain "village-admin-go/internal/domain/resident"
)

const dateLayout = "2006-01-02"

type familyCardResponse struct {
	ID              string                  `json:"id"`
	NoKK            string                  `json:"no_kk"`
	Province        string                  `json:"province"`
	Regency         string                  `json:"regency"`
	District        string                  `json:"district"`
	Village         string                  `json:"village"`
	Hamlet          string                  `json:"hamlet"`
	RW              string                  `json:"rw"`
	RT              string                  `json:"rt"`
	PostalCode      string                  `json:"postal_code"`
	HouseholdHeadID *string                 `json:"household_head_id"`
	HouseholdHead   *householdHeadResponse  `json:"household_head,omitempty"`
	Members         *[]familyMemberResponse `json:"members,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type familyCardSummary struct {
	ID   string `json:"id"`
	NoKK string `json:"no_kk"`
}

type personResponse struct {
	NIK                string  `json:"nik"`
	Name               string  `json:"name"`
	BirthCertificateNo *string `json:"birth_certificate_no"`
	Gender             *string `json:"gender"`
	BirthPlace         *string `json:"birth_place"`
	BirthDate          *string `json:"birth_date"`
	BloodType          *string `json:"blood_type"`
	Religion           *string `json:"religion"`
	MaritalStatus      *string `json:"marital_status"`
	Education          *string `json:"education"`
	Occupation         *string `json:"occupation"`
	FatherName         *string `json:"father_name"`
	MotherName         *string `json:"mother_name"`
	ScanKTP            *string `json:"scan_ktp"`
	ScanKK             *string `json:"scan_kk"`
	ScanBirthCert      *string `json:"scan_akta_lahir"`
	ScanMarriageBook   *string `json:"scan_buku_nikah"`
}

type householdHeadResponse struct {
	ID string `json:"id"`
	personResponse
	FamilyCardID string             `json:"family_card_id"`
	FamilyCard   *familyCardSummary `json:"family_card,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type familyMemberResponse struct {
	ID string `json:"id"`
	personResponse
	Relationship *string            `json:"relationship"`
	FamilyCardID string             `json:"family_card_id"`
	FamilyCard   *familyCardSummary `json:"family_card,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type residentResponse struct {
	NIK  string `json:"nik"`
	Name string `json:"name"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newListResponse[T any](items []T) listResponse[T] {
	return listResponse[T]{Items: items, Total: len(items)}
}

func toFamilyCardResponse(card residentdomain.FamilyCard, withHousehold bool) familyCardResponse {
	response := familyCardResponse{
		ID:              card.ID,
		NoKK:            card.NoKK,
		Province:        card.Province,
		Regency:         card.Regency,
		District:        card.District,
		Village:         card.Village,
		Hamlet:          card.Hamlet,
		RW:              card.RW,
		RT:              card.RT,
		PostalCode:      card.PostalCode,
		HouseholdHeadID: card.HouseholdHeadID,
		CreatedAt:       card.CreatedAt,
		UpdatedAt:       card.UpdatedAt,
	}
	if !withHousehold {
		return response
	}

	if card.HouseholdHead != nil {
		head := toHouseholdHeadResponse(*card.HouseholdHead)
		response.HouseholdHead = &head
	}
	members := make([]familyMemberResponse, 0, len(card.Members))
	for _, member := range card.Members {
		members = append(members, toFamilyMemberResponse(member))
	}
	response.Members = &members
	return response
}

func toPersonResponse(person residentdomain.Person) personResponse {
	response := personResponse{
		NIK:                person.NIK,
		Name:               person.Name,
		BirthCertificateNo: person.BirthCertificateNo,
		Gender:             person.Gender,
		BirthPlace:         person.BirthPlace,
		BloodType:          person.BloodType,
		Religion:           person.Religion,
		MaritalStatus:      person.MaritalStatus,
		Education:          person.Education,
		Occupation:         person.Occupation,
		FatherName:         person.FatherName,
		MotherName:         person.MotherName,
		ScanKTP:            person.ScanKTP,
		ScanKK:             person.ScanKK,
		ScanBirthCert:      person.ScanBirthCert,
		ScanMarriageBook:   person.ScanMarriageBook,
	}
	if person.BirthDate != nil {
		formatted := person.BirthDate.Format(dateLayout)
		response.BirthDate = &formatted
	}
	return response
}

func toHouseholdHeadResponse(head residentdomain.HouseholdHead) householdHeadResponse {
	response := householdHeadResponse{
		ID:             head.ID,
		personResponse: toPersonResponse(head.Person),
		FamilyCardID:   head.FamilyCardID,
		CreatedAt:      head.CreatedAt,
		UpdatedAt:      head.UpdatedAt,
	}
	if head.FamilyCard != nil {
		response.FamilyCard = &familyCardSummary{ID: head.FamilyCard.ID, NoKK: head.FamilyCard.NoKK}
	}
	return response
}

func toFamilyMemberResponse(member residentdomain.FamilyMember) familyMemberResponse {
	response := familyMemberResponse{
		ID:             member.ID,
		personResponse: toPersonResponse(member.Person),
		Relationship:   member.Relationship,
		FamilyCardID:   member.FamilyCardID,
		CreatedAt:      member.CreatedAt,
		UpdatedAt:      member.UpdatedAt,
	}
	if member.FamilyCard != nil {
		response.FamilyCard = &familyCardSummary{ID: member.FamilyCard.ID, NoKK: member.FamilyCard.NoKK}
	}
	return response
}
