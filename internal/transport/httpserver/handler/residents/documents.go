package residents

import (
	"context"

	residentdomain "village-admin-go/internal/domain/resident"
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
)

var documentFields = []string{"scan_ktp", "scan_kk", "scan_akta_lahir", "scan_buku_nikah"}

var personFields = []string{
	"nik", "name", "birth_certificate_no", "gender", "birth_place", "birth_date", "blood_type",
	"religion", "marital_status", "education", "occupation", "father_name", "mother_name",
}

func allowedFields(extra ...string) []string {
	fields := make([]string, 0, len(personFields)+len(documentFields)+len(extra))
	fields = append(fields, personFields...)
	fields = append(fields, documentFields...)
	return append(fields, extra...)
}

// bodyLimit leaves room for one file per document field plus the text fields.
func (h *Handlers) bodyLimit() int64 {
	return int64(len(documentFields))*h.docs.MaxBytes() + 1<<20
}

// saveDocuments stores every uploaded scan. On failure the files stored so far are removed.
func (h *Handlers) saveDocuments(ctx context.Context, fields *commonhandler.Fields) (residentdomain.Documents, error) {
	var docs residentdomain.Documents
	targets := map[string]**string{
		"scan_ktp":        &docs.ScanKTP,
		"scan_kk":         &docs.ScanKK,
		"scan_akta_lahir": &docs.ScanBirthCert,
		"scan_buku_nikah": &docs.ScanMarriageBook,
	}

	for _, field := range documentFields {
		header, ok := fields.File(field)
		if !ok {
			continue
		}

		file, err := header.Open()
		if err != nil {
			h.discardDocuments(ctx, docs)
			return residentdomain.Documents{}, err
		}
		stored, err := h.docs.Save(ctx, field, file)
		_ = file.Close()
		if err != nil {
			h.discardDocuments(ctx, docs)
			return residentdomain.Documents{}, err
		}
		*targets[field] = &stored
	}
	return docs, nil
}

func (h *Handlers) discardDocuments(ctx context.Context, docs residentdomain.Documents) {
	for _, path := range docs.Paths() {
		h.docs.Remove(ctx, path)
	}
}

func personInput(fields *commonhandler.Fields) (residentdomain.PersonInput, error) {
	birthDate, err := fields.Date("birth_date")
	if err != nil {
		return residentdomain.PersonInput{}, err
	}

	input := residentdomain.PersonInput{
		NIK:                fields.String("nik"),
		Name:               fields.String("name"),
		BirthCertificateNo: fields.StringPtr("birth_certificate_no"),
		Gender:             fields.StringPtr("gender"),
		BirthPlace:         fields.StringPtr("birth_place"),
		BloodType:          fields.StringPtr("blood_type"),
		Religion:           fields.StringPtr("religion"),
		MaritalStatus:      fields.StringPtr("marital_status"),
		Education:          fields.StringPtr("education"),
		Occupation:         fields.StringPtr("occupation"),
		FatherName:         fields.StringPtr("father_name"),
		MotherName:         fields.StringPtr("mother_name"),
	}
	if value, ok := birthDate.Get(); ok {
		input.BirthDate = &value
	}
	return input, nil
}

func personPatch(fields *commonhandler.Fields) (residentdomain.PersonPatch, error) {
	birthDate, err := fields.Date("birth_date")
	if err != nil {
		return residentdomain.PersonPatch{}, err
	}

	return residentdomain.PersonPatch{
		NIK:                fields.Text("nik"),
		Name:               fields.Text("name"),
		BirthCertificateNo: fields.Text("birth_certificate_no"),
		Gender:             fields.Text("gender"),
		BirthPlace:         fields.Text("birth_place"),
		BirthDate:          birthDate,
		BloodType:          fields.Text("blood_type"),
		Religion:           fields.Text("religion"),
		MaritalStatus:      fields.Text("marital_status"),
		Education:          fields.Text("education"),
		Occupation:         fields.Text("occupation"),
		FatherName:         fields.Text("father_name"),
		MotherName:         fields.Text("mother_name"),
	}, nil
}
