package residents

import (
	"net/http"

	residentdomain "village-admin-go/internal/domain/resident"
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
)

var memberFields = allowedFields("family_card_id", "relationship")

func (h *Handlers) GetFamilyMember(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	member, err := h.Residents.GetFamilyMember(r.Context(), id)
	if err != nil {
		h.respondError(w, "family_members.get: failed", err, http.StatusNotFound, "family_member_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toFamilyMemberResponse(*member))
}

func (h *Handlers) CreateFamilyMember(w http.ResponseWriter, r *http.Request) {
	fields, err := commonhandler.ParseFields(w, r, h.bodyLimit(), memberFields...)
	if err != nil {
		commonhandler.WriteFieldsError(w, err)
		return
	}
	defer fields.Close()

	person, err := personInput(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Format tanggal lahir harus YYYY-MM-DD")
		return
	}

	docs, err := h.saveDocuments(r.Context(), fields)
	if err != nil {
		h.respondError(w, "family_members.create: upload failed", err, http.StatusBadRequest)
		return
	}

	member, err := h.Residents.CreateFamilyMember(r.Context(), residentdomain.CreateFamilyMemberInput{
		Person:       person,
		Relationship: fields.StringPtr("relationship"),
		FamilyCardID: fields.String("family_card_id"),
		Documents:    docs,
	})
	if err != nil {
		h.respondError(w, "family_members.create: failed", err, http.StatusBadRequest, "nik", person.NIK)
		return
	}

	h.recordWrite("family_member", "create")
	writeJSON(w, http.StatusCreated, toFamilyMemberResponse(*member))
}

func (h *Handlers) UpdateFamilyMember(w http.ResponseWriter, r *http.Request) {
	fields, err := commonhandler.ParseFields(w, r, h.bodyLimit(), memberFields...)
	if err != nil {
		commonhandler.WriteFieldsError(w, err)
		return
	}
	defer fields.Close()

	patch, err := personPatch(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Format tanggal lahir harus YYYY-MM-DD")
		return
	}

	docs, err := h.saveDocuments(r.Context(), fields)
	if err != nil {
		h.respondError(w, "family_members.update: upload failed", err, http.StatusBadRequest)
		return
	}

	id := pathID(r)
	member, err := h.Residents.UpdateFamilyMember(r.Context(), id, residentdomain.UpdateFamilyMemberInput{
		Person:       patch,
		Relationship: fields.Text("relationship"),
		FamilyCardID: fields.Text("family_card_id"),
		Documents:    docs,
	})
	if err != nil {
		h.respondError(w, "family_members.update: failed", err, http.StatusBadRequest, "family_member_id", id)
		return
	}

	h.recordWrite("family_member", "update")
	writeJSON(w, http.StatusOK, toFamilyMemberResponse(*member))
}

func (h *Handlers) DeleteFamilyMember(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := h.Residents.DeleteFamilyMember(r.Context(), id); err != nil {
		h.respondError(w, "family_members.delete: failed", err, http.StatusNotFound, "family_member_id", id)
		return
	}

	h.recordWrite("family_member", "delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Anggota keluarga berhasil dihapus"})
}
