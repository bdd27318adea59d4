package residents

import "net/http"

func (h *Handlers) ListResidents(w http.ResponseWriter, r *http.Request) {
	residents, err := h.Residents.ListResidents(r.Context())
	if err != nil {
		h.respondError(w, "residents.list: failed", err, http.StatusNotFound)
		return
	}

	response := make([]residentResponse, 0, len(residents))
	for _, resident := range residents {
		response = append(response, residentResponse{NIK: resident.NIK, Name: resident.Name})
	}
	writeJSON(w, http.StatusOK, newListResponse(response))
}
