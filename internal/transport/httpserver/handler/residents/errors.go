package residents

import (
	"errors"
	"net/http"

	residentdomain "village-admin-go/internal/domain/resident"
	"village-admin-go/internal/storage/files"
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
)

// respondError maps a domain error to its response. cardStatus is the status
// for an unknown family card: 404 when the card is the target of the request,
// 400 when it is only referenced by the submitted record.
func (h *Handlers) respondError(w http.ResponseWriter, op string, err error, cardStatus int, args ...any) {
	status, code, message := http.StatusBadRequest, "", ""
	switch {
	case errors.Is(err, residentdomain.ErrFamilyCardNotFound):
		status, code, message = cardStatus, "family_card_not_found", "KK tidak ditemukan"
	case errors.Is(err, residentdomain.ErrHouseholdHeadNotFound):
		status, code, message = http.StatusNotFound, "household_head_not_found", "Kepala keluarga tidak ditemukan"
	case errors.Is(err, residentdomain.ErrFamilyMemberNotFound):
		status, code, message = http.StatusNotFound, "family_member_not_found", "Anggota keluarga tidak ditemukan"
	case errors.Is(err, residentdomain.ErrNoKKTaken):
		code, message = "no_kk_taken", "Nomor KK sudah terdaftar"
	case errors.Is(err, residentdomain.ErrNIKTaken):
		code, message = "nik_taken", "NIK sudah terdaftar"
	case errors.Is(err, residentdomain.ErrFamilyCardHasHead):
		code, message = "family_card_has_head", "KK sudah memiliki kepala keluarga"
	case errors.Is(err, residentdomain.ErrFamilyCardInUse):
		code, message = "family_card_in_use", "KK masih memiliki kepala keluarga atau anggota keluarga"
	case errors.Is(err, residentdomain.ErrNoKKRequired):
		code, message = "validation_error", "Nomor KK wajib diisi"
	case errors.Is(err, residentdomain.ErrNIKRequired):
		code, message = "validation_error", "NIK wajib diisi"
	case errors.Is(err, residentdomain.ErrNameRequired):
		code, message = "validation_error", "Nama wajib diisi"
	case errors.Is(err, residentdomain.ErrFamilyCardRequired):
		code, message = "validation_error", "KK wajib dipilih"
	case errors.Is(err, files.ErrUnsupportedType):
		code, message = "unsupported_file_type", "Jenis file tidak diizinkan, gunakan JPG, PNG atau PDF"
	case errors.Is(err, files.ErrTooLarge):
		code, message = "file_too_large", "Ukuran file maksimal 5MB"
	default:
		h.log.InternalError(op, err, args...)
		commonhandler.WriteInternalError(w, h.debug, err)
		return
	}

	h.log.BusinessError(op, err, args...)
	writeError(w, status, code, message)
}
