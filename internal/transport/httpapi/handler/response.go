package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gzmliang/finbook/internal/balance"
	"github.com/gzmliang/finbook/internal/coa"
	"github.com/gzmliang/finbook/internal/shared/apperr"
	"github.com/gzmliang/finbook/internal/voucher"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondServiceError translates core error kinds to HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coa.ErrAccountNotFound),
		errors.Is(err, voucher.ErrVoucherNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
		return

	case errors.Is(err, coa.ErrDuplicateCode),
		errors.Is(err, coa.ErrAccountInUse),
		errors.Is(err, voucher.ErrNumberTaken):
		respondWithError(w, http.StatusConflict, err.Error())
		return

	case errors.Is(err, coa.ErrEmptyCode),
		errors.Is(err, coa.ErrEmptyName),
		errors.Is(err, coa.ErrInvalidDirection),
		errors.Is(err, coa.ErrSelfParent),
		errors.Is(err, coa.ErrCyclicParent),
		errors.Is(err, coa.ErrEmptyPatch),
		errors.Is(err, coa.ErrParentNotFound),
		errors.Is(err, voucher.ErrMissingDate),
		errors.Is(err, voucher.ErrMissingType),
		errors.Is(err, voucher.ErrInvalidNumber),
		errors.Is(err, voucher.ErrNoEntries),
		errors.Is(err, voucher.ErrMissingAccountCode),
		errors.Is(err, voucher.ErrNegativeAmount),
		errors.Is(err, voucher.ErrOneSideRequired),
		errors.Is(err, voucher.ErrTooManyDecimals),
		errors.Is(err, voucher.ErrUnbalanced),
		errors.Is(err, voucher.ErrUnknownAccount),
		errors.Is(err, voucher.ErrNonLeafAccount),
		errors.Is(err, voucher.ErrDisabledAccount),
		errors.Is(err, balance.ErrInvalidYear),
		errors.Is(err, balance.ErrUnknownAccount),
		errors.Is(err, balance.ErrNoRows):
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if appErr := apperr.Get(err); appErr != nil {
		switch appErr.Code {
		case apperr.CodeStorageUnavailable:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		case apperr.CodeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperr.CodeValidation, apperr.CodeInvalidReference, apperr.CodeInvalidAccount, apperr.CodeUnbalanced:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperr.CodeDuplicateKey, apperr.CodeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}

	respondWithError(w, http.StatusInternalServerError, err.Error())
}
