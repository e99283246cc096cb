package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	httperrors "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/transport/http/errors"
)

const maxJSONBodyBytes = 64 * 1024

// decodeJSON accepts unknown fields. A client-sent price is decoded into nothing.
func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Error: message})
}

func writeInternal(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Error: "internal error"})
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httperrors.Write(w, http.StatusMethodNotAllowed, httperrors.APIError{Error: "method not allowed"})
}
