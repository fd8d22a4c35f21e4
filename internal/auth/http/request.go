package http

import (
	"encoding/json"
	"net/http"

	"github.com/azmin8744/soliloquio/pkg/httpx"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dst. On failure it writes the
// 400 response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return false
	}
	return true
}
