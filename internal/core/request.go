// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("request body must contain a single JSON value")

// DecodeJSON reads exactly one JSON value into dst. Unknown fields are
// ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		appErr := ValidationError("Cuerpo de solicitud inválido")
		appErr.Err = err
		return appErr
	}
	return nil
}

func ParseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
