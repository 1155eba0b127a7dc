package stubapi

import (
	"encoding/json"
	"net/http"

	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps a typed error to its HTTP status and a {"message": ...}
// body, the shape the client's normalizer parses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	message := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			message = m
		}
	}

	body := map[string]any{"message": message}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			body["details"] = details
		}
	}

	if s.logger != nil && meta.HTTPStatus >= 500 {
		s.logger.Error(r.Context(), "request failed", err)
	}
	writeJSON(w, meta.HTTPStatus, body)
}
