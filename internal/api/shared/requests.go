package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validator instance shared by all handlers; it caches struct metadata,
// so one instance serves the whole API.
var validate = validator.New()

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks v against its `validate` struct tags. All
// request types in this API declare their rules as tags, so there is
// no per-type validation code to dispatch to.
func ValidateRequest(v any) error {
	return validate.Struct(v)
}
