package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Rrens/quackbot/internal/api/response"
)

var validate = validator.New()

// decodeAndValidate reads a JSON body into input and validates it, writing a 400 on failure
func decodeAndValidate(w http.ResponseWriter, r *http.Request, input any) bool {
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(input); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errors := make(map[string]string)
			for _, e := range validationErrors {
				switch e.Tag() {
				case "required":
					errors[e.Field()] = "field is required"
				case "oneof":
					errors[e.Field()] = "must be one of: " + e.Param()
				case "min":
					errors[e.Field()] = "must be at least " + e.Param()
				case "max":
					errors[e.Field()] = "must be at most " + e.Param()
				default:
					errors[e.Field()] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, errors)
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}

	return true
}
