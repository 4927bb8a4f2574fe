package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON binds a JSON body and, on failure, answers with the API envelope.
// Returns false when the handler should stop.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondFailure(ctx, http.StatusBadRequest, bindErrorMessage(err))

		return false
	}

	return true
}

// BindForm binds a form post without writing a response; the page handlers
// surface the message as a flash instead.
func BindForm(ctx *gin.Context, out interface{}) (string, bool) {
	err := ctx.ShouldBind(out)

	if err != nil {
		return bindErrorMessage(err), false
	}

	return "", true
}

func bindErrorMessage(err error) string {
	var validatorErrors validator.ValidationErrors

	if errors.As(err, &validatorErrors) && len(validatorErrors) > 0 {
		fe := validatorErrors[0]

		return strings.ToLower(fe.Field()) + " " + validationMessage(fe.Tag(), fe.Param())
	}

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return "Invalid request body"
	}

	var typeError *json.UnmarshalTypeError

	if errors.As(err, &typeError) {
		field := typeError.Field

		if field == "" {
			field = "body"
		}

		return field + " must be of type " + typeError.Type.String()
	}

	return "Invalid request body"
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}
