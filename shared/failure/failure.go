package failure

import (
	"errors"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Booking state machine failures. Conflicts (state moved since the caller last
// observed it) are deliberately distinct from not-found so the UI can offer
// refresh-and-retry instead of a dead link.
var (
	RequestNotFound           = &Failure{Code: http.StatusNotFound, Message: "trip request not found"}
	RequestExpired            = &Failure{Code: http.StatusConflict, Message: "trip request has expired"}
	RequestAlreadyAccepted    = &Failure{Code: http.StatusConflict, Message: "trip request has already been accepted by another guide"}
	RequestCancelled          = &Failure{Code: http.StatusConflict, Message: "trip request has been cancelled"}
	SelectionNotFound         = &Failure{Code: http.StatusNotFound, Message: "selection not found for this guide and request"}
	SelectionAlreadyResolved  = &Failure{Code: http.StatusConflict, Message: "selection has already been accepted or rejected"}
	SelectionConcurrentChange = &Failure{Code: http.StatusConflict, Message: "selection status changed, please refresh"}
	GuideNotApproved          = &Failure{Code: http.StatusForbidden, Message: "guide is not approved to accept bookings"}
	ReviewAlreadyExists       = &Failure{Code: http.StatusConflict, Message: "a review already exists for this trip request"}
)

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
