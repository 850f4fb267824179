package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:   "error",
		Error:    "authentication_failed",
		Details:  "Invalid email or password",
		Redirect: "/admin/login",
	}

	ErrNotFound = ErrorResponse{
		Status:  "error",
		Error:   "not_found",
		Details: "The requested item does not exist",
	}
)

// With returns a copy of e with details replaced.
func (e ErrorResponse) With(details string) ErrorResponse {
	e.Details = details
	return e
}
