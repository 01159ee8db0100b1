package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeNotFound           = "NOT_FOUND"

	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserNotFound       = "USER_NOT_FOUND"

	CodeMissingAuth  = "MISSING_AUTH"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeTokenExpired = "TOKEN_EXPIRED"

	CodeTitleRequired = "TITLE_REQUIRED"
	CodeTaskNotFound  = "TASK_NOT_FOUND"
)
