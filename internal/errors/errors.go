package errors

import (
	"context"
	"errors"
	"net/http"
)

// Error kinds. Every *ErrorWithStatusCode unwraps to exactly one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
	ErrAuthRequired = errors.New("authentication required")
)

// Error codes carried through redirects back to the rendered views.
const (
	CodeNameTooShort     = "name_too_short"
	CodeMessageTooShort  = "message_too_short"
	CodeCommentTooShort  = "comment_too_short"
	CodeUserNotFound     = "user_not_found"
	CodeMessageNotFound  = "message_not_found"
	CodeInvalidMessageId = "invalid_message_id"
	CodeInvalidText      = "invalid_text"
	CodeStorage          = "storage"
	CodeAuthRequired     = "auth_required"
)

var messages = map[string]string{
	CodeNameTooShort:     "Username must be at least 3 characters long",
	CodeMessageTooShort:  "Message must be at least 4 characters long",
	CodeCommentTooShort:  "Comment must be at least 4 characters long",
	CodeUserNotFound:     "Your account could not be found, please log in again",
	CodeMessageNotFound:  "The message you replied to does not exist",
	CodeInvalidMessageId: "Invalid message id",
	CodeInvalidText:      "Text contains characters that can't be stored",
	CodeStorage:          "Something went wrong, please try again",
	CodeAuthRequired:     "Please log in to continue",
}

// MessageFor recovers the human readable text for an error code.
// Unknown codes yield the generic storage message, empty code yields "".
func MessageFor(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[CodeStorage]
}

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Code       string
	kind       error
	cause      error
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func Validation(code string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: MessageFor(code), StatusCode: http.StatusBadRequest, Code: code, kind: ErrValidation}
}

func NotFound(code string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: MessageFor(code), StatusCode: http.StatusNotFound, Code: code, kind: ErrNotFound}
}

func AuthRequired() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: MessageFor(CodeAuthRequired), StatusCode: http.StatusUnauthorized, Code: CodeAuthRequired, kind: ErrAuthRequired}
}

// Storage wraps a persistence failure. Errors that already carry a kind are
// returned unchanged so a NotFound raised inside storage keeps its meaning.
func Storage(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var typed *ErrorWithStatusCode
	if errors.As(cause, &typed) {
		return cause
	}
	msg := op + ": " + cause.Error()
	if errors.Is(cause, context.DeadlineExceeded) {
		msg = op + ": store timeout"
	}
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusInternalServerError, Code: CodeStorage, kind: ErrStorage, cause: cause}
}

// CodeOf extracts the redirect code from err; unknown errors map to CodeStorage.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var typed *ErrorWithStatusCode
	if errors.As(err, &typed) && typed.Code != "" {
		return typed.Code
	}
	return CodeStorage
}

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
