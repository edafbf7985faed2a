package engine

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	EINVALID  = "invalid"   // a field failed validation
	ECONFLICT = "conflict"  // a contact or phone already exists
	ENOTFOUND = "not_found" // a required contact or phone is missing
	EARGUMENT = "argument"  // a command received too few arguments
)

// Error is the error type returned by every address book operation.
// Message is meant to be shown to the user as-is.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("addressbook error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode returns the code of the *Error in err's chain.
// It returns "" for nil and for errors that did not come from the engine.
func ErrorCode(err error) string {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// ErrorMessage returns the user-facing message of an *Error in err's chain,
// or "" when err carries none.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return ""
	}
	return e.Message
}

// IsNotFound reports whether err is a missing contact or phone.
func IsNotFound(err error) bool { return ErrorCode(err) == ENOTFOUND }

// IsConflict reports whether err is a duplicate contact or phone.
func IsConflict(err error) bool { return ErrorCode(err) == ECONFLICT }

// IsInvalid reports whether err is a field validation failure.
func IsInvalid(err error) bool { return ErrorCode(err) == EINVALID }

// Messages of the errors returned by the engine.
const (
	MsgInvalidName     = "Name can't be empty."
	MsgInvalidPhone    = "Invalid phone number. Use (+38) XXX-XXX-XX-XX format."
	MsgInvalidDate     = "Invalid date format. Use DD.MM.YYYY"
	MsgFutureBirthday  = "Birthday can't be in the future."
	MsgTooOldBirthday  = "Birthday can't be earlier than 1900."
	MsgPhoneExists     = "Phone number already exists."
	MsgNewPhoneExists  = "New phone number already exists."
	MsgPhoneNotFound   = "No such phone number."
	MsgContactExists   = "Contact already exists."
	MsgContactNotFound = "No such contact."
	MsgNotEnoughArgs   = "Not enough arguments."
	MsgNilRecord       = "Contact is empty."
)
