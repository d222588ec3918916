package screens

import (
	"errors"

	"ptask/internal/service"
)

// Messages shown to the user. Request failures prefer the server's own
// message and fall back to these.
const (
	MsgAuthFailed    = "Authentication failed. Please try again."
	MsgLoadProjects  = "Failed to load projects. Please try again."
	MsgCreateProject = "Failed to create project. Please try again."
	MsgLoadProject   = "Failed to load project data. Please try again."
	MsgAddTask       = "Failed to add task. Please try again."
	MsgUpdateTask    = "Failed to update task. Please try again."
	MsgDeleteTask    = "Failed to delete task. Please try again."
	MsgRegistered    = "Registration successful! Please login."
	MsgConfirmDelete = "Are you sure you want to delete this task?"
	MsgFillAllFields = "Please fill in all fields"
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgShortPassword = "Password must be at least 6 characters"
	MsgTitleRequired = "Title is required"
	MsgInvalidDue    = "Due date must be YYYY-MM-DD"
)

// MinPasswordLength is the shortest password accepted before dispatch.
const MinPasswordLength = 6

const dueDateLayout = "2006-01-02"

// ValidationError is a local input error. No request was sent.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RequestError is a failed request together with the message to show.
type RequestError struct {
	Msg string
	Err error
}

func (e *RequestError) Error() string { return e.Msg }
func (e *RequestError) Unwrap() error { return e.Err }

func requestError(err error, fallback string) *RequestError {
	return &RequestError{Msg: service.Message(err, fallback), Err: err}
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
