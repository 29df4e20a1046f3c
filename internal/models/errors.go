package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound       = errors.New("resource not found")
	ErrStoryNotFound  = errors.New("story not found")
	ErrInvalidStoryID = errors.New("invalid story ID")

	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("not authenticated")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenRevoked   = errors.New("token has been revoked")
	ErrTokenNotFound  = errors.New("token not found")

	// General Request/Server Errors
	ErrInternalServer   = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrInvalidInput     = errors.New("invalid input data")
	ErrMissingFields    = errors.New("missing required fields")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	ErrRegistrationFieldsMissing = errors.New("please provide name, email, and password")
	ErrCredentialsMissing        = errors.New("please provide email and password")
)
