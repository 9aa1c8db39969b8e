package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrDispatchNotFound   = errors.New("dispatch call not found")
	ErrAmbulanceNotFound  = errors.New("ambulance not found")
	ErrClaimNotFound      = errors.New("claim not found")
	ErrInvalidStatus      = errors.New("invalid status transition")
	ErrMissingShaNumber   = errors.New("patient has no SHA number on file")
)
