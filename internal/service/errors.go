package service

import "errors"

var (
	ErrInternal           = errors.New("internal server error")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("role must be either 'admin' or 'student'")
	ErrMissingFields      = errors.New("required fields are missing")
	ErrInvalidCategory    = errors.New("category must be one of: General, Placement, Exam, Event, Other")
	ErrNoticeNotFound     = errors.New("notice not found")
)
