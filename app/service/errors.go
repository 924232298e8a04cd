package service

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrProfileUnsupported = errors.New("format profile is not supported")
	ErrImportRunNotFound  = errors.New("import run not found")
	ErrDonationNotFound   = errors.New("donation not found")
)
