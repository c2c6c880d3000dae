package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrForbidden          = errors.New("error forbidden")
	ErrInvalidCredentials = errors.New("error invalid credentials")
	ErrUserAlreadyExists  = errors.New("error user already exists")
	ErrStockAlreadyExists = errors.New("error stock already exists")
	ErrEmptySelector      = errors.New("error refresh selector is empty")
)
