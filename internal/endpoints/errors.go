package endpoints

import (
	"github.com/pkg/errors"
)

var (
	ErrArgumentCount     = errors.New("wrong number of arguments")
	ErrDuplicateEndpoint = errors.New("endpoint already registered")
	ErrUnknownEndpoint   = errors.New("unknown endpoint")
	ErrInvalidEndpoint   = errors.New("invalid endpoint")
	ErrNoMatch           = errors.New("no endpoint matches")
	ErrMethodMismatch    = errors.New("method not allowed")
)
