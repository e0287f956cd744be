package view

import "errors"

var (
	ErrUnknownAction = errors.New("unknown view action")
)
