package domain

import "errors"

var (
	ErrVaultNotFound    = errors.New("vault not found")
	ErrVaultExists      = errors.New("vault already exists")
	ErrPositionNotFound = errors.New("position not found")
)
