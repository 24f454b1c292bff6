package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInsufficientStock indicates a stock decrement below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)
