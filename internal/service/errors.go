package service

import "errors"

var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidID           = errors.New("invalid ID format")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUnsupportedPlatform = errors.New("unsupported push platform")
	ErrNotDeliveryOrder    = errors.New("order is not a delivery order")
	ErrImportUnavailable   = errors.New("menu import is not configured")
)
