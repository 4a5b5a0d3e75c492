package inventory

import "errors"

// Domain errors for inventory operations
var (
	ErrNameRequired    = errors.New("inventory item name is required")
	ErrUnitRequired    = errors.New("inventory item unit is required")
	ErrInvalidQuantity = errors.New("inventory quantity must be a finite, non-negative number")
	ErrInvalidPrice    = errors.New("inventory price must be a finite, non-negative number")
	ErrInvalidCategory = errors.New("unknown inventory category")
	ErrItemNotFound    = errors.New("inventory item not found")
)
