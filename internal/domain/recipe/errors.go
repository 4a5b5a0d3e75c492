package recipe

import "errors"

// Domain errors for recipe operations
var (
	ErrNameRequired     = errors.New("recipe name is required")
	ErrNameTooLong      = errors.New("recipe name must not exceed 200 characters")
	ErrMarkdownRequired = errors.New("recipe markdown is required")
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")
	ErrInvalidTotalCost = errors.New("total cost must be a finite, non-negative number")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrInvalidGravity   = errors.New("gravity reading must be between 0.980 and 1.200")
)
