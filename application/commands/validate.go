package commands

import "github.com/go-playground/validator/v10"

// validate is shared across all command Validate methods
var validate = validator.New()
