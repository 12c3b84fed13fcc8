package config

import (
	"github.com/go-playground/validator/v10"
)

// Validate dipakai bersama oleh semua handler untuk validasi request.
var Validate = validator.New()
