package service

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// Package for request validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
	})
}
