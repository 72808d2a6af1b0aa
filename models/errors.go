package models

import "errors"

// Business-rule failures shared by controllers. Handlers map them to HTTP codes.
var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrAddressRequired     = errors.New("shipping address is required")
	ErrCouponInvalid       = errors.New("coupon is expired or inactive")
	ErrCouponUsed          = errors.New("coupon already used")
	ErrCouponMinOrder      = errors.New("order value is below the coupon minimum")
	ErrInvalidTransition   = errors.New("status change not allowed")
	ErrReasonRequired      = errors.New("a reason is required")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSignatureMismatch   = errors.New("payment signature verification failed")
	ErrAmountMismatch      = errors.New("cart total changed since payment started")
	ErrPaymentClosed       = errors.New("payment already processed")
	ErrValidation          = errors.New("invalid input")
)
