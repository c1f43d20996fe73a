package handlers

import (
	fulfillmentRepo "connectify/database/repository/fulfillment"
	"connectify/services/booking"
	"connectify/services/fulfillment"
	"connectify/services/payment"
)

// Package-level service handles, assigned in main before routes are
// registered.
var (
	BookingSvc     booking.BookingService
	FulfillmentSvc fulfillment.FulfillmentService
	StripeSvc      payment.StripeService
	PayrexxSvc     payment.PayrexxService
	AdhocSvc       payment.AdhocService
	FulfillmentDB  fulfillmentRepo.FulfillmentRecordRepository
)
