package oms

import "errors"

var (
	errDuplicateOrder     = errors.New("duplicate order")
	errOrderIDNotFound    = errors.New("orderID not found")
	errGatewayIDNotFound  = errors.New("gatewayID not found")
	errInvalidOrderStatus = errors.New("invalid order status")
	errRiskCheckFailed    = errors.New("risk check failed")
	errAmendNotSupported  = errors.New("order amendment not supported, cancel and re-enter")
)
