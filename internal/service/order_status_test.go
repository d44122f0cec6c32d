package service

import (
	"testing"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
)

func TestIsTransitionAllowed(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusPaid, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusShipped, false},
		{constants.OrderStatusPaid, constants.OrderStatusPreparing, true},
		{constants.OrderStatusPaid, constants.OrderStatusRefundRequested, true},
		{constants.OrderStatusPreparing, constants.OrderStatusShipped, true},
		{constants.OrderStatusPreparing, constants.OrderStatusCancelled, false},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered, true},
		{constants.OrderStatusShipped, constants.OrderStatusRefundRequested, false},
		{constants.OrderStatusRefundRequested, constants.OrderStatusRefunded, true},
		{constants.OrderStatusDelivered, constants.OrderStatusRefunded, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPaid, false},
		// 同状态视为允许（幂等写入）
		{constants.OrderStatusPaid, constants.OrderStatusPaid, true},
	}
	for _, tc := range cases {
		if got := isTransitionAllowed(tc.from, tc.to); got != tc.want {
			t.Fatalf("transition %s -> %s want %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestIsOrderCancellable(t *testing.T) {
	if !isOrderCancellable(constants.OrderStatusPending) || !isOrderCancellable(constants.OrderStatusPaid) {
		t.Fatalf("pending and paid orders should be cancellable")
	}
	for _, status := range []string{
		constants.OrderStatusPreparing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
		constants.OrderStatusRefunded,
	} {
		if isOrderCancellable(status) {
			t.Fatalf("status %s should not be cancellable", status)
		}
	}
}

func TestIsKnownOrderStatus(t *testing.T) {
	if !isKnownOrderStatus(constants.OrderStatusRefundRequested) {
		t.Fatalf("refund_requested should be known")
	}
	if isKnownOrderStatus("archived") {
		t.Fatalf("archived should not be known")
	}
}
