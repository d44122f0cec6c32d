package service

import (
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
)

// allowedTransitions 订单状态机。
// pending -> paid -> preparing -> shipped -> delivered 为主干，
// cancelled 与 refund_requested -> refunded 为分支。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusPaid:      true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPaid: {
		constants.OrderStatusPreparing:       true,
		constants.OrderStatusCancelled:       true,
		constants.OrderStatusRefundRequested: true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusShipped:         true,
		constants.OrderStatusRefundRequested: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusRefundRequested: {
		constants.OrderStatusRefunded: true,
	},
}

// knownOrderStatuses 管理端覆盖操作允许写入的状态全集
var knownOrderStatuses = map[string]bool{
	constants.OrderStatusPending:         true,
	constants.OrderStatusPaid:            true,
	constants.OrderStatusPreparing:       true,
	constants.OrderStatusShipped:         true,
	constants.OrderStatusDelivered:       true,
	constants.OrderStatusCancelled:       true,
	constants.OrderStatusRefundRequested: true,
	constants.OrderStatusRefunded:        true,
}

func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// isOrderCancellable 判断订单是否可由用户取消
func isOrderCancellable(status string) bool {
	return status == constants.OrderStatusPending || status == constants.OrderStatusPaid
}

// cancellableOrderStatuses 可取消状态集合，供条件流转使用
func cancellableOrderStatuses() []string {
	return []string{constants.OrderStatusPending, constants.OrderStatusPaid}
}

func isKnownOrderStatus(status string) bool {
	return knownOrderStatuses[status]
}
