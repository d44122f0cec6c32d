package queue

import (
	"encoding/json"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel 订单支付超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// OrderTimeoutCancelPayload 订单支付超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderTimeoutCancelTask 构建订单支付超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, data), nil
}

// ParseOrderTimeoutCancelPayload 解析订单支付超时取消任务载荷
func ParseOrderTimeoutCancelPayload(task *asynq.Task) (OrderTimeoutCancelPayload, error) {
	var payload OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}
