package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/h-h0304/Commerce-Coupon/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 用户鉴权快照
// 角色变更（如 VIP 晋升）会提升 token_version，使旧 Token 失效
// 该结构仅用于服务端 Redis 缓存，避免每个请求都查询数据库
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	UpdatedAt    int64  `json:"updated_at"`
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetUserAuthState 获取用户鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}

// DelUserAuthState 删除用户鉴权快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}
