package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/h-h0304/Commerce-Coupon/internal/config"
	"github.com/h-h0304/Commerce-Coupon/internal/constants"
)

func imageCaptchaConfig() config.CaptchaConfig {
	return config.CaptchaConfig{
		Provider: constants.CaptchaProviderImage,
		Scenes:   config.CaptchaSceneConfig{Login: true},
	}
}

func TestCaptchaDisabledVerifyIsNoop(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: constants.CaptchaProviderNone})
	if svc.Enabled(constants.CaptchaSceneLogin) {
		t.Fatalf("none provider should be disabled")
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled verify should be no-op, got %v", err)
	}
}

func TestCaptchaSceneSwitch(t *testing.T) {
	cfg := imageCaptchaConfig()
	cfg.Scenes.Login = false
	svc := NewCaptchaService(cfg)
	if svc.Enabled(constants.CaptchaSceneLogin) {
		t.Fatalf("login scene disabled should report disabled")
	}
	if svc.Enabled("unknown_scene") {
		t.Fatalf("unknown scene should be disabled")
	}
}

func TestCaptchaVerifyRequiresPayload(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())

	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("empty payload want ErrCaptchaRequired got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: "id-only"}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("missing code want ErrCaptchaRequired got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: "bogus", CaptchaCode: "bogus"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("bogus payload want ErrCaptchaInvalid got %v", err)
	}
}

func TestCaptchaImageChallengeRoundTrip(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" {
		t.Fatalf("challenge id should not be empty")
	}
	if !strings.HasPrefix(challenge.ImageBase64, "data:image/png;base64,") {
		t.Fatalf("image should be a base64 png data url, got prefix %q", challenge.ImageBase64[:min(32, len(challenge.ImageBase64))])
	}

	// 同包测试直接从存储取出答案做校验
	answer := svc.ensureImageStore().Get(challenge.CaptchaID, false)
	if answer == "" {
		t.Fatalf("stored answer should not be empty")
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{
		CaptchaID:   challenge.CaptchaID,
		CaptchaCode: answer,
	}); err != nil {
		t.Fatalf("verify with correct answer failed: %v", err)
	}

	// 校验成功后挑战即失效，二次使用被拒绝
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{
		CaptchaID:   challenge.CaptchaID,
		CaptchaCode: answer,
	}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("replayed challenge want ErrCaptchaInvalid got %v", err)
	}
}

func TestCaptchaGenerateRequiresImageProvider(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: constants.CaptchaProviderNone})
	if _, err := svc.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("none provider generate want ErrCaptchaConfigInvalid got %v", err)
	}
}
