package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Fatalf("server port want 8080 got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.UserJWT.ExpireHours != 24 {
		t.Fatalf("jwt expire hours want 24 got %d", cfg.UserJWT.ExpireHours)
	}
	if cfg.Order.PaymentExpireMinutes != 15 {
		t.Fatalf("payment expire minutes want 15 got %d", cfg.Order.PaymentExpireMinutes)
	}
	if cfg.Security.PasswordPolicy.MinLength != 8 {
		t.Fatalf("password min length want 8 got %d", cfg.Security.PasswordPolicy.MinLength)
	}
	if cfg.Security.LoginRateLimit.MaxAttempts != 5 {
		t.Fatalf("login max attempts want 5 got %d", cfg.Security.LoginRateLimit.MaxAttempts)
	}
	if cfg.Captcha.Provider != "none" {
		t.Fatalf("captcha provider want none got %s", cfg.Captcha.Provider)
	}
	if len(cfg.Queue.Queues) == 0 {
		t.Fatalf("queue weights should have defaults")
	}
}
