package main

import (
	"context"
	"log/slog"
	"time"
)

// Failed logins per email are counted in redis; past the limit the login
// route answers 429 until the window expires.
const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

func loginAttemptKey(email string) string {
	return "login:attempts:" + email
}

func loginThrottled(ctx context.Context, email string) bool {
	if rdb == nil {
		return false
	}
	count, err := rdb.Get(ctx, loginAttemptKey(email)).Int()
	if err != nil {
		return false
	}
	return count >= loginAttemptLimit
}

func recordLoginFailure(ctx context.Context, email string) {
	if rdb == nil {
		return
	}
	key := loginAttemptKey(email)
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		slog.Error("login attempt counter", "error", err, "email", email)
		return
	}
	if count == 1 {
		rdb.Expire(ctx, key, loginAttemptWindow)
	}
}

func clearLoginFailures(ctx context.Context, email string) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, loginAttemptKey(email))
}
