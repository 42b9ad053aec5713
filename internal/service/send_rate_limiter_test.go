package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type stubEvaler struct {
	count int64
	err   error
}

func (s *stubEvaler) Eval(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
		return cmd
	}
	s.count++
	cmd.SetVal(s.count)
	return cmd
}

func TestSendRateLimiterAllowsUpToMax(t *testing.T) {
	limiter := &redisSendRateLimiter{
		client: &stubEvaler{},
		window: time.Minute,
		max:    3,
		prefix: "send:rl:",
	}

	for i := 0; i < 3; i++ {
		if !limiter.Allow("Bob") {
			t.Fatalf("send %d should be allowed", i+1)
		}
	}
	if limiter.Allow("bob") {
		t.Fatalf("send over the max must be denied")
	}
}

func TestSendRateLimiterDeniesEmptyIdentity(t *testing.T) {
	limiter := &redisSendRateLimiter{
		client: &stubEvaler{},
		window: time.Minute,
		max:    3,
		prefix: "send:rl:",
	}

	if limiter.Allow("   ") {
		t.Fatalf("blank identity must be denied")
	}
}

func TestSendRateLimiterAllowsWhenRedisFails(t *testing.T) {
	limiter := &redisSendRateLimiter{
		client: &stubEvaler{err: errors.New("redis down")},
		window: time.Minute,
		max:    1,
		prefix: "send:rl:",
	}

	if !limiter.Allow("bob") {
		t.Fatalf("limiter must fail open when redis is unavailable")
	}
}

func TestNewRedisSendRateLimiterNilClient(t *testing.T) {
	if NewRedisSendRateLimiter(nil, time.Minute, 3) != nil {
		t.Fatalf("nil client must produce a nil limiter")
	}
}
