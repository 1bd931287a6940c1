// Package testutil 提供测试辅助函数
package testutil

import (
	"context"
	"testing"
	"time"
)

// WaitForCondition 等待条件满足或超时
//
// 返回条件是否满足（超时返回 false）。
func WaitForCondition(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 立即检查一次
	if condition() {
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}

// WaitForConditionOrFail 等待条件满足，超时则 fail 测试
func WaitForConditionOrFail(t *testing.T, timeout time.Duration, interval time.Duration, condition func() bool, msg string) {
	t.Helper()

	if !WaitForCondition(t, timeout, interval, condition) {
		t.Fatalf("等待超时: %s", msg)
	}
}

// Eventually 在指定时间内重试条件检查，间隔 20ms
//
// 示例:
//
//	testutil.Eventually(t, 5*time.Second, func() bool {
//	    return len(node.Peers()) > 0
//	}, "应该发现对端")
func Eventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	t.Helper()
	WaitForConditionOrFail(t, timeout, 20*time.Millisecond, condition, msg)
}

// WaitFor 从通道读取，直到出现满足 match 的值
//
// 不匹配的值被丢弃；超时或通道关闭时 fail 测试。
func WaitFor[T any](t *testing.T, ch <-chan T, timeout time.Duration, match func(T) bool, msg string) T {
	t.Helper()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatalf("通道已关闭: %s", msg)
			}
			if match(v) {
				return v
			}
		case <-timer.C:
			var zero T
			t.Fatalf("等待超时: %s", msg)
			return zero
		}
	}
}

// Drain 在 d 时间内读取通道中所有值
func Drain[T any](ch <-chan T, d time.Duration) []T {
	var out []T
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, v)
		case <-timer.C:
			return out
		}
	}
}
