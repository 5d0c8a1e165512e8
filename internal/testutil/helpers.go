// Package testutil holds helpers shared by package tests.
package testutil

import (
	"strconv"
	"testing"
	"time"
)

// WaitForCondition polls condition until it holds or timeout elapses.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return condition()
}

// SeedTodos builds count remote todos with ids 1..count; every third is completed.
func SeedTodos(count int) []RemoteTodo {
	todos := make([]RemoteTodo, 0, count)
	for i := 1; i <= count; i++ {
		todos = append(todos, RemoteTodo{
			ID:        int64(i),
			Todo:      "Task " + strconv.Itoa(i),
			Completed: i%3 == 0,
			UserID:    int64(10 + i),
		})
	}
	return todos
}
