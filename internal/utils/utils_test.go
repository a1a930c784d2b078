package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReturnsImmediatelyOnNonPositive(t *testing.T) {
	t.Parallel()

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := WaitFor(context.Background(), -time.Second); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestWaitForHonorsCancellation(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) { select {} } // never wakes up
	defer func() { sleep = originalSleep }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForCompletes(t *testing.T) {
	originalSleep := sleep
	sleep = func(time.Duration) {}
	defer func() { sleep = originalSleep }()

	if err := WaitFor(context.Background(), time.Hour); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
