package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServeReturnsListenError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	servers := []*http.Server{
		{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()},
		{Addr: taken.Addr().String(), Handler: http.NotFoundHandler()},
	}

	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), quietLogger(), servers, time.Second) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listen "+taken.Addr().String())
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after a listen failure")
	}
}

func TestServeStopsCleanlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	servers := []*http.Server{{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, quietLogger(), servers, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
