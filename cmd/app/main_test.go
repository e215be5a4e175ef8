package main

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return e
}

func TestServeHTTP_ListenFailureIsReturned(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	done := make(chan error, 1)
	go func() {
		done <- serveHTTP(t.Context(), newQuietEcho(), taken.Addr().String(), slog.New(slog.DiscardHandler))
	}()

	select {
	case err = <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP server failed")
	case <-time.After(5 * time.Second):
		t.Fatal("serveHTTP did not return after the listener failed")
	}
}

func TestServeHTTP_StopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- serveHTTP(ctx, newQuietEcho(), "127.0.0.1:0", slog.New(slog.DiscardHandler))
	}()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serveHTTP did not return after cancellation")
	}
}
