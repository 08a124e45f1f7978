package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStart_ReturnsQuietlyAfterShutdown(t *testing.T) {
	s := Server{&http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}, time.Now()}

	// Unbuffered and never read: Start only returns if it sends nothing.
	errChannel := make(chan error)
	done := make(chan struct{})
	go func() {
		s.Start(errChannel)
		close(done)
	}()

	s.ShutdownGracefully(time.Second)

	select {
	case <-done:
	case err := <-errChannel:
		t.Fatalf("unexpected error after shutdown: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}
}

func TestStart_SendsListenError(t *testing.T) {
	s := Server{&http.Server{Addr: "127.0.0.1:-1"}, time.Now()}

	errChannel := make(chan error, 1)
	s.Start(errChannel)

	select {
	case err := <-errChannel:
		assert.Error(t, err)
	default:
		t.Fatal("listen error was not reported")
	}
}
