package bind

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/br-lewis/continuum/testutils"
)

func newTestZkClient(t *testing.T) (*ZkClient, func()) {
	t.Helper()

	zkc, err := testutils.StartZookeeper()
	if err != nil {
		t.Skipf("skipping: could not start zookeeper container: %v", err)
	}

	client, err := NewZkClient(ZkConfig{Addr: zkc.Addr()})
	if err != nil {
		zkc.Stop()
		t.Fatalf("could not connect to zookeeper: %v", err)
	}

	return client, func() {
		client.Close()
		zkc.Stop()
	}
}

func TestZkClient_CreateGetPut(t *testing.T) {
	client, cleanup := newTestZkClient(t)
	defer cleanup()

	require.NoError(t, client.Create("/widget", []byte("v1"), nil))

	got, err := client.Get("/widget")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	require.NoError(t, client.Put("/widget", []byte("v2")))
	got, err = client.Get("/widget")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestZkClient_WatchValue(t *testing.T) {
	client, cleanup := newTestZkClient(t)
	defer cleanup()

	require.NoError(t, client.Create("/watched", []byte("initial"), nil))

	f := client.WatchValue("/watched")

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = client.Put("/watched", []byte("updated"))
	}()

	deadline := time.After(5 * time.Second)
	for !f.IsReady() {
		select {
		case <-deadline:
			t.Fatal("watch did not resolve in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	require.Equal(t, []byte("updated"), f.Value())
}

func TestZkClient_WatchExists(t *testing.T) {
	client, cleanup := newTestZkClient(t)
	defer cleanup()

	f := client.WatchExists("/appears")

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = client.Create("/appears", nil, nil)
	}()

	deadline := time.After(5 * time.Second)
	for !f.IsReady() {
		select {
		case <-deadline:
			t.Fatal("watch did not resolve in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	require.True(t, f.Value())
}
