package testutils

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
)

// ZkControl manages the lifetime of a zookeeper instance started for an
// integration test.
type ZkControl struct {
	dockerClient *client.Client
	containerID  string
	addr         string
}

// Addr returns the host:port a test can dial to reach the started
// zookeeper instance.
func (z *ZkControl) Addr() string {
	return z.addr
}

// Stop removes the zookeeper container.
func (z *ZkControl) Stop() {
	removeContainer(z.dockerClient, z.containerID)
}

// StartZookeeper starts a new zookeeper container, waits for it to accept
// TCP connections, and returns a handle for tests to dial and tear down.
func StartZookeeper() (*ZkControl, error) {
	dcli, err := DockerClient()
	if err != nil {
		return nil, errors.Wrap(err, "could not get docker client")
	}
	image := "docker.io/jplock/zookeeper:3.4.10"

	if err := pullDockerImage(dcli, image); err != nil {
		return nil, err
	}

	// the container IP is not routable on Darwin, thus needs port mapping
	// for the container.
	hostConfig := &container.HostConfig{}
	if runtime.GOOS == "darwin" {
		hostConfig.PortBindings = nat.PortMap{
			"2181/tcp": []nat.PortBinding{{
				HostIP:   "0.0.0.0",
				HostPort: "2181",
			}},
		}
	}

	ctx := context.Background()

	r, err := dcli.ContainerCreate(
		ctx,
		&container.Config{
			Image:      image,
			Entrypoint: []string{"/opt/zookeeper/bin/zkServer.sh"},
			Cmd:        []string{"start-foreground"},
		},
		hostConfig,
		nil, "")
	if err != nil {
		return nil, errors.Wrap(err, "could not create zk container")
	}

	cleanup := func() {
		removeContainer(dcli, r.ID)
	}

	if err := dcli.ContainerStart(ctx, r.ID, types.ContainerStartOptions{}); err != nil {
		cleanup()
		return nil, errors.Wrap(err, "could not start zk container")
	}

	info, err := dcli.ContainerInspect(ctx, r.ID)
	if err != nil {
		cleanup()
		return nil, errors.Wrap(err, "could not inspect container")
	}

	var addr string
	if runtime.GOOS == "darwin" {
		addr = "127.0.0.1:2181"
	} else {
		addr = info.NetworkSettings.IPAddress + ":2181"
	}

	if err := waitForConnect(addr, 10*time.Second); err != nil {
		cleanup()
		return nil, err
	}

	return &ZkControl{dockerClient: dcli, containerID: r.ID, addr: addr}, nil
}

func waitForConnect(addr string, timeout time.Duration) error {
	done := make(chan struct{})
	defer close(done)

	connected := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				conn, err := net.Dial("tcp", addr)
				if err != nil {
					time.Sleep(100 * time.Millisecond)
					continue
				}
				fmt.Println("successfully connected to ZK at", addr)
				conn.Close()
				close(connected)
				return
			}
		}
	}()

	select {
	case <-connected:
		return nil
	case <-time.After(timeout):
		return errors.Errorf("could not connect to zookeeper in %s", timeout)
	}
}
