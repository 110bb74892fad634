// Package testutils holds integration-test fixtures shared across the
// module's packages — currently a docker-launched zookeeper instance for
// bind's zk tests.
package testutils

import (
	"context"
	"io/ioutil"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/pkg/errors"
)

// DockerClient returns a client talking to the local docker daemon via the
// environment (DOCKER_HOST and friends), mirroring how the daemon's own
// negotiated API version is picked up.
func DockerClient() (*client.Client, error) {
	cli, err := client.NewEnvClient()
	if err != nil {
		return nil, errors.Wrap(err, "could not create docker client")
	}
	return cli, nil
}

func pullDockerImage(cli *client.Client, image string) error {
	ctx := context.Background()
	rc, err := cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return errors.Wrapf(err, "could not pull image %s", image)
	}
	defer rc.Close()
	_, err = ioutil.ReadAll(rc)
	return err
}

func removeContainer(cli *client.Client, id string) {
	ctx := context.Background()
	timeout := 5
	_ = cli.ContainerStop(ctx, id, &timeout)
	_ = cli.ContainerRemove(ctx, id, types.ContainerRemoveOptions{Force: true})
}
