package testutils

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"releasetracker/utilities/db"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// TestHelper starts and removes the containers integration tests depend on.
type TestHelper struct {
	DockerClient *client.Client
	Conf         *viper.Viper
}

func NewTestHelper(conf *viper.Viper) *TestHelper {
	if conf == nil {
		conf = viper.New()
	}
	conf.SetDefault("postgres_container_image", "postgres:16-alpine")
	conf.SetDefault("postgres_container_port", "5432")
	conf.SetDefault("postgres_host_port", "55432")

	dcli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		panic(fmt.Errorf("could not connect to docker: %v", err))
	}

	return &TestHelper{
		Conf:         conf,
		DockerClient: dcli,
	}
}

// StartPostgres starts a new postgres container and returns its id and a DSN
// reachable from the host.
func (helper *TestHelper) StartPostgres(ctx context.Context) (string, string, error) {
	port, err := nat.NewPort("tcp", helper.Conf.GetString("postgres_container_port"))
	if err != nil {
		return "", "", err
	}
	hostPort := helper.Conf.GetString("postgres_host_port")

	image := helper.Conf.GetString("postgres_container_image")
	if err := helper.pullDockerImage(ctx, image); err != nil {
		return "", "", err
	}

	c, err := helper.DockerClient.ContainerCreate(
		ctx,
		&container.Config{
			Image: image,
			ExposedPorts: map[nat.Port]struct{}{
				port: {},
			},
			Env: []string{
				"POSTGRES_PASSWORD=releasetracker",
				"POSTGRES_DB=releasetracker",
				"POSTGRES_USER=releasetracker",
			},
		},
		&container.HostConfig{
			PortBindings: map[nat.Port][]nat.PortBinding{
				port: {{
					HostIP:   "127.0.0.1",
					HostPort: hostPort,
				}},
			},
			NetworkMode: "bridge",
		},
		nil, nil, "")
	if err != nil {
		return "", "", errors.Wrap(err, "creating postgres container")
	}

	if err := helper.DockerClient.ContainerStart(ctx, c.ID, types.ContainerStartOptions{}); err != nil {
		// Try 4 more times
		// 5, 10, 20, 40
		for i := 0; i < 4 && err != nil; i++ {
			time.Sleep(time.Duration(5*math.Pow(2, float64(i))) * time.Second)
			err = helper.DockerClient.ContainerStart(ctx, c.ID, types.ContainerStartOptions{})
		}
		if err != nil {
			return c.ID, "", errors.Wrap(err, "starting postgres container")
		}
	}

	dsn := fmt.Sprintf("host=127.0.0.1 port=%s user=releasetracker password=releasetracker dbname=releasetracker sslmode=disable", hostPort)
	return c.ID, dsn, nil
}

// WaitForPostgres opens dsn, retrying while the server boots.
func (helper *TestHelper) WaitForPostgres(dsn string) (*gorm.DB, error) {
	var lastErr error
	for n := 0; n < 30; n++ {
		conn, err := db.Open(db.Postgres, dsn)
		if err == nil {
			sqlDB, _ := conn.DB()
			if err = sqlDB.Ping(); err == nil {
				return conn, nil
			}
			sqlDB.Close()
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	return nil, errors.Wrap(lastErr, "maximum retries for postgres exceeded")
}

// RemoveContainer removes with force a container by it's container ID.
func (helper *TestHelper) RemoveContainer(ctrs ...string) (err error) {
	for _, c := range ctrs {
		err = helper.DockerClient.ContainerRemove(context.Background(), c,
			types.ContainerRemoveOptions{
				RemoveVolumes: true,
				Force:         true,
			})
	}

	return err
}

func (helper *TestHelper) pullDockerImage(ctx context.Context, image string) error {
	exists, err := helper.imageExists(ctx, image)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	resp, err := helper.DockerClient.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return err
	}
	defer resp.Close()

	// the pull only completes once the progress stream is drained
	_, err = io.Copy(io.Discard, resp)
	return err
}

func (helper *TestHelper) imageExists(ctx context.Context, image string) (bool, error) {
	_, _, err := helper.DockerClient.ImageInspectWithRaw(ctx, image)
	if err == nil {
		return true, nil
	}

	if client.IsErrNotFound(err) {
		return false, nil
	}

	return false, err
}
