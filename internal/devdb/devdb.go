// Package devdb starts a throwaway database container for local development
// and integration tests. Settings come from the same DB_* environment the
// server reads, plus DB_IMAGE and DB_ROOT_PASSWORD.
package devdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Options describe the database container to start
type Options struct {
	Image        string
	Type         string // mariadb, mysql, postgres
	Port         string
	Database     string
	User         string
	Password     string
	RootPassword string
	// HostPort pins the container port to this host port when set.
	HostPort string
}

// OptionsFromEnv reads Options from the environment
func OptionsFromEnv() Options {
	return Options{
		Image:        os.Getenv("DB_IMAGE"),
		Type:         envOr("DB_TYPE", "mariadb"),
		Port:         envOr("DB_PORT", "3306"),
		Database:     envOr("DB_DATABASE", "orgportal"),
		User:         envOr("DB_USER", "orgportal"),
		Password:     envOr("DB_PASSWORD", "orgportal"),
		RootPassword: envOr("DB_ROOT_PASSWORD", "root"),
		HostPort:     os.Getenv("DB_HOST_PORT"),
	}
}

// Container is a started database container
type Container struct {
	testcontainers.Container
	Options Options
	Host    string
	Port    nat.Port
}

// Env returns the DB_* variables that point the server at this container
func (c *Container) Env() map[string]string {
	return map[string]string{
		"DB_TYPE":     c.Options.Type,
		"DB_HOST":     c.Host,
		"DB_PORT":     c.Port.Port(),
		"DB_DATABASE": c.Options.Database,
		"DB_USER":     c.Options.User,
		"DB_PASSWORD": c.Options.Password,
	}
}

// Terminate stops and removes the container
func (c *Container) Terminate(ctx context.Context) error {
	if c == nil || c.Container == nil {
		return nil
	}
	return c.Container.Terminate(ctx)
}

// Start runs the database container and waits until it accepts queries
func Start(ctx context.Context, opts Options) (*Container, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("DB_IMAGE is not set")
	}

	tcpPort, err := nat.NewPort("tcp", opts.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT %q: %w", opts.Port, err)
	}

	if exists, err := imageExists(ctx, opts.Image); err != nil {
		logrus.WithError(err).Warn("Could not list local images")
	} else if !exists {
		logrus.Infof("Image %s not found locally, pulling...", opts.Image)
	}

	hostConfigModifier := func(hostConfig *container.HostConfig) {
		if opts.HostPort != "" {
			hostConfig.PortBindings = nat.PortMap{
				tcpPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: opts.HostPort}},
			}
		}
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:              opts.Image,
			ExposedPorts:       []string{string(tcpPort)},
			Env:                initEnv(opts),
			HostConfigModifier: hostConfigModifier,
			WaitingFor:         wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start database container: %w", err)
	}

	c := &Container{Container: dbContainer, Options: opts}
	if c.Host, err = dbContainer.Host(ctx); err != nil {
		_ = c.Terminate(ctx)
		return nil, err
	}
	if c.Port, err = dbContainer.MappedPort(ctx, tcpPort); err != nil {
		_ = c.Terminate(ctx)
		return nil, err
	}

	if opts.Type == "mariadb" || opts.Type == "mysql" {
		if err := waitForMySQL(ctx, c); err != nil {
			_ = c.Terminate(ctx)
			return nil, err
		}
	}

	logrus.Infof("Database container ready at %s:%s", c.Host, c.Port.Port())
	return c, nil
}

func initEnv(opts Options) map[string]string {
	switch opts.Type {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": opts.Password,
			"POSTGRES_USER":     opts.User,
			"POSTGRES_DB":       opts.Database,
		}
	default:
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": opts.RootPassword,
			"MYSQL_DATABASE":      opts.Database,
			"MYSQL_USER":          opts.User,
			"MYSQL_PASSWORD":      opts.Password,
		}
	}
}

// waitForMySQL pings as the application user; the listening port opens
// before the init scripts have created it.
func waitForMySQL(ctx context.Context, c *Container) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", c.Options.User, c.Options.Password, c.Host, c.Port.Port(), c.Options.Database)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	for i := 0; i < 30; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database not ready after 30 seconds: %w", err)
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
