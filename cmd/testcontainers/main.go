package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/orgportal/internal/devdb"
	"github.com/sirupsen/logrus"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a development database container with the environment variables from the .env file,
and print the DB_* settings that point orgportal at it.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file (DB_IMAGE, DB_TYPE, DB_PORT, DB_DATABASE, DB_USER,
DB_PASSWORD, DB_ROOT_PASSWORD, DB_HOST_PORT)

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		logrus.Infof("Loading environment variables from %s", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			logrus.Fatalf("Failed to load environment variables: %v", err)
		}
	} else {
		logrus.Info("No environment file specified, using current environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	c, err := devdb.Start(ctx, devdb.OptionsFromEnv())
	if err != nil {
		logrus.Fatalf("Failed to create test container: %v", err)
	}

	env := c.Env()
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(os.Stdout, "%s=%s\n", k, env[k])
	}

	<-ctx.Done()
	logrus.Info("Received signal, terminating test container...")

	shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.Terminate(shutdown); err != nil {
		logrus.Errorf("Failed to terminate container: %v", err)
	}
}
