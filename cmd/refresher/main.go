package main

import (
	"os"
	"strconv"

	"github.com/preston-bernstein/nba-refresh-service/internal/cli"
)

const appVersion = "dev"

func main() {
	if skip, _ := strconv.ParseBool(os.Getenv("SKIP_SERVER_RUN")); skip {
		return
	}
	os.Exit(cli.Execute(appVersion, os.Args[1:], os.Stdout, os.Stderr))
}
