// hwinv - Entry Point
//
// hwinv reports the hardware of the machine it runs on. It reads the
// platform's native sources (sysfs and procfs on Linux, sysctl and
// system_profiler on macOS, sysctl and the base system tools on FreeBSD,
// WMI and the registry on Windows) and prints tables, encodes a report as
// JSON, YAML or CBOR, or publishes one report over NATS or HTTP.
//
// Configuration is loaded from /etc/hwinv/config.yaml when present (or the
// --config path), then HWINV_ environment variables, then flags.
//
// SIGINT and SIGTERM cancel a running collection.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/doughall/hwinv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
