package main

import (
	"context"

	"domjudge-tool/cmd/domjudge-cli/commands"
	"domjudge-tool/lib/serviceutil"
	"domjudge-tool/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "domjudge-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
