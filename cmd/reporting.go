package cmd

import (
	"github.com/masmgr/git2sqlite/internal/output"
)

func writeIngestReport(ctx *CommandContext, report *output.IngestReport) error {
	writer := output.NewIngestReportWriter(ctx.Output.Format)
	return writer.Write(report, ctx.Output)
}

func writeStatsReport(ctx *CommandContext, report *output.StatsReport) error {
	writer := output.NewStatsReportWriter(ctx.Output.Format)
	return writer.Write(report, ctx.Output)
}
