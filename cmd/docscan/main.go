package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/docscanhq/docscan/internal/cli"
	"github.com/docscanhq/docscan/pkg/log"
)

func main() {
	logger := log.InitLog(zap.NewAtomicLevelAt(zapcore.InfoLevel))
	defer func() { _ = logger.Sync() }()

	undo := zap.ReplaceGlobals(logger)
	defer undo()

	command := NewDocscanCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewDocscanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscan [flags] [options]",
		Short: "docscan drives the document scanning toolchain.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdEvaluate())
	cmd.AddCommand(cli.NewCmdScanQR())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
