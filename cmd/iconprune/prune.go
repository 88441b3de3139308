package main

import (
	"github.com/spf13/cobra"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "删除未使用的图标（默认命令）",
	RunE:  runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	pc, err := setup(cmd)
	if err != nil {
		return err
	}

	report, err := pc.Run(cmd.Context())
	if err != nil {
		return err
	}

	utils.Debug("运行 %s 完成，删除失败 %d 个", report.RunID, report.FailedCount())
	return nil
}
