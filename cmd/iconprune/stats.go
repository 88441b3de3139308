package main

import (
	"github.com/spf13/cobra"

	"github.com/ccp-p/asr-media-cli/icon-pruner/internal/controller"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "统计未使用的图标，不删除任何文件",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := setup(cmd)
		if err != nil {
			return err
		}

		inspection, err := pc.Inspect(cmd.Context())
		if err != nil {
			return err
		}

		controller.PrintInspection(cmd.OutOrStdout(), inspection, statsTop)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "列出最大的未使用图标数量")
}
