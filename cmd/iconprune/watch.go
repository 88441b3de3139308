package main

import (
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "清理一次后监控源码目录，变化时重新清理",
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := setup(cmd)
		if err != nil {
			return err
		}
		return pc.Watch(cmd.Context())
	},
}
