package adapters

import (
	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/utils"
)

// PruneTrigger 把源码变化转换为清理请求，实现 watcher.ChangeHandler 接口。
// 请求会合并：清理进行中时再多的变化也只排队一次。
type PruneTrigger struct {
	requests chan []string
}

// NewPruneTrigger 创建新的清理触发器
func NewPruneTrigger() *PruneTrigger {
	return &PruneTrigger{
		requests: make(chan []string, 1),
	}
}

// OnSourceChanged 收到源码变化
func (a *PruneTrigger) OnSourceChanged(paths []string) {
	select {
	case a.requests <- paths:
		utils.Debug("源码变化 %d 处，已请求重新清理", len(paths))
	default:
		utils.Debug("已有待处理的清理请求，忽略 %d 处变化", len(paths))
	}
}

// Requests 返回清理请求通道
func (a *PruneTrigger) Requests() <-chan []string {
	return a.requests
}
