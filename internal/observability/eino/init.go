// Package eino 为 Eino ChatModel 调用记录 LLM 指标与 span
package eino

import (
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
)

var registerOnce sync.Once

// Handler 仅处理 ChatModel 组件的回调，其它组件直接透传
func Handler() einocallbacks.Handler {
	return cbtemplate.NewHandlerHelper().
		ChatModel(newChatModelCallbackHandler()).
		Handler()
}

// Init 把 Handler 注册为全局回调，重复调用无副作用
func Init() {
	registerOnce.Do(func() {
		einocallbacks.AppendGlobalHandlers(Handler())
	})
}
