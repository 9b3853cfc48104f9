package editcore

// MediaDescriptor 描述一次 void 媒体插入，宿主据此持久化/解析资产。
// 核心不做去重，宿主的登记操作应对重复调用保持幂等。
type MediaDescriptor struct {
	NodeType string
	Source   string
	Alt      string
}

// Host 是外部消费方的回调集合。
//
// RequestExternalInput 在当前同步调用内阻塞等待答案（遗留的阻塞对话框
// 模式）；需要异步提示的宿主应返回 ok=false 放弃本次操作，拿到值后再
// 重新触发一次。返回 ok=false 时挂起的编辑被放弃，状态不变。
type Host interface {
	// OnContentChange 仅在内容级变更后触发，携带最新序列化文本
	OnContentChange(markup string)
	// OnRequestMediaInsert 在创建 void 媒体节点时触发
	OnRequestMediaInsert(media MediaDescriptor)
	// RequestExternalInput 同步向宿主索要带外数据（如链接 URL）
	RequestExternalInput(prompt, defaultValue string) (value string, ok bool)
}

// HostFuncs 以函数字段实现 Host，未设置的回调为 no-op。
// RequestExternalInput 未设置时返回 ok=false（放弃操作）。
type HostFuncs struct {
	ContentChange func(markup string)
	MediaInsert   func(media MediaDescriptor)
	ExternalInput func(prompt, defaultValue string) (string, bool)
}

// OnContentChange implements Host.
func (h HostFuncs) OnContentChange(markup string) {
	if h.ContentChange != nil {
		h.ContentChange(markup)
	}
}

// OnRequestMediaInsert implements Host.
func (h HostFuncs) OnRequestMediaInsert(media MediaDescriptor) {
	if h.MediaInsert != nil {
		h.MediaInsert(media)
	}
}

// RequestExternalInput implements Host.
func (h HostFuncs) RequestExternalInput(prompt, defaultValue string) (string, bool) {
	if h.ExternalInput != nil {
		return h.ExternalInput(prompt, defaultValue)
	}
	return "", false
}
