package editcore

import (
	"github.com/riverfjs/editcore-go/internal/markup"
	"github.com/riverfjs/editcore-go/internal/node"
	"github.com/riverfjs/editcore-go/internal/transform"
)

// Coordinator 持有当前 Document State 并对每次通知分类：
//
//   - 瞬态（选区/滚动等）：只替换持有的快照，不触发序列化；
//   - 内容：经 Codec 序列化后通过 Host.OnContentChange 外发。
//
// 内部簿记编辑（软换行）返回的一次性 Token 会吞掉紧随其后的一次
// 瞬态通知，避免协调器已经记账的编辑再触发一次冗余替换。
//
// 所有编辑在调用线程上同步完成，无锁。
type Coordinator struct {
	state   transform.State
	codec   *markup.Codec
	host    Host
	pending transform.Token
}

// NewCoordinator 创建协调器并安装初始快照
func NewCoordinator(codec *markup.Codec, host Host, initial transform.State) *Coordinator {
	if host == nil {
		host = HostFuncs{}
	}
	return &Coordinator{state: initial, codec: codec, host: host}
}

// State 返回当前持有的快照
func (c *Coordinator) State() transform.State {
	return c.state
}

// OnTransient 处理瞬态通知：替换快照，从不序列化。
// 存在未消费的抑制令牌时本次通知被吞掉一次，令牌随即失效。
func (c *Coordinator) OnTransient(s transform.State) {
	if !c.pending.Zero() {
		c.pending = transform.Token{}
		return
	}
	c.state = s
}

// OnContent 处理内容级变更：替换快照、序列化并外发
func (c *Coordinator) OnContent(s transform.State) {
	c.state = s
	c.host.OnContentChange(c.codec.Serialize(s.Doc))
}

// Suppress 登记一次性抑制令牌
func (c *Coordinator) Suppress(t transform.Token) {
	if !t.Zero() {
		c.pending = t
	}
}

// contentChanged 判断两个快照之间是否发生了内容级变化
func contentChanged(old, new transform.State) bool {
	return !node.Equal(old.Doc, new.Doc)
}
