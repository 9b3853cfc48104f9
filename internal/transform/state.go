// Package transform 实现纯函数式的文档变换：
// 每个操作接收一个 State，返回新 State，旧快照从不被修改。
// 非法参数（无选区切换 mark、解开不存在的列表等）一律定义为 no-op。
package transform

import (
	"github.com/gofrs/uuid"

	"github.com/riverfjs/editcore-go/internal/node"
)

// State 是 {文档, 选区} 的不可变快照
type State struct {
	Doc node.Document
	Sel node.Selection
}

// NewState 以文档起始处的光标创建快照
func NewState(d node.Document) State {
	return State{Doc: d, Sel: node.Collapse(node.Start(d))}
}

// PlainText 提取快照文档的纯文本
func (s State) PlainText() string {
	return s.Doc.PlainText()
}

// Token 一次性抑制令牌。产生内部簿记编辑的操作返回它，
// 协调器消费一次后失效，取代隐藏的跨调用布尔标志。
type Token struct {
	id string
}

// Zero reports whether the token is empty (no suppression requested).
func (t Token) Zero() bool {
	return t.id == ""
}

func newToken() Token {
	return Token{id: uuid.Must(uuid.NewV4()).String()}
}
