// Package editcore 是富文本文档编辑核心：维护文档的内存树表示
// （块、行内、文本叶子、字符级 marks），提供结构化编辑操作，
// 并在树与线性标记文本之间保持无损往返。
//
// 核心功能：
//   - 树 ⇄ 标记文本的双向编解码（goldmark 解析 + 规范化渲染）
//   - mark 切换、块类型切换（含列表包装算法）、行内标注
//   - void 块/行内插入与尾部可编辑块归一化
//   - 变更协调：瞬态 / 内容级通知分类与一次性抑制
//
// 主要 API：
//   - Initialize(): 从标记文本（或空）建立编辑器
//   - Editor 的编辑方法: ToggleMark、SetBlockType、ToggleInline、
//     InsertVoidBlock、InsertVoidInline、InsertSoftBreak
//   - Host 回调: OnContentChange、OnRequestMediaInsert、RequestExternalInput
//
// 示例：
//
//	ed, err := editcore.Initialize("**hi**", editcore.WithHost(editcore.HostFuncs{
//	    ContentChange: func(m string) { fmt.Println(m) },
//	}))
//	ed.ToggleMark(editcore.MarkBold)
//
// 周边 UI（菜单、按钮、渲染）和媒体资产持久化是外部协作方，
// 不属于本核心。
package editcore

import (
	"fmt"

	"github.com/riverfjs/editcore-go/internal/markup"
	"github.com/riverfjs/editcore-go/internal/transform"
)

// Editor 把变换引擎、编解码器和变更协调器组合成对外编辑入口。
// 所有方法在调用线程上同步完成，文档状态转换严格串行。
type Editor struct {
	codec *markup.Codec
	coord *Coordinator
	host  Host
}

// Initialize 从标记文本建立编辑器状态。
// markupText 为空时以单个空默认块起步，光标收拢在偏移 0。
// 插件注册表里的类型由 Codec 透传，id 重复时报错。
func Initialize(markupText string, opts ...Option) (*Editor, error) {
	options := applyOptions(opts...)

	seen := make(map[string]bool, len(options.Plugins))
	for _, p := range options.Plugins {
		if p.ID == "" || p.NodeType == "" {
			return nil, fmt.Errorf("editcore: plugin registration needs both id and node type, got {%q, %q}", p.ID, p.NodeType)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("editcore: duplicate plugin id %q", p.ID)
		}
		seen[p.ID] = true
	}

	codec := markup.NewCodec(options.Config, options.Plugins)
	doc := codec.Parse(markupText)
	st := transform.NewState(doc)

	host := options.Host
	if host == nil {
		host = HostFuncs{}
	}
	return &Editor{
		codec: codec,
		coord: NewCoordinator(codec, host, st),
		host:  host,
	}, nil
}

// State 返回当前文档快照
func (e *Editor) State() State {
	return e.coord.State()
}

// Markup 序列化当前文档为标记文本
func (e *Editor) Markup() string {
	return e.codec.Serialize(e.coord.State().Doc)
}

// PlainText 提取当前文档的纯文本
func (e *Editor) PlainText() string {
	return e.coord.State().PlainText()
}

// UpdateSelection 接收外部的选区/焦点更新（瞬态通知）
func (e *Editor) UpdateSelection(sel Selection) {
	st := e.coord.State()
	e.coord.OnTransient(State{Doc: st.Doc, Sel: sel})
}

// ToggleMark 切换选中文本上的 mark（标准 toggle 语义，见 transform 包）
func (e *Editor) ToggleMark(mark string) {
	e.apply(transform.ToggleMark(e.coord.State(), mark))
}

// SetBlockType 切换选中块的类型；isList 标记目标是否为列表包装类型
func (e *Editor) SetBlockType(typ string, active bool, isList bool) {
	e.apply(transform.SetBlockType(e.coord.State(), typ, active, isList))
}

// ToggleInline 切换链接类行内标注。
// 未激活时同步向宿主索要带外数据（URL），宿主拒绝则放弃而不改动状态。
func (e *Editor) ToggleInline(typ string, active bool) {
	st := e.coord.State()
	if active {
		e.apply(transform.UnwrapInline(st, typ))
		return
	}
	if st.Sel.Collapsed() {
		return
	}
	value, ok := e.host.RequestExternalInput("Enter the URL of the link:", "")
	if !ok {
		return
	}
	e.apply(transform.WrapInline(st, typ, map[string]string{"href": value}))
}

// InsertVoidBlock 插入原子块并归一化出尾部可编辑块。
// data 带 src 时向宿主发出媒体登记回调。
func (e *Editor) InsertVoidBlock(typ string, data map[string]string) {
	st := e.coord.State()
	next := transform.InsertVoidBlock(st, typ, data)
	e.apply(next)
	e.notifyMedia(typ, data)
}

// InsertVoidInline 在光标处插入原子行内节点并把焦点移到后插的默认块
func (e *Editor) InsertVoidInline(typ string, data map[string]string) {
	st := e.coord.State()
	next := transform.InsertVoidInline(st, typ, data)
	e.apply(next)
	e.notifyMedia(typ, data)
}

// InsertSoftBreak 在当前块内插入字面换行。
// 软换行会改变序列化文本，照常走内容级外发；随之而来的一次瞬态
// 通知被抑制令牌吞掉。
func (e *Editor) InsertSoftBreak() {
	st := e.coord.State()
	next, tok := transform.InsertSoftBreak(st)
	if tok.Zero() {
		return
	}
	e.coord.Suppress(tok)
	e.coord.OnContent(next)
}

// apply 对变换结果分类：文档变了走内容级通知，否则按瞬态处理
func (e *Editor) apply(next State) {
	st := e.coord.State()
	if contentChanged(st, next) {
		e.coord.OnContent(next)
		return
	}
	e.coord.OnTransient(next)
}

func (e *Editor) notifyMedia(typ string, data map[string]string) {
	src, ok := data["src"]
	if !ok {
		return
	}
	e.host.OnRequestMediaInsert(MediaDescriptor{
		NodeType: typ,
		Source:   src,
		Alt:      data["alt"],
	})
}
