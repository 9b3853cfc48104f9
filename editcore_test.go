package editcore

import (
	"bytes"
	"log"
	"testing"
)

// mustInitialize 初始化编辑器，失败时终止测试
func mustInitialize(t *testing.T, markup string, opts ...Option) *Editor {
	t.Helper()
	ed, err := Initialize(markup, opts...)
	if err != nil {
		t.Fatalf("Initialize(%q) error: %v", markup, err)
	}
	return ed
}

// selectRange 设置对准第一个叶子的选区
func selectRange(ed *Editor, anchor, focus Point) {
	ed.UpdateSelection(Selection{Anchor: anchor, Focus: focus, Focused: true})
}

// firstLeaf 取第一个顶层块的第一个文本叶子
func firstLeaf(t *testing.T, d Document) Node {
	t.Helper()
	if len(d.Blocks) == 0 {
		t.Fatal("document has no blocks")
	}
	b := d.Blocks[0]
	if len(b.Children) == 0 {
		t.Fatal("first block has no children")
	}
	return b.Children[0]
}

// TestInitialize_Empty 空输入：单个空默认块 + 偏移 0 的收拢选区
func TestInitialize_Empty(t *testing.T) {
	ed := mustInitialize(t, "")
	st := ed.State()

	if len(st.Doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(st.Doc.Blocks))
	}
	blk := st.Doc.Blocks[0]
	if blk.Type != DefaultBlockType {
		t.Errorf("block type = %q, want %q", blk.Type, DefaultBlockType)
	}
	if blk.PlainText() != "" {
		t.Errorf("block text = %q, want empty", blk.PlainText())
	}
	if !st.Sel.Collapsed() {
		t.Error("selection should be collapsed")
	}
	if st.Sel.Anchor.Offset != 0 {
		t.Errorf("selection offset = %d, want 0", st.Sel.Anchor.Offset)
	}
}

// TestInitialize_Bold "**hi**" 解析为一个段落、一个带 bold 的叶子，
// 序列化原样回到 "**hi**"
func TestInitialize_Bold(t *testing.T) {
	ed := mustInitialize(t, "**hi**")
	st := ed.State()

	if len(st.Doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(st.Doc.Blocks))
	}
	leaf := firstLeaf(t, st.Doc)
	if leaf.Text != "hi" {
		t.Errorf("leaf text = %q, want 'hi'", leaf.Text)
	}
	if !leaf.HasMark(MarkBold) {
		t.Error("leaf should carry bold mark")
	}
	if got := ed.Markup(); got != "**hi**" {
		t.Errorf("Markup() = %q, want '**hi**'", got)
	}
}

// TestToggleMark_Idempotent 同一选区上往返切换 bold 等于不变
func TestToggleMark_Idempotent(t *testing.T) {
	ed := mustInitialize(t, "hello")
	before := ed.State()
	selectRange(ed, Point{Path: Path{0, 0}, Offset: 1}, Point{Path: Path{0, 0}, Offset: 4})

	ed.ToggleMark(MarkBold)
	mid := ed.State()
	if DocumentEqual(before.Doc, mid.Doc) {
		t.Fatal("first toggle should change the document")
	}
	if !firstMarkedLeaf(mid.Doc, MarkBold) {
		t.Fatal("some leaf should carry bold after first toggle")
	}

	ed.ToggleMark(MarkBold)
	after := ed.State()
	if !DocumentEqual(before.Doc, after.Doc) {
		t.Errorf("double toggle should restore the document, got %+v", after.Doc)
	}
}

func firstMarkedLeaf(d Document, mark string) bool {
	for _, b := range d.Blocks {
		if markedIn(b, mark) {
			return true
		}
	}
	return false
}

func markedIn(n Node, mark string) bool {
	if n.Kind == KindText {
		return n.HasMark(mark)
	}
	for _, c := range n.Children {
		if markedIn(c, mark) {
			return true
		}
	}
	return false
}

// TestToggleMark_Collapsed 光标选区下 toggle 是 no-op，不触发外发
func TestToggleMark_Collapsed(t *testing.T) {
	var calls int
	ed := mustInitialize(t, "hello", WithHost(HostFuncs{
		ContentChange: func(string) { calls++ },
	}))
	ed.ToggleMark(MarkBold)
	if calls != 0 {
		t.Errorf("OnContentChange fired %d times, want 0", calls)
	}
}

// TestSetBlockType_ListSwitch ordered → unordered 换列表种类而不嵌套
func TestSetBlockType_ListSwitch(t *testing.T) {
	ed := mustInitialize(t, "1. item")
	st := ed.State()
	if st.Doc.Blocks[0].Type != OrderedList {
		t.Fatalf("block type = %q, want ordered-list", st.Doc.Blocks[0].Type)
	}

	ed.SetBlockType(UnorderedList, false, true)
	st = ed.State()
	if st.Doc.Blocks[0].Type != UnorderedList {
		t.Fatalf("block type = %q, want unordered-list", st.Doc.Blocks[0].Type)
	}
	if hasNodeOfType(st.Doc.Blocks[0], OrderedList) {
		t.Error("ordered-list wrapper should be gone")
	}
	if !hasNodeOfType(st.Doc.Blocks[0], ListItem) {
		t.Error("items should keep list-item type")
	}
}

// TestSetBlockType_ExitList 已在目标列表内时退出列表
func TestSetBlockType_ExitList(t *testing.T) {
	ed := mustInitialize(t, "- item")
	ed.SetBlockType(UnorderedList, false, true)
	st := ed.State()
	if st.Doc.Blocks[0].Type != DefaultBlockType {
		t.Errorf("block type = %q, want %q", st.Doc.Blocks[0].Type, DefaultBlockType)
	}
	if st.Doc.Blocks[0].PlainText() != "item" {
		t.Errorf("text = %q, want 'item'", st.Doc.Blocks[0].PlainText())
	}
}

func hasNodeOfType(n Node, typ string) bool {
	if n.Type == typ {
		return true
	}
	for _, c := range n.Children {
		if hasNodeOfType(c, typ) {
			return true
		}
	}
	return false
}

// TestInsertVoidBlock_TrailingParagraph void 块之后必有可编辑默认块
func TestInsertVoidBlock_TrailingParagraph(t *testing.T) {
	ed := mustInitialize(t, "")
	ed.InsertVoidBlock(HorizontalRule, nil)
	st := ed.State()

	last := st.Doc.Blocks[len(st.Doc.Blocks)-1]
	if last.Void {
		t.Error("last block must not be void")
	}
	if last.Type != DefaultBlockType {
		t.Errorf("last block type = %q, want %q", last.Type, DefaultBlockType)
	}
	if !hasVoidOfType(st.Doc, HorizontalRule) {
		t.Error("horizontal-rule block missing")
	}
	if got := ed.Markup(); got != "---" {
		t.Errorf("Markup() = %q, want '---'", got)
	}
}

func hasVoidOfType(d Document, typ string) bool {
	for _, b := range d.Blocks {
		if b.Void && b.Type == typ {
			return true
		}
	}
	return false
}

// TestInsertVoidBlock_Media 媒体块触发宿主登记回调
func TestInsertVoidBlock_Media(t *testing.T) {
	var got []MediaDescriptor
	ed := mustInitialize(t, "", WithHost(HostFuncs{
		MediaInsert: func(m MediaDescriptor) { got = append(got, m) },
	}))
	ed.InsertVoidBlock(Image, map[string]string{"src": "cat.png", "alt": "cat"})

	if len(got) != 1 {
		t.Fatalf("media callbacks = %d, want 1", len(got))
	}
	if got[0].Source != "cat.png" || got[0].Alt != "cat" || got[0].NodeType != Image {
		t.Errorf("descriptor = %+v", got[0])
	}
}

// TestToggleInline_Link 展开选区 + 宿主提供 URL → 链接行内节点，
// 选区收拢在其末尾
func TestToggleInline_Link(t *testing.T) {
	ed := mustInitialize(t, "hello world", WithHost(HostFuncs{
		ExternalInput: func(prompt, def string) (string, bool) {
			return "http://example.com", true
		},
	}))
	selectRange(ed, Point{Path: Path{0, 0}, Offset: 0}, Point{Path: Path{0, 0}, Offset: 5})
	ed.ToggleInline(Link, false)

	st := ed.State()
	blk := st.Doc.Blocks[0]
	if len(blk.Children) < 2 {
		t.Fatalf("block children = %d, want >= 2", len(blk.Children))
	}
	link := blk.Children[0]
	if link.Kind != KindInline || link.Type != Link {
		t.Fatalf("first child = %v/%q, want inline link", link.Kind, link.Type)
	}
	if link.Data["href"] != "http://example.com" {
		t.Errorf("href = %q", link.Data["href"])
	}
	if link.PlainText() != "hello" {
		t.Errorf("link text = %q, want 'hello'", link.PlainText())
	}
	if !st.Sel.Collapsed() {
		t.Error("selection should collapse after wrapping")
	}
	if st.Sel.Anchor.Offset != 5 {
		t.Errorf("collapsed offset = %d, want 5", st.Sel.Anchor.Offset)
	}
	if got := ed.Markup(); got != "[hello](http://example.com) world" {
		t.Errorf("Markup() = %q", got)
	}
}

// TestToggleInline_Cancelled 宿主拒绝提供数据时状态不变
func TestToggleInline_Cancelled(t *testing.T) {
	var calls int
	ed := mustInitialize(t, "hello", WithHost(HostFuncs{
		ContentChange: func(string) { calls++ },
		ExternalInput: func(prompt, def string) (string, bool) { return "", false },
	}))
	before := ed.State()
	selectRange(ed, Point{Path: Path{0, 0}, Offset: 0}, Point{Path: Path{0, 0}, Offset: 5})
	ed.ToggleInline(Link, false)

	if !DocumentEqual(before.Doc, ed.State().Doc) {
		t.Error("cancelled input must leave the document unchanged")
	}
	if calls != 0 {
		t.Errorf("OnContentChange fired %d times, want 0", calls)
	}
}

// TestToggleInline_Unwrap 激活状态下移除链接标注
func TestToggleInline_Unwrap(t *testing.T) {
	ed := mustInitialize(t, "[hello](http://example.com) world")
	// 光标放进链接文本
	selectRange(ed, Point{Path: Path{0, 0, 0}, Offset: 2}, Point{Path: Path{0, 0, 0}, Offset: 2})
	ed.ToggleInline(Link, true)

	st := ed.State()
	if hasNodeOfType(st.Doc.Blocks[0], Link) {
		t.Error("link node should be gone")
	}
	if got := st.Doc.Blocks[0].PlainText(); got != "hello world" {
		t.Errorf("text = %q, want 'hello world'", got)
	}
}

// TestInsertSoftBreak 软换行留在块内并照常外发内容
func TestInsertSoftBreak(t *testing.T) {
	var outputs []string
	ed := mustInitialize(t, "ab", WithHost(HostFuncs{
		ContentChange: func(m string) { outputs = append(outputs, m) },
	}))
	selectRange(ed, Point{Path: Path{0, 0}, Offset: 1}, Point{Path: Path{0, 0}, Offset: 1})
	ed.InsertSoftBreak()

	st := ed.State()
	if len(st.Doc.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1 (soft break must not split)", len(st.Doc.Blocks))
	}
	if got := st.Doc.Blocks[0].PlainText(); got != "a\nb" {
		t.Errorf("text = %q, want 'a\\nb'", got)
	}
	if len(outputs) != 1 || outputs[0] != "a\nb" {
		t.Errorf("outputs = %q, want ['a\\nb']", outputs)
	}
}

// TestInsertSoftBreak_HeadingRefused 标题内软换行被拒绝：
// 状态不变、不外发、序列化文本保持可往返
func TestInsertSoftBreak_HeadingRefused(t *testing.T) {
	var calls int
	ed := mustInitialize(t, "# ab", WithHost(HostFuncs{
		ContentChange: func(string) { calls++ },
	}))
	selectRange(ed, Point{Path: Path{0, 0}, Offset: 1}, Point{Path: Path{0, 0}, Offset: 1})
	ed.InsertSoftBreak()

	if got := ed.Markup(); got != "# ab" {
		t.Errorf("Markup() = %q, want '# ab'", got)
	}
	if calls != 0 {
		t.Errorf("OnContentChange fired %d times, want 0", calls)
	}
}

// TestSoftBreak_SuppressesOneTransient 抑制令牌只吞一次瞬态通知
func TestSoftBreak_SuppressesOneTransient(t *testing.T) {
	ed := mustInitialize(t, "ab")
	selectRange(ed, Point{Path: Path{0, 0}, Offset: 1}, Point{Path: Path{0, 0}, Offset: 1})
	ed.InsertSoftBreak()
	after := ed.State()

	// 第一次瞬态通知被吞掉：选区不动
	stale := Selection{Anchor: Point{Path: Path{0, 0}, Offset: 0}, Focus: Point{Path: Path{0, 0}, Offset: 0}, Focused: true}
	ed.UpdateSelection(stale)
	if !sameSelection(ed.State().Sel, after.Sel) {
		t.Fatal("first transient after soft break should be swallowed")
	}

	// 第二次照常生效
	ed.UpdateSelection(stale)
	if !sameSelection(ed.State().Sel, stale) {
		t.Error("second transient should be applied")
	}
}

func sameSelection(a, b Selection) bool {
	return a.Anchor.Path.Equal(b.Anchor.Path) && a.Anchor.Offset == b.Anchor.Offset &&
		a.Focus.Path.Equal(b.Focus.Path) && a.Focus.Offset == b.Focus.Offset &&
		a.Focused == b.Focused
}

// TestContentChange_Serialized 内容级变更携带最新序列化文本
func TestContentChange_Serialized(t *testing.T) {
	var outputs []string
	ed := mustInitialize(t, "hello", WithHost(HostFuncs{
		ContentChange: func(m string) { outputs = append(outputs, m) },
	}))
	selectRange(ed, Point{Path: Path{0, 0}, Offset: 0}, Point{Path: Path{0, 0}, Offset: 5})
	ed.ToggleMark(MarkBold)

	if len(outputs) != 1 {
		t.Fatalf("outputs = %d, want 1", len(outputs))
	}
	if outputs[0] != "**hello**" {
		t.Errorf("output = %q, want '**hello**'", outputs[0])
	}
}

// TestInitialize_DuplicatePlugin 插件 id 重复报错
func TestInitialize_DuplicatePlugin(t *testing.T) {
	_, err := Initialize("", WithPlugins(
		PluginType{ID: "x", NodeType: "embed"},
		PluginType{ID: "x", NodeType: "widget"},
	))
	if err == nil {
		t.Fatal("duplicate plugin id should error")
	}
}

// TestSetLogger 注入的日志记录器接收解析降级告警
func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	old := Logger
	SetLogger(log.New(&buf, "", 0))
	defer SetLogger(old)

	mustInitialize(t, "> quoted")
	if buf.Len() == 0 {
		t.Error("degrade warning should reach the injected logger")
	}
}

// TestPlainTextLen 字数统计按 rune 计
func TestPlainTextLen(t *testing.T) {
	ed := mustInitialize(t, "héllo")
	if got := PlainTextLen(ed.State().Doc); got != 5 {
		t.Errorf("PlainTextLen = %d, want 5", got)
	}
}
