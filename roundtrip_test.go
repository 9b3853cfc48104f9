package editcore

import (
	"testing"
)

// 精确往返：parse(serialize(parse(m))) 的序列化文本与输入逐字节一致
var exactFixtures = []struct {
	name   string
	markup string
}{
	{"plain", "hello world"},
	{"bold", "**hi**"},
	{"code", "`let x = 1`"},
	{"heading", "# Title"},
	{"heading deep", "###### Six"},
	{"link", "[site](https://example.com)"},
	{"bold link text", "[**site**](https://example.com)"},
	{"bullet list", "- one\n- two"},
	{"ordered list", "1. one\n2. two"},
	{"nested list", "- one\n  - sub\n- two"},
	{"rule", "---"},
	{"image block", "![cat](cat.png)"},
	{"soft break", "line one\nline two"},
	{"two paragraphs", "alpha\n\nbeta"},
	{"heading then list", "## Plan\n\n- first\n- second"},
	{"escaped star", `a \* b`},
	{"escaped bracket", `a \[b\] c`},
}

func TestRoundTrip_Exact(t *testing.T) {
	for _, fx := range exactFixtures {
		t.Run(fx.name, func(t *testing.T) {
			ed := mustInitialize(t, fx.markup)
			if got := ed.Markup(); got != fx.markup {
				t.Errorf("serialize = %q, want %q", got, fx.markup)
			}
		})
	}
}

// 结构往返：降级改写会改变文本形态（代码围栏、斜体归一等），
// 但第二轮 parse 应给出与第一轮等价的树 —— 序列化是稳定归一形式
var structuralFixtures = []struct {
	name   string
	markup string
}{
	{"italic", "*em*"},
	{"strikethrough", "~~gone~~"},
	{"mixed marks", "**bold** and *em* and `code`"},
	{"blockquote degrade", "> quoted text"},
	{"fence degrade", "```\ncode line\n```"},
	{"table degrade", "| a | b |\n| - | - |\n| 1 | 2 |"},
	{"setext-free heading", "### H3 with **bold**"},
	{"list with marks", "- **bold** item\n- plain"},
	{"fence in list item", "- item\n\n  ```\n  secret code\n  ```\n- two"},
	{"inline image", "before ![pic](p.png) after"},
	{"html degrade", "<div>raw <b>stuff</b></div>"},
	{"entity", "a &amp; b"},
}

func TestRoundTrip_Structural(t *testing.T) {
	for _, fx := range structuralFixtures {
		t.Run(fx.name, func(t *testing.T) {
			ed1 := mustInitialize(t, fx.markup)
			normalized := ed1.Markup()

			ed2 := mustInitialize(t, normalized)
			if !DocumentEqual(ed1.State().Doc, ed2.State().Doc) {
				t.Errorf("re-parse of %q diverged:\n first: %+v\nsecond: %+v",
					normalized, ed1.State().Doc, ed2.State().Doc)
			}
			// 归一形式必须是不动点
			if got := ed2.Markup(); got != normalized {
				t.Errorf("normalized form not stable: %q -> %q", normalized, got)
			}
		})
	}
}

// 插件节点类型经注册后在往返中透传
func TestRoundTrip_Plugin(t *testing.T) {
	ed := mustInitialize(t, "![chart](data.csv)\n\ntext",
		WithPlugins(PluginType{ID: "charts", NodeType: Image}))
	st := ed.State()

	var pluginBlocks int
	for _, b := range st.Doc.Blocks {
		if b.Plugin == "charts" {
			pluginBlocks++
		}
	}
	if pluginBlocks != 1 {
		t.Fatalf("plugin-annotated blocks = %d, want 1", pluginBlocks)
	}
	if got := ed.Markup(); got != "![chart](data.csv)\n\ntext" {
		t.Errorf("Markup() = %q", got)
	}
}
