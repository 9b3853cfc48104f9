package markup

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/editcore-go/internal/node"
)

// StandardOptions goldmark 扩展配置
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM, // tables, strikethrough, tasklists
	),
	goldmark.WithParserOptions(
		gparser.WithAutoHeadingID(),
	),
}

// htmlPolicy 丢弃所有标签，只保留文本
var htmlPolicy = bluemonday.StrictPolicy()

// Codec 在节点树和线性标记文本之间做双向转换
type Codec struct {
	cfg     *Config
	plugins []PluginType
}

// NewCodec 创建 Codec，cfg 为 nil 时使用默认配置
func NewCodec(cfg *Config, plugins []PluginType) *Codec {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Codec{cfg: cfg, plugins: plugins}
}

// Parse 将标记文本解析为节点树。
// 无法识别的片段降级为纯段落文本，解析永不失败。
// 结果经过插件编码阶段：注册过的节点类型带上插件注解。
func (c *Codec) Parse(source string) node.Document {
	if strings.TrimSpace(source) == "" {
		return EncodePlugins(node.NewDocument(), c.plugins)
	}

	md := goldmark.New(StandardOptions...)
	src := []byte(source)
	root := md.Parser().Parse(text.NewReader(src))

	b := newTreeBuilder(src)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return b.walk(n, entering)
	})

	doc := b.document()
	if len(doc.Blocks) == 0 {
		doc = node.NewDocument()
	} else if doc.Blocks[len(doc.Blocks)-1].Void {
		doc, _ = node.EnsureTrailingDefault(doc)
	}
	// 软换行等会产生相邻的同 mark 叶子，合并后与变换引擎产出的树对齐
	doc = node.MergeLeaves(doc)
	return EncodePlugins(doc, c.plugins)
}

// frame 是一个构建中的块或行内容器
type frame struct {
	kind     node.Kind
	typ      string
	data     map[string]string
	children []node.Node
}

// treeBuilder 遍历 goldmark AST 并构建节点树。
// 块/行内容器在进入时压栈，退出时出栈拼装；
// emphasis/strike/code span 作为 mark 栈作用于文本叶子。
type treeBuilder struct {
	source []byte
	stack  []*frame
	marks  []string

	// Table degrade state: 表格压平为按行的段落
	inTable bool
	inCell  bool
	rows    [][]string
	row     []string
	cell    strings.Builder
}

func newTreeBuilder(source []byte) *treeBuilder {
	root := &frame{kind: node.KindBlock, typ: ""}
	return &treeBuilder{source: source, stack: []*frame{root}}
}

func (b *treeBuilder) document() node.Document {
	return node.Document{Blocks: b.stack[0].children}
}

func (b *treeBuilder) top() *frame {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) push(kind node.Kind, typ string, data map[string]string) {
	b.stack = append(b.stack, &frame{kind: kind, typ: typ, data: data})
}

func (b *treeBuilder) pop() {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]

	var n node.Node
	if f.kind == node.KindInline {
		n = node.NewInline(f.typ, f.data, f.children...)
	} else {
		n = node.NewBlock(f.typ, f.children...)
	}
	b.append(n)
}

func (b *treeBuilder) append(n node.Node) {
	f := b.top()
	f.children = append(f.children, n)
}

func (b *treeBuilder) appendLeaf(text string, extraMarks ...string) {
	if text == "" {
		return
	}
	marks := make([]string, 0, len(b.marks)+len(extraMarks))
	marks = append(marks, b.marks...)
	marks = append(marks, extraMarks...)
	b.append(node.NewText(text, marks...))
}

// appendDegraded 写入降级产物：列表项内压平为项的行内内容
// （换行分隔，与 loose 段落同样处理），其余位置作为独立段落。
// 嵌套的非列表块没有可往返的序列化形式，不能留在树里。
func (b *treeBuilder) appendDegraded(text string, marks ...string) {
	if text == "" {
		return
	}
	if b.inListItem() {
		if len(b.top().children) > 0 {
			b.appendLeaf("\n")
		}
		b.appendLeaf(text, marks...)
		return
	}
	b.append(node.NewBlock(node.Paragraph, node.NewText(text, marks...)))
}

func (b *treeBuilder) pushMark(m string) {
	b.marks = append(b.marks, m)
}

func (b *treeBuilder) popMark(m string) {
	for i := len(b.marks) - 1; i >= 0; i-- {
		if b.marks[i] == m {
			b.marks = append(b.marks[:i], b.marks[i+1:]...)
			return
		}
	}
}

// inListItem 当前帧是否直接处于 list-item 内
func (b *treeBuilder) inListItem() bool {
	return b.top().typ == node.ListItem
}

func (b *treeBuilder) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Document:
		// root frame already in place

	// --- Blocks ---
	case *ast.Paragraph:
		b.onParagraph(entering)

	case *ast.TextBlock:
		// tight list item 的内容容器，等价于段落
		b.onParagraph(entering)

	case *ast.Heading:
		if entering {
			level := n.Level
			if level < 1 {
				level = 1
			}
			if level > 6 {
				level = 6
			}
			b.push(node.KindBlock, node.HeadingTypes[level-1], nil)
		} else {
			b.pop()
		}

	case *ast.Blockquote:
		// 无对应节点类型，压平为其包含的段落（降级）
		if entering {
			Logger.Printf("degrade: blockquote flattened into its paragraphs")
		}

	case *ast.List:
		if entering {
			typ := node.UnorderedList
			if n.IsOrdered() {
				typ = node.OrderedList
			}
			b.push(node.KindBlock, typ, nil)
		} else {
			b.pop()
		}

	case *ast.ListItem:
		if entering {
			b.push(node.KindBlock, node.ListItem, nil)
		} else {
			b.pop()
		}

	case *ast.ThematicBreak:
		if entering {
			b.append(node.NewVoidBlock(node.HorizontalRule, nil))
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			b.onCodeBlock(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.HTMLBlock:
		if entering {
			b.onHTMLBlock(n)
			return ast.WalkSkipChildren, nil
		}

	// --- Inlines ---
	case *ast.Text:
		if entering {
			b.onText(n)
		}

	case *ast.String:
		if entering {
			b.onRawText(string(n.Value))
		}

	case *ast.CodeSpan:
		if entering {
			b.onRawText2(extractCodeSpanText(n, b.source), node.MarkCode)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		mark := node.MarkItalic
		if n.Level == 2 {
			mark = node.MarkBold
		}
		if entering {
			b.pushMark(mark)
		} else {
			b.popMark(mark)
		}

	case *east.Strikethrough:
		if entering {
			b.pushMark(node.MarkStrikethrough)
		} else {
			b.popMark(node.MarkStrikethrough)
		}

	case *ast.Link:
		if entering {
			data := map[string]string{"href": string(n.Destination)}
			if len(n.Title) > 0 {
				data["title"] = string(n.Title)
			}
			b.push(node.KindInline, node.Link, data)
		} else {
			b.pop()
		}

	case *ast.AutoLink:
		if entering {
			url := string(n.URL(b.source))
			b.append(node.NewInline(node.Link, map[string]string{"href": url}, node.NewText(url)))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Image:
		if entering {
			data := map[string]string{"src": string(n.Destination)}
			if alt := textOf(n, b.source); alt != "" {
				data["alt"] = alt
			}
			b.append(node.NewVoidInline(node.Image, data))
			return ast.WalkSkipChildren, nil
		}

	case *ast.RawHTML:
		if entering {
			b.onRawText(sanitizeHTML(string(n.Segments.Value(b.source))))
		}

	case *east.TaskCheckBox:
		// 无对应节点类型，复选框降级丢弃

	// --- Tables (degrade to row paragraphs) ---
	case *east.Table:
		if entering {
			b.inTable = true
			b.rows = nil
		} else {
			b.onEndTable()
		}

	case *east.TableHeader, *east.TableRow:
		if entering {
			b.row = nil
		} else {
			b.rows = append(b.rows, b.row)
			b.row = nil
		}

	case *east.TableCell:
		if entering {
			b.inCell = true
			b.cell.Reset()
		} else {
			b.row = append(b.row, b.cell.String())
			b.inCell = false
		}
	}

	return ast.WalkContinue, nil
}

func (b *treeBuilder) onParagraph(entering bool) {
	if b.inListItem() {
		// loose list item 里的多个段落之间补一个软换行
		if entering && len(b.top().children) > 0 {
			b.appendLeaf("\n")
		}
		return
	}
	if entering {
		b.push(node.KindBlock, node.Paragraph, nil)
		return
	}
	f := b.top()
	// 段落唯一内容是 void 行内媒体时，提升为嵌入媒体块
	if len(f.children) == 1 {
		c := f.children[0]
		if c.Kind == node.KindInline && c.Void && c.Type == node.Image {
			b.stack = b.stack[:len(b.stack)-1]
			b.append(node.NewVoidBlock(node.Image, c.Data))
			return
		}
	}
	b.pop()
}

func (b *treeBuilder) onText(n *ast.Text) {
	content := unescapeText(string(n.Segment.Value(b.source)))
	if n.SoftLineBreak() || n.HardLineBreak() {
		content += "\n"
	}
	b.onRawText(content)
}

// onRawText 将纯文本写入当前位置，应用当前 mark 栈
func (b *treeBuilder) onRawText(content string) {
	if content == "" {
		return
	}
	if b.inCell {
		b.cell.WriteString(strings.ReplaceAll(content, "\n", " "))
		return
	}
	b.appendLeaf(content)
}

func (b *treeBuilder) onRawText2(content string, mark string) {
	if content == "" {
		return
	}
	if b.inCell {
		b.cell.WriteString(content)
		return
	}
	b.appendLeaf(content, mark)
}

func (b *treeBuilder) onCodeBlock(n ast.Node) {
	var parts []string
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		parts = append(parts, string(line.Value(b.source)))
	}
	raw := strings.Join(parts, "")
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return
	}
	// 代码块无块级对应类型，降级为携带 code mark 的文本
	Logger.Printf("degrade: code fence flattened to code-marked text (%d bytes)", len(raw))
	b.appendDegraded(raw, node.MarkCode)
}

func (b *treeBuilder) onHTMLBlock(n *ast.HTMLBlock) {
	var parts []string
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		parts = append(parts, string(line.Value(b.source)))
	}
	stripped := sanitizeHTML(strings.Join(parts, ""))
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return
	}
	Logger.Printf("degrade: html block stripped to plain text")
	b.appendDegraded(stripped)
}

func (b *treeBuilder) onEndTable() {
	b.inTable = false
	Logger.Printf("degrade: table flattened to %d text rows", len(b.rows))
	for _, row := range b.rows {
		joined := strings.TrimSpace(strings.Join(row, " | "))
		if joined == "" {
			continue
		}
		b.appendDegraded(joined)
	}
	b.rows = nil
}

// --- Utilities ---

func extractCodeSpanText(n *ast.CodeSpan, source []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if textNode, ok := c.(*ast.Text); ok {
			_, _ = buf.Write(textNode.Segment.Value(source))
		}
	}
	return buf.String()
}

// textOf 收集子树中所有文本叶子的内容（用于图片 alt）
func textOf(n ast.Node, source []byte) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			_, _ = buf.Write(t.Segment.Value(source))
		case *ast.String:
			_, _ = buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// unescapeText 还原反斜杠转义和 HTML 实体。
// goldmark 的 Text segment 保留原文，转义处理属于渲染阶段。
func unescapeText(s string) string {
	if !strings.ContainsAny(s, "\\&") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isPunct(s[i+1]) {
			buf.WriteByte(s[i+1])
			i++
			continue
		}
		buf.WriteByte(s[i])
	}
	return html.UnescapeString(buf.String())
}

func isPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

func sanitizeHTML(s string) string {
	return html.UnescapeString(htmlPolicy.Sanitize(s))
}
