package markup

import (
	"fmt"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/riverfjs/editcore-go/internal/node"
)

// Serialize 将节点树渲染为标记文本，Parse 的逆操作。
// 先剥离插件注解，再逐块渲染；块之间以空行分隔。
func (c *Codec) Serialize(d node.Document) string {
	d = DecodePlugins(d)
	r := &renderer{sym: c.cfg.Symbol}

	buf := newTextBuffer()
	for _, blk := range d.Blocks {
		s := r.renderBlock(blk)
		if s == "" {
			continue
		}
		buf.EnsureNewlines(2)
		buf.Write(s)
	}
	return buf.String()
}

type renderer struct {
	sym *Symbol
}

func (r *renderer) renderBlock(n node.Node) string {
	if n.Void {
		return r.renderVoidBlock(n)
	}
	switch {
	case n.Type == node.UnorderedList || n.Type == node.OrderedList:
		return r.renderList(n, 0)
	case node.HeadingLevel(n.Type) > 0:
		prefix := strings.Repeat("#", node.HeadingLevel(n.Type))
		return prefix + " " + r.renderInline(n.Children)
	default:
		// paragraph 以及未注册的插件块类型统一按段落渲染
		return r.escapeBlockStarts(r.renderInline(n.Children))
	}
}

func (r *renderer) renderVoidBlock(n node.Node) string {
	switch n.Type {
	case node.HorizontalRule:
		return r.sym.Rule
	case node.Image:
		return imageSyntax(n.Data["alt"], n.Data["src"])
	default:
		// 插件 void 块：尽力通过 Data 透传
		if src := n.Data["src"]; src != "" {
			return imageSyntax(n.Data["alt"], src)
		}
		return ""
	}
}

// renderList 渲染列表及嵌套列表，depth 控制缩进层级
func (r *renderer) renderList(list node.Node, depth int) string {
	indent := strings.Repeat(r.sym.Indent, depth)
	buf := newTextBuffer()
	num := 0
	for _, item := range list.Children {
		var marker string
		if list.Type == node.OrderedList {
			num++
			marker = fmt.Sprintf("%d%s ", num, r.sym.OrderedDelim)
		} else {
			marker = r.sym.Bullet + " "
		}

		buf.EnsureNewlines(1)
		if item.Void {
			buf.Write(indent + marker + r.renderVoidBlock(item))
			continue
		}

		// 项内行内内容与嵌套块分开渲染
		var inlines []node.Node
		var nested []node.Node
		for _, c := range item.Children {
			if c.Kind == node.KindBlock {
				nested = append(nested, c)
			} else {
				inlines = append(inlines, c)
			}
		}

		buf.Write(indent + marker + r.renderInline(inlines))
		for _, sub := range nested {
			if node.IsListType(sub.Type) {
				buf.EnsureNewlines(1)
				buf.Write(r.renderList(sub, depth+1))
				continue
			}
			// 非列表嵌套块压平为项内续行，内容不丢失
			s := r.renderInline(sub.Children)
			if sub.Void {
				s = r.renderVoidBlock(sub)
			}
			if s != "" {
				buf.Write("\n" + s)
			}
		}
	}
	return buf.String()
}

func (r *renderer) renderInline(nodes []node.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch {
		case n.Kind == node.KindText:
			b.WriteString(r.renderLeaf(n))
		case n.Void && n.Type == node.Image:
			b.WriteString(imageSyntax(n.Data["alt"], n.Data["src"]))
		case n.Type == node.Link:
			b.WriteString(markdown.Link(r.renderInline(n.Children), n.Data["href"]))
		default:
			// 未注册的插件行内类型：渲染其内容
			b.WriteString(r.renderInline(n.Children))
		}
	}
	return b.String()
}

// renderLeaf 渲染文本叶子，按固定嵌套顺序套用 marks：
// code 最内，strikethrough、italic、bold 依次向外。
func (r *renderer) renderLeaf(leaf node.Node) string {
	var t string
	if leaf.HasMark(node.MarkCode) {
		t = codeSpan(leaf.Text)
	} else {
		t = escapeInline(leaf.Text)
	}
	if leaf.HasMark(node.MarkStrikethrough) {
		t = markdown.Strikethrough(t)
	}
	if leaf.HasMark(node.MarkItalic) {
		t = markdown.Italic(t)
	}
	if leaf.HasMark(node.MarkBold) {
		t = markdown.Bold(t)
	}
	return t
}

// imageSyntax 媒体节点的标记形式：图片语法即带 "!" 前缀的链接
func imageSyntax(alt, src string) string {
	return "!" + markdown.Link(alt, src)
}

// codeSpan 渲染行内代码，内容含反引号时加宽围栏
func codeSpan(text string) string {
	if !strings.Contains(text, "`") {
		return markdown.Code(text)
	}
	return "`` " + text + " ``"
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`~`, `\~`,
)

// escapeInline 转义纯文本中的行内标记字符
func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

// escapeBlockStarts 转义段落内每一行开头的块级标记，
// 防止 "- "、"# "、"1. " 等在重新解析时被识别为结构
func (r *renderer) escapeBlockStarts(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = escapeBlockStart(line)
	}
	return strings.Join(lines, "\n")
}

func escapeBlockStart(line string) string {
	if line == "" {
		return line
	}
	// 仅由 - 组成的行会被解析成分隔线
	if len(line) >= 3 && strings.Trim(line, "-") == "" {
		return `\` + line
	}
	switch line[0] {
	case '#', '-', '+', '>':
		if len(line) == 1 || line[1] == ' ' || line[1] == '\t' || line[0] == '>' {
			return `\` + line
		}
	}
	// 有序列表项前缀："1. " / "1) "
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		if i+1 == len(line) || line[i+1] == ' ' {
			return line[:i] + `\` + line[i:]
		}
	}
	return line
}
