package transform

import (
	"strings"

	"github.com/riverfjs/editcore-go/internal/node"
)

// InsertVoidBlock 在当前位置插入原子块（分隔线、嵌入媒体）。
// 当前块是空的默认块时直接替换，否则插在其后。
// 随后执行尾部归一化（FocusTrailingParagraph）。
func InsertVoidBlock(s State, typ string, data map[string]string) State {
	doc := s.Doc
	if len(doc.Blocks) == 0 {
		doc = node.NewDocument()
	}

	idx := len(doc.Blocks) - 1
	start, _ := s.Sel.Ordered()
	if len(start.Path) > 0 && start.Path[0] >= 0 && start.Path[0] < len(doc.Blocks) {
		idx = start.Path[0]
	}

	vb := node.NewVoidBlock(typ, data)
	target := doc.Blocks[idx]
	if isEmptyDefault(target) {
		doc = node.ReplaceRange(doc, nil, idx, idx+1, []node.Node{vb})
	} else {
		doc = node.ReplaceRange(doc, nil, idx+1, idx+1, []node.Node{vb})
	}
	return FocusTrailingParagraph(State{Doc: doc, Sel: s.Sel})
}

// FocusTrailingParagraph 定位最后一个顶层块，保证其为可编辑的默认类型块，
// 并把焦点放到它的末尾。void 块因此永远不会是文档的最后一个节点。
func FocusTrailingParagraph(s State) State {
	doc := s.Doc
	last := len(doc.Blocks) - 1
	if last < 0 || doc.Blocks[last].Void || doc.Blocks[last].Type != node.DefaultBlockType {
		doc, _ = node.EnsureTrailingDefault(doc)
		last = len(doc.Blocks) - 1
	}
	leafPath, ok := node.LastLeaf(doc, node.Path{last})
	if !ok {
		return State{Doc: doc, Sel: s.Sel}
	}
	leaf, _ := node.Get(doc, leafPath)
	return State{Doc: doc, Sel: node.Collapse(node.Point{Path: leafPath, Offset: leaf.TextLen()})}
}

// InsertVoidInline 在光标处插入原子行内节点，随后插入一个默认类型块
// 并把焦点移到新块起始处。
func InsertVoidInline(s State, typ string, data map[string]string) State {
	start, _ := s.Sel.Ordered()
	blockPath, block, ok := node.ClosestBlock(s.Doc, start.Path)
	if !ok {
		return s
	}

	vi := node.NewVoidInline(typ, data)
	depth := len(blockPath)
	if len(start.Path) <= depth {
		return s
	}
	ci := start.Path[depth]
	if ci < 0 || ci >= len(block.Children) {
		return s
	}
	children := append([]node.Node(nil), block.Children...)

	if len(start.Path) == depth+1 && children[ci].Kind == node.KindText {
		// 光标在直接子叶子内：按偏移拆分后插入
		leaf := children[ci]
		runes := []rune(leaf.Text)
		off := start.Offset
		if off < 0 {
			off = 0
		}
		if off > len(runes) {
			off = len(runes)
		}
		a := node.NewText(string(runes[:off]), leaf.Marks...)
		b := node.NewText(string(runes[off:]), leaf.Marks...)
		children = splice(children, ci, ci+1, a, vi, b)
	} else {
		children = splice(children, ci+1, ci+1, vi)
	}

	doc := node.Replace(s.Doc, blockPath, block.WithChildren(children))
	doc = node.MergeLeaves(doc)

	// 后插默认块并聚焦其起始
	topIdx := blockPath[0]
	para := node.NewBlock(node.DefaultBlockType)
	doc = node.ReplaceRange(doc, nil, topIdx+1, topIdx+1, []node.Node{para})
	leafPath, ok := node.FirstLeaf(doc, node.Path{topIdx + 1})
	if !ok {
		return State{Doc: doc, Sel: node.Collapse(node.Start(doc))}
	}
	return State{Doc: doc, Sel: node.Collapse(node.Point{Path: leafPath, Offset: 0})}
}

// InsertSoftBreak 在当前块内插入字面换行，不拆分出新块。
// 标题行的标记形式是单行语法，装不下字面换行，拒绝为 no-op。
// 返回的 Token 供协调器吞掉随之而来的一次瞬态通知。
func InsertSoftBreak(s State) (State, Token) {
	start, _ := s.Sel.Ordered()
	leaf, ok := node.Get(s.Doc, start.Path)
	if !ok || leaf.Kind != node.KindText {
		return s, Token{}
	}
	if _, blk, ok := node.ClosestBlock(s.Doc, start.Path); ok && node.HeadingLevel(blk.Type) > 0 {
		return s, Token{}
	}
	runes := []rune(leaf.Text)
	off := start.Offset
	if off < 0 {
		off = 0
	}
	if off > len(runes) {
		off = len(runes)
	}
	var b strings.Builder
	b.WriteString(string(runes[:off]))
	b.WriteString("\n")
	b.WriteString(string(runes[off:]))

	doc := node.Replace(s.Doc, start.Path, leaf.WithText(b.String()))
	sel := node.Collapse(node.Point{Path: start.Path, Offset: off + 1})
	return State{Doc: doc, Sel: sel}, newToken()
}

func isEmptyDefault(n node.Node) bool {
	return !n.Void && n.Type == node.DefaultBlockType && n.PlainText() == ""
}
