package transform

import (
	"github.com/riverfjs/editcore-go/internal/node"
)

// ToggleMark 切换选中文本上的 mark。
// 选区覆盖的叶子全部携带该 mark 时移除，否则全部添加（标准 toggle 语义）。
// 光标选区视为空，no-op。
func ToggleMark(s State, mark string) State {
	if mark == "" || s.Sel.Collapsed() {
		return s
	}
	start, end := s.Sel.Ordered()
	var covered []node.LeafRange
	for _, lr := range node.CoveredLeaves(s.Doc, start, end) {
		if lr.To > lr.From {
			covered = append(covered, lr)
		}
	}
	if len(covered) == 0 {
		return s
	}

	add := false
	for _, lr := range covered {
		leaf, ok := node.Get(s.Doc, lr.Path)
		if !ok {
			return s
		}
		if !leaf.HasMark(mark) {
			add = true
			break
		}
	}

	// 文本内容不变，先记录锚点的绝对偏移，重建后再投影回去
	anchorOff := node.DocOffset(s.Doc, s.Sel.Anchor)
	focusOff := node.DocOffset(s.Doc, s.Sel.Focus)

	doc := s.Doc
	// 逆序处理，避免边界拆分使后续路径失效
	for i := len(covered) - 1; i >= 0; i-- {
		lr := covered[i]
		leaf, _ := node.Get(doc, lr.Path)
		doc = replaceCovered(doc, lr, leaf, mark, add)
	}
	doc = node.MergeLeaves(doc)

	sel := node.Selection{
		Anchor:  node.PointAtOffset(doc, anchorOff),
		Focus:   node.PointAtOffset(doc, focusOff),
		Focused: s.Sel.Focused,
	}
	return State{Doc: doc, Sel: sel}
}

// replaceCovered 将叶子的覆盖区间拆出并切换 mark，未覆盖部分保持原样
func replaceCovered(doc node.Document, lr node.LeafRange, leaf node.Node, mark string, add bool) node.Document {
	runes := []rune(leaf.Text)
	from, to := lr.From, lr.To
	if to > len(runes) {
		to = len(runes)
	}

	var segs []node.Node
	if from > 0 {
		segs = append(segs, node.NewText(string(runes[:from]), leaf.Marks...))
	}
	mid := node.NewText(string(runes[from:to]), leaf.Marks...)
	if add {
		mid = mid.AddMark(mark)
	} else {
		mid = mid.RemoveMark(mark)
	}
	segs = append(segs, mid)
	if to < len(runes) {
		segs = append(segs, node.NewText(string(runes[to:]), leaf.Marks...))
	}

	return node.ReplaceRange(doc, lr.Path.Parent(), lr.Path.Last(), lr.Path.Last()+1, segs)
}

// WrapInline 将选中文本包进一个行内节点（如链接）并把选区收拢到其末尾。
// 光标选区无法建立行内标注，no-op。选区限定在起点所在块内。
func WrapInline(s State, typ string, data map[string]string) State {
	if s.Sel.Collapsed() {
		return s
	}
	start, end := s.Sel.Ordered()
	blockPath, block, ok := node.ClosestBlock(s.Doc, start.Path)
	if !ok {
		return s
	}
	// 终点越出块时收拢到块末
	if !end.Path.HasPrefix(blockPath) {
		lastLeaf, ok := node.LastLeaf(s.Doc, blockPath)
		if !ok {
			return s
		}
		leaf, _ := node.Get(s.Doc, lastLeaf)
		end = node.Point{Path: lastLeaf, Offset: leaf.TextLen()}
	}

	depth := len(blockPath)
	if len(start.Path) <= depth || len(end.Path) <= depth {
		return s
	}
	si := start.Path[depth]
	ei := end.Path[depth]
	children := append([]node.Node(nil), block.Children...)

	// 先拆终点叶子，再拆起点叶子，避免索引互相干扰
	if len(end.Path) == depth+1 {
		leaf := children[ei]
		runes := []rune(leaf.Text)
		switch {
		case end.Offset <= 0:
			ei--
		case end.Offset < len(runes):
			a := node.NewText(string(runes[:end.Offset]), leaf.Marks...)
			b := node.NewText(string(runes[end.Offset:]), leaf.Marks...)
			children = splice(children, ei, ei+1, a, b)
		}
	}
	if len(start.Path) == depth+1 && start.Offset > 0 {
		leaf := children[si]
		runes := []rune(leaf.Text)
		if start.Offset >= len(runes) {
			si++
		} else {
			a := node.NewText(string(runes[:start.Offset]), leaf.Marks...)
			b := node.NewText(string(runes[start.Offset:]), leaf.Marks...)
			children = splice(children, si, si+1, a, b)
			si++
			ei++
		}
	}
	if si > ei || si < 0 || ei >= len(children) {
		return s
	}

	wrapped := node.NewInline(typ, data, children[si:ei+1]...)
	doc := node.Replace(s.Doc, blockPath, block.WithChildren(splice(children, si, ei+1, wrapped)))
	doc = node.MergeLeaves(doc)

	// 选区收拢到新行内节点末尾
	inlinePath, ok := node.FindByKey(doc, wrapped.Key)
	if !ok {
		return State{Doc: doc, Sel: node.Collapse(node.Start(doc))}
	}
	lastLeaf, ok := node.LastLeaf(doc, inlinePath)
	if !ok {
		return State{Doc: doc, Sel: node.Collapse(node.Start(doc))}
	}
	leaf, _ := node.Get(doc, lastLeaf)
	return State{Doc: doc, Sel: node.Collapse(node.Point{Path: lastLeaf, Offset: leaf.TextLen()})}
}

// UnwrapInline 移除选区处的行内标注，其内容就地展开
func UnwrapInline(s State, typ string) State {
	start, _ := s.Sel.Ordered()
	p, n, ok := node.InlineAncestorOfType(s.Doc, start.Path, typ)
	if !ok {
		return s
	}
	anchorOff := node.DocOffset(s.Doc, s.Sel.Anchor)
	focusOff := node.DocOffset(s.Doc, s.Sel.Focus)

	doc := node.ReplaceRange(s.Doc, p.Parent(), p.Last(), p.Last()+1, n.Children)
	doc = node.MergeLeaves(doc)

	sel := node.Selection{
		Anchor:  node.PointAtOffset(doc, anchorOff),
		Focus:   node.PointAtOffset(doc, focusOff),
		Focused: s.Sel.Focused,
	}
	return State{Doc: doc, Sel: sel}
}

func splice(nodes []node.Node, i, j int, repl ...node.Node) []node.Node {
	out := make([]node.Node, 0, len(nodes)-(j-i)+len(repl))
	out = append(out, nodes[:i]...)
	out = append(out, repl...)
	out = append(out, nodes[j:]...)
	return out
}
