package transform

import (
	"github.com/riverfjs/editcore-go/internal/node"
)

// SetBlockType 切换选中块的类型。
//
// 非列表目标：当前块已处于请求的激活样式时，重置为默认类型并解开
// 外层列表包装；否则直接设置块类型。
//
// 列表目标（unordered-list / ordered-list）：
//   - 已在请求的列表类型内 → 重置为默认类型并退出该列表一层；
//   - 在另一种列表内 → 解开原列表、包进请求的列表（换列表种类，不嵌套）;
//   - 不在任何列表内 → 块设为 list-item 并包进请求的列表。
func SetBlockType(s State, typ string, active bool, isList bool) State {
	if isList {
		return setListType(s, typ)
	}
	paths := selectedBlockPaths(s)
	if len(paths) == 0 {
		return s
	}
	if !active {
		doc := s.Doc
		for _, p := range paths {
			doc = setTypeAt(doc, p, typ)
		}
		return reanchor(doc, s)
	}
	// 激活状态再次触发：重置为默认并退出可能存在的列表
	for _, listType := range []string{node.UnorderedList, node.OrderedList} {
		if _, _, ok := node.AncestorOfType(s.Doc, paths[0], listType); ok {
			return liftFromList(s, paths, listType)
		}
	}
	doc := s.Doc
	for _, p := range paths {
		doc = setTypeAt(doc, p, node.DefaultBlockType)
	}
	return reanchor(doc, s)
}

func setListType(s State, listType string) State {
	paths := selectedBlockPaths(s)
	if len(paths) == 0 {
		return s
	}
	if _, _, ok := node.AncestorOfType(s.Doc, paths[0], listType); ok {
		// 已在目标列表内：退出
		return liftFromList(s, paths, listType)
	}
	other := node.OtherListType(listType)
	if _, _, ok := node.AncestorOfType(s.Doc, paths[0], other); ok {
		// 换列表种类：解开原包装后重新包装，避免双层嵌套
		return relistItems(s, paths, other, listType)
	}
	return wrapInList(s, paths, listType)
}

// liftFromList 把选中项移出最近一层 listType 列表并重置为默认类型。
// 列表中未选中的前后项保留在拆分出的列表里。
func liftFromList(s State, paths []node.Path, listType string) State {
	listPath, list, ok := node.AncestorOfType(s.Doc, paths[0], listType)
	if !ok {
		return s
	}
	i0, i1, ok := childSpan(listPath, paths, len(list.Children))
	if !ok {
		return s
	}

	var repl []node.Node
	if i0 > 0 {
		repl = append(repl, list.WithChildren(append([]node.Node(nil), list.Children[:i0]...)))
	}
	for _, item := range list.Children[i0 : i1+1] {
		repl = append(repl, item.WithType(node.DefaultBlockType))
	}
	if i1+1 < len(list.Children) {
		repl = append(repl, node.NewBlock(listType, list.Children[i1+1:]...))
	}

	doc := node.ReplaceRange(s.Doc, listPath.Parent(), listPath.Last(), listPath.Last()+1, repl)
	return reanchor(doc, s)
}

// relistItems 将选中项从 fromType 列表移入新的 toType 列表
func relistItems(s State, paths []node.Path, fromType, toType string) State {
	listPath, list, ok := node.AncestorOfType(s.Doc, paths[0], fromType)
	if !ok {
		return s
	}
	i0, i1, ok := childSpan(listPath, paths, len(list.Children))
	if !ok {
		return s
	}

	var repl []node.Node
	if i0 > 0 {
		repl = append(repl, list.WithChildren(append([]node.Node(nil), list.Children[:i0]...)))
	}
	repl = append(repl, node.NewBlock(toType, list.Children[i0:i1+1]...))
	if i1+1 < len(list.Children) {
		repl = append(repl, node.NewBlock(fromType, list.Children[i1+1:]...))
	}

	doc := node.ReplaceRange(s.Doc, listPath.Parent(), listPath.Last(), listPath.Last()+1, repl)
	return reanchor(doc, s)
}

// wrapInList 把选中的兄弟块设为 list-item 并包进新列表
func wrapInList(s State, paths []node.Path, listType string) State {
	parent := paths[0].Parent()
	parentLen := 0
	if len(parent) > 0 {
		n, ok := node.Get(s.Doc, parent)
		if !ok {
			return s
		}
		parentLen = len(n.Children)
	} else {
		parentLen = len(s.Doc.Blocks)
	}
	i0, i1, ok := childSpan(parent, paths, parentLen)
	if !ok {
		return s
	}

	var items []node.Node
	for i := i0; i <= i1; i++ {
		blk, ok := node.Get(s.Doc, parent.Child(i))
		if !ok {
			return s
		}
		if blk.Void {
			items = append(items, blk)
			continue
		}
		items = append(items, blk.WithType(node.ListItem))
	}
	list := node.NewBlock(listType, items...)
	doc := node.ReplaceRange(s.Doc, parent, i0, i1+1, []node.Node{list})
	return reanchor(doc, s)
}

// childSpan 求选中块在共同父节点下的连续索引区间。
// 块不在该父节点下或区间非法时返回 false（操作退化为 no-op）。
func childSpan(parent node.Path, paths []node.Path, parentLen int) (int, int, bool) {
	i0, i1 := parentLen, -1
	for _, p := range paths {
		if len(p) != len(parent)+1 || !p.HasPrefix(parent) {
			return 0, 0, false
		}
		i := p.Last()
		if i < i0 {
			i0 = i
		}
		if i > i1 {
			i1 = i
		}
	}
	if i0 > i1 || i1 >= parentLen {
		return 0, 0, false
	}
	return i0, i1, true
}

// selectedBlockPaths 返回与选区相交的最深块级节点路径，按文档顺序去重
func selectedBlockPaths(s State) []node.Path {
	start, end := s.Sel.Ordered()
	leaves := node.CoveredLeaves(s.Doc, start, end)
	var out []node.Path
	for _, lr := range leaves {
		bp, _, ok := node.ClosestBlock(s.Doc, lr.Path)
		if !ok {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Equal(bp) {
			continue
		}
		out = append(out, bp)
	}
	return out
}

func setTypeAt(doc node.Document, p node.Path, typ string) node.Document {
	n, ok := node.Get(doc, p)
	if !ok {
		return doc
	}
	return node.Replace(doc, p, n.WithType(typ))
}

// reanchor 结构变换后按叶子 Key 重新定位选区；
// 叶子不复存在时收拢到文档起始
func reanchor(doc node.Document, s State) State {
	sel := s.Sel
	anchorLeaf, aok := node.Get(s.Doc, s.Sel.Anchor.Path)
	focusLeaf, fok := node.Get(s.Doc, s.Sel.Focus.Path)
	if aok {
		if p, ok := node.FindByKey(doc, anchorLeaf.Key); ok {
			sel.Anchor = node.Point{Path: p, Offset: s.Sel.Anchor.Offset}
		} else {
			aok = false
		}
	}
	if fok {
		if p, ok := node.FindByKey(doc, focusLeaf.Key); ok {
			sel.Focus = node.Point{Path: p, Offset: s.Sel.Focus.Offset}
		} else {
			fok = false
		}
	}
	if !aok || !fok {
		sel = node.Collapse(node.Start(doc))
		sel.Focused = s.Sel.Focused
	}
	return State{Doc: doc, Sel: sel}
}
