package node

// Get 返回路径指向的节点
func Get(d Document, p Path) (Node, bool) {
	if len(p) == 0 {
		return Node{}, false
	}
	if p[0] < 0 || p[0] >= len(d.Blocks) {
		return Node{}, false
	}
	n := d.Blocks[p[0]]
	for _, i := range p[1:] {
		if i < 0 || i >= len(n.Children) {
			return Node{}, false
		}
		n = n.Children[i]
	}
	return n, true
}

// Replace 返回将路径处节点替换后的新文档
func Replace(d Document, p Path, n Node) Document {
	return ReplaceRange(d, p.Parent(), p.Last(), p.Last()+1, []Node{n})
}

// ReplaceRange 将 parent 路径节点的 children[i:j] 替换为 repl，
// parent 为空路径时操作顶层块。i==j 表示插入，repl 为空表示删除。
// 沿路径重建节点，未触及的兄弟子树原样共享。
func ReplaceRange(d Document, parent Path, i, j int, repl []Node) Document {
	if len(parent) == 0 {
		blocks := spliceNodes(d.Blocks, i, j, repl)
		return Document{Blocks: blocks}
	}
	n, ok := Get(d, parent)
	if !ok {
		return d
	}
	n = n.WithChildren(spliceNodes(n.Children, i, j, repl))
	return Replace(d, parent, n)
}

func spliceNodes(nodes []Node, i, j int, repl []Node) []Node {
	if i < 0 {
		i = 0
	}
	if j > len(nodes) {
		j = len(nodes)
	}
	if i > j {
		i = j
	}
	out := make([]Node, 0, len(nodes)-(j-i)+len(repl))
	out = append(out, nodes[:i]...)
	out = append(out, repl...)
	out = append(out, nodes[j:]...)
	return out
}

// ClosestBlock 返回包含路径的最深块级祖先（含自身）
func ClosestBlock(d Document, p Path) (Path, Node, bool) {
	for l := len(p); l >= 1; l-- {
		prefix := p[:l].Clone()
		n, ok := Get(d, prefix)
		if ok && n.Kind == KindBlock {
			return prefix, n, true
		}
	}
	return nil, Node{}, false
}

// AncestorOfType 返回路径的第一个指定类型祖先（不含自身，自内向外查找）
func AncestorOfType(d Document, p Path, typ string) (Path, Node, bool) {
	for l := len(p) - 1; l >= 1; l-- {
		prefix := p[:l].Clone()
		n, ok := Get(d, prefix)
		if ok && n.Type == typ {
			return prefix, n, true
		}
	}
	return nil, Node{}, false
}

// InlineAncestorOfType 同 AncestorOfType，但只匹配行内节点
func InlineAncestorOfType(d Document, p Path, typ string) (Path, Node, bool) {
	for l := len(p) - 1; l >= 1; l-- {
		prefix := p[:l].Clone()
		n, ok := Get(d, prefix)
		if ok && n.Kind == KindInline && n.Type == typ {
			return prefix, n, true
		}
	}
	return nil, Node{}, false
}

// LeafPaths 返回文档所有文本叶子的路径，按文档顺序
func LeafPaths(d Document) []Path {
	var out []Path
	for i, b := range d.Blocks {
		collectLeafPaths(b, Path{i}, &out)
	}
	return out
}

func collectLeafPaths(n Node, p Path, out *[]Path) {
	if n.Kind == KindText {
		*out = append(*out, p)
		return
	}
	if n.Void {
		return
	}
	for i, c := range n.Children {
		collectLeafPaths(c, p.Child(i), out)
	}
}

// FirstLeaf 返回路径子树中第一个文本叶子的路径
func FirstLeaf(d Document, p Path) (Path, bool) {
	n, ok := Get(d, p)
	if !ok {
		return nil, false
	}
	var out []Path
	collectLeafPaths(n, p, &out)
	if len(out) == 0 {
		return nil, false
	}
	return out[0], true
}

// LastLeaf 返回路径子树中最后一个文本叶子的路径
func LastLeaf(d Document, p Path) (Path, bool) {
	n, ok := Get(d, p)
	if !ok {
		return nil, false
	}
	var out []Path
	collectLeafPaths(n, p, &out)
	if len(out) == 0 {
		return nil, false
	}
	return out[len(out)-1], true
}

// Start 返回文档起始位置
func Start(d Document) Point {
	paths := LeafPaths(d)
	if len(paths) == 0 {
		return Point{}
	}
	return Point{Path: paths[0], Offset: 0}
}

// End 返回文档末尾位置
func End(d Document) Point {
	paths := LeafPaths(d)
	if len(paths) == 0 {
		return Point{}
	}
	last := paths[len(paths)-1]
	leaf, _ := Get(d, last)
	return Point{Path: last, Offset: leaf.TextLen()}
}

// FindByKey 按稳定 Key 定位节点。Key 在快照之间保持不变，
// 结构变换后可据此重新定位选区锚点。
func FindByKey(d Document, key string) (Path, bool) {
	for i, b := range d.Blocks {
		if p, ok := findKeyIn(b, Path{i}, key); ok {
			return p, true
		}
	}
	return nil, false
}

func findKeyIn(n Node, p Path, key string) (Path, bool) {
	if n.Key == key {
		return p, true
	}
	for i, c := range n.Children {
		if found, ok := findKeyIn(c, p.Child(i), key); ok {
			return found, true
		}
	}
	return nil, false
}

// LeafRange 描述选区覆盖的一个文本叶子片段，偏移以 rune 计
type LeafRange struct {
	Path Path
	From int
	To   int
}

// CoveredLeaves 返回 [start, end] 范围覆盖的叶子片段，按文档顺序。
// 范围外的叶子不出现；边界叶子给出部分覆盖的 From/To。
func CoveredLeaves(d Document, start, end Point) []LeafRange {
	if ComparePoints(start, end) > 0 {
		start, end = end, start
	}
	var out []LeafRange
	for _, p := range LeafPaths(d) {
		if ComparePaths(p, start.Path) < 0 || ComparePaths(p, end.Path) > 0 {
			continue
		}
		leaf, _ := Get(d, p)
		from, to := 0, leaf.TextLen()
		if p.Equal(start.Path) {
			from = start.Offset
		}
		if p.Equal(end.Path) {
			to = end.Offset
		}
		if from > to {
			from = to
		}
		out = append(out, LeafRange{Path: p, From: from, To: to})
	}
	return out
}

// DocOffset 将位置映射为整篇文本中的 rune 偏移。
// 叶子按文档顺序串接，顶层块之间计 1 个换行，与 PlainText 对齐。
func DocOffset(d Document, pt Point) int {
	off := 0
	for i, b := range d.Blocks {
		if i > 0 {
			off++
		}
		inBlock, done := blockOffset(b, Path{i}, pt)
		off += inBlock
		if done {
			return off
		}
	}
	return off
}

func blockOffset(n Node, p Path, pt Point) (int, bool) {
	if n.Kind == KindText {
		if p.Equal(pt.Path) {
			o := pt.Offset
			if l := n.TextLen(); o > l {
				o = l
			}
			return o, true
		}
		return n.TextLen(), false
	}
	if n.Void {
		return 0, p.Equal(pt.Path)
	}
	total := 0
	for i, c := range n.Children {
		inChild, done := blockOffset(c, p.Child(i), pt)
		total += inChild
		if done {
			return total, true
		}
	}
	return total, false
}

// PointAtOffset 是 DocOffset 的逆映射，偏移越界时收拢到文档两端
func PointAtOffset(d Document, off int) Point {
	if off < 0 {
		return Start(d)
	}
	cur := 0
	var lastLeaf Path
	var lastLen int
	for i, b := range d.Blocks {
		if i > 0 {
			cur++
		}
		for _, p := range leafPathsOf(b, Path{i}) {
			leaf, _ := Get(d, p)
			l := leaf.TextLen()
			if off <= cur+l {
				return Point{Path: p, Offset: off - cur}
			}
			cur += l
			lastLeaf = p
			lastLen = l
		}
	}
	if lastLeaf == nil {
		return Start(d)
	}
	return Point{Path: lastLeaf, Offset: lastLen}
}

func leafPathsOf(n Node, p Path) []Path {
	var out []Path
	collectLeafPaths(n, p, &out)
	return out
}
