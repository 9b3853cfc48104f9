package node

// MergeLeaves 归一化文本叶子：合并 mark 集合相同的相邻叶子，
// 丢弃多余的空叶子。mark 切换会在边界拆分叶子，本步骤保证
// 往返切换后的树与原树结构等价。
func MergeLeaves(d Document) Document {
	blocks := make([]Node, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = mergeNodeLeaves(b)
	}
	return Document{Blocks: blocks}
}

func mergeNodeLeaves(n Node) Node {
	if n.Kind == KindText || n.Void || len(n.Children) == 0 {
		return n
	}
	children := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		c = mergeNodeLeaves(c)
		if c.Kind == KindText {
			if c.Text == "" {
				continue
			}
			if len(children) > 0 {
				last := children[len(children)-1]
				if last.Kind == KindText && last.SameMarks(c) {
					children[len(children)-1] = last.WithText(last.Text + c.Text)
					continue
				}
			}
		}
		children = append(children, c)
	}
	// 非 void 节点至少保留一个文本叶子
	if len(children) == 0 {
		children = append(children, NewText(""))
	}
	return n.WithChildren(children)
}

// EnsureTrailingDefault 保证文档以一个非 void 的默认类型块收尾。
// 返回文档和是否追加了新块。
func EnsureTrailingDefault(d Document) (Document, bool) {
	if len(d.Blocks) == 0 {
		return Document{Blocks: []Node{NewBlock(DefaultBlockType)}}, true
	}
	last := d.Blocks[len(d.Blocks)-1]
	if !last.Void && last.Type == DefaultBlockType {
		return d, false
	}
	blocks := make([]Node, 0, len(d.Blocks)+1)
	blocks = append(blocks, d.Blocks...)
	blocks = append(blocks, NewBlock(DefaultBlockType))
	return Document{Blocks: blocks}, true
}
