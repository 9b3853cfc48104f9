package node

// Path 自文档根开始的子节点索引序列。
// 第一个索引定位顶层块，其余索引逐层定位 Children。
type Path []int

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Parent returns the path without its last index.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Last returns the final index of the path.
func (p Path) Last() int {
	return p[len(p)-1]
}

// Child returns the path extended by one index.
func (p Path) Child(i int) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, i)
}

// Equal reports whether two paths are identical.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is an ancestor-or-self path of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// ComparePaths 按文档顺序比较两条路径：-1 表示 a 在前
func ComparePaths(a, b Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Point 是文档中的一个位置：文本叶子路径 + 叶内 rune 偏移
type Point struct {
	Path   Path
	Offset int
}

// ComparePoints 按文档顺序比较两个位置
func ComparePoints(a, b Point) int {
	if c := ComparePaths(a.Path, b.Path); c != 0 {
		return c
	}
	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	default:
		return 0
	}
}

// Selection 是 anchor/focus 表示的文档范围。
// anchor==focus 时为光标（collapsed）；Focused 为 false 时编辑器失焦。
type Selection struct {
	Anchor  Point
	Focus   Point
	Focused bool
}

// Collapsed reports whether the selection is a caret.
func (s Selection) Collapsed() bool {
	return s.Anchor.Path.Equal(s.Focus.Path) && s.Anchor.Offset == s.Focus.Offset
}

// Blurred reports whether the editor has no focus.
func (s Selection) Blurred() bool {
	return !s.Focused
}

// Ordered 返回按文档顺序排列的 (start, end)
func (s Selection) Ordered() (Point, Point) {
	if ComparePoints(s.Anchor, s.Focus) <= 0 {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}

// Collapse 返回收拢到 p 的选区
func Collapse(p Point) Selection {
	return Selection{Anchor: p, Focus: p, Focused: true}
}
