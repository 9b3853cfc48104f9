package node

import (
	"sort"
	"strings"

	"github.com/gofrs/uuid"
)

// Kind 区分文档树节点的三种形态
type Kind int

const (
	// KindBlock 表示段落级结构节点
	KindBlock Kind = iota
	// KindInline 表示嵌套在块内容中的行内节点
	KindInline
	// KindText 表示携带 marks 的文本叶子
	KindText
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// 块级类型
const (
	Paragraph      = "paragraph"
	HeadingOne     = "heading-one"
	HeadingTwo     = "heading-two"
	HeadingThree   = "heading-three"
	HeadingFour    = "heading-four"
	HeadingFive    = "heading-five"
	HeadingSix     = "heading-six"
	UnorderedList  = "unordered-list"
	OrderedList    = "ordered-list"
	ListItem       = "list-item"
	HorizontalRule = "horizontal-rule"
	Image          = "image"
)

// 行内类型
const (
	Link = "link"
)

// Marks
const (
	MarkBold          = "bold"
	MarkItalic        = "italic"
	MarkCode          = "code"
	MarkStrikethrough = "strikethrough"
)

// DefaultBlockType 是"空行"块类型：新建文档和尾部归一化都以它收尾
const DefaultBlockType = Paragraph

// Node 是文档树的标签化节点。三种 Kind 共用一个结构体：
// 块和行内节点使用 Type/Void/Children/Data，文本叶子使用 Text/Marks。
//
// 节点不可原地修改；所有结构变更都返回新的子树。
type Node struct {
	// Key 是节点的稳定标识，在快照之间保持不变。
	// 不参与结构相等性比较。
	Key      string
	Kind     Kind
	Type     string
	Void     bool
	Children []Node
	// Marks 保持有序去重，每种 mark 最多出现一次
	Marks []string
	Text  string
	// Data 承载带外属性（链接 href、媒体 src 等）
	Data map[string]string
	// Plugin 是编码阶段打上的插件 id 注解，序列化前会被剥离
	Plugin string
}

func newKey() string {
	return uuid.Must(uuid.NewV4()).String()
}

// NewText 创建文本叶子
func NewText(text string, marks ...string) Node {
	return Node{
		Key:   newKey(),
		Kind:  KindText,
		Text:  text,
		Marks: normalizeMarks(marks),
	}
}

// NewBlock 创建非 void 块节点。没有子节点时自动补一个空文本叶子，
// 保证非 void 节点始终含有可编辑文本。
func NewBlock(typ string, children ...Node) Node {
	if len(children) == 0 {
		children = []Node{NewText("")}
	}
	return Node{
		Key:      newKey(),
		Kind:     KindBlock,
		Type:     typ,
		Children: children,
	}
}

// NewVoidBlock 创建 void 块节点（分隔线、嵌入媒体等）。
// void 节点没有子节点，序列化时走 Data。
func NewVoidBlock(typ string, data map[string]string) Node {
	return Node{
		Key:  newKey(),
		Kind: KindBlock,
		Type: typ,
		Void: true,
		Data: cloneData(data),
	}
}

// NewInline 创建非 void 行内节点
func NewInline(typ string, data map[string]string, children ...Node) Node {
	if len(children) == 0 {
		children = []Node{NewText("")}
	}
	return Node{
		Key:      newKey(),
		Kind:     KindInline,
		Type:     typ,
		Children: children,
		Data:     cloneData(data),
	}
}

// NewVoidInline 创建 void 行内节点
func NewVoidInline(typ string, data map[string]string) Node {
	return Node{
		Key:  newKey(),
		Kind: KindInline,
		Type: typ,
		Void: true,
		Data: cloneData(data),
	}
}

// WithType returns a copy of the node with a different type.
func (n Node) WithType(typ string) Node {
	n.Type = typ
	return n
}

// WithChildren returns a copy of the node with replaced children.
func (n Node) WithChildren(children []Node) Node {
	n.Children = children
	return n
}

// WithText returns a copy of the leaf with replaced text.
func (n Node) WithText(text string) Node {
	n.Text = text
	return n
}

// HasMark reports whether the leaf carries the given mark.
func (n Node) HasMark(mark string) bool {
	for _, m := range n.Marks {
		if m == mark {
			return true
		}
	}
	return false
}

// AddMark returns a copy of the leaf with the mark added.
func (n Node) AddMark(mark string) Node {
	if n.HasMark(mark) {
		return n
	}
	marks := make([]string, 0, len(n.Marks)+1)
	marks = append(marks, n.Marks...)
	marks = append(marks, mark)
	n.Marks = normalizeMarks(marks)
	return n
}

// RemoveMark returns a copy of the leaf with the mark removed.
func (n Node) RemoveMark(mark string) Node {
	if !n.HasMark(mark) {
		return n
	}
	marks := make([]string, 0, len(n.Marks))
	for _, m := range n.Marks {
		if m != mark {
			marks = append(marks, m)
		}
	}
	n.Marks = marks
	return n
}

// SameMarks reports whether two leaves carry an identical mark set.
func (n Node) SameMarks(other Node) bool {
	if len(n.Marks) != len(other.Marks) {
		return false
	}
	for i := range n.Marks {
		if n.Marks[i] != other.Marks[i] {
			return false
		}
	}
	return true
}

// PlainText 提取节点子树的文本内容，void 节点视为空
func (n Node) PlainText() string {
	if n.Void {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.PlainText())
	}
	return b.String()
}

// TextLen 返回子树文本的 rune 数
func (n Node) TextLen() int {
	count := 0
	if n.Kind == KindText {
		for range n.Text {
			count++
		}
		return count
	}
	if n.Void {
		return 0
	}
	for _, c := range n.Children {
		count += c.TextLen()
	}
	return count
}

// Document 是有序的顶层块序列
type Document struct {
	Blocks []Node
}

// NewDocument 创建空文档：单个空的默认块
func NewDocument() Document {
	return Document{Blocks: []Node{NewBlock(DefaultBlockType)}}
}

// PlainText 提取整个文档的文本，块之间以换行分隔
func (d Document) PlainText() string {
	parts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		parts = append(parts, b.PlainText())
	}
	return strings.Join(parts, "\n")
}

// Equal 判断两棵文档树是否结构等价。
// 比较 {kind, type, void, data, marks, text}，忽略 Key 和插件注解。
func Equal(a, b Document) bool {
	if len(a.Blocks) != len(b.Blocks) {
		return false
	}
	for i := range a.Blocks {
		if !NodeEqual(a.Blocks[i], b.Blocks[i]) {
			return false
		}
	}
	return true
}

// NodeEqual 判断两个节点子树是否结构等价
func NodeEqual(a, b Node) bool {
	if a.Kind != b.Kind || a.Type != b.Type || a.Void != b.Void || a.Text != b.Text {
		return false
	}
	if !a.SameMarks(b) {
		return false
	}
	if len(a.Data) != len(b.Data) {
		return false
	}
	for k, v := range a.Data {
		if b.Data[k] != v {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !NodeEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func normalizeMarks(marks []string) []string {
	if len(marks) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(marks))
	out := make([]string, 0, len(marks))
	for _, m := range marks {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func cloneData(data map[string]string) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

// CloneData 返回节点 Data 的副本，供需要修改副本的调用方使用
func (n Node) CloneData() map[string]string {
	return cloneData(n.Data)
}

// HeadingTypes 按级别索引标题类型，level 1..6
var HeadingTypes = [...]string{HeadingOne, HeadingTwo, HeadingThree, HeadingFour, HeadingFive, HeadingSix}

// HeadingLevel returns the 1-based heading level, or 0 if typ is not a heading.
func HeadingLevel(typ string) int {
	for i, t := range HeadingTypes {
		if t == typ {
			return i + 1
		}
	}
	return 0
}

// IsListType reports whether typ is one of the list wrapper types.
func IsListType(typ string) bool {
	return typ == UnorderedList || typ == OrderedList
}

// OtherListType returns the opposite list wrapper type.
func OtherListType(typ string) string {
	if typ == UnorderedList {
		return OrderedList
	}
	return UnorderedList
}
