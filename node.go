package editcore

import (
	"github.com/riverfjs/editcore-go/internal/node"
	"github.com/riverfjs/editcore-go/internal/transform"
)

// 导出类型别名
type Node = node.Node
type Document = node.Document
type Kind = node.Kind
type Path = node.Path
type Point = node.Point
type Selection = node.Selection
type State = transform.State
type Token = transform.Token

// 节点形态
const (
	KindBlock  = node.KindBlock
	KindInline = node.KindInline
	KindText   = node.KindText
)

// 块级类型
const (
	Paragraph      = node.Paragraph
	HeadingOne     = node.HeadingOne
	HeadingTwo     = node.HeadingTwo
	HeadingThree   = node.HeadingThree
	HeadingFour    = node.HeadingFour
	HeadingFive    = node.HeadingFive
	HeadingSix     = node.HeadingSix
	UnorderedList  = node.UnorderedList
	OrderedList    = node.OrderedList
	ListItem       = node.ListItem
	HorizontalRule = node.HorizontalRule
	Image          = node.Image
	Link           = node.Link

	// DefaultBlockType 是"空行"块类型
	DefaultBlockType = node.DefaultBlockType
)

// Marks
const (
	MarkBold          = node.MarkBold
	MarkItalic        = node.MarkItalic
	MarkCode          = node.MarkCode
	MarkStrikethrough = node.MarkStrikethrough
)

// 节点构造
var (
	NewText       = node.NewText
	NewBlock      = node.NewBlock
	NewVoidBlock  = node.NewVoidBlock
	NewInline     = node.NewInline
	NewVoidInline = node.NewVoidInline
)

// 结构查询与等价
var (
	DocumentEqual = node.Equal
	NodeEqual     = node.NodeEqual
	Collapse      = node.Collapse
	DocumentStart = node.Start
	DocumentEnd   = node.End
)
