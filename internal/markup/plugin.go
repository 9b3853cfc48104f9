package markup

import (
	"github.com/riverfjs/editcore-go/internal/node"
)

// EncodePlugins 第二编码阶段：给注册过的节点类型打上插件 id 注解，
// 下游据此识别需要特殊（反）序列化的类型。未注册类型不受影响。
func EncodePlugins(d node.Document, plugins []PluginType) node.Document {
	if len(plugins) == 0 {
		return d
	}
	byType := make(map[string]string, len(plugins))
	for _, p := range plugins {
		byType[p.NodeType] = p.ID
	}
	blocks := make([]node.Node, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = annotate(b, byType)
	}
	return node.Document{Blocks: blocks}
}

func annotate(n node.Node, byType map[string]string) node.Node {
	if id, ok := byType[n.Type]; ok {
		n.Plugin = id
	}
	if len(n.Children) > 0 {
		children := make([]node.Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = annotate(c, byType)
		}
		n.Children = children
	}
	return n
}

// DecodePlugins 剥离插件注解，还原为普通节点树。序列化前必经此步。
func DecodePlugins(d node.Document) node.Document {
	blocks := make([]node.Node, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = strip(b)
	}
	return node.Document{Blocks: blocks}
}

func strip(n node.Node) node.Node {
	n.Plugin = ""
	if len(n.Children) > 0 {
		children := make([]node.Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = strip(c)
		}
		n.Children = children
	}
	return n
}
