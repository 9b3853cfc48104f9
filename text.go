package editcore

// PlainTextLen 计算文档纯文本的有效长度（rune 数）
//
// 宿主 UI 的字数统计使用这个值。void 节点不含可编辑文本，
// 不计入长度；顶层块之间按一个换行计。
//
// 参数：
//   - d: 要计数的文档
//
// 返回：
//   - int: rune 数量
func PlainTextLen(d Document) int {
	count := 0
	for range d.PlainText() {
		count++
	}
	return count
}
