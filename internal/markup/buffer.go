package markup

// textBuffer 累积序列化输出并跟踪尾部换行，
// 用于在块与列表项之间控制空行数量。
type textBuffer struct {
	parts []string
}

func newTextBuffer() *textBuffer {
	return &textBuffer{parts: make([]string, 0, 16)}
}

// Write appends text to the buffer.
func (tb *textBuffer) Write(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
}

// Len returns the accumulated byte length.
func (tb *textBuffer) Len() int {
	total := 0
	for _, p := range tb.parts {
		total += len(p)
	}
	return total
}

// TrailingNewlineCount counts trailing newline characters in the buffer.
func (tb *textBuffer) TrailingNewlineCount() int {
	count := 0
	for i := len(tb.parts) - 1; i >= 0; i-- {
		part := tb.parts[i]
		for j := len(part) - 1; j >= 0; j-- {
			if part[j] == '\n' {
				count++
			} else {
				return count
			}
		}
	}
	return count
}

// EnsureNewlines 补齐尾部换行到 n 个（缓冲区非空时）
func (tb *textBuffer) EnsureNewlines(n int) {
	if tb.Len() == 0 {
		return
	}
	for tb.TrailingNewlineCount() < n {
		tb.Write("\n")
	}
}

// String returns the accumulated text.
func (tb *textBuffer) String() string {
	totalLen := 0
	for _, p := range tb.parts {
		totalLen += len(p)
	}
	result := make([]byte, 0, totalLen)
	for _, p := range tb.parts {
		result = append(result, []byte(p)...)
	}
	return string(result)
}
