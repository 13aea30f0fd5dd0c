package format

// Writer accumulates formatted output one line at a time.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
}

// NewWriter creates a new formatting writer; sizeHint preallocates the buffer.
func NewWriter(opt Options, sizeHint int) *Writer {
	return &Writer{
		opt: opt.withDefaults(),
		buf: make([]byte, 0, max(sizeHint, 0)),
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Empty reports whether nothing has been written yet.
func (w *Writer) Empty() bool {
	return len(w.buf) == 0
}

// SetIndent sets the depth used by the next Line call.
func (w *Writer) SetIndent(level int) {
	w.indentLevel = max(level, 0)
}

func (w *Writer) writeIndent() {
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
		return
	}
	spaceCount := w.indentLevel * w.opt.IndentWidth
	for range spaceCount {
		w.buf = append(w.buf, ' ')
	}
}

// Line writes one indented line terminated by a newline.
func (w *Writer) Line(s string) {
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, '\n')
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.buf = append(w.buf, '\n')
}
