package format

import "fmt"

const DefaultIndentWidth = 4

type Options struct {
	// IndentWidth is the number of spaces per depth level; ignored with UseTabs.
	IndentWidth int
	// UseTabs emits one tab per depth level.
	UseTabs bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	return o
}

// Validate rejects indent widths that cannot be rendered.
func (o Options) Validate() error {
	if o.IndentWidth < 0 {
		return fmt.Errorf("indent width must be positive, got %d", o.IndentWidth)
	}
	return nil
}
