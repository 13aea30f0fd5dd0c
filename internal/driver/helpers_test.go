package driver

import "mmdfmt/internal/format"

func formatOptions(indent int, tabs bool) format.Options {
	return format.Options{IndentWidth: indent, UseTabs: tabs}
}
