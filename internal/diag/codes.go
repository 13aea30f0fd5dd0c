package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксические: строка не подошла ни под одно правило грамматики
	SynInfo          Code = 2000
	SynUnmatchedLine Code = 2001
	SynInvalidUTF8   Code = 2002
	SynControlChar   Code = 2003

	// Декодирование закрытых словарей
	SemaInfo            Code = 3000
	SemaBadNotePosition Code = 3001

	// Ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	// Конфигурация проекта
	PrjInfo          Code = 5000
	PrjConfigInvalid Code = 5001

	// Форматирование
	FmtInfo          Code = 6000
	FmtNotFormatted  Code = 6001
	FmtNotIdempotent Code = 6002
	FmtShapeChanged  Code = 6003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:         "Unknown error",
		SynInfo:             "Syntax information",
		SynUnmatchedLine:    "Line does not match any grammar rule",
		SynInvalidUTF8:      "Invalid UTF-8 sequence",
		SynControlChar:      "Unexpected control character",
		SemaInfo:            "Decode information",
		SemaBadNotePosition: "Invalid note position",
		IOInfo:              "I/O information",
		IOLoadFileError:     "I/O load file error",
		IOWriteError:        "I/O write error",
		PrjInfo:             "Project information",
		PrjConfigInvalid:    "Invalid project configuration",
		FmtInfo:             "Formatting information",
		FmtNotFormatted:     "File is not formatted",
		FmtNotIdempotent:    "Formatting is not idempotent",
		FmtShapeChanged:     "Statement sequence changed after formatting",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("FMT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
