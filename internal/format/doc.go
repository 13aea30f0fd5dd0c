// Package format renders a diagram statement stream back to canonical text.
//
// Назначение: один линейный проход по операторам с явным состоянием глубины
// (depthState), политика пустых строк и нормализация свободного текста.
// Не делает: IO, разбор файлов или проверку парности блоков.
// Зависимости: internal/ast, internal/parser (только для FormatString и
// CheckRoundTrip).
package format
