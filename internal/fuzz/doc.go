// Package fuzztests houses Go fuzz harnesses for the formatting pipeline
// (source -> grammar -> parser -> format). Its goal is to smoke test
// robustness and guard against panics and non-idempotent output on
// arbitrary inputs.
//
// Назначение: загружать байты в FileSet, разбирать их и проверять
// инварианты покрытия строк и идемпотентности форматирования.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
