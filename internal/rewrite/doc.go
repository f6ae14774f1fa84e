// Package rewrite is the base engine shared by the source-to-source passes:
// verbatim byte-range copies mixed with synthesized text, a stack of output
// sinks, rollback marks and an output-to-source mapping.
//
// Назначение: собрать выходной текст без pretty-printer'а.
// Не делает: разбор, типизацию, IO.
// Зависимости: internal/source, internal/diag.
package rewrite
