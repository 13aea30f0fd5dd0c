// Package dialect describes the diagram families a source file can declare
// and which line productions each family admits.
//
// The dialect of a file is fixed by its first diagram declaration. Until a
// declaration is seen the dialect is Unknown and every production is admitted.
package dialect
