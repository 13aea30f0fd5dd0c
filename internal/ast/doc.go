// Package ast defines the statement model of a diagram: one Statement per
// source line, in source order.
package ast
