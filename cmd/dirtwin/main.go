// Package main provides the entry point for the dirtwin CLI.
//
// dirtwin finds directories with duplicate internal structure. It walks one
// or more directory trees, fingerprints every directory by its immediate
// contents, and groups directories whose structures score above a
// similarity threshold.
//
// Usage:
//
//	dirtwin scan <root> [root...]
//	dirtwin compare <root>
//
// See --help for all available options.
package main

// main is the entry point for dirtwin.
func main() {
	Execute()
}
