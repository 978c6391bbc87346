// Package tree models structured configuration values and parses them from
// text.
//
// A [Node] is null, a boolean, a number, a string, a list, or a map whose keys
// keep their definition order. Parsers for the native syntax ([Native]), YAML,
// TOML, and JSON all produce the same model, and all report failures as an
// [*Error] carrying the line and column of the offending text.
//
// Use [ParserFor] to select a parser by name:
//
//	p, err := tree.ParserFor("native")
//	node, err := p.Parse(ctx, `server { host: localhost, port: 8080 }`)
//	node.Get("server", "port").Native() // int64(8080)
package tree
