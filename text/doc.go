// Package text models formatted chat-style text.
//
// A [Text] is parsed either from plain text carrying legacy formatting codes
// ("&cWarning: &lhot") with [ParseLegacy], or from a JSON text component
// ({"text":"hi","color":"gold"}) with [ParseJSON]. It can be flattened with
// [Text.Plain], re-encoded with [Text.Legacy], serialized back to JSON, or
// rendered for a terminal with [Text.Render].
package text
