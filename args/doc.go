// Package args parses typed command arguments from a single line of text.
//
// A command line is split on whitespace into a [Stream] of tokens. Each
// [Element] of a command consumes what it needs from the stream and returns a
// typed value, offers completions for a partially typed token, and describes
// itself for a usage line:
//
//	s := args.NewStream("ban 203.0.113.7 1d")
//	action, err := args.Choice("action", actions).Parse(ctx, src, s)
//	addr, err := args.IPOrSource("target").Parse(ctx, src, s)
//	span, err := args.Duration("length").Parse(ctx, src, s)
//
// Some elements fall back to a substitute value when their token is absent or
// does not parse. [IPOrSource] uses the address of a [Connection] source and
// [DateTimeOrNow] uses the current time. Either one leaves an unparsable token
// in the stream for the elements that follow.
//
// Failures are returned as [*Error], which records the [Kind] of failure, the
// offending input, and its position in the raw text:
//
//	if errors.Is(err, args.InvalidChoice) {
//		fmt.Println(err.(*args.Error).Snippet())
//	}
package args
