package cmd

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/argot/args"
	"github.com/ardnew/argot/bundle"
	"github.com/ardnew/argot/pkg"
	"github.com/ardnew/argot/text"
	"github.com/ardnew/argot/tree"
)

// Env supplies the collaborators that some argument kinds depend on.
type Env struct {
	// Bundles resolves bundle URIs. [bundle.DefaultMux] is used if nil.
	Bundles bundle.Resolver
	// Options are passed to elements that consult the clock or the network.
	Options []args.Option
	// Fuzzy enables fuzzy completion of choices.
	Fuzzy bool
}

// Kind describes one kind of argument element.
type Kind struct {
	Name string
	Help string
	// Option documents the accepted "=option" suffix, empty if none.
	Option string

	needsOption bool
	build       builder
}

type builder = func(env Env, key, opt string) (args.Element[any], error)

func scalar[T any](mk func(key string) args.Element[T]) builder {
	return func(_ Env, key, _ string) (args.Element[any], error) {
		return args.Any(mk(key)), nil
	}
}

func configured[T any](mk func(key string, opts ...args.Option) args.Element[T]) builder {
	return func(env Env, key, _ string) (args.Element[any], error) {
		return args.Any(mk(key, env.Options...)), nil
	}
}

// legacyText accepts a single-rune option as the formatting code prefix.
func legacyText(mk func(key string, opts ...args.Option) args.Element[text.Text]) builder {
	return func(env Env, key, opt string) (args.Element[any], error) {
		opts := slices.Clone(env.Options)

		if opt != "" {
			r, size := utf8.DecodeRuneInString(opt)
			if size != len(opt) || unicode.IsSpace(r) {
				return nil, pkg.ErrInvalidArgSpec.Wrapf("code prefix %q is not one character", opt)
			}

			opts = append(opts, args.WithCodePrefix(r))
		}

		return args.Any(mk(key, opts...)), nil
	}
}

var kinds = []Kind{
	{Name: "integer", Help: "arbitrary precision integer", build: scalar(args.Integer)},
	{Name: "decimal", Help: "arbitrary precision decimal number", build: scalar(args.DecimalNumber)},
	{Name: "uuid", Help: "UUID in canonical form", build: scalar(args.UUID)},
	{Name: "duration", Help: "ISO-8601 duration, P optional (1d, PT5M)", build: scalar(args.Duration)},
	{Name: "url", Help: "absolute URL with a known protocol", build: scalar(args.URL)},
	{Name: "uri", Help: "URI reference", build: scalar(args.URI)},
	{Name: "version", Help: "semantic version", build: scalar(args.Version)},
	{Name: "ip", Help: "IP address or host name", build: configured(args.IP)},
	{Name: "ip-or-source", Help: "IP address, falling back to the connection address", build: configured(args.IPOrSource)},
	{Name: "datetime", Help: "local date, time, or date-time", build: configured(args.DateTime)},
	{Name: "datetime-or-now", Help: "date-time, falling back to now", build: configured(args.DateTimeOrNow)},
	{
		Name:   "tree",
		Help:   "structured configuration tree (rest of input)",
		Option: strings.Join(tree.ParserNames(), "|"),
		build: func(_ Env, key, opt string) (args.Element[any], error) {
			p, err := tree.ParserFor(opt)
			if err != nil {
				return nil, pkg.ErrInvalidArgSpec.Wrap(err)
			}

			return args.Any(args.Tree(key, p)), nil
		},
	},
	{
		Name: "bundle",
		Help: "resource bundle archive URI",
		build: func(env Env, key, _ string) (args.Element[any], error) {
			r := env.Bundles
			if r == nil {
				r = bundle.DefaultMux()
			}

			return args.Any(args.Bundle(key, r)), nil
		},
	},
	{Name: "text", Help: "one word of formatted text", Option: "PREFIX", build: legacyText(args.PlainText)},
	{Name: "text-all", Help: "formatted text (rest of input)", Option: "PREFIX", build: legacyText(args.RemainingText)},
	{Name: "json", Help: "one word of JSON text component", build: scalar(args.JSONText)},
	{Name: "json-all", Help: "JSON text component (rest of input)", build: scalar(args.RemainingJSONText)},
	{
		Name:        "choice",
		Help:        "one of a fixed set of labels",
		Option:      "LABEL,...",
		needsOption: true,
		build: func(env Env, key, opt string) (args.Element[any], error) {
			c := args.NewChoices[string]()

			for label := range strings.SplitSeq(opt, ",") {
				if label = strings.TrimSpace(label); label != "" {
					c.Add(label, label)
				}
			}

			if c.Len() == 0 {
				return nil, pkg.ErrInvalidArgSpec.Wrapf("choice %q has no labels", key)
			}

			return args.Any(args.Choice(key, args.StaticChoices(c), args.WithFuzzy(env.Fuzzy))), nil
		},
	},
}

// AllKinds returns every argument kind in display order.
func AllKinds() []Kind { return slices.Clone(kinds) }

func lookupKind(name string) (Kind, bool) {
	i := slices.IndexFunc(kinds, func(k Kind) bool { return k.Name == name })
	if i < 0 {
		return Kind{}, false
	}

	return kinds[i], true
}

// String returns the kind's name with its option placeholder, if any.
func (k Kind) String() string {
	switch {
	case k.Option == "":
		return k.Name
	case k.needsOption:
		return k.Name + "=" + k.Option
	default:
		return k.Name + "[=" + k.Option + "]"
	}
}

// ArgSpec is one parsed --arg flag: key:kind[=option][?].
type ArgSpec struct {
	Key      string
	Kind     string
	Option   string
	Optional bool
}

// ParseArgSpec parses s as key:kind[=option][?]. A trailing '?' makes the
// argument optional; it yields null when no input remains.
func ParseArgSpec(s string) (ArgSpec, error) {
	key, rest, ok := strings.Cut(s, ":")
	if !ok || key == "" || strings.ContainsFunc(key, unicode.IsSpace) {
		return ArgSpec{}, pkg.ErrInvalidArgSpec.Wrapf("%q: expected key:kind", s)
	}

	var spec ArgSpec

	spec.Key = key

	if r, ok := strings.CutSuffix(rest, "?"); ok {
		rest, spec.Optional = r, true
	}

	spec.Kind, spec.Option, _ = strings.Cut(rest, "=")

	k, ok := lookupKind(spec.Kind)
	if !ok {
		return ArgSpec{}, pkg.ErrUnknownKind.Wrapf("%q", spec.Kind)
	}

	switch {
	case k.needsOption && spec.Option == "":
		return ArgSpec{}, pkg.ErrInvalidArgSpec.Wrapf("%q: kind %s", s, k)
	case k.Option == "" && spec.Option != "":
		return ArgSpec{}, pkg.ErrInvalidArgSpec.Wrapf("%q: kind %s takes no option", s, k)
	}

	return spec, nil
}

// String returns the spec in the form accepted by [ParseArgSpec].
func (a ArgSpec) String() string {
	s := a.Key + ":" + a.Kind
	if a.Option != "" {
		s += "=" + a.Option
	}

	if a.Optional {
		s += "?"
	}

	return s
}

// Element builds the element described by a.
func (a ArgSpec) Element(env Env) (args.Element[any], error) {
	k, ok := lookupKind(a.Kind)
	if !ok {
		return nil, pkg.ErrUnknownKind.Wrapf("%q", a.Kind)
	}

	e, err := k.build(env, a.Key, a.Option)
	if err != nil {
		return nil, err
	}

	if a.Optional {
		return args.Optional[any](e, nil), nil
	}

	return e, nil
}
