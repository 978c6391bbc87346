package cmd

import (
	"context"
	"io"
	"net/netip"
	"os"

	"github.com/ardnew/argot/args"
	"github.com/ardnew/argot/pkg"
)

// Spec holds the flags shared by commands that build a [Signature].
type Spec struct {
	Arg    []string `help:"Argument as key:kind[=option][?], in order (see 'kinds')" name:"arg"     placeholder:"KEY:KIND" required:"" sep:"none" short:"a"`
	Remote string   `help:"Act as a connection from this IP address"                                    placeholder:"ADDR"`
	As     string   `help:"Name of the acting source"                                default:"console"`
	Fuzzy  bool     `help:"Match choices fuzzily when completing"`
}

// Source returns the acting source: a [args.Remote] when --remote is set, a
// [args.Console] otherwise.
func (s Spec) Source() (args.Source, error) {
	if s.Remote == "" {
		return args.Console(s.As), nil
	}

	addr, err := netip.ParseAddr(s.Remote)
	if err != nil {
		return nil, pkg.ErrInvalidRemote.Wrap(err)
	}

	return args.Remote{ID: s.As, Addr: addr}, nil
}

// Signature builds the signature described by --arg.
func (s Spec) Signature(env Env) (*Signature, error) {
	env.Fuzzy = env.Fuzzy || s.Fuzzy

	return NewSignature(env, s.Arg...)
}

func (s Spec) resolve(ctx context.Context) (args.Source, *Signature, error) {
	src, err := s.Source()
	if err != nil {
		return nil, nil, err
	}

	sig, err := s.Signature(envFrom(ctx))
	if err != nil {
		return nil, nil, err
	}

	return src, sig, nil
}

type envKey struct{}

// WithEnv returns a new context.Context carrying the element environment used
// by every command.
func WithEnv(ctx context.Context, env Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

func envFrom(ctx context.Context) Env {
	env, _ := ctx.Value(envKey{}).(Env)

	return env
}

func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}
