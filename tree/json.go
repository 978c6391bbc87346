package tree

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/argot/log"
)

// JSON parses a single JSON value. Object keys keep their document order.
type JSON struct{}

// Parse implements [Parser].
func (JSON) Parse(ctx context.Context, text string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError(err)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	node, err := decodeJSON(dec)
	if err != nil {
		return nil, jsonError(text, dec, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, Errorf(PositionOf(text, int(dec.InputOffset())),
			"unexpected data after JSON value")
	}

	log.TraceContext(ctx, "tree parsed",
		slog.String("parser", "json"),
		slog.String("kind", node.Kind().String()))

	return node, nil
}

func decodeJSON(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			list := List()

			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}

				list.Append(item)
			}

			_, err := dec.Token() // ']'

			return list, err

		case '{':
			m := Map()

			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}

				// The decoder only yields string keys inside objects.
				key, _ := kt.(string)

				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}

				m.Set(key, v)
			}

			_, err := dec.Token() // '}'

			return m, err
		}
	}

	return nil, errors.New("unexpected JSON token")
}

func jsonError(text string, dec *json.Decoder, err error) *Error {
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		return Errorf(PositionOf(text, int(serr.Offset)), "%s", serr.Error())
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Errorf(PositionOf(text, int(dec.InputOffset())),
			"unexpected end of JSON input")
	}

	return NewError("invalid JSON").Wrap(err)
}
