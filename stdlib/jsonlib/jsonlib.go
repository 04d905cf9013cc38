// Package jsonlib implements the "std.json" module named in spec.md §6:
// parsing and formatting Values as JSON/JSON5 text. Parsing reuses the
// language's own lexer to tokenize the input, since JSON5 is a near-subset
// of Asteria's literal grammar (numbers, strings, true/false/null, and
// bare or quoted object keys all already have lexer support).
package jsonlib

import (
	"fmt"
	"strconv"
	"strings"

	"asteria/context"
	"asteria/lexer"
	"asteria/reference"
	"asteria/runtime"
	"asteria/token"
	"asteria/value"
)

// Register binds std.json.parse and std.json.stringify into globals.
func Register(globals *context.Global) {
	globals.RegisterStdlib("std.json.parse", reference.Temporary(value.FromFunction(runtime.NewNative("parse", parseHost))))
	globals.RegisterStdlib("std.json.stringify", reference.Temporary(value.FromFunction(runtime.NewNative("stringify", stringifyHost))))
}

func parseHost(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	r := runtime.NewArgumentReader(args)
	r.StartOverload()
	src := r.Required("string")
	if !r.EndOverload() {
		return runtime.NewException(value.FromString(r.NoMatchError("parse")), runtime.Frame{Kind: runtime.FrameNative})
	}
	v, err := Parse(src.AsString())
	if err != nil {
		return runtime.NewException(value.FromString(err.Error()), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(v)
	return nil
}

func stringifyHost(self *reference.Reference, globals *context.Global, args []value.Value) *runtime.Exception {
	if len(args) != 1 {
		return runtime.NewException(value.FromString("stringify requires exactly 1 argument"), runtime.Frame{Kind: runtime.FrameNative})
	}
	*self = reference.Temporary(value.FromString(Stringify(args[0])))
	return nil
}

// Parse decodes src (JSON/JSON5 text) into a Value.
func Parse(src string) (value.Value, error) {
	toks, err := lexer.New("<json>", src).Scan()
	if err != nil {
		return value.Value{}, err
	}
	p := &jsonParser{toks: toks}
	v, err := p.parseValue()
	if err != nil {
		return value.Value{}, err
	}
	return v, nil
}

type jsonParser struct {
	toks []token.Token
	pos  int
}

func (p *jsonParser) cur() token.Token { return p.toks[p.pos] }

func (p *jsonParser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *jsonParser) parseValue() (value.Value, error) {
	t := p.cur()
	switch t.TokenType {
	case token.LCUR:
		return p.parseObject()
	case token.LBRK:
		return p.parseArray()
	case token.STRING:
		p.advance()
		return value.FromString(t.Literal.(string)), nil
	case token.INT:
		p.advance()
		return value.FromInt(t.Literal.(int64)), nil
	case token.REAL:
		p.advance()
		return value.FromReal(t.Literal.(float64)), nil
	case token.TRUE:
		p.advance()
		return value.FromBool(true), nil
	case token.FALSE:
		p.advance()
		return value.FromBool(false), nil
	case token.NULL:
		p.advance()
		return value.Null(), nil
	case token.SUB:
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		if v.Type() == value.TypeInteger {
			return value.FromInt(-v.AsInteger()), nil
		}
		return value.FromReal(-v.AsReal()), nil
	default:
		return value.Value{}, fmt.Errorf("unexpected token %q in JSON input", t.Lexeme)
	}
}

func (p *jsonParser) parseObject() (value.Value, error) {
	p.advance() // consume "{"
	obj := value.NewObject()
	if p.cur().TokenType == token.RCUR {
		p.advance()
		return value.FromObject(obj), nil
	}
	for {
		keyTok := p.advance()
		var key string
		switch keyTok.TokenType {
		case token.STRING:
			key = keyTok.Literal.(string)
		case token.IDENTIFIER:
			key = keyTok.Lexeme
		default:
			return value.Value{}, fmt.Errorf("expected object key, got %q", keyTok.Lexeme)
		}
		if p.cur().TokenType != token.COLON {
			return value.Value{}, fmt.Errorf("expected ':' after object key %q", key)
		}
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(key, v)
		if p.cur().TokenType == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if p.cur().TokenType != token.RCUR {
		return value.Value{}, fmt.Errorf("expected '}' to close object")
	}
	p.advance()
	return value.FromObject(obj), nil
}

func (p *jsonParser) parseArray() (value.Value, error) {
	p.advance() // consume "["
	var elems []value.Value
	if p.cur().TokenType == token.RBRK {
		p.advance()
		return value.FromArray(value.NewArray()), nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, v)
		if p.cur().TokenType == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if p.cur().TokenType != token.RBRK {
		return value.Value{}, fmt.Errorf("expected ']' to close array")
	}
	p.advance()
	return value.FromArray(value.NewArray(elems...)), nil
}

// Stringify encodes v as compact JSON text. Opaque and function values
// render as their type name string, since JSON has no representation for
// either (spec.md §6).
func Stringify(v value.Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v value.Value) {
	switch v.Type() {
	case value.TypeNull:
		sb.WriteString("null")
	case value.TypeBoolean:
		sb.WriteString(strconv.FormatBool(v.AsBoolean()))
	case value.TypeInteger:
		sb.WriteString(strconv.FormatInt(v.AsInteger(), 10))
	case value.TypeReal:
		sb.WriteString(strconv.FormatFloat(v.AsReal(), 'g', -1, 64))
	case value.TypeString:
		sb.WriteString(strconv.Quote(v.AsString()))
	case value.TypeArray:
		sb.WriteByte('[')
		for i, e := range v.AsArray().Slice() {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeValue(sb, e)
		}
		sb.WriteByte(']')
	case value.TypeObject:
		sb.WriteByte('{')
		first := true
		v.AsObject().Range(func(key string, ev value.Value) bool {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			sb.WriteString(strconv.Quote(key))
			sb.WriteByte(':')
			writeValue(sb, ev)
			return true
		})
		sb.WriteByte('}')
	default:
		sb.WriteString(strconv.Quote(v.Type().String()))
	}
}
