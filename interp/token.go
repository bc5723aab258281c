package interp

// Keyword tags a reserved-word token.
type Keyword uint8

const (
	KwExport Keyword = iota + 1
	KwImport
	KwLet
	KwConst
	KwFunction
	KwReturn
	KwStruct
)

const (
	tagKwExport   uint8 = 0x01
	tagKwImport   uint8 = 0x02
	tagKwLet      uint8 = 0x03
	tagKwConst    uint8 = 0x04
	tagKwFunction uint8 = 0x05
	tagKwReturn   uint8 = 0x06
	tagKwStruct   uint8 = 0x07
)

func (k Keyword) String() string {
	switch k {
	case KwExport:
		return "export"
	case KwImport:
		return "import"
	case KwLet:
		return "let"
	case KwConst:
		return "const"
	case KwFunction:
		return "fn"
	case KwReturn:
		return "return"
	case KwStruct:
		return "struct"
	default:
		return "?kw"
	}
}

func (k Keyword) writeBinary(e *Encoder) error {
	var tag uint8
	switch k {
	case KwExport:
		tag = tagKwExport
	case KwImport:
		tag = tagKwImport
	case KwLet:
		tag = tagKwLet
	case KwConst:
		tag = tagKwConst
	case KwFunction:
		tag = tagKwFunction
	case KwReturn:
		tag = tagKwReturn
	case KwStruct:
		tag = tagKwStruct
	default:
		return decodeErrorf("unknown keyword %d", k)
	}
	return e.WriteU8(tag)
}

func readKeyword(d *Decoder) (Keyword, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return 0, err
	}
	switch tag {
	case tagKwExport:
		return KwExport, nil
	case tagKwImport:
		return KwImport, nil
	case tagKwLet:
		return KwLet, nil
	case tagKwConst:
		return KwConst, nil
	case tagKwFunction:
		return KwFunction, nil
	case tagKwReturn:
		return KwReturn, nil
	case tagKwStruct:
		return KwStruct, nil
	default:
		return 0, invalidDiscriminant("keyword", tag)
	}
}

// TokKind tags the variant carried by a Token.
type TokKind uint8

const (
	TokWhitespace TokKind = iota + 1
	TokLBracket
	TokRBracket
	TokLParen
	TokRParen
	TokLSquare
	TokRSquare
	TokLiteral
	TokKeyword
	TokExpression
	TokEnd
)

const (
	tagTokWhitespace uint8 = 0x01
	tagTokLBracket   uint8 = 0x02
	tagTokRBracket   uint8 = 0x03
	tagTokLParen     uint8 = 0x04
	tagTokRParen     uint8 = 0x05
	tagTokLSquare    uint8 = 0x06
	tagTokRSquare    uint8 = 0x07
	tagTokLiteral    uint8 = 0x08
	tagTokKeyword    uint8 = 0x09
	tagTokExpression uint8 = 0x0A
	tagTokEnd        uint8 = 0x0B
)

// Token is the element type of the chain the evaluator walks. Exactly one
// of Lit, Kw or Expr is meaningful, selected by Kind.
type Token struct {
	Kind TokKind
	Lit  Literal
	Kw   Keyword
	Expr *Expr
}

func punctTok(k TokKind) Token { return Token{Kind: k} }
func litTok(l Literal) Token   { return Token{Kind: TokLiteral, Lit: l} }
func kwTok(k Keyword) Token    { return Token{Kind: TokKeyword, Kw: k} }
func exprTok(x *Expr) Token    { return Token{Kind: TokExpression, Expr: x} }
func endTok() Token            { return Token{Kind: TokEnd} }

func (t Token) String() string {
	switch t.Kind {
	case TokWhitespace:
		return " "
	case TokLBracket:
		return "{"
	case TokRBracket:
		return "}"
	case TokLParen:
		return "("
	case TokRParen:
		return ")"
	case TokLSquare:
		return "["
	case TokRSquare:
		return "]"
	case TokLiteral:
		return t.Lit.String()
	case TokKeyword:
		return t.Kw.String()
	case TokExpression:
		return t.Expr.String()
	case TokEnd:
		return "<end>"
	default:
		return "?tok"
	}
}

// Chain is the token-stream the evaluator consumes. It behaves as a FIFO
// queue: Next and Peek operate on the head, Push appends a single token to
// the head (so it is seen before whatever was already queued), and Insert
// splices a run of tokens at an absolute index. This reproduces the
// observable behavior of the source language's prepend/pop-tail deque
// using a single ordered slice, which is simpler to reason about in Go.
type Chain struct {
	toks []Token
}

func newChain(toks []Token) *Chain { return &Chain{toks: toks} }

// Next pops and returns the head token, or the End sentinel if exhausted.
func (c *Chain) Next() Token {
	if len(c.toks) == 0 {
		return endTok()
	}
	t := c.toks[0]
	c.toks = c.toks[1:]
	return t
}

// Peek returns the head token without consuming it.
func (c *Chain) Peek() Token {
	if len(c.toks) == 0 {
		return endTok()
	}
	return c.toks[0]
}

// Push reinserts a token at the head, to be seen on the very next Next/Peek.
func (c *Chain) Push(t Token) {
	c.toks = append([]Token{t}, c.toks...)
}

// Insert splices toks into the chain starting at the given absolute index.
// Splicing at the head, the shape every control-flow body re-insertion
// uses, is just a sequence of Pushes in reverse order.
func (c *Chain) Insert(at int, toks []Token) {
	if at <= 0 {
		for i := len(toks) - 1; i >= 0; i-- {
			c.Push(toks[i])
		}
		return
	}
	if at > len(c.toks) {
		at = len(c.toks)
	}
	out := make([]Token, 0, len(c.toks)+len(toks))
	out = append(out, c.toks[:at]...)
	out = append(out, toks...)
	out = append(out, c.toks[at:]...)
	c.toks = out
}

// Len reports the number of tokens remaining.
func (c *Chain) Len() int { return len(c.toks) }

// WriteBinary implements the codec contract for Token.
func (t Token) WriteBinary(e *Encoder) error {
	tag, ok := map[TokKind]uint8{
		TokWhitespace: tagTokWhitespace,
		TokLBracket:   tagTokLBracket,
		TokRBracket:   tagTokRBracket,
		TokLParen:     tagTokLParen,
		TokRParen:     tagTokRParen,
		TokLSquare:    tagTokLSquare,
		TokRSquare:    tagTokRSquare,
		TokLiteral:    tagTokLiteral,
		TokKeyword:    tagTokKeyword,
		TokExpression: tagTokExpression,
		TokEnd:        tagTokEnd,
	}[t.Kind]
	if !ok {
		return decodeErrorf("unknown token kind %d", t.Kind)
	}
	if err := e.WriteU8(tag); err != nil {
		return err
	}
	switch t.Kind {
	case TokLiteral:
		return t.Lit.WriteBinary(e)
	case TokKeyword:
		return t.Kw.writeBinary(e)
	case TokExpression:
		return t.Expr.WriteBinary(e)
	default:
		return nil
	}
}

// ReadToken is the exact inverse of Token.WriteBinary.
func ReadToken(d *Decoder) (Token, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return Token{}, err
	}
	switch tag {
	case tagTokWhitespace:
		return punctTok(TokWhitespace), nil
	case tagTokLBracket:
		return punctTok(TokLBracket), nil
	case tagTokRBracket:
		return punctTok(TokRBracket), nil
	case tagTokLParen:
		return punctTok(TokLParen), nil
	case tagTokRParen:
		return punctTok(TokRParen), nil
	case tagTokLSquare:
		return punctTok(TokLSquare), nil
	case tagTokRSquare:
		return punctTok(TokRSquare), nil
	case tagTokLiteral:
		l, err := ReadLiteral(d)
		if err != nil {
			return Token{}, err
		}
		return litTok(l), nil
	case tagTokKeyword:
		kw, err := readKeyword(d)
		if err != nil {
			return Token{}, err
		}
		return kwTok(kw), nil
	case tagTokExpression:
		x, err := ReadExpr(d)
		if err != nil {
			return Token{}, err
		}
		return exprTok(x), nil
	case tagTokEnd:
		return endTok(), nil
	default:
		return Token{}, invalidDiscriminant("token", tag)
	}
}

// TakeGroup consumes tokens up to and including the first RBracket at
// nesting depth zero, returning the tokens strictly between the opening
// LBracket (already consumed by the caller) and that matching RBracket.
// Used to collect if/elif/else/while bodies without recursively
// evaluating them.
func (c *Chain) TakeGroup() ([]Token, error) {
	depth := 0
	var body []Token
	for {
		t := c.Next()
		if t.Kind == TokEnd {
			return nil, stateErrorf("unterminated block: missing closing brace")
		}
		if t.Kind == TokLBracket {
			depth++
			body = append(body, t)
			continue
		}
		if t.Kind == TokRBracket {
			if depth == 0 {
				return body, nil
			}
			depth--
			body = append(body, t)
			continue
		}
		body = append(body, t)
	}
}
