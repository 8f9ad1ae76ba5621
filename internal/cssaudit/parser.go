package cssaudit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseError is a syntax error that aborts parsing of a stylesheet
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// token is a lexer token annotated with the line it starts on
type token struct {
	tt   css.TokenType
	text string
	line int
}

// tokenize runs the lexer over content and records line numbers
func tokenize(file, content string) ([]token, error) {
	lexer := css.NewLexer(parse.NewInputString(content))
	tokens := make([]token, 0, len(content)/4)
	line := 1

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, &ParseError{File: file, Line: line, Msg: err.Error()}
			}
			break
		}

		text := string(data)
		switch tt {
		case css.BadStringToken:
			return nil, &ParseError{File: file, Line: line, Msg: "unterminated string"}
		case css.BadURLToken:
			return nil, &ParseError{File: file, Line: line, Msg: "malformed url()"}
		case css.CommentToken:
			if !strings.HasSuffix(text, "*/") || len(text) < 4 {
				return nil, &ParseError{File: file, Line: line, Msg: "unterminated comment"}
			}
		}

		tokens = append(tokens, token{tt: tt, text: text, line: line})
		line += strings.Count(text, "\n")
	}

	return tokens, nil
}

// parser builds the syntax tree from a token slice
type parser struct {
	file   string
	tokens []token
	pos    int
}

// Parse builds the syntax tree for content. file is only used in errors.
func Parse(file, content string) (*Node, error) {
	tokens, err := tokenize(file, content)
	if err != nil {
		return nil, err
	}

	p := &parser{file: file, tokens: tokens}
	root := &Node{Kind: NodeStylesheet, Line: 1}
	if err := p.parseItems(root, true); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return &ParseError{File: p.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) lastLine() int {
	if len(p.tokens) == 0 {
		return 1
	}
	last := p.tokens[len(p.tokens)-1]
	return last.line + strings.Count(last.text, "\n")
}

// skipTrivia advances over whitespace, comments and HTML comment markers
func (p *parser) skipTrivia() {
	for !p.eof() {
		switch p.peek().tt {
		case css.WhitespaceToken, css.CommentToken, css.CDOToken, css.CDCToken:
			p.pos++
		default:
			return
		}
	}
}

// parseItems reads rules, at-rules and declarations into parent until the
// closing brace (or EOF at the top level)
func (p *parser) parseItems(parent *Node, topLevel bool) error {
	for {
		p.skipTrivia()

		if p.eof() {
			if !topLevel {
				return p.errorf(parent.Line, "unclosed block, missing '}'")
			}
			return nil
		}

		tok := p.peek()
		switch tok.tt {
		case css.RightBraceToken:
			if topLevel {
				return p.errorf(tok.line, "unexpected '}'")
			}
			p.pos++
			return nil
		case css.SemicolonToken:
			p.pos++
			continue
		case css.AtKeywordToken:
			if err := p.parseAtRule(parent); err != nil {
				return err
			}
			continue
		}

		run, end, err := p.readRun()
		if err != nil {
			return err
		}

		switch end {
		case css.LeftBraceToken:
			if len(trimTrivia(run)) == 0 {
				return p.errorf(tok.line, "missing selector before '{'")
			}
			rule := newRule(run, tok.line)
			if err := p.parseItems(rule, false); err != nil {
				return err
			}
			parent.Children = append(parent.Children, rule)
		default:
			if topLevel {
				return p.errorf(tok.line, "expected '{' after %q", joinTokens(run))
			}
			decl, err := p.newDeclaration(run, tok.line)
			if err != nil {
				return err
			}
			parent.Children = append(parent.Children, decl)
		}
	}
}

// readRun collects tokens up to a top-level '{', ';' or '}'. The '{' and ';'
// terminators are consumed, '}' is left for the enclosing block.
func (p *parser) readRun() ([]token, css.TokenType, error) {
	var run []token
	var stack []token

	for !p.eof() {
		tok := p.peek()

		if len(stack) == 0 {
			switch tok.tt {
			case css.LeftBraceToken, css.SemicolonToken:
				p.pos++
				return run, tok.tt, nil
			case css.RightBraceToken:
				return run, tok.tt, nil
			}
		}

		switch tok.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			stack = append(stack, tok)
		case css.RightParenthesisToken, css.RightBracketToken:
			if len(stack) == 0 {
				return nil, 0, p.errorf(tok.line, "unexpected %q", tok.text)
			}
			stack = stack[:len(stack)-1]
		case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken:
			open := stack[len(stack)-1]
			return nil, 0, p.errorf(open.line, "unclosed %q", open.text)
		}

		run = append(run, tok)
		p.pos++
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return nil, 0, p.errorf(open.line, "unclosed %q", open.text)
	}
	return run, css.ErrorToken, nil
}

// parseAtRule handles @name prelude; and @name prelude { ... }
func (p *parser) parseAtRule(parent *Node) error {
	at := p.peek()
	p.pos++

	run, end, err := p.readRun()
	if err != nil {
		return err
	}

	node := &Node{
		Kind:    NodeAtRule,
		Line:    at.line,
		Name:    strings.ToLower(strings.TrimPrefix(at.text, "@")),
		Prelude: collapseWhitespace(joinTokens(run)),
	}

	if end == css.LeftBraceToken {
		if err := p.parseItems(node, false); err != nil {
			return err
		}
		if node.Children == nil {
			node.Children = []*Node{}
		}
	}

	parent.Children = append(parent.Children, node)
	return nil
}

func newRule(run []token, line int) *Node {
	prelude := normalizeSelector(joinTokens(run))
	return &Node{
		Kind:      NodeRule,
		Line:      line,
		Prelude:   prelude,
		Selectors: splitSelectorList(prelude),
	}
}

// newDeclaration turns "name: value [!important]" into a declaration node
func (p *parser) newDeclaration(run []token, line int) (*Node, error) {
	run = trimTrivia(run)
	if len(run) == 0 {
		return nil, p.errorf(line, "empty declaration")
	}

	nameTok := run[0]
	if nameTok.tt != css.IdentToken && nameTok.tt != css.CustomPropertyNameToken {
		return nil, p.errorf(nameTok.line, "expected property name, got %q", nameTok.text)
	}

	rest := trimTrivia(run[1:])
	if len(rest) == 0 || rest[0].tt != css.ColonToken {
		return nil, p.errorf(nameTok.line, "expected ':' after property %q", nameTok.text)
	}
	value := trimTrivia(rest[1:])

	decl := &Node{
		Kind: NodeDeclaration,
		Line: nameTok.line,
		Name: nameTok.text,
	}
	if !strings.HasPrefix(decl.Name, "--") {
		decl.Name = strings.ToLower(decl.Name)
	}

	value, decl.Important = stripImportant(value)
	decl.Value = collapseWhitespace(joinTokens(value))
	decl.Vars = varReferences(value)

	return decl, nil
}

// stripImportant removes a trailing "! important" from value tokens
func stripImportant(value []token) ([]token, bool) {
	i := len(value) - 1
	for i >= 0 && isTrivia(value[i]) {
		i--
	}
	if i < 0 || value[i].tt != css.IdentToken || !strings.EqualFold(value[i].text, "important") {
		return value, false
	}
	j := i - 1
	for j >= 0 && isTrivia(value[j]) {
		j--
	}
	if j < 0 || value[j].tt != css.DelimToken || value[j].text != "!" {
		return value, false
	}
	return trimTrivia(value[:j]), true
}

// varReferences returns the custom property names used as var() arguments
func varReferences(value []token) []string {
	var refs []string
	for i, tok := range value {
		if tok.tt != css.FunctionToken || !strings.EqualFold(tok.text, "var(") {
			continue
		}
		for _, next := range value[i+1:] {
			if isTrivia(next) {
				continue
			}
			if next.tt == css.CustomPropertyNameToken ||
				(next.tt == css.IdentToken && strings.HasPrefix(next.text, "--")) {
				refs = append(refs, next.text)
			}
			break
		}
	}
	return refs
}

func isTrivia(t token) bool {
	return t.tt == css.WhitespaceToken || t.tt == css.CommentToken
}

func trimTrivia(run []token) []token {
	for len(run) > 0 && isTrivia(run[0]) {
		run = run[1:]
	}
	for len(run) > 0 && isTrivia(run[len(run)-1]) {
		run = run[:len(run)-1]
	}
	return run
}

// joinTokens renders tokens back to text, dropping comments and folding
// whitespace runs into a single space
func joinTokens(run []token) string {
	var sb strings.Builder
	for _, t := range run {
		switch t.tt {
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			sb.WriteByte(' ')
		default:
			sb.WriteString(t.text)
		}
	}
	return strings.TrimSpace(sb.String())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeSelector prints a selector list compactly: single spaces between
// compounds and no spaces around combinators or commas
func normalizeSelector(s string) string {
	s = collapseWhitespace(s)
	var sb strings.Builder
	sb.Grow(len(s))
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			sb.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
			sb.WriteByte(c)
		case ' ':
			if i+1 < len(s) && isCombinator(s[i+1]) {
				continue
			}
			out := sb.String()
			if len(out) > 0 && isCombinator(out[len(out)-1]) {
				continue
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isCombinator(c byte) bool {
	return c == '>' || c == '+' || c == '~' || c == ','
}

// splitSelectorList splits a normalized selector list at top-level commas
func splitSelectorList(prelude string) []string {
	var selectors []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(prelude); i++ {
		c := prelude[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				if sel := strings.TrimSpace(prelude[start:i]); sel != "" {
					selectors = append(selectors, sel)
				}
				start = i + 1
			}
		}
	}
	if sel := strings.TrimSpace(prelude[start:]); sel != "" {
		selectors = append(selectors, sel)
	}
	return selectors
}
