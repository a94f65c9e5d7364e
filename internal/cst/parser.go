package cst

// parser builds a concrete syntax tree from a flat token stream via
// straightforward recursive descent. There is no published tree-sitter
// grammar for AL to bind against (the original Rust implementation
// hand-authored its own grammar.js and compiled it through the
// tree-sitter CLI, see crates/al-parser/build.rs); this package plays
// the same role directly in Go, trading the generated LR parser for a
// hand-written one so the whole toolchain stays pure Go.
type parser struct {
	toks    []token
	pos     int
	pending []*Node // comment nodes seen since the last flush
}

func newParserState(source []byte) *parser {
	return &parser{toks: scanAll(source)}
}

// peek returns the next non-comment token without consuming it,
// buffering any comments it skips past into p.pending.
func (p *parser) peek() token {
	for p.toks[p.pos].kind == "comment" {
		p.bufferComment(p.toks[p.pos])
		p.pos++
	}
	return p.toks[p.pos]
}

// peekAt looks n non-comment tokens ahead (0 == peek()).
func (p *parser) peekAt(n int) token {
	i := p.pos
	skipped := 0
	for {
		for i < len(p.toks) && p.toks[i].kind == "comment" {
			i++
		}
		if i >= len(p.toks) {
			return p.toks[len(p.toks)-1]
		}
		if skipped == n {
			return p.toks[i]
		}
		skipped++
		i++
	}
}

func (p *parser) bufferComment(t token) {
	p.pending = append(p.pending, newNode("comment", true, t.start, t.end, t.startPoint, t.endPoint))
}

// next consumes and returns the next non-comment token.
func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// flushComments moves any buffered comments into n as named children,
// in source order, ahead of whatever real child is about to be added.
func (p *parser) flushComments(n *Node) {
	for _, c := range p.pending {
		n.addChild(c, "")
	}
	p.pending = nil
}

// expect consumes a token of kind, recording a MISSING node under n and
// leaving the cursor alone if the next token doesn't match, per §4.2's
// "never abort on one bad token" diagnostics design.
func (p *parser) expect(n *Node, kind string) (token, bool) {
	p.flushComments(n)
	t := p.peek()
	if t.kind != kind {
		miss := newNode(kind, false, t.start, t.start, t.startPoint, t.startPoint)
		miss.missing = true
		n.addChild(miss, "")
		return t, false
	}
	return p.next(), true
}

func (p *parser) addErrorToken(n *Node, t token) {
	n.addChild(newNode("ERROR", true, t.start, t.end, t.startPoint, t.endPoint), "")
}

// skipBalancedBraces consumes tokens, already past the opening "{",
// until the matching "}" (inclusive), tolerating nested "{"/"}" pairs.
// Used for property/control bodies this grammar treats as opaque.
func (p *parser) skipBalancedBraces() token {
	depth := 1
	var last token
	for {
		t := p.peek()
		if t.kind == "eof" {
			return t
		}
		t = p.next()
		last = t
		switch t.kind {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				return last
			}
		}
	}
}

// consumeTypeSpan consumes tokens up to (not including) the first token
// in stop seen at bracket depth 0, returning the covered span. A type
// reference ("Code[20]", `Record Customer`, `Codeunit "Sales Helper"`)
// is never parsed further than its raw text: symbol extraction only
// ever needs the text (alsymbol.SplitTypeInfo parses it back apart).
func (p *parser) consumeTypeSpan(stop map[string]bool) (start, end uint32, startPt, endPt Point) {
	depth := 0
	first := true
	var startTok, lastTok token
	for {
		t := p.peek()
		if t.kind == "eof" {
			break
		}
		if depth == 0 && stop[t.kind] {
			break
		}
		t = p.next()
		if first {
			startTok = t
			first = false
		}
		lastTok = t
		switch t.kind {
		case "(", "[":
			depth++
		case ")", "]":
			if depth > 0 {
				depth--
			}
		}
	}
	if first {
		t := p.peek()
		return t.start, t.start, t.startPoint, t.startPoint
	}
	return startTok.start, lastTok.end, startTok.startPoint, lastTok.endPoint
}

var semiStop = map[string]bool{";": true, "eof": true}
var typeStopParen = map[string]bool{";": true, ")": true, "eof": true}

// parseTree builds the tree for source, recovering from unparsable bytes
// by wrapping them in ERROR nodes instead of aborting (§7).
func parseTree(source []byte) *Tree {
	p := newParserState(source)
	root := newNode("source_file", true, 0, uint32(len(source)), Point{}, endOfSource(source))

	for {
		p.flushComments(root)
		t := p.peek()
		if t.kind == "eof" {
			break
		}
		if obj := p.parseObjectDeclaration(); obj != nil {
			root.addChild(obj, "")
			continue
		}
		// Not a recognized object header: recover by consuming one token
		// as an ERROR node and trying again from there.
		p.addErrorToken(root, p.next())
	}
	p.flushComments(root)
	root.finish()
	return &Tree{root: root}
}

func endOfSource(source []byte) Point {
	row, col := uint32(0), uint32(0)
	for _, b := range source {
		if b == '\n' {
			row++
			col = 0
		} else {
			col++
		}
	}
	return Point{Row: row, Column: col}
}

var objectKeywords = map[string]string{
	"table":          "table_declaration",
	"tableextension": "table_extension_declaration",
	"page":           "page_declaration",
	"pageextension":  "page_extension_declaration",
	"codeunit":       "codeunit_declaration",
	"report":         "report_declaration",
	"enum":           "enum_declaration",
	"enumextension":  "enum_extension_declaration",
	"xmlport":        "xmlport_declaration",
	"query":          "query_declaration",
	"interface":      "interface_declaration",
	"permissionset":  "permissionset_declaration",
	"controladdin":   "controladdin_declaration",
}

// parseObjectDeclaration parses one top-level AL object: a keyword, an
// optional numeric id, a name, optional extends/implements clauses, and
// a braced member list. Returns nil (without consuming) if the next
// token isn't an object keyword.
func (p *parser) parseObjectDeclaration() *Node {
	head := p.peek()
	kind, ok := objectKeywords[head.kind]
	if !ok {
		return nil
	}
	p.next()
	node := newNode(kind, true, head.start, head.end, head.startPoint, head.endPoint)

	if p.peek().kind == "integer_literal" {
		t := p.next()
		node.addChild(newNode(t.kind, true, t.start, t.end, t.startPoint, t.endPoint), "")
	}

	if name := p.parseIdentifierLike(); name != nil {
		node.addChild(name, "")
		node.extend(name.EndByte(), name.EndPoint())
	}

	if p.peek().kind == "extends" {
		p.next()
		if ext := p.parseIdentifierLike(); ext != nil {
			node.addChild(ext, "")
			node.extend(ext.EndByte(), ext.EndPoint())
		}
	}

	if p.peek().kind == "implements" {
		p.next()
		clause := p.parseImplementsClause()
		node.addChild(clause, "")
		node.extend(clause.EndByte(), clause.EndPoint())
	}

	objKind := kind
	if open, ok := p.expect(node, "{"); ok {
		node.extend(open.end, open.endPoint)
		p.parseMembers(node, objKind)
		if close, ok := p.expect(node, "}"); ok {
			node.extend(close.end, close.endPoint)
		}
	}

	node.finish()
	return node
}

func (p *parser) parseImplementsClause() *Node {
	start := p.peek()
	node := newNode("implements_clause", true, start.start, start.start, start.startPoint, start.startPoint)
	for {
		id := p.parseIdentifierLike()
		if id == nil {
			break
		}
		node.addChild(id, "")
		node.extend(id.EndByte(), id.EndPoint())
		if p.peek().kind != "," {
			break
		}
		p.next()
	}
	node.finish()
	return node
}

// parseIdentifierLike consumes a plain or quoted identifier leaf, or
// returns nil without consuming anything else.
func (p *parser) parseIdentifierLike() *Node {
	t := p.peek()
	if t.kind != "identifier" && t.kind != "quoted_identifier" {
		return nil
	}
	p.next()
	return newNode(t.kind, true, t.start, t.end, t.startPoint, t.endPoint)
}

// parseMembers parses the body of an object declaration up to (not
// including) the closing "}".
func (p *parser) parseMembers(parent *Node, objKind string) {
	for {
		p.flushComments(parent)
		t := p.peek()
		switch t.kind {
		case "}", "eof":
			return
		case "var":
			sec := p.parseVarSection()
			parent.addChild(sec, "")
		case "fields":
			sec := p.parseLeafSection("fields_section", "field", p.parseFieldDeclaration)
			parent.addChild(sec, "")
		case "keys":
			sec := p.parseLeafSection("keys_section", "key", p.parseKeyDeclaration)
			parent.addChild(sec, "")
		case "layout":
			parent.addChild(p.parseOpaqueSection("layout_section", "layout"), "")
		case "actions":
			parent.addChild(p.parseOpaqueSection("actions_section", "actions"), "")
		case "requestpage", "dataset":
			parent.addChild(p.parseOpaqueSection(t.kind+"_section", t.kind), "")
		case "local", "internal", "protected":
			parent.addChild(p.parseProcedureLike(objKind), "")
		case "procedure":
			parent.addChild(p.parseProcedureLike(objKind), "")
		case "trigger":
			parent.addChild(p.parseProcedureLike(objKind), "")
		case "value":
			if objKind == "enum_declaration" || objKind == "enum_extension_declaration" {
				parent.addChild(p.parseEnumValueDeclaration(), "")
				continue
			}
			parent.addChild(p.parseOpaquePropertyOrError(), "")
		default:
			parent.addChild(p.parseOpaquePropertyOrError(), "")
		}
	}
}

// parseOpaquePropertyOrError consumes one property assignment
// ("Caption = 'x';") or control reference this grammar doesn't model
// structurally, recovering with an ERROR node if nothing sensible can
// be consumed at all (guards against an infinite loop on garbage input).
func (p *parser) parseOpaquePropertyOrError() *Node {
	start := p.peek()
	if start.kind == "eof" || start.kind == "}" {
		n := newNode("ERROR", true, start.start, start.start, start.startPoint, start.startPoint)
		n.finish()
		return n
	}
	s, e, sp, ep := p.consumeTypeSpan(semiStop)
	if p.peek().kind == ";" {
		t := p.next()
		e, ep = t.end, t.endPoint
	} else if p.peek().kind == "{" {
		p.next()
		t := p.skipBalancedBraces()
		e, ep = t.end, t.endPoint
	}
	if s == e {
		// consumeTypeSpan made no progress (e.g. a lone "}" mismatch);
		// force forward progress by consuming exactly one token as ERROR.
		t := p.next()
		n := newNode("ERROR", true, t.start, t.end, t.startPoint, t.endPoint)
		n.finish()
		return n
	}
	n := newNode("property_declaration", true, s, e, sp, ep)
	n.finish()
	return n
}

// parseOpaqueSection parses a section this grammar doesn't model
// structurally (layout/actions/requestpage/dataset): just its keyword
// and a balanced "{...}" body, kept as raw span with no children.
func (p *parser) parseOpaqueSection(kind, keyword string) *Node {
	kw := p.next() // keyword already confirmed present by the caller's switch
	node := newNode(kind, true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if open, ok := p.expect(node, "{"); ok {
		node.extend(open.end, open.endPoint)
		close := p.skipBalancedBraces()
		node.extend(close.end, close.endPoint)
	}
	node.finish()
	return node
}

func (p *parser) parseVarSection() *Node {
	kw := p.next() // "var"
	node := newNode("var_section", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	for {
		p.flushComments(node)
		if p.peek().kind != "identifier" && p.peek().kind != "quoted_identifier" {
			break
		}
		if p.peekAt(1).kind != ":" && p.peekAt(1).kind != "," {
			break
		}
		decls := p.parseVariableDeclarationLine()
		for _, d := range decls {
			node.addChild(d, "")
			node.extend(d.EndByte(), d.EndPoint())
		}
	}
	node.finish()
	return node
}

// parseVariableDeclarationLine parses "A, B, C: Type;" into one
// variable_declaration per name, each carrying its own type_reference
// node (the nodes are distinct objects so each keeps a single parent,
// even though they all describe the same declared type).
func (p *parser) parseVariableDeclarationLine() []*Node {
	var names []*Node
	for {
		id := p.parseIdentifierLike()
		if id == nil {
			break
		}
		names = append(names, id)
		if p.peek().kind != "," {
			break
		}
		p.next()
	}
	if len(names) == 0 {
		// Can't make progress; consume one token as ERROR to avoid looping.
		t := p.next()
		errNode := newNode("ERROR", true, t.start, t.end, t.startPoint, t.endPoint)
		errNode.finish()
		return []*Node{errNode}
	}

	var typeStart, typeEnd uint32
	var typeStartPt, typeEndPt Point
	hasType := false
	if p.peek().kind == ":" {
		p.next()
		typeStart, typeEnd, typeStartPt, typeEndPt = p.consumeTypeSpan(semiStop)
		hasType = true
	}
	if p.peek().kind == ";" {
		t := p.next()
		if !hasType {
			typeEnd, typeEndPt = t.end, t.endPoint
		}
	}

	var out []*Node
	for _, id := range names {
		decl := newNode("variable_declaration", true, id.StartByte(), id.EndByte(), id.StartPoint(), id.EndPoint())
		decl.addChild(id, "")
		if hasType {
			typeNode := newNode("type_reference", true, typeStart, typeEnd, typeStartPt, typeEndPt)
			typeNode.finish()
			decl.addChild(typeNode, "type")
			decl.extend(typeEnd, typeEndPt)
		}
		decl.finish()
		out = append(out, decl)
	}
	return out
}

func (p *parser) parseLeafSection(kind, itemKeyword string, parseItem func() *Node) *Node {
	kw := p.next() // "fields"/"keys"
	node := newNode(kind, true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if open, ok := p.expect(node, "{"); ok {
		node.extend(open.end, open.endPoint)
		for {
			p.flushComments(node)
			t := p.peek()
			if t.kind == "}" || t.kind == "eof" {
				break
			}
			if t.kind != itemKeyword {
				p.addErrorToken(node, p.next())
				continue
			}
			item := parseItem()
			node.addChild(item, "")
			node.extend(item.EndByte(), item.EndPoint())
		}
		if close, ok := p.expect(node, "}"); ok {
			node.extend(close.end, close.endPoint)
		}
	}
	node.finish()
	return node
}

// parseFieldDeclaration parses `field(1; "No."; Code[20]) { ... }`. The
// field id is skipped (not modeled: nothing downstream needs it); the
// name is the first identifier-kind child so cst.FirstIdentifier
// picks it correctly without a dedicated "name" field.
func (p *parser) parseFieldDeclaration() *Node {
	kw := p.next() // "field"
	node := newNode("field_declaration", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if open, ok := p.expect(node, "("); ok {
		node.extend(open.end, open.endPoint)
		p.skipToken(node, "integer_literal")
		p.skipToken(node, ";")
		if name := p.parseIdentifierLike(); name != nil {
			node.addChild(name, "")
			node.extend(name.EndByte(), name.EndPoint())
		}
		p.skipToken(node, ";")
		s, e, sp, ep := p.consumeTypeSpan(typeStopParen)
		if s != e {
			typeNode := newNode("type_reference", true, s, e, sp, ep)
			typeNode.finish()
			node.addChild(typeNode, "type")
			node.extend(e, ep)
		}
		if close, ok := p.expect(node, ")"); ok {
			node.extend(close.end, close.endPoint)
		}
	}
	if p.peek().kind == "{" {
		p.next()
		close := p.skipBalancedBraces()
		node.extend(close.end, close.endPoint)
	}
	node.finish()
	return node
}

// parseKeyDeclaration parses `key(PK; "No.") { ... }`; the field list
// after the first ";" is left unparsed (opaque), so the key's name
// (the first identifier-kind child) is never ambiguous with it.
func (p *parser) parseKeyDeclaration() *Node {
	kw := p.next() // "key"
	node := newNode("key_declaration", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if open, ok := p.expect(node, "("); ok {
		node.extend(open.end, open.endPoint)
		if name := p.parseIdentifierLike(); name != nil {
			node.addChild(name, "")
			node.extend(name.EndByte(), name.EndPoint())
		}
		_, e, _, ep := p.consumeTypeSpan(map[string]bool{")": true, "eof": true})
		if e > node.EndByte() {
			node.extend(e, ep)
		}
		if close, ok := p.expect(node, ")"); ok {
			node.extend(close.end, close.endPoint)
		}
	}
	if p.peek().kind == "{" {
		p.next()
		close := p.skipBalancedBraces()
		node.extend(close.end, close.endPoint)
	}
	node.finish()
	return node
}

func (p *parser) parseEnumValueDeclaration() *Node {
	kw := p.next() // "value"
	node := newNode("enum_value_declaration", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if open, ok := p.expect(node, "("); ok {
		node.extend(open.end, open.endPoint)
		p.skipToken(node, "integer_literal")
		p.skipToken(node, ";")
		if name := p.parseIdentifierLike(); name != nil {
			node.addChild(name, "")
			node.extend(name.EndByte(), name.EndPoint())
		}
		if close, ok := p.expect(node, ")"); ok {
			node.extend(close.end, close.endPoint)
		}
	}
	if p.peek().kind == "{" {
		p.next()
		close := p.skipBalancedBraces()
		node.extend(close.end, close.endPoint)
	}
	node.finish()
	return node
}

// skipToken consumes tok if present (as an unnamed child), tolerating
// its absence silently — used for the punctuation inside a
// already-malformed-tolerant leaf declaration.
func (p *parser) skipToken(parent *Node, kind string) {
	if p.peek().kind == kind {
		t := p.next()
		parent.extend(t.end, t.endPoint)
	}
}

// parseProcedureLike parses a procedure/trigger declaration. Inside an
// interface body a signature with no body (terminated directly by ";")
// is an interface_method instead of a procedure_declaration (§4.1).
func (p *parser) parseProcedureLike(objKind string) *Node {
	modStart := p.peek()
	cur := modStart
	for cur.kind == "local" || cur.kind == "internal" || cur.kind == "protected" {
		p.next()
		cur = p.peek()
	}
	isTrigger := cur.kind == "trigger"
	kw := p.next() // "procedure" or "trigger"

	// The node's own span starts at any visibility-modifier keyword, not
	// at "procedure" itself: toggleVisibilityAction (code_action.go) finds
	// "procedure" as a substring of the node's own text and needs
	// whatever precedes it in that text to be the modifier, if any.
	node := newNode("procedure_declaration", true, modStart.start, kw.end, modStart.startPoint, kw.endPoint)
	if isTrigger {
		node.kind = "trigger_declaration"
	}

	name := p.parseIdentifierLike()
	if name != nil {
		node.addChild(name, "")
		node.extend(name.EndByte(), name.EndPoint())
	}

	if open, ok := p.expect(node, "("); ok {
		node.extend(open.end, open.endPoint)
		params := p.parseParameterList()
		node.addChild(params, "parameters")
		node.extend(params.EndByte(), params.EndPoint())
		if close, ok := p.expect(node, ")"); ok {
			node.extend(close.end, close.endPoint)
		}
	}

	if p.peek().kind == ":" {
		p.next()
		s, e, sp, ep := p.consumeTypeSpan(map[string]bool{";": true, "var": true, "begin": true, "eof": true})
		if s != e {
			ret := newNode("type_reference", true, s, e, sp, ep)
			ret.finish()
			node.addChild(ret, "return_type")
			node.extend(e, ep)
		}
	}

	if isInterfaceMethodSignature(objKind, p.peek().kind) {
		node.kind = "interface_method"
		if t, ok := p.expect(node, ";"); ok {
			node.extend(t.end, t.endPoint)
		}
		node.finish()
		return node
	}

	if p.peek().kind == "var" {
		sec := p.parseVarSection()
		node.addChild(sec, "")
		node.extend(sec.EndByte(), sec.EndPoint())
	}

	if p.peek().kind == "begin" {
		block := p.parseBlock()
		node.addChild(block, "")
		node.extend(block.EndByte(), block.EndPoint())
	}

	if t, ok := p.expect(node, ";"); ok {
		node.extend(t.end, t.endPoint)
	}
	node.finish()
	return node
}

// isInterfaceMethodSignature reports whether a just-parsed signature,
// inside an interface body, is a bare forward declaration (ends at ";"
// with no var/begin to follow).
func isInterfaceMethodSignature(objKind, nextKind string) bool {
	return objKind == "interface_declaration" && nextKind != "var" && nextKind != "begin"
}

func (p *parser) parseParameterList() *Node {
	start := p.peek()
	node := newNode("parameter_list", true, start.start, start.start, start.startPoint, start.startPoint)
	for {
		p.flushComments(node)
		if p.peek().kind == ")" || p.peek().kind == "eof" {
			break
		}
		param := p.parseParameter()
		node.addChild(param, "")
		node.extend(param.EndByte(), param.EndPoint())
		if p.peek().kind != ";" {
			break
		}
		p.next()
	}
	node.finish()
	return node
}

func (p *parser) parseParameter() *Node {
	start := p.peek()
	if start.kind == "var" {
		p.next()
	}
	name := p.parseIdentifierLike()
	if name == nil {
		// Can't make progress; recover by consuming one token.
		t := p.next()
		n := newNode("ERROR", true, t.start, t.end, t.startPoint, t.endPoint)
		n.finish()
		return n
	}
	node := newNode("parameter", true, start.start, name.EndByte(), start.startPoint, name.EndPoint())
	node.addChild(name, "")
	if p.peek().kind == ":" {
		p.next()
		s, e, sp, ep := p.consumeTypeSpan(map[string]bool{";": true, ")": true, "eof": true})
		if s != e {
			typeNode := newNode("type_reference", true, s, e, sp, ep)
			typeNode.finish()
			node.addChild(typeNode, "type")
			node.extend(e, ep)
		}
	}
	node.finish()
	return node
}

// parseBlock parses a "begin ... end" compound statement.
func (p *parser) parseBlock() *Node {
	kw := p.next() // "begin"
	node := newNode("block", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	for {
		p.flushComments(node)
		t := p.peek()
		if t.kind == "end" || t.kind == "eof" {
			break
		}
		if t.kind == "else" || t.kind == "until" {
			// A malformed/unbalanced block; stop rather than swallow a
			// sibling construct's keyword.
			break
		}
		stmt := p.parseStatement()
		if stmt == nil {
			p.addErrorToken(node, p.next())
			continue
		}
		node.addChild(stmt, "")
		node.extend(stmt.EndByte(), stmt.EndPoint())
	}
	if t, ok := p.expect(node, "end"); ok {
		node.extend(t.end, t.endPoint)
	}
	node.finish()
	return node
}

// parseStatementOrBlock parses a "begin...end" block if present, else a
// single bare statement, matching AL's optional-begin/end bodies.
func (p *parser) parseStatementOrBlock() *Node {
	if p.peek().kind == "begin" {
		return p.parseBlock()
	}
	return p.parseStatement()
}

// parseStatement parses one statement. Comments ahead of it are the
// caller's responsibility to flush into its own container first.
func (p *parser) parseStatement() *Node {
	switch p.peek().kind {
	case "if":
		return p.parseIf()
	case "for":
		return p.parseFor()
	case "while":
		return p.parseWhile()
	case "with":
		return p.parseWith()
	case "repeat":
		return p.parseRepeat()
	case "case":
		return p.parseCase()
	case "begin":
		return p.parseBlock()
	case "var":
		return p.parseVarSection()
	case "exit":
		return p.parseExit()
	case ";":
		// An empty statement (stray semicolon); consume it quietly.
		t := p.next()
		n := newNode("empty_statement", true, t.start, t.end, t.startPoint, t.endPoint)
		n.finish()
		return n
	case "eof", "end", "else", "until":
		return nil
	default:
		return p.parseExpressionOrAssignmentStatement()
	}
}

func (p *parser) parseExit() *Node {
	kw := p.next()
	node := newNode("exit_statement", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if p.peek().kind == "(" {
		p.next()
		if p.peek().kind != ")" {
			expr := p.parseExpression()
			node.addChild(expr, "")
			node.extend(expr.EndByte(), expr.EndPoint())
		}
		if t, ok := p.expect(node, ")"); ok {
			node.extend(t.end, t.endPoint)
		}
	}
	if t, ok := p.expect(node, ";"); ok {
		node.extend(t.end, t.endPoint)
	}
	node.finish()
	return node
}

func (p *parser) parseExpressionOrAssignmentStatement() *Node {
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if p.peek().kind == ":=" {
		p.next()
		rhs := p.parseExpression()
		node := newNode("assignment_statement", true, expr.StartByte(), expr.EndByte(), expr.StartPoint(), expr.EndPoint())
		node.addChild(expr, "object")
		if rhs != nil {
			node.addChild(rhs, "value")
			node.extend(rhs.EndByte(), rhs.EndPoint())
		}
		if t, ok := p.expect(node, ";"); ok {
			node.extend(t.end, t.endPoint)
		}
		node.finish()
		return node
	}

	node := newNode("expression_statement", true, expr.StartByte(), expr.EndByte(), expr.StartPoint(), expr.EndPoint())
	node.addChild(expr, "")
	if t, ok := p.expect(node, ";"); ok {
		node.extend(t.end, t.endPoint)
	}
	node.finish()
	return node
}

func (p *parser) parseIf() *Node {
	kw := p.next() // "if"
	node := newNode("if_statement", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	cond := p.parseExpression()
	if cond != nil {
		node.addChild(cond, "")
		node.extend(cond.EndByte(), cond.EndPoint())
	}
	p.expect(node, "then")

	cons := p.parseStatementOrBlock()
	if cons != nil {
		node.addChild(cons, "consequence")
		node.extend(cons.EndByte(), cons.EndPoint())
	}

	if p.peek().kind == "else" {
		p.next()
		alt := p.parseStatementOrBlock()
		if alt != nil {
			node.addChild(alt, "alternative")
			node.extend(alt.EndByte(), alt.EndPoint())
		}
	}
	node.finish()
	return node
}

func (p *parser) parseFor() *Node {
	kw := p.next() // "for"
	node := newNode("for_statement", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if counter := p.parseIdentifierLike(); counter != nil {
		node.addChild(counter, "")
		node.extend(counter.EndByte(), counter.EndPoint())
	}
	p.expect(node, ":=")
	if from := p.parseExpression(); from != nil {
		node.addChild(from, "")
		node.extend(from.EndByte(), from.EndPoint())
	}
	if p.peek().kind == "to" || p.peek().kind == "downto" {
		p.next()
	}
	if to := p.parseExpression(); to != nil {
		node.addChild(to, "")
		node.extend(to.EndByte(), to.EndPoint())
	}
	p.expect(node, "do")
	body := p.parseStatementOrBlock()
	if body != nil {
		node.addChild(body, "")
		node.extend(body.EndByte(), body.EndPoint())
	}
	node.finish()
	return node
}

func (p *parser) parseWhile() *Node {
	kw := p.next() // "while"
	node := newNode("while_statement", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if cond := p.parseExpression(); cond != nil {
		node.addChild(cond, "")
		node.extend(cond.EndByte(), cond.EndPoint())
	}
	p.expect(node, "do")
	body := p.parseStatementOrBlock()
	if body != nil {
		node.addChild(body, "")
		node.extend(body.EndByte(), body.EndPoint())
	}
	node.finish()
	return node
}

func (p *parser) parseWith() *Node {
	kw := p.next() // "with"
	node := newNode("with_statement", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	if id := p.parseIdentifierLike(); id != nil {
		node.addChild(id, "")
		node.extend(id.EndByte(), id.EndPoint())
	}
	p.expect(node, "do")
	body := p.parseStatementOrBlock()
	if body != nil {
		node.addChild(body, "")
		node.extend(body.EndByte(), body.EndPoint())
	}
	node.finish()
	return node
}

// parseRepeat parses "repeat <stmts> until <cond>;". The until-condition
// is the last named child and, per §9's formatting design, shares the
// statement's end row so the formatter can recognize and exempt it.
func (p *parser) parseRepeat() *Node {
	kw := p.next() // "repeat"
	node := newNode("repeat_statement", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	for {
		p.flushComments(node)
		t := p.peek()
		if t.kind == "until" || t.kind == "eof" {
			break
		}
		stmt := p.parseStatement()
		if stmt == nil {
			p.addErrorToken(node, p.next())
			continue
		}
		node.addChild(stmt, "")
		node.extend(stmt.EndByte(), stmt.EndPoint())
	}
	p.expect(node, "until")
	cond := p.parseExpression()
	if cond != nil {
		node.addChild(cond, "")
		node.extend(cond.EndByte(), cond.EndPoint())
	}
	if t, ok := p.expect(node, ";"); ok {
		node.extend(t.end, t.endPoint)
	}
	node.finish()
	return node
}

func (p *parser) parseCase() *Node {
	kw := p.next() // "case"
	node := newNode("case_statement", true, kw.start, kw.end, kw.startPoint, kw.endPoint)
	selector := p.parseExpression()
	if selector != nil {
		node.addChild(selector, "")
		node.extend(selector.EndByte(), selector.EndPoint())
	}
	p.expect(node, "of")

	for {
		p.flushComments(node)
		t := p.peek()
		if t.kind == "end" || t.kind == "eof" {
			break
		}
		branch := p.parseCaseBranch()
		node.addChild(branch, "")
		node.extend(branch.EndByte(), branch.EndPoint())
		if t.kind == "else" {
			break
		}
	}
	if t, ok := p.expect(node, "end"); ok {
		node.extend(t.end, t.endPoint)
	}
	if t, ok := p.expect(node, ";"); ok {
		node.extend(t.end, t.endPoint)
	}
	node.finish()
	return node
}

func (p *parser) parseCaseBranch() *Node {
	start := p.peek()
	node := newNode("case_branch", true, start.start, start.start, start.startPoint, start.startPoint)

	if start.kind == "else" {
		p.next()
	} else {
		for {
			label := p.parseExpression()
			if label == nil {
				break
			}
			node.addChild(label, "")
			node.extend(label.EndByte(), label.EndPoint())
			if p.peek().kind != "," {
				break
			}
			p.next()
		}
	}
	p.expect(node, ":")

	body := p.parseStatementOrBlock()
	if body != nil {
		node.addChild(body, "")
		node.extend(body.EndByte(), body.EndPoint())
	}
	if t, ok := p.expect(node, ";"); ok {
		node.extend(t.end, t.endPoint)
	}
	node.finish()
	return node
}

// --- Expressions ---
//
// This grammar only parses expressions deep enough to keep every
// identifier reachable as a named node for rename/references/hover/
// extract-procedure (which all walk NamedChild looking for
// identifier/quoted_identifier leaves and method_call/function_call
// shapes): operator precedence and arithmetic semantics are never
// evaluated by any feature, so binary_expression is flat and untyped.

var binaryOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "=": true, "<>": true,
	"<": true, ">": true, "<=": true, ">=": true, "and": true, "or": true,
	"div": true, "mod": true, "&": true,
}

func (p *parser) parseExpression() *Node {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for binaryOperators[p.peek().kind] {
		p.next() // operator token; not modeled as a node, nothing inspects it
		right := p.parseUnary()
		node := newNode("binary_expression", true, left.StartByte(), left.EndByte(), left.StartPoint(), left.EndPoint())
		node.addChild(left, "left")
		if right != nil {
			node.addChild(right, "right")
			node.extend(right.EndByte(), right.EndPoint())
		}
		node.finish()
		left = node
	}
	return left
}

func (p *parser) parseUnary() *Node {
	if p.peek().kind == "-" || p.peek().kind == "not" {
		op := p.next()
		operand := p.parseUnary()
		node := newNode("unary_expression", true, op.start, op.end, op.startPoint, op.endPoint)
		if operand != nil {
			node.addChild(operand, "")
			node.extend(operand.EndByte(), operand.EndPoint())
		}
		node.finish()
		return node
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by an optional
// single `.member` hop and an optional call, matching the `Var.Method()`
// / `Func()` shapes this server's typed-call and signature-help logic
// actually reasons about (§9: multi-hop chains aren't modeled anywhere
// else in this system either).
func (p *parser) parsePostfix() *Node {
	primary := p.parsePrimary()
	if primary == nil {
		return nil
	}

	if p.peek().kind == "." && (p.peekAt(1).kind == "identifier" || p.peekAt(1).kind == "quoted_identifier") {
		p.next() // "."
		member := p.parseIdentifierLike()
		if p.peek().kind == "(" {
			call := newNode("method_call", true, primary.StartByte(), primary.EndByte(), primary.StartPoint(), primary.EndPoint())
			call.addChild(primary, "object")
			call.addChild(member, "method")
			p.parseCallArguments(call)
			call.finish()
			return call
		}
		access := newNode("member_access", true, primary.StartByte(), member.EndByte(), primary.StartPoint(), member.EndPoint())
		access.addChild(primary, "object")
		access.addChild(member, "member")
		access.finish()
		return access
	}

	if p.peek().kind == "(" {
		call := newNode("function_call", true, primary.StartByte(), primary.EndByte(), primary.StartPoint(), primary.EndPoint())
		call.addChild(primary, "name")
		p.parseCallArguments(call)
		call.finish()
		return call
	}

	return primary
}

// parseCallArguments parses "(" arg ("," arg)* ")" directly onto call,
// keeping "," as anonymous children (signature_help.countCommasBefore
// walks ChildCount/Child, not NamedChild, to find them).
func (p *parser) parseCallArguments(call *Node) {
	open, _ := p.expect(call, "(")
	call.extend(open.end, open.endPoint)
	for {
		if p.peek().kind == ")" || p.peek().kind == "eof" {
			break
		}
		arg := p.parseExpression()
		if arg == nil {
			break
		}
		call.addChild(arg, "")
		call.extend(arg.EndByte(), arg.EndPoint())
		if p.peek().kind != "," {
			break
		}
		comma := p.next()
		call.addChild(newNode(",", false, comma.start, comma.end, comma.startPoint, comma.endPoint), "")
	}
	if close, ok := p.expect(call, ")"); ok {
		call.extend(close.end, close.endPoint)
	}
}

func (p *parser) parsePrimary() *Node {
	t := p.peek()
	switch t.kind {
	case "identifier", "quoted_identifier", "integer_literal", "decimal_literal", "string_literal":
		p.next()
		n := newNode(t.kind, true, t.start, t.end, t.startPoint, t.endPoint)
		n.finish()
		return n
	case "(":
		p.next()
		inner := p.parseExpression()
		if p.peek().kind == ")" {
			p.next()
		}
		return inner
	default:
		return nil
	}
}
