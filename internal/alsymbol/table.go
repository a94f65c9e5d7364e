package alsymbol

import "strings"

// path locates a symbol within a DocumentSymbolTable's Symbols vector:
// the top-level object index, plus a descent path of child indices.
type path struct {
	objectIndex int
	childPath   []int
}

// DocumentSymbolTable indexes a document's symbol tree by
// case-insensitive name and answers scope-aware lookups. It is immutable
// for its lifetime; a reparse produces a new table rather than mutating
// this one, per §3's invariant that the index always matches its
// owning symbols vector.
type DocumentSymbolTable struct {
	Symbols []*Symbol
	index   map[string][]path
}

// NewDocumentSymbolTable builds a table over symbols, which must be the
// top-level Object symbols produced by Extract.
func NewDocumentSymbolTable(symbols []*Symbol) *DocumentSymbolTable {
	table := &DocumentSymbolTable{
		Symbols: symbols,
		index:   make(map[string][]path),
	}
	for objectIndex, obj := range symbols {
		table.indexSymbol(obj, objectIndex, nil)
	}
	return table
}

func (t *DocumentSymbolTable) indexSymbol(sym *Symbol, objectIndex int, childPath []int) {
	key := strings.ToLower(sym.Name)
	cp := append([]int(nil), childPath...)
	t.index[key] = append(t.index[key], path{objectIndex: objectIndex, childPath: cp})

	for i, child := range sym.Children {
		t.indexSymbol(child, objectIndex, append(append([]int(nil), childPath...), i))
	}
}

func (t *DocumentSymbolTable) resolve(p path) *Symbol {
	sym := t.Symbols[p.objectIndex]
	for _, i := range p.childPath {
		if i < 0 || i >= len(sym.Children) {
			return nil
		}
		sym = sym.Children[i]
	}
	return sym
}

// Lookup returns every symbol in the document matching name, case-insensitively.
func (t *DocumentSymbolTable) Lookup(name string) []*Symbol {
	paths := t.index[strings.ToLower(name)]
	if len(paths) == 0 {
		return nil
	}
	out := make([]*Symbol, 0, len(paths))
	for _, p := range paths {
		if sym := t.resolve(p); sym != nil {
			out = append(out, sym)
		}
	}
	return out
}

// containingObject returns the top-level object whose span contains
// offset, or nil if offset lies outside every object (e.g. between
// declarations).
func (t *DocumentSymbolTable) containingObject(offset uint32) *Symbol {
	for _, obj := range t.Symbols {
		if obj.Span.Contains(offset) {
			return obj
		}
	}
	return nil
}

// containingProcedure returns the Procedure/Trigger child of obj whose
// span contains offset, or nil.
func containingProcedure(obj *Symbol, offset uint32) *Symbol {
	if obj == nil {
		return nil
	}
	for _, child := range obj.Children {
		if (child.Kind == KindProcedure || child.Kind == KindTrigger) && child.Span.Contains(offset) {
			return child
		}
	}
	return nil
}

func findByName(symbols []*Symbol, name string) []*Symbol {
	lower := strings.ToLower(name)
	var out []*Symbol
	for _, sym := range symbols {
		if strings.ToLower(sym.Name) == lower {
			out = append(out, sym)
		}
	}
	return out
}

// LookupInScope resolves name starting from the innermost scope
// containing offset (procedure locals/parameters, then object members,
// then the whole document), stopping at the first non-empty layer —
// AL's procedure-local -> object-member -> global-object shadowing order.
func (t *DocumentSymbolTable) LookupInScope(name string, offset uint32) []*Symbol {
	obj := t.containingObject(offset)
	if obj == nil {
		return t.Lookup(name)
	}

	if proc := containingProcedure(obj, offset); proc != nil {
		if found := findByName(proc.Children, name); len(found) > 0 {
			return found
		}
	}

	if found := findByName(obj.Children, name); len(found) > 0 {
		return found
	}

	return t.Lookup(name)
}

// ReachableSymbols returns the symbols visible for completion at offset:
// locals (if inside a procedure), then object members, then the
// enclosing object; outside any object, every top-level object.
func (t *DocumentSymbolTable) ReachableSymbols(offset uint32) []*Symbol {
	obj := t.containingObject(offset)
	if obj == nil {
		return append([]*Symbol(nil), t.Symbols...)
	}

	var out []*Symbol
	if proc := containingProcedure(obj, offset); proc != nil {
		out = append(out, proc.Children...)
	}
	out = append(out, obj.Children...)
	out = append(out, obj)
	return out
}

// ProcedureAt returns the Procedure/Trigger symbol whose span contains
// offset, or nil if offset lies outside every procedure.
func (t *DocumentSymbolTable) ProcedureAt(offset uint32) *Symbol {
	return containingProcedure(t.containingObject(offset), offset)
}

// FindObjectByName returns the top-level object named name, or nil.
func (t *DocumentSymbolTable) FindObjectByName(name string) *Symbol {
	found := findByName(t.Symbols, name)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// FindObjectProcedure returns the Procedure/Trigger child of object
// named method, or nil.
func FindObjectProcedure(object *Symbol, method string) *Symbol {
	if object == nil {
		return nil
	}
	lower := strings.ToLower(method)
	for _, child := range object.Children {
		if (child.Kind == KindProcedure || child.Kind == KindTrigger) && strings.ToLower(child.Name) == lower {
			return child
		}
	}
	return nil
}

// FindInterfaceMethod returns the method procedure of the interface
// object named interfaceName, or nil if no such interface or method
// exists in this document.
func (t *DocumentSymbolTable) FindInterfaceMethod(interfaceName, method string) *Symbol {
	obj := t.FindObjectByName(interfaceName)
	if obj == nil || obj.ObjectKind != ObjectInterface {
		return nil
	}
	return FindObjectProcedure(obj, method)
}

// InterfaceMethodAt reports whether offset sits on a Procedure child of
// an Interface object, returning the interface and method names.
func (t *DocumentSymbolTable) InterfaceMethodAt(offset uint32) (interfaceName, methodName string, ok bool) {
	obj := t.containingObject(offset)
	if obj == nil || obj.ObjectKind != ObjectInterface {
		return "", "", false
	}
	proc := containingProcedure(obj, offset)
	if proc == nil {
		return "", "", false
	}
	return obj.Name, proc.Name, true
}

// ImplementationProcedureAt reports whether offset sits on a Procedure
// child of an object with a non-empty implements list.
func (t *DocumentSymbolTable) ImplementationProcedureAt(offset uint32) (implements []string, methodName string, ok bool) {
	obj := t.containingObject(offset)
	if obj == nil || len(obj.Implements) == 0 {
		return nil, "", false
	}
	proc := containingProcedure(obj, offset)
	if proc == nil {
		return nil, "", false
	}
	return obj.Implements, proc.Name, true
}

// CodeunitProcedureAt reports whether offset sits on a Procedure child of
// any non-Interface object, regardless of its implements list.
func (t *DocumentSymbolTable) CodeunitProcedureAt(offset uint32) (objectName, methodName string, ok bool) {
	obj := t.containingObject(offset)
	if obj == nil || obj.ObjectKind == ObjectInterface {
		return "", "", false
	}
	proc := containingProcedure(obj, offset)
	if proc == nil {
		return "", "", false
	}
	return obj.Name, proc.Name, true
}

// FindImplementationProcedures returns, across this document's top-level
// objects, every Procedure/Trigger child named method belonging to an
// object whose implements list contains interfaceName.
func (t *DocumentSymbolTable) FindImplementationProcedures(interfaceName, method string) []*Symbol {
	lowerIface := strings.ToLower(interfaceName)
	var out []*Symbol
	for _, obj := range t.Symbols {
		implements := false
		for _, iface := range obj.Implements {
			if strings.ToLower(iface) == lowerIface {
				implements = true
				break
			}
		}
		if !implements {
			continue
		}
		if proc := FindObjectProcedure(obj, method); proc != nil {
			out = append(out, proc)
		}
	}
	return out
}
