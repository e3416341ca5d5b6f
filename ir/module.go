package ir

// FunctionID identifies a function within a module, independent of name
// lookup (spec.md §3: "GL-function records (function_id, signature, body)").
type FunctionID uint32

// ImportedFunction is a function declared but not defined in this module —
// a builtin (__lp_q32_*, __lpfx_*) or a host function (__host_log) that
// the target's linker or loader must resolve.
type ImportedFunction struct {
	Name      string
	Signature *Signature
}

// Module is a complete IR translation unit: a name, a target description,
// and every function — defined or merely declared — it references
// (spec.md §3, "IR module").
type Module struct {
	Name   string
	Target TargetDesc

	SourceLocs *SourceLocManager

	functions    []*Function
	functionIdx  map[string]FunctionID
	imports      []ImportedFunction
	importIdx    map[string]int
}

// NewModule creates an empty module targeting the given description.
func NewModule(name string, target TargetDesc) *Module {
	return &Module{
		Name:        name,
		Target:      target,
		SourceLocs:  NewSourceLocManager(),
		functionIdx: make(map[string]FunctionID),
		importIdx:   make(map[string]int),
	}
}

// DeclareFunction registers a new, empty function and returns its ID. The
// caller fills in blocks/instructions on the returned *Function.
func (m *Module) DeclareFunction(name string, sig *Signature) (FunctionID, *Function) {
	f := NewFunction(name, sig)
	id := FunctionID(len(m.functions))
	m.functions = append(m.functions, f)
	m.functionIdx[name] = id
	return id, f
}

// Function looks up a module-local function by ID.
func (m *Module) Function(id FunctionID) *Function { return m.functions[id] }

// FunctionByName looks up a module-local function by name.
func (m *Module) FunctionByName(name string) (*Function, bool) {
	id, ok := m.functionIdx[name]
	if !ok {
		return nil, false
	}
	return m.functions[id], true
}

// Functions returns every defined function, in declaration order.
func (m *Module) Functions() []*Function { return m.functions }

// DeclareImport registers an external function declaration if one with
// this name isn't already present, and returns its index. Re-declaring an
// existing import with the same name is a no-op (the Q32 transform's
// rule: "emits an imported declaration ... if it is not already declared").
func (m *Module) DeclareImport(name string, sig *Signature) int {
	if idx, ok := m.importIdx[name]; ok {
		return idx
	}
	idx := len(m.imports)
	m.imports = append(m.imports, ImportedFunction{Name: name, Signature: sig})
	m.importIdx[name] = idx
	return idx
}

// Imports returns every imported (externally-defined) function declared
// in this module.
func (m *Module) Imports() []ImportedFunction { return m.imports }

// IsImported reports whether name is declared as an import in this module.
func (m *Module) IsImported(name string) bool {
	_, ok := m.importIdx[name]
	return ok
}
