package component

import (
	"bytes"
	"encoding/json"
)

// Raw is one record emitted by a language extractor, decoded once at the
// boundary. Field presence varies per language and per kind; absent fields
// stay at their zero value. The shape is the superset of every extractor's
// output, so adapters read only the fields their language populates.
type Raw struct {
	Kind string `json:"kind,omitempty"`
	// Rust extractors tag records with "type" instead of "kind".
	TypeTag string `json:"type,omitempty"`

	Name    string `json:"name,omitempty"`
	TagName string `json:"tag_name,omitempty"`

	Module             string `json:"module,omitempty"`
	ModuleName         string `json:"module_name,omitempty"`
	ModulePath         string `json:"module_path,omitempty"`
	ResolvedModulePath string `json:"resolved_module_path,omitempty"`
	FilePath           string `json:"file_path,omitempty"`
	RelativePath       string `json:"relative_path,omitempty"`
	RootFolder         string `json:"root_folder,omitempty"`

	Class                string `json:"class,omitempty"`
	ReceiverType         string `json:"receiver_type,omitempty"`
	CompleteFunctionPath string `json:"complete_function_path,omitempty"`

	StartLine int       `json:"start_line,omitempty"`
	EndLine   int       `json:"end_line,omitempty"`
	Span      *Span     `json:"span,omitempty"`
	Location  *Location `json:"location,omitempty"`

	Code          string `json:"code,omitempty"`
	Statement     string `json:"statement,omitempty"`
	TypeSignature string `json:"type_signature,omitempty"`

	Parameters     []Param           `json:"parameters,omitempty"`
	ParameterTypes map[string]string `json:"parameter_types,omitempty"`
	Returns        string            `json:"returns,omitempty"`
	Decorators     []string          `json:"decorators,omitempty"`
	Annotation     string            `json:"annotation,omitempty"`
	ReturnType     string            `json:"return_type,omitempty"`
	AliasedType    string            `json:"aliased_type,omitempty"`
	Value          json.RawMessage   `json:"value,omitempty"`

	Bases      []string `json:"bases,omitempty"`
	Implements []string `json:"implements,omitempty"`
	Extends    []string `json:"extends,omitempty"`

	FunctionCalls []CallRef `json:"function_calls,omitempty"`
	MethodCalls   []CallRef `json:"method_calls,omitempty"`
	MacroCalls    []CallRef `json:"macro_calls,omitempty"`

	TypeDependencies []string  `json:"type_dependencies,omitempty"`
	TypesUsed        []TypeRef `json:"types_used,omitempty"`
	FieldTypes       []string  `json:"field_types,omitempty"`
	Methods          []string  `json:"methods,omitempty"`
	HasMethods       []string  `json:"has_methods,omitempty"`

	Imports *ImportSet `json:"imports,omitempty"`
	// From doubles as the import source module (Python) and the source
	// endpoint of an edge record (kind == "edge").
	From    string   `json:"from,omitempty"`
	Alias   string   `json:"alias,omitempty"`
	Default bool     `json:"default,omitempty"`
	Exports []Export `json:"exports,omitempty"`

	Constructor  string        `json:"constructor,omitempty"`
	Constructors []Constructor `json:"constructors,omitempty"`
	InstanceName string        `json:"instance_name,omitempty"`

	Operator string   `json:"operator,omitempty"`
	ID       string   `json:"id,omitempty"`
	Target   string   `json:"target,omitempty"`
	Deps     []string `json:"deps,omitempty"`

	// Edge passthrough records (kind == "edge") use From, To, Relation.
	To       string `json:"to,omitempty"`
	Relation string `json:"relation,omitempty"`

	// Nested declarations (Rust, ReScript).
	Children []Raw `json:"children,omitempty"`
}

// EffectiveKind returns the record's kind tag regardless of which JSON key
// the extractor used.
func (r *Raw) EffectiveKind() string {
	if r.Kind != "" {
		return r.Kind
	}
	return r.TypeTag
}

// Start returns the 1-based start line, consulting every location shape the
// extractors emit.
func (r *Raw) Start() int {
	if r.StartLine != 0 {
		return r.StartLine
	}
	if r.Span != nil {
		return r.Span.StartLine
	}
	if r.Location != nil {
		return r.Location.Start
	}
	return 0
}

// End returns the 1-based inclusive end line.
func (r *Raw) End() int {
	if r.EndLine != 0 {
		return r.EndLine
	}
	if r.Span != nil {
		return r.Span.EndLine
	}
	if r.Location != nil {
		return r.Location.End
	}
	return 0
}

// ValueString renders the record's literal value, if any, as text.
func (r *Raw) ValueString() string {
	if len(r.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(r.Value))
}

type Span struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

type Location struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Param is one declared parameter: a bare name (Go) or an object with an
// optional annotation (Python, TypeScript).
type Param struct {
	Name       string `json:"name,omitempty"`
	Annotation string `json:"annotation,omitempty"`
}

func (p *Param) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Name)
	}
	type alias Param
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Param(a)
	return nil
}

// CallRef is one call-site descriptor. Extractors emit either a bare string
// (the callee text) or an object carrying partial resolution hints.
type CallRef struct {
	Name           string   `json:"name,omitempty"`
	TagName        string   `json:"tag_name,omitempty"`
	Base           string   `json:"base,omitempty"`
	Modules        []string `json:"modules,omitempty"`
	Type           string   `json:"type,omitempty"`
	ModuleName     string   `json:"module_name,omitempty"`
	Method         string   `json:"method,omitempty"`
	Receiver       string   `json:"receiver,omitempty"`
	Property       string   `json:"property,omitempty"`
	Function       string   `json:"function,omitempty"`
	ResolvedCallee string   `json:"resolved_callee,omitempty"`
	ResolvedHint   string   `json:"resolved_hint,omitempty"`
	Context        string   `json:"context,omitempty"`
}

func (c *CallRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CallRef{Name: s}
		return nil
	}
	type alias CallRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = CallRef(a)
	return nil
}

// Callee returns the best bare identifier for the call site.
func (c CallRef) Callee() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Function != "":
		return c.Function
	case c.Method != "":
		return c.Method
	case c.TagName != "":
		return c.TagName
	}
	return c.Base
}

// TypeRef is one type-usage descriptor: a bare string or an object with a
// pre-resolved module hint.
type TypeRef struct {
	Name       string   `json:"name,omitempty"`
	ModuleName string   `json:"module_name,omitempty"`
	Modules    []string `json:"modules,omitempty"`
	Base       string   `json:"base,omitempty"`
}

func (t *TypeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TypeRef{Name: s}
		return nil
	}
	type alias TypeRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = TypeRef(a)
	return nil
}

// ImportSet carries the two import shapes extractors emit: a plain list of
// import paths (Rust use declarations) or an alias map (PureScript).
type ImportSet struct {
	Paths   []string
	Aliases map[string]string
}

func (i *ImportSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &i.Paths)
	}
	return json.Unmarshal(data, &i.Aliases)
}

func (i *ImportSet) MarshalJSON() ([]byte, error) {
	if i.Aliases != nil {
		return json.Marshal(i.Aliases)
	}
	return json.Marshal(i.Paths)
}

// Export is one exported name: a bare string (Haskell module headers) or an
// object with a name field (TypeScript namespaces).
type Export struct {
	Name string `json:"name"`
}

func (e *Export) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Name)
	}
	type alias Export
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Export(a)
	return nil
}

// Constructor is one data constructor of an algebraic data type.
type Constructor struct {
	Name   string             `json:"name,omitempty"`
	Fields []ConstructorField `json:"fields,omitempty"`
}

type ConstructorField struct {
	Name     string  `json:"name,omitempty"`
	TypeInfo TypeRef `json:"type_info,omitempty"`
}
