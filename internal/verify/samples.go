package verify

import (
	"sort"

	"github.com/gnolang/repat/internal/ir"
)

// shape is the access profile of one value: every member path a fragment
// reads or matches under it, plus the type names and constants observed
// at each node. Worlds are generated by mutating one node of the default
// assembly at a time.
type shape struct {
	children map[string]*shape
	types    []string
	consts   []value
}

func newShape() *shape {
	return &shape{children: map[string]*shape{}}
}

func (s *shape) child(name string) *shape {
	if s == nil {
		return nil
	}
	c, ok := s.children[name]
	if !ok {
		c = newShape()
		s.children[name] = c
	}
	return c
}

func (s *shape) addType(name string) {
	if s == nil {
		return
	}
	for _, t := range s.types {
		if t == name {
			return
		}
	}
	s.types = append(s.types, name)
}

func (s *shape) addConst(v value) {
	if s == nil || v == nil {
		return
	}
	for _, c := range s.consts {
		if eqValues(c, v) {
			return
		}
	}
	s.consts = append(s.consts, v)
}

func (s *shape) childNames() []string {
	names := make([]string, 0, len(s.children))
	for name := range s.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// profile aggregates the shapes of every free identifier across both
// fragments, plus the scrutinee shape for case-arm fragments.
type profile struct {
	scrutinee *shape
	roots     map[string]*shape
	bindings  map[string]*shape
}

func newProfile() *profile {
	return &profile{roots: map[string]*shape{}, bindings: map[string]*shape{}}
}

func (p *profile) root(name string) *shape {
	s, ok := p.roots[name]
	if !ok {
		s = newShape()
		p.roots[name] = s
	}
	return s
}

// nodeOf resolves the shape node an expression denotes, following member
// chains from identifier roots and pattern bindings. Expressions outside
// the modeled domain resolve to nil.
func (p *profile) nodeOf(e ir.Expr) *shape {
	switch e := e.(type) {
	case *ir.IdentExpr:
		if s, ok := p.bindings[e.Name]; ok {
			return s
		}
		return p.root(e.Name)
	case *ir.MemberExpr:
		return p.nodeOf(e.X).child(e.Name)
	case *ir.NullSafeExpr:
		return p.nodeOf(e.X).child(e.Name)
	}
	return nil
}

func (p *profile) walkExpr(e ir.Expr) {
	switch e := e.(type) {
	case *ir.BinaryExpr:
		if e.Op == ir.OpAnd {
			p.walkExpr(e.Left)
			p.walkExpr(e.Right)
			return
		}
		leftNode, rightNode := p.nodeOf(e.Left), p.nodeOf(e.Right)
		leftNode.addConst(literalValue(e.Right))
		rightNode.addConst(literalValue(e.Left))

	case *ir.UnaryExpr:
		p.walkExpr(e.Operand)

	case *ir.IsTypeExpr:
		p.nodeOf(e.X).addType(e.Type)

	case *ir.IsPatternExpr:
		p.walkPattern(e.Pat, p.nodeOf(e.X))

	case *ir.CallExpr:
		for _, arg := range e.Args {
			p.nodeOf(arg)
		}

	case *ir.MemberExpr, *ir.NullSafeExpr, *ir.IdentExpr:
		// A bare truthiness test; the node itself is the subject.
		p.nodeOf(e).addConst(boolVal{v: true})
	}
}

func (p *profile) walkPattern(pat ir.Pattern, s *shape) {
	switch pat := pat.(type) {
	case *ir.ConstantPattern:
		s.addConst(fromIR(pat.Val))
	case *ir.RelationalPattern:
		s.addConst(fromIR(pat.Val))
	case *ir.TypePattern:
		s.addType(pat.Type)
	case *ir.DeclarationPattern:
		s.addType(pat.Type)
		if s != nil {
			p.bindings[pat.Binding] = s
		}
	case *ir.VarPattern:
		if s != nil {
			p.bindings[pat.Name] = s
		}
	case *ir.RecursivePattern:
		if pat.HasType() {
			s.addType(pat.Type)
		}
		if pat.HasBinding() && s != nil {
			p.bindings[pat.Binding] = s
		}
		for _, sub := range pat.Positional {
			p.walkPattern(sub, nil)
		}
		for _, f := range pat.Fields {
			p.walkPattern(f.Pat, s.child(f.Name))
		}
	case *ir.NegatedPattern:
		p.walkPattern(pat.Pat, s)
	case *ir.AndPattern:
		p.walkPattern(pat.Left, s)
		p.walkPattern(pat.Right, s)
	}
}

func (p *profile) walkArm(arm *ir.Arm) {
	p.walkPattern(arm.Pattern, p.scrutinee)
	if arm.Guard != nil {
		p.walkExpr(arm.Guard)
	}
}

func literalValue(e ir.Expr) value {
	switch e := e.(type) {
	case *ir.LiteralExpr:
		return fromIR(e.Val)
	case *ir.UnaryExpr:
		if e.Op == ir.OpNeg {
			if lit, ok := e.Operand.(*ir.LiteralExpr); ok {
				if i, ok := lit.Val.(ir.IntValue); ok {
					return intVal{v: -i.Val}
				}
			}
		}
	}
	return nil
}

// exprWorlds samples the environments for an expression rewrite.
func exprWorlds(original, rewritten ir.Expr) []world {
	p := newProfile()
	p.walkExpr(original)
	p.walkExpr(rewritten)
	return p.assemble()
}

// armWorlds samples the scrutinees and environments for a case-arm
// rewrite.
func armWorlds(original, rewritten *ir.Arm) []world {
	p := newProfile()
	p.scrutinee = newShape()
	p.walkArm(original)
	p.walkArm(rewritten)
	return p.assemble()
}

func (p *profile) assemble() []world {
	base := world{env: map[string]value{}}
	rootNames := make([]string, 0, len(p.roots))
	for name := range p.roots {
		rootNames = append(rootNames, name)
	}
	sort.Strings(rootNames)
	for _, name := range rootNames {
		base.env[name] = defaultValue(p.roots[name])
	}
	if p.scrutinee != nil {
		base.scrutinee = defaultValue(p.scrutinee)
	}

	worlds := []world{base}
	if p.scrutinee != nil {
		for _, v := range variants(p.scrutinee) {
			w := base.clone()
			w.scrutinee = v
			worlds = append(worlds, w)
		}
	}
	for _, name := range rootNames {
		for _, v := range variants(p.roots[name]) {
			w := base.clone()
			w.env[name] = v
			worlds = append(worlds, w)
		}
	}
	return worlds
}

func (w world) clone() world {
	env := make(map[string]value, len(w.env))
	for name, v := range w.env {
		env[name] = v
	}
	return world{scrutinee: w.scrutinee, env: env}
}

// defaultValue assembles the value a shape describes with every observed
// structure present: objects for interior nodes, the first observed
// constant for leaves.
func defaultValue(s *shape) value {
	if len(s.children) == 0 && len(s.types) == 0 {
		if len(s.consts) > 0 {
			return s.consts[0]
		}
		return intVal{v: 0}
	}
	obj := &objVal{typeName: "Value", fields: map[string]value{}}
	if len(s.types) > 0 {
		obj.typeName = s.types[0]
	}
	for _, name := range s.childNames() {
		obj.fields[name] = defaultValue(s.children[name])
	}
	return obj
}

// variants enumerates single-node mutations of a shape's default value:
// null at every node, each observed constant with its boundary
// neighbors, and a mismatching type at every typed node.
func variants(s *shape) []value {
	var out []value
	for _, mut := range mutations(s, nil) {
		out = append(out, buildWith(s, mut.path, mut.val))
	}
	return out
}

type mutation struct {
	path []string
	val  value
}

func mutations(s *shape, prefix []string) []mutation {
	path := append([]string(nil), prefix...)
	muts := []mutation{{path: path, val: nullVal{}}}

	for _, c := range s.consts {
		for _, v := range candidates(c) {
			muts = append(muts, mutation{path: path, val: v})
		}
	}
	for _, t := range s.types {
		muts = append(muts, mutation{path: path, val: retype(defaultValue(s), t)})
	}
	if len(s.types) > 0 {
		muts = append(muts, mutation{path: path, val: retype(defaultValue(s), "Mismatched")})
	}
	for _, name := range s.childNames() {
		muts = append(muts, mutations(s.children[name], append(path, name))...)
	}
	return muts
}

// candidates expands one observed constant into the probe values around
// it.
func candidates(c value) []value {
	switch c := c.(type) {
	case intVal:
		return []value{c, intVal{v: c.v - 1}, intVal{v: c.v + 1}}
	case boolVal:
		return []value{boolVal{v: true}, boolVal{v: false}}
	case strVal:
		return []value{c, strVal{v: ""}}
	default:
		return []value{c}
	}
}

func retype(v value, typeName string) value {
	obj, ok := v.(*objVal)
	if !ok {
		return &objVal{typeName: typeName, fields: map[string]value{}}
	}
	return &objVal{typeName: typeName, fields: obj.fields}
}

// buildWith assembles the default value with the node at path replaced.
func buildWith(s *shape, path []string, v value) value {
	if len(path) == 0 {
		return v
	}
	obj, ok := defaultValue(s).(*objVal)
	if !ok {
		return v
	}
	fields := make(map[string]value, len(obj.fields))
	for name, fv := range obj.fields {
		fields[name] = fv
	}
	fields[path[0]] = buildWith(s.children[path[0]], path[1:], v)
	return &objVal{typeName: obj.typeName, fields: fields}
}
