package ir

import "sort"

// Walk calls fn for t and every type nested inside it, parents first.
func Walk(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch t := t.(type) {
	case Optional:
		Walk(t.Inner, fn)
	case Sequence:
		Walk(t.Inner, fn)
	case Map:
		Walk(t.Key, fn)
		Walk(t.Value, fn)
	case Custom:
		Walk(t.Builtin, fn)
	}
}

// Local returns t with the module path dropped from every named type this
// component owns, so a definition carrying "crate::module" and a bare
// reference to it compare equal. Types owned by other crates keep theirs.
func (ci *ComponentInterface) Local(t Type) Type {
	switch v := t.(type) {
	case Enum:
		if ci.OwnsType(v) {
			v.ModulePath = ""
		}
		return v
	case Record:
		if ci.OwnsType(v) {
			v.ModulePath = ""
		}
		return v
	case Object:
		if ci.OwnsType(v) {
			v.ModulePath = ""
		}
		return v
	case CallbackInterface:
		if ci.OwnsType(v) {
			v.ModulePath = ""
		}
		return v
	case Custom:
		if ci.OwnsType(v) {
			v.ModulePath = ""
		}
		v.Builtin = ci.Local(v.Builtin)
		return v
	case Optional:
		return Optional{Inner: ci.Local(v.Inner)}
	case Sequence:
		return Sequence{Inner: ci.Local(v.Inner)}
	case Map:
		return Map{Key: ci.Local(v.Key), Value: ci.Local(v.Value)}
	}
	return t
}

// IterTypes returns every type reachable from the component's definitions,
// deduplicated and sorted by String. Owned types are reported in their
// Local form.
func (ci *ComponentInterface) IterTypes() []Type {
	seen := make(map[string]Type)
	add := func(t Type) {
		Walk(ci.Local(t), func(inner Type) {
			if _, ok := seen[inner.String()]; !ok {
				seen[inner.String()] = inner
			}
		})
	}
	addCallable := func(c *Callable) {
		for _, a := range c.Arguments {
			add(a.Type)
		}
		add(c.ReturnType)
		add(c.ThrowsType)
	}

	for i := range ci.Enums {
		e := &ci.Enums[i]
		add(Enum{Name: e.Name, ModulePath: e.ModulePath})
		add(e.DiscrType)
		for _, v := range e.Variants {
			for _, f := range v.Fields {
				add(f.Type)
			}
		}
	}
	for i := range ci.Records {
		r := &ci.Records[i]
		add(Record{Name: r.Name, ModulePath: r.ModulePath})
		for _, f := range r.Fields {
			add(f.Type)
		}
	}
	for i := range ci.Objects {
		add(ci.Objects[i].AsType())
	}
	for i := range ci.CallbackInterfaces {
		cb := &ci.CallbackInterfaces[i]
		add(CallbackInterface{Name: cb.Name, ModulePath: cb.ModulePath})
	}
	for _, c := range ci.AllCallables() {
		addCallable(c)
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Type, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

// ContainsObjectReferences reports whether values of t may hold native
// objects that need explicit release.
func (ci *ComponentInterface) ContainsObjectReferences(t Type) bool {
	return ci.containsObjects(t, map[string]bool{})
}

func (ci *ComponentInterface) containsObjects(t Type, visiting map[string]bool) bool {
	if t == nil {
		return false
	}
	key := t.String()
	if visiting[key] {
		return false
	}
	visiting[key] = true
	defer delete(visiting, key)

	switch t := t.(type) {
	case Object:
		return true
	case Optional:
		return ci.containsObjects(t.Inner, visiting)
	case Sequence:
		return ci.containsObjects(t.Inner, visiting)
	case Map:
		return ci.containsObjects(t.Key, visiting) || ci.containsObjects(t.Value, visiting)
	case Custom:
		return ci.containsObjects(t.Builtin, visiting)
	case Record:
		if r := ci.RecordDefinition(t.Name); r != nil {
			for _, f := range r.Fields {
				if ci.containsObjects(f.Type, visiting) {
					return true
				}
			}
		}
	case Enum:
		if e := ci.EnumDefinition(t.Name); e != nil {
			for _, v := range e.Variants {
				for _, f := range v.Fields {
					if ci.containsObjects(f.Type, visiting) {
						return true
					}
				}
			}
		}
	}
	return false
}
