package domain

// Kind identifies a collection of records.
type Kind string

const (
	KindEmployee   Kind = "employees"
	KindDepartment Kind = "departments"
	KindJob        Kind = "jobs"
	KindClient     Kind = "clients"
	KindProject    Kind = "projects"
	KindTask       Kind = "tasks"
)

// Kinds lists every collection that can be scoped.
var Kinds = []Kind{KindEmployee, KindDepartment, KindJob, KindClient, KindProject, KindTask}

// Valid reports whether k is a known collection.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Attr names a stored attribute. The values are also the document field names.
type Attr string

const (
	AttrID         Attr = "_id"
	AttrDepartment Attr = "department_id"
	AttrManager    Attr = "manager_id"
	AttrRole       Attr = "role"
	AttrEmployee   Attr = "employee_id"
	AttrProject    Attr = "project_id"
	AttrClient     Attr = "client_id"
	AttrTeam       Attr = "team"
)

// Record is anything a Scope can be evaluated against.
type Record interface {
	RecordID() string
	// AttrValues returns the values stored under attr. Multi-valued attributes
	// (a project team) return every member.
	AttrValues(attr Attr) []string
}

// Subquery selects the ids of the records of Kind matching Clause.
// Subqueries are one level deep: Clause never contains another subquery.
type Subquery struct {
	Kind   Kind
	Clause Clause
}

// Criterion constrains an attribute to a set of values. When Sub is set the
// set is whatever ids the subquery selects, resolved before evaluation.
type Criterion struct {
	Attr   Attr
	Values []string
	Sub    *Subquery
}

// Eq matches records whose attr holds v. An empty v matches nothing.
func Eq(attr Attr, v string) Criterion {
	return In(attr, v)
}

// In matches records whose attr holds any of vs. Empty strings are dropped so
// that an unset reference never widens a scope.
func In(attr Attr, vs ...string) Criterion {
	values := make([]string, 0, len(vs))
	for _, v := range vs {
		if v != "" {
			values = append(values, v)
		}
	}
	return Criterion{Attr: attr, Values: values}
}

// InSub matches records whose attr holds an id selected by the subquery.
func InSub(attr Attr, kind Kind, clause ...Criterion) Criterion {
	return Criterion{Attr: attr, Sub: &Subquery{Kind: kind, Clause: clause}}
}

// Resolved reports whether the criterion carries concrete values.
func (c Criterion) Resolved() bool { return c.Sub == nil }

// Match reports whether r satisfies the criterion. Unresolved criteria never match.
func (c Criterion) Match(r Record) bool {
	if c.Sub != nil {
		return false
	}
	for _, have := range r.AttrValues(c.Attr) {
		for _, want := range c.Values {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Clause is a conjunction of criteria.
type Clause []Criterion

// Match reports whether r satisfies every criterion of the clause.
func (c Clause) Match(r Record) bool {
	for _, crit := range c {
		if !crit.Match(r) {
			return false
		}
	}
	return true
}

// Scope is the set of records of one Kind an actor may see. It is either
// unrestricted or the union of its clauses; a restricted scope without
// clauses is empty. Stores evaluate every clause as its own query and merge
// the results by id.
type Scope struct {
	Kind         Kind
	Unrestricted bool
	Clauses      []Clause
}

// All returns the unrestricted scope of kind.
func All(kind Kind) Scope { return Scope{Kind: kind, Unrestricted: true} }

// None returns the empty scope of kind.
func None(kind Kind) Scope { return Scope{Kind: kind} }

// AnyOf returns the union of the given clauses.
func AnyOf(kind Kind, clauses ...Clause) Scope {
	return Scope{Kind: kind, Clauses: clauses}
}

// Where returns the scope restricted by one conjunction.
func Where(kind Kind, criteria ...Criterion) Scope {
	return AnyOf(kind, Clause(criteria))
}

// Empty reports whether the scope can never match.
func (s Scope) Empty() bool { return !s.Unrestricted && len(s.Clauses) == 0 }

// Narrow adds criteria to every clause. An unrestricted scope becomes a
// single clause made of the criteria. The receiver is left untouched.
func (s Scope) Narrow(criteria ...Criterion) Scope {
	if len(criteria) == 0 {
		return s
	}
	if s.Unrestricted {
		return Where(s.Kind, criteria...)
	}
	out := Scope{Kind: s.Kind, Clauses: make([]Clause, 0, len(s.Clauses))}
	for _, clause := range s.Clauses {
		narrowed := make(Clause, 0, len(clause)+len(criteria))
		narrowed = append(narrowed, clause...)
		narrowed = append(narrowed, criteria...)
		out.Clauses = append(out.Clauses, narrowed)
	}
	return out
}

// Resolve returns a copy of the scope where every subquery criterion has been
// replaced by the ids fn returns for it.
func (s Scope) Resolve(fn func(Subquery) ([]string, error)) (Scope, error) {
	out := Scope{Kind: s.Kind, Unrestricted: s.Unrestricted}
	for _, clause := range s.Clauses {
		resolved := make(Clause, 0, len(clause))
		for _, crit := range clause {
			if crit.Sub != nil {
				ids, err := fn(*crit.Sub)
				if err != nil {
					return Scope{}, err
				}
				crit = In(crit.Attr, ids...)
			}
			resolved = append(resolved, crit)
		}
		out.Clauses = append(out.Clauses, resolved)
	}
	return out, nil
}

// Match reports whether r belongs to the scope. Subqueries must be resolved first.
func (s Scope) Match(r Record) bool {
	if s.Unrestricted {
		return true
	}
	for _, clause := range s.Clauses {
		if clause.Match(r) {
			return true
		}
	}
	return false
}
