package domain

import "sort"

// Listing order shared by every store, so that a union of clauses comes back
// in the same order whatever backend produced it.

func SortEmployees(es []*Employee) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Email != es[j].Email {
			return es[i].Email < es[j].Email
		}
		return es[i].ID < es[j].ID
	})
}

func SortDepartments(ds []*Department) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].Title < ds[j].Title })
}

func SortJobs(js []*Job) {
	sort.Slice(js, func(i, j int) bool {
		if js[i].Title != js[j].Title {
			return js[i].Title < js[j].Title
		}
		return js[i].DepartmentID < js[j].DepartmentID
	})
}

func SortClients(cs []*Client) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].Email < cs[j].Email
	})
}

// SortProjects puts the newest project first.
func SortProjects(ps []*Project) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}

// SortTasks orders by priority, then by due date.
func SortTasks(ts []*Task) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Priority != ts[j].Priority {
			return ts[i].Priority < ts[j].Priority
		}
		if !ts[i].DueDate.Equal(ts[j].DueDate) {
			return ts[i].DueDate.Before(ts[j].DueDate)
		}
		return ts[i].ID < ts[j].ID
	})
}
