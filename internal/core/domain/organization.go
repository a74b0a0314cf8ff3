package domain

// Department is the visibility boundary for admins and the default for new staff.
type Department struct {
	ID    string `json:"id" bson:"_id"`
	Title string `json:"title" bson:"title"`
}

func (d *Department) RecordID() string { return d.ID }

func (d *Department) AttrValues(attr Attr) []string {
	if attr == AttrID {
		return nonEmpty(d.ID)
	}
	return nil
}

// Job is a position inside a department. (Title, DepartmentID) is unique.
type Job struct {
	ID           string   `json:"id" bson:"_id"`
	Title        string   `json:"title" bson:"title"`
	DepartmentID string   `json:"department_id" bson:"department_id"`
	MinSalary    *float64 `json:"min_salary,omitempty" bson:"min_salary,omitempty"`
	MaxSalary    *float64 `json:"max_salary,omitempty" bson:"max_salary,omitempty"`
}

func (j *Job) RecordID() string { return j.ID }

func (j *Job) AttrValues(attr Attr) []string {
	switch attr {
	case AttrID:
		return nonEmpty(j.ID)
	case AttrDepartment:
		return nonEmpty(j.DepartmentID)
	}
	return nil
}

// Client is a customer projects are delivered to. Email is unique.
type Client struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

func (c *Client) RecordID() string { return c.ID }

func (c *Client) AttrValues(attr Attr) []string {
	if attr == AttrID {
		return nonEmpty(c.ID)
	}
	return nil
}

// Group is a named permission group. Members holds employee ids.
type Group struct {
	Name    string   `json:"name" bson:"_id"`
	Members []string `json:"members" bson:"members"`
}
