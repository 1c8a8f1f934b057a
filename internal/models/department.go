package models

// Department groups batches within the institution.
type Department struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Batch is a cohort of students inside a department.
type Batch struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	DeptID string `db:"dept_id" json:"dept_id"`
}
