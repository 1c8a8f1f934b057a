package models

// Subject is taught to one batch and owns sessions and notes.
type Subject struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	BatchID string `db:"batch_id" json:"batch_id"`
}

// SubjectRoster is the transitive resolution Subject -> Batch -> Students,
// with the department name pulled through the batch.
type SubjectRoster struct {
	Subject   Subject   `json:"subject"`
	BatchName string    `json:"batch_name"`
	DeptName  string    `json:"dept_name"`
	Students  []Student `json:"students"`
}
