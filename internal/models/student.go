package models

// Student belongs to exactly one batch; subject membership is derived
// transitively through the batch and never stored on the subject.
type Student struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	BatchID string `db:"batch_id" json:"batch_id"`
}
