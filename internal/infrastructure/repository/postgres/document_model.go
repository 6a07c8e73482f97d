package postgres

import "time"

const documentsTable = "league_documents"

const (
	docTypeDivisionList = "division_list"
	docTypeDivision     = "division"
)

type documentTableModel struct {
	Organization string    `db:"organization"`
	ID           string    `db:"id"`
	DocType      string    `db:"doc_type"`
	Body         string    `db:"body"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type documentInsertModel struct {
	Organization string `db:"organization"`
	ID           string `db:"id"`
	DocType      string `db:"doc_type"`
	Body         string `db:"body"`
}
