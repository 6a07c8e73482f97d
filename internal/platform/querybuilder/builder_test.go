package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("organization", "id", "body").
		From("league_documents").
		Where(Eq("organization", "metro-softball"), Eq("id", "div-a"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT organization, id, body FROM league_documents WHERE organization = $1 AND id = $2 AND deleted_at IS NULL ORDER BY id LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "metro-softball" || args[1] != "div-a" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("league_documents").
		Columns("organization", "id").
		Values("metro-softball", "div-a").
		Suffix("ON CONFLICT DO NOTHING").
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO league_documents (organization, id) VALUES ($1, $2) ON CONFLICT DO NOTHING RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "metro-softball" || args[1] != "div-a" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("league_documents").Columns("organization", "id").Values("only-one").ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("league_documents").
		SetExpr("body", "?::jsonb", `{"id":"div-a"}`).
		SetExpr("updated_at", "NOW()").
		Where(Eq("organization", "metro-softball"), Eq("id", "div-a")).
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE league_documents SET body = $1::jsonb, updated_at = NOW() WHERE organization = $2 AND id = $3 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "div-a" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("league_documents").
		Where(Eq("organization", "metro-softball"), Expr("id = ? AND doc_type = ?", "div-a", "division")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM league_documents WHERE organization = $1 AND id = $2 AND doc_type = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("league_documents").ToSQL(); err == nil {
		t.Fatalf("expected unfiltered delete to be rejected")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		Organization string `db:"organization"`
		ID           string `db:"id"`
		Ignored      string `db:"-"`
		internal     string
	}

	query, args, err := InsertModel("league_documents", row{Organization: "metro-softball", ID: "div-a", internal: "x"}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if query != "INSERT INTO league_documents (organization, id) VALUES ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
