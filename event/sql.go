package event

import (
	"database/sql"
	"fmt"
	"strings"
)

func create(tx *sql.Tx, table string, cols []string, values []interface{}) (int64, error) {
	var params []string

	for range cols {
		params = append(params, "?")
	}

	tsql := fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s);`, table, strings.Join(cols, ", "), strings.Join(params, ", "))

	stmt, err := tx.Prepare(tsql)
	if err != nil {
		return -1, fmt.Errorf("create: error preparing sql query: %s", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(values...)
	if err != nil {
		return -1, fmt.Errorf("create: unable to insert record in %s: %s", table, err)
	}

	return result.LastInsertId()
}

func update(tx *sql.Tx, table string, cols []string, values []interface{}, column []string, value []interface{}) (int64, error) {
	values = append(values, value...)
	var set []string

	for _, col := range cols {
		set = append(set, fmt.Sprintf("%s = ?", col))
	}

	var conds []string

	for _, c := range column {
		conds = append(conds, fmt.Sprintf("%s = ?", c))
	}

	tsql := fmt.Sprintf(`UPDATE %s SET %s WHERE %s;`, table, strings.Join(set, ","), strings.Join(conds, " AND "))

	stmt, err := tx.Prepare(tsql)
	if err != nil {
		return -1, fmt.Errorf("update: error preparing sql query: %s", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(values...)
	if err != nil {
		return -1, fmt.Errorf("update: unable to update record in %s: %s", table, err)
	}

	return result.RowsAffected()
}

func query(db *sql.DB, query string, args []interface{}) (*sql.Stmt, *sql.Rows, error) {
	st, err := db.Prepare(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: unable to prepare query: %s", err)
	}

	rows, err := st.Query(args...)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("query: error querying db: %s", err)
	}

	return st, rows, nil
}
