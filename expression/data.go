package expression

import "github.com/sqldef/migrator/schema"

type InsertData struct {
	SchemaName string
	TableName  string
	Rows       []Row
}

func (e *InsertData) Kind() string { return "InsertData" }

func (e *InsertData) Validate() []string {
	var errs []string
	if e.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if len(e.Rows) == 0 {
		errs = append(errs, schema.ErrRowsEmpty)
	}
	for _, row := range e.Rows {
		if len(row) == 0 {
			errs = append(errs, schema.ErrRowEmpty)
		}
		errs = append(errs, validateRow(row)...)
	}
	return errs
}

// Reverse deletes each inserted row by matching all of its values.
func (e *InsertData) Reverse() Expression {
	rows := make([]Row, len(e.Rows))
	for i, row := range e.Rows {
		rows[i] = row.clone()
	}
	return &DeleteData{SchemaName: e.SchemaName, TableName: e.TableName, Rows: rows}
}

// UpdateData sets Set on rows matching Where, or on every row when AllRows is set.
type UpdateData struct {
	SchemaName string
	TableName  string
	Set        Row
	Where      Row
	AllRows    bool
}

func (e *UpdateData) Kind() string { return "UpdateData" }

func (e *UpdateData) Validate() []string {
	var errs []string
	if e.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if len(e.Set) == 0 {
		errs = append(errs, schema.ErrSetEmpty)
	}
	errs = append(errs, validateRow(e.Set)...)
	if len(e.Where) == 0 && !e.AllRows {
		errs = append(errs, schema.ErrWhereRequired)
	}
	return append(errs, validateRow(e.Where)...)
}

// DeleteData deletes rows matching any of Rows, or every row when AllRows is set.
type DeleteData struct {
	SchemaName string
	TableName  string
	Rows       []Row
	AllRows    bool
}

func (e *DeleteData) Kind() string { return "DeleteData" }

func (e *DeleteData) Validate() []string {
	var errs []string
	if e.TableName == "" {
		errs = append(errs, schema.ErrTableNameEmpty)
	}
	if len(e.Rows) == 0 && !e.AllRows {
		errs = append(errs, schema.ErrWhereRequired)
	}
	for _, row := range e.Rows {
		if len(row) == 0 {
			errs = append(errs, schema.ErrRowEmpty)
		}
		errs = append(errs, validateRow(row)...)
	}
	return errs
}

func validateRow(row Row) []string {
	var errs []string
	for _, cv := range row {
		if cv.Name == "" {
			errs = append(errs, schema.ErrColumnNameEmpty)
		}
	}
	return errs
}

// ExecuteSQL runs SQL verbatim.
type ExecuteSQL struct {
	SQL string
}

func (e *ExecuteSQL) Kind() string { return "ExecuteSQL" }

func (e *ExecuteSQL) Validate() []string {
	if e.SQL == "" {
		return []string{schema.ErrSQLEmpty}
	}
	return nil
}

// ExecuteSQLScript runs a script file. ScriptPath is resolved against the working
// directory by conventions; SQL is filled when the script is loaded.
// Parameters replace $(name) tokens in the script.
type ExecuteSQLScript struct {
	ScriptPath string
	Parameters map[string]string
	SQL        string
}

func (e *ExecuteSQLScript) Kind() string { return "ExecuteSQLScript" }

func (e *ExecuteSQLScript) Validate() []string {
	if e.ScriptPath == "" {
		return []string{schema.ErrScriptEmpty}
	}
	return nil
}

// ExecuteEmbeddedSQLScript runs a script bundled in an fs.FS. A ResourceName
// without a directory is matched by conventions against the bundled files.
type ExecuteEmbeddedSQLScript struct {
	ResourceName string
	Parameters   map[string]string
	SQL          string
}

func (e *ExecuteEmbeddedSQLScript) Kind() string { return "ExecuteEmbeddedSQLScript" }

func (e *ExecuteEmbeddedSQLScript) Validate() []string {
	if e.ResourceName == "" {
		return []string{schema.ErrScriptEmpty}
	}
	return nil
}
