package task

const (
	ColumnTodo       = "todo"
	ColumnInProgress = "in_progress"
	ColumnDone       = "done"
)

func IsValidColumn(column string) bool {
	switch column {
	case ColumnTodo, ColumnInProgress, ColumnDone:
		return true
	}
	return false
}
