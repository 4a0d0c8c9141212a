package patch

const (
	OperationAdd     = "add"
	OperationRemove  = "remove"
	OperationReplace = "replace"
)

type Operation struct {
	Op    string `json:"op" jsonschema:"required,enum=add,enum=remove,enum=replace,description=RFC6902 operation"`
	Path  string `json:"path" jsonschema:"required,description=JSON pointer of the field to change"`
	Value any    `json:"value,omitempty" jsonschema:"description=New value for add and replace"`
}

type UpdateArgs struct {
	Ops []Operation `json:"ops" jsonschema:"required,description=Operations to apply in order"`
}

func Replace(path string, value any) Operation {
	return Operation{Op: OperationReplace, Path: path, Value: value}
}

func Add(path string, value any) Operation {
	return Operation{Op: OperationAdd, Path: path, Value: value}
}

func Remove(path string) Operation {
	return Operation{Op: OperationRemove, Path: path}
}
