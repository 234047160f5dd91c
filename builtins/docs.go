package builtins

// FuncSpec documents a builtin function.
type FuncSpec struct {
	Name    string   `json:"name"`
	Doc     string   `json:"doc"`
	Args    []string `json:"args"`
	Returns string   `json:"returns"`
}

// Docs returns the documentation of every builtin, sorted by name. Optional
// arguments end in "?".
func Docs() []FuncSpec {
	return []FuncSpec{
		{Name: "abs", Doc: "Absolute value of a number", Args: []string{"x"}, Returns: "int|float"},
		{Name: "bool", Doc: "Truthiness of a value", Args: []string{"x"}, Returns: "bool"},
		{Name: "dict", Doc: "Copy a mapping, or build one from [key, value] pairs", Args: []string{"x?"}, Returns: "map"},
		{Name: "error", Doc: "Raise an error with the given message", Args: []string{"message..."}, Returns: "never"},
		{Name: "float", Doc: "Convert a number or numeric string to float", Args: []string{"x"}, Returns: "float"},
		{Name: "global", Doc: "Namespace over the program's global variables", Returns: "namespace"},
		{Name: "int", Doc: "Convert a number or numeric string to int, truncating floats", Args: []string{"x"}, Returns: "int"},
		{Name: "keys", Doc: "Keys of a mapping in insertion order", Args: []string{"map"}, Returns: "list"},
		{Name: "len", Doc: "Length of a string, list or mapping", Args: []string{"x"}, Returns: "int"},
		{Name: "list", Doc: "Copy a list, or list the characters of a string or keys of a mapping", Args: []string{"x?"}, Returns: "list"},
		{Name: "max", Doc: "Largest of the arguments, or of a single list", Args: []string{"values..."}, Returns: "any"},
		{Name: "min", Doc: "Smallest of the arguments, or of a single list", Args: []string{"values..."}, Returns: "any"},
		{Name: "print", Doc: "Write the arguments separated by spaces, then a newline", Args: []string{"values..."}, Returns: "null"},
		{Name: "range", Doc: "List of ints from start up to stop by step", Args: []string{"start?", "stop", "step?"}, Returns: "list"},
		{Name: "round", Doc: "Round half to even; an int without digits, a float with them", Args: []string{"x", "digits?"}, Returns: "int|float"},
		{Name: "say", Doc: "Alias of print", Args: []string{"values..."}, Returns: "null"},
		{Name: "str", Doc: "String form of a value", Args: []string{"x"}, Returns: "string"},
		{Name: "sum", Doc: "Sum of the numbers in a list", Args: []string{"list"}, Returns: "int|float"},
		{Name: "type", Doc: "Type name of a value", Args: []string{"x"}, Returns: "string"},
		{Name: "values", Doc: "Values of a mapping in insertion order", Args: []string{"map"}, Returns: "list"},
	}
}
