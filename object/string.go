package object

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"
)

var stringMethods = NewMethodRegistry[*String]("string")

func init() {
	stringMethods.Define("contains").
		Doc("Check if substring exists").
		Arg("substr").
		Returns("bool").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			substr, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			return NewBool(strings.Contains(s.value, substr)), nil
		})

	stringMethods.Define("has_prefix").
		Doc("Check if string starts with prefix").
		Arg("prefix").
		Returns("bool").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			prefix, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			return NewBool(strings.HasPrefix(s.value, prefix)), nil
		})

	stringMethods.Define("has_suffix").
		Doc("Check if string ends with suffix").
		Arg("suffix").
		Returns("bool").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			suffix, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			return NewBool(strings.HasSuffix(s.value, suffix)), nil
		})

	stringMethods.Define("index").
		Doc("Find first index of substring (-1 if not found)").
		Arg("substr").
		Returns("int").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			substr, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			i := strings.Index(s.value, substr)
			if i < 0 {
				return NewInt(-1), nil
			}
			return NewInt(int64(utf8.RuneCountInString(s.value[:i]))), nil
		})

	stringMethods.Define("replace_all").
		Doc("Replace all occurrences").
		Arg("old").
		Arg("new").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			old, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			replacement, err := AsString(args[1])
			if err != nil {
				return nil, err
			}
			return NewString(strings.ReplaceAll(s.value, old, replacement)), nil
		})

	stringMethods.Define("split").
		Doc("Split by separator").
		Arg("sep").
		Returns("list").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			sep, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			parts := strings.Split(s.value, sep)
			items := make([]Object, 0, len(parts))
			for _, part := range parts {
				items = append(items, NewString(part))
			}
			return NewList(items), nil
		})

	stringMethods.Define("to_lower").
		Doc("Convert to lowercase").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.ToLower(s.value)), nil
		})

	stringMethods.Define("to_upper").
		Doc("Convert to uppercase").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.ToUpper(s.value)), nil
		})

	stringMethods.Define("trim_space").
		Doc("Trim whitespace from both ends").
		Returns("string").
		Impl(func(s *String, ctx context.Context, args ...Object) (Object, error) {
			return NewString(strings.TrimSpace(s.value)), nil
		})
}

// String wraps a Go string.
type String struct {
	value string
}

func NewString(value string) *String {
	return &String{value: value}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return strconv.Quote(s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() any {
	return s.value
}

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && o.value == s.value
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

// Len returns the number of characters in the string.
func (s *String) Len() int {
	return utf8.RuneCountInString(s.value)
}

func (s *String) Compare(other Object) (int, error) {
	o, ok := other.(*String)
	if !ok {
		return 0, typeErrorf("unable to compare string and %s", other.Type())
	}
	return strings.Compare(s.value, o.value), nil
}

func (s *String) GetAttr(name string) (Object, bool) {
	if name == "length" {
		return NewInt(int64(s.Len())), true
	}
	return stringMethods.GetAttr(s, name)
}

// GetItem returns the character at the given index. Negative indexes count
// from the end of the string.
func (s *String) GetItem(key Object) (Object, error) {
	idx, err := AsInt(key)
	if err != nil {
		return nil, err
	}
	runes := []rune(s.value)
	i, ok := normalizeIndex(idx, len(runes))
	if !ok {
		return nil, indexErrorf("string index out of range: %d", idx)
	}
	return NewString(string(runes[i])), nil
}

// normalizeIndex maps a possibly negative index onto [0, size).
func normalizeIndex(idx int64, size int) (int, bool) {
	if idx < 0 {
		idx += int64(size)
	}
	if idx < 0 || idx >= int64(size) {
		return 0, false
	}
	return int(idx), true
}

// Methods describes the methods strings offer.
func (s *String) Methods() []MethodSpec {
	return stringMethods.Specs()
}
