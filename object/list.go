package object

import (
	"context"
	"strings"
)

var listMethods = NewMethodRegistry[*List]("list")

func init() {
	listMethods.Define("append").
		Doc("Add item to end of list").
		Arg("item").
		Returns("null").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			ls.Append(args[0])
			return Nil, nil
		})

	listMethods.Define("pop").
		Doc("Remove and return the last item (null if empty)").
		Returns("any").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			return ls.Pop(), nil
		})

	listMethods.Define("contains").
		Doc("Check if the list holds an equal item").
		Arg("item").
		Returns("bool").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			return NewBool(ls.Index(args[0]) >= 0), nil
		})

	listMethods.Define("index").
		Doc("Find first index of item (-1 if not found)").
		Arg("item").
		Returns("int").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			return NewInt(int64(ls.Index(args[0]))), nil
		})

	listMethods.Define("join").
		Doc("Join the items with a separator").
		Arg("sep").
		Returns("string").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			sep, err := AsString(args[0])
			if err != nil {
				return nil, err
			}
			parts := make([]string, 0, len(ls.items))
			for _, item := range ls.items {
				parts = append(parts, item.String())
			}
			return NewString(strings.Join(parts, sep)), nil
		})

	listMethods.Define("each").
		Doc("Call function for each item").
		Arg("fn").
		Returns("null").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			for _, item := range ls.Items() {
				if _, err := Call(ctx, args[0], item); err != nil {
					return nil, err
				}
			}
			return Nil, nil
		})

	listMethods.Define("map").
		Doc("Transform each item using fn").
		Arg("fn").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			result := make([]Object, 0, len(ls.items))
			for _, item := range ls.Items() {
				value, err := Call(ctx, args[0], item)
				if err != nil {
					return nil, err
				}
				result = append(result, value)
			}
			return NewList(result), nil
		})

	listMethods.Define("filter").
		Doc("Keep items where fn returns a truthy value").
		Arg("fn").
		Returns("list").
		Impl(func(ls *List, ctx context.Context, args ...Object) (Object, error) {
			var result []Object
			for _, item := range ls.Items() {
				keep, err := Call(ctx, args[0], item)
				if err != nil {
					return nil, err
				}
				if keep.IsTruthy() {
					result = append(result, item)
				}
			}
			return NewList(result), nil
		})
}

// List is an ordered, mutable sequence of objects.
type List struct {
	items []Object
}

func NewList(items []Object) *List {
	if items == nil {
		items = []Object{}
	}
	return &List{items: items}
}

func (ls *List) Type() Type {
	return LIST
}

// Items returns a copy of the list's items.
func (ls *List) Items() []Object {
	return append([]Object(nil), ls.items...)
}

func (ls *List) Len() int {
	return len(ls.items)
}

func (ls *List) Append(obj Object) {
	ls.items = append(ls.items, obj)
}

// Pop removes and returns the last item, or Nil if the list is empty.
func (ls *List) Pop() Object {
	if len(ls.items) == 0 {
		return Nil
	}
	last := ls.items[len(ls.items)-1]
	ls.items = ls.items[:len(ls.items)-1]
	return last
}

// Index returns the position of the first item equal to obj, or -1.
func (ls *List) Index(obj Object) int {
	for i, item := range ls.items {
		if item.Equals(obj) {
			return i
		}
	}
	return -1
}

func (ls *List) Inspect() string {
	var b strings.Builder
	b.WriteString("[")
	for i, item := range ls.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.Inspect())
	}
	b.WriteString("]")
	return b.String()
}

func (ls *List) String() string {
	return ls.Inspect()
}

func (ls *List) Interface() any {
	result := make([]any, 0, len(ls.items))
	for _, item := range ls.items {
		result = append(result, item.Interface())
	}
	return result
}

func (ls *List) Equals(other Object) bool {
	o, ok := other.(*List)
	if !ok || len(o.items) != len(ls.items) {
		return false
	}
	for i, item := range ls.items {
		if !item.Equals(o.items[i]) {
			return false
		}
	}
	return true
}

func (ls *List) IsTruthy() bool {
	return len(ls.items) > 0
}

func (ls *List) GetAttr(name string) (Object, bool) {
	if name == "length" {
		return NewInt(int64(len(ls.items))), true
	}
	return listMethods.GetAttr(ls, name)
}

// GetItem returns the item at the given index. Negative indexes count from
// the end of the list.
func (ls *List) GetItem(key Object) (Object, error) {
	idx, err := AsInt(key)
	if err != nil {
		return nil, err
	}
	i, ok := normalizeIndex(idx, len(ls.items))
	if !ok {
		return nil, indexErrorf("list index out of range: %d", idx)
	}
	return ls.items[i], nil
}

// SetItem replaces the item at the given index.
func (ls *List) SetItem(key, value Object) error {
	idx, err := AsInt(key)
	if err != nil {
		return err
	}
	i, ok := normalizeIndex(idx, len(ls.items))
	if !ok {
		return indexErrorf("list assignment index out of range: %d", idx)
	}
	ls.items[i] = value
	return nil
}

// Methods describes the methods lists offer.
func (ls *List) Methods() []MethodSpec {
	return listMethods.Specs()
}
