package user

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// FavoriteSet is the ordered set of favorite team ids. Older clients stored a
// single id (or "") instead of an array; both shapes decode, and the set
// always encodes as an array.
type FavoriteSet []string

func NewFavoriteSet(ids ...string) FavoriteSet {
	out := make(FavoriteSet, 0, len(ids))
	for _, id := range ids {
		out = out.Add(id)
	}
	return out
}

func (f FavoriteSet) Contains(id string) bool {
	id = strings.TrimSpace(id)
	for _, item := range f {
		if item == id {
			return true
		}
	}
	return false
}

func (f FavoriteSet) Add(id string) FavoriteSet {
	id = strings.TrimSpace(id)
	if id == "" || f.Contains(id) {
		return f
	}
	return append(f.Clone(), id)
}

func (f FavoriteSet) Remove(id string) FavoriteSet {
	id = strings.TrimSpace(id)
	out := make(FavoriteSet, 0, len(f))
	for _, item := range f {
		if item != id {
			out = append(out, item)
		}
	}
	return out
}

// Toggle adds the id when absent and removes it when present.
func (f FavoriteSet) Toggle(id string) FavoriteSet {
	if f.Contains(id) {
		return f.Remove(id)
	}
	return f.Add(id)
}

func (f FavoriteSet) Clone() FavoriteSet {
	out := make(FavoriteSet, len(f))
	copy(out, f)
	return out
}

func (f FavoriteSet) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return sonic.Marshal([]string(f))
}

func (f *FavoriteSet) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*f = FavoriteSet{}
		return nil
	case trimmed[0] == '[':
		var items []any
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		out := FavoriteSet{}
		for _, item := range items {
			out = out.Add(scalarString(item))
		}
		*f = out
		return nil
	default:
		var item any
		if err := sonic.Unmarshal(trimmed, &item); err != nil {
			return err
		}
		*f = NewFavoriteSet(scalarString(item))
		return nil
	}
}

func scalarString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}
