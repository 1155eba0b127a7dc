package cache

import "testing"

func TestKeyHierarchy(t *testing.T) {
	key := NewKey("artwork").Op("detail").ID("42")
	if key.String() != "artwork:detail:42" {
		t.Fatalf("unexpected key %q", key)
	}
	if key.Resource() != "artwork" {
		t.Fatalf("unexpected resource %q", key.Resource())
	}
}

func TestParamsCanonicalEncoding(t *testing.T) {
	a := NewKey("artwork").Op("list").Params(map[string]string{"page": "1", "category": "portraits"})
	b := NewKey("artwork").Op("list").Params(map[string]string{"category": "portraits", "page": "1"})
	if a != b {
		t.Fatalf("same params should encode identically: %q vs %q", a, b)
	}
	if a.String() != "artwork:list:category=portraits&page=1" {
		t.Fatalf("unexpected encoding %q", a)
	}
}

func TestParamsDistinctFiltersDistinctKeys(t *testing.T) {
	portraits := NewKey("artwork").Op("list").Params(map[string]string{"category": "portraits", "page": "1"})
	landscapes := NewKey("artwork").Op("list").Params(map[string]string{"category": "landscapes", "page": "1"})
	if portraits == landscapes {
		t.Fatalf("distinct filters must not collide: %q", portraits)
	}
}

func TestParamsEmptySet(t *testing.T) {
	if got := NewKey("artwork").Op("list").Params(nil); got.String() != "artwork:list:all" {
		t.Fatalf("empty params should encode as all, got %q", got)
	}
	if got := NewKey("artwork").Op("list").Params(map[string]string{"category": ""}); got.String() != "artwork:list:all" {
		t.Fatalf("blank values should be skipped, got %q", got)
	}
}
