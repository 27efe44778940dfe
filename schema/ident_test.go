package schema

import "testing"

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"ABCField":   "abc_field",
		"ownerID":    "owner_id",
		"PlanetData": "planet_data",
		"id":         "id",
		"HP":         "hp",
		"starCount":  "star_count",
	}
	for in, want := range cases {
		if got := ToSnakeCase(in); got != want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
