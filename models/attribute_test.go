package models

import "testing"

func TestPropertyRow_RejectsUnrecognized(t *testing.T) {
	row := NewPropertyRow()

	if !row.Set("monthly_rent", "RM 1,000 per month") {
		t.Fatal("monthly_rent belongs to the schema")
	}
	if row.Set("developer_name", "Acme") {
		t.Fatal("developer_name is outside the schema")
	}
	if row.Len() != 1 {
		t.Fatalf("expected 1 attribute, got %d", row.Len())
	}
}

func TestPropertyRow_RecordOrder(t *testing.T) {
	row := NewPropertyRow()
	row.Set("ads_id", "12345678")

	rec := row.Record()
	if len(rec) != len(SchemaColumns) {
		t.Fatalf("expected %d cells, got %d", len(SchemaColumns), len(rec))
	}
	// ads_id is the second-to-last column.
	if rec[len(rec)-2] != "12345678" {
		t.Fatalf("ads_id out of place: %v", rec)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"RM 1,500", "RM 1,500"},
		{float64(3), "3"},
		{3.1579, "3.1579"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Fatalf("FormatValue(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
