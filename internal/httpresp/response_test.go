package httpresp

import "testing"

func TestNewPageMeta(t *testing.T) {
	cases := []struct {
		name                       string
		page, perPage, count       int
		total                      int64
		wantLast, wantFrom, wantTo int
	}{
		{"empty", 1, 15, 0, 0, 1, 0, 0},
		{"first page", 1, 15, 15, 40, 3, 1, 15},
		{"last partial page", 3, 15, 10, 40, 3, 31, 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewPageMeta(tc.page, tc.perPage, tc.total, tc.count)
			if m.LastPage != tc.wantLast || m.From != tc.wantFrom || m.To != tc.wantTo {
				t.Fatalf("got %+v", m)
			}
		})
	}
}
