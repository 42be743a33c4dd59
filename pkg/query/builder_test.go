package query_test

import (
	"testing"

	"github.com/nhp-platform/catalog/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "widgets", "w").
		Project("id", "ID").
		Project("title", "Title").
		Project("created_at", "CreatedAt")
}

func TestBuilder_BuildPage(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *query.Builder
		page     int
		pageSize int
		wantSQL  string
		wantArgs []any
	}{
		{
			name: "default sort appends key tiebreak",
			build: func() *query.Builder {
				return query.NewBuilder(testProjection(), "CreatedAt")
			},
			page:     1,
			pageSize: 20,
			wantSQL:  "SELECT w.id, w.title, w.created_at FROM public.widgets w ORDER BY w.created_at ASC, w.id ASC LIMIT 20 OFFSET 0",
		},
		{
			name: "key column sort has no tiebreak",
			build: func() *query.Builder {
				return query.NewBuilder(testProjection(), "CreatedAt").OrderBy("ID", false)
			},
			page:     1,
			pageSize: 10,
			wantSQL:  "SELECT w.id, w.title, w.created_at FROM public.widgets w ORDER BY w.id ASC LIMIT 10 OFFSET 0",
		},
		{
			name: "descending sort with offset",
			build: func() *query.Builder {
				return query.NewBuilder(testProjection(), "CreatedAt").OrderBy("Title", true)
			},
			page:     3,
			pageSize: 10,
			wantSQL:  "SELECT w.id, w.title, w.created_at FROM public.widgets w ORDER BY w.title DESC, w.id ASC LIMIT 10 OFFSET 20",
		},
		{
			name: "equality condition",
			build: func() *query.Builder {
				return query.NewBuilder(testProjection(), "CreatedAt").WhereEquals("Title", "gizmo")
			},
			page:     1,
			pageSize: 20,
			wantSQL:  "SELECT w.id, w.title, w.created_at FROM public.widgets w WHERE w.title = $1 ORDER BY w.created_at ASC, w.id ASC LIMIT 20 OFFSET 0",
			wantArgs: []any{"gizmo"},
		},
		{
			name: "nil equality value ignored",
			build: func() *query.Builder {
				return query.NewBuilder(testProjection(), "CreatedAt").WhereEquals("Title", nil)
			},
			page:     1,
			pageSize: 20,
			wantSQL:  "SELECT w.id, w.title, w.created_at FROM public.widgets w ORDER BY w.created_at ASC, w.id ASC LIMIT 20 OFFSET 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build().BuildPage(tt.page, tt.pageSize)

			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}

			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}

			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestBuilder_BuildCount(t *testing.T) {
	search := "giz"

	builder := query.NewBuilder(testProjection(), "CreatedAt").
		WhereSearch(&search, "Title").
		WhereEquals("ID", "abc")

	sql, args := builder.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.widgets w WHERE (w.title ILIKE $1) AND w.id = $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}

	if len(args) != 2 || args[0] != "%giz%" || args[1] != "abc" {
		t.Errorf("args = %v, want [%%giz%% abc]", args)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	builder := query.NewBuilder(testProjection(), "CreatedAt")

	sql, args := builder.BuildSingle("ID", "abc")

	wantSQL := "SELECT w.id, w.title, w.created_at FROM public.widgets w WHERE w.id = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}

	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}

func TestBuilder_BuildExists(t *testing.T) {
	builder := query.NewBuilder(testProjection(), "CreatedAt")

	sql, args := builder.BuildExists("Title", "gizmo")

	wantSQL := "SELECT EXISTS (SELECT 1 FROM public.widgets w WHERE w.title = $1)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}

	if len(args) != 1 || args[0] != "gizmo" {
		t.Errorf("args = %v, want [gizmo]", args)
	}
}

func TestProjectionMap_UnknownFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unprojected field")
		}
	}()

	testProjection().Column("Nope")
}
