package dialect

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/schema"
)

// probeCall is one recorded existence query.
type probeCall struct {
	Query string
	Args  []any
}

// recordingProber records every query and answers true.
type recordingProber struct {
	calls []probeCall
}

func (p *recordingProber) Exists(_ context.Context, query string, args ...any) (bool, error) {
	p.calls = append(p.calls, probeCall{Query: query, Args: args})
	return true, nil
}

// mockProber is a testify mock of Prober.
type mockProber struct {
	mock.Mock
}

func (m *mockProber) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	called := m.Called(query, args)
	return called.Bool(0), called.Error(1)
}

type codedErr struct {
	code  int
	state string
}

func (e codedErr) Error() string    { return fmt.Sprintf("driver error %d (%s)", e.code, e.state) }
func (e codedErr) VendorCode() int  { return e.code }
func (e codedErr) SQLState() string { return e.state }

type stateErr string

func (e stateErr) Error() string    { return "state " + string(e) }
func (e stateErr) SQLState() string { return string(e) }

func TestNew_AllVendors(t *testing.T) {
	for _, v := range Vendors {
		s, err := New(v)
		require.NoError(t, err)
		assert.Equal(t, v, s.Vendor())
	}

	_, err := New("oracle")
	assert.ErrorIs(t, err, ErrUnknownVendor)
}

func TestParseVendor(t *testing.T) {
	testCases := map[string]Vendor{
		"MySQL":      VendorMySQL,
		"postgresql": VendorPostgres,
		"pg":         VendorPostgres,
		" maria ":    VendorMariaDB,
		"sqlite3":    VendorSQLite,
		"H2":         VendorH2,
		"mysql8":     VendorMySQL8,
	}
	for in, want := range testCases {
		got, err := ParseVendor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseVendor("db2")
	assert.ErrorIs(t, err, ErrUnknownVendor)
}

// runProbes exercises every existence probe against a recording prober.
func runProbes(t *testing.T, s Strategy) []probeCall {
	t.Helper()
	p := &recordingProber{}
	ctx := context.Background()
	_, err := s.TableExists(ctx, p, "Articles")
	require.NoError(t, err)
	_, err = s.ColumnExists(ctx, p, "Articles", "Title")
	require.NoError(t, err)
	_, err = s.ConstraintExists(ctx, p, "Articles", "FK_Author")
	require.NoError(t, err)
	_, err = s.IndexExists(ctx, p, "Articles", "IDX_Title")
	require.NoError(t, err)
	return p.calls
}

func TestMySQLVariants_DelegateEverythingButIndexProbe(t *testing.T) {
	base := NewMySQL()
	baseCalls := runProbes(t, base)

	variants := []Strategy{NewMariaDB(), NewMySQL8()}
	attrs := []schema.Attribute{
		schema.Simple("title", schema.TypeString),
		schema.Simple("flag", schema.TypeBool),
		schema.Simple("price", schema.TypeDecimal),
		schema.Binary("body"),
		schema.Reference("author", "person"),
	}
	errs := []error{
		codedErr{code: 1062},
		codedErr{code: 2006},
		codedErr{code: 1213},
		stateErr("23000"),
		errors.New("plain"),
	}

	for _, v := range variants {
		t.Run(string(v.Vendor()), func(t *testing.T) {
			calls := runProbes(t, v)
			require.Len(t, calls, 4)
			assert.Equal(t, baseCalls[:3], calls[:3], "table/column/constraint probes must match MySQL")
			assert.NotEqual(t, baseCalls[3], calls[3], "index probe must differ from MySQL")

			for _, a := range attrs {
				want, wantErr := base.ColumnType(a)
				got, gotErr := v.ColumnType(a)
				assert.Equal(t, want, got, a.Name)
				assert.Equal(t, wantErr, gotErr, a.Name)
				assert.Equal(t, base.SQLType(a), v.SQLType(a), a.Name)
			}
			for _, e := range errs {
				assert.Equal(t, base.Classify(e), v.Classify(e), e.Error())
			}
			for _, name := range []string{"Articles", strings.Repeat("x", 80)} {
				assert.Equal(t, base.NormalizeIdentifier(name), v.NormalizeIdentifier(name))
				assert.Equal(t, base.QuoteIdentifier(name), v.QuoteIdentifier(name))
			}
			assert.Equal(t, base.PrimaryKeyColumn("id"), v.PrimaryKeyColumn("id"))
			assert.Equal(t, base.CoalesceFunc(), v.CoalesceFunc())
			assert.Equal(t, base.Placeholder(3), v.Placeholder(3))
			assert.Equal(t, base.LimitClause(10, 5, true), v.LimitClause(10, 5, true))
			assert.Equal(t, base.MaxIdentifierLength(), v.MaxIdentifierLength())
		})
	}
}

func TestMariaDB_IndexProbeUsesShowIndex(t *testing.T) {
	p := new(mockProber)
	p.On("Exists", "SHOW INDEX FROM `articles` WHERE Key_name = ?", []any{"idx_title"}).Return(false, nil)

	ok, err := NewMariaDB().IndexExists(context.Background(), p, "Articles", "IDX_Title")
	require.NoError(t, err)
	assert.False(t, ok)
	p.AssertExpectations(t)
}

func TestProbe_PropagatesError(t *testing.T) {
	p := new(mockProber)
	p.On("Exists", mock.Anything, mock.Anything).Return(false, errors.New("connection reset"))

	_, err := NewPostgres().TableExists(context.Background(), p, "t")
	assert.EqualError(t, err, "connection reset")
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "articles", NewPostgres().NormalizeIdentifier("Articles"))
	assert.Equal(t, "ARTICLES", NewH2().NormalizeIdentifier("Articles"))
	assert.Equal(t, "Articles", NewSQLite().NormalizeIdentifier("Articles"))

	m := NewMySQL()
	long1 := strings.Repeat("a", 70) + "1"
	long2 := strings.Repeat("a", 70) + "2"
	n1, n2 := m.NormalizeIdentifier(long1), m.NormalizeIdentifier(long2)
	assert.Len(t, n1, 64)
	assert.Len(t, n2, 64)
	assert.NotEqual(t, n1, n2)
	assert.Equal(t, n1, m.NormalizeIdentifier(long1), "capping is deterministic")

	assert.Len(t, NewPostgres().NormalizeIdentifier(strings.Repeat("b", 100)), 63)
}

func TestNormalizeIdentifier_CapsOnCharacterBoundary(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		input    string
		limit    int
	}{
		{"mysql two-byte", NewMySQL(), strings.Repeat("é", 60), 64},
		{"mysql three-byte", NewMySQL(), strings.Repeat("表", 30), 64},
		{"postgres two-byte", NewPostgres(), strings.Repeat("é", 60), 63},
		{"postgres four-byte", NewPostgres(), "x" + strings.Repeat("😀", 20), 63},
		{"h2 two-byte", NewH2(), strings.Repeat("é", 200), 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.strategy.NormalizeIdentifier(tt.input)
			assert.True(t, utf8.ValidString(got), "invalid UTF-8: %q", got)
			assert.LessOrEqual(t, len(got), tt.limit)
			assert.Greater(t, len(got), tt.limit-4, "keeps as much of the name as fits")
			assert.Equal(t, got, tt.strategy.NormalizeIdentifier(tt.input))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`we``ird`", NewMySQL().QuoteIdentifier("we`ird"))
	assert.Equal(t, `"we""ird"`, NewPostgres().QuoteIdentifier(`we"ird`))
	assert.Equal(t, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`, NewSQLite().PrimaryKeyColumn("id"))
	assert.Equal(t, `"ID" BIGINT AUTO_INCREMENT PRIMARY KEY`, NewH2().PrimaryKeyColumn("id"))
	assert.Equal(t, "`id` BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY", NewMySQL().PrimaryKeyColumn("id"))
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		strategy Strategy
		err      error
		want     Category
	}{
		{"mysql duplicate", NewMySQL(), codedErr{code: 1062, state: "23000"}, CategoryConstraintViolation},
		{"mysql gone away", NewMySQL(), fmt.Errorf("exec: %w", codedErr{code: 2006, state: "HY000"}), CategoryConnectivityLost},
		{"mysql deadlock", NewMySQL(), codedErr{code: 1213, state: "40001"}, CategoryDeadlock},
		{"mysql unknown code falls back to state", NewMySQL(), codedErr{code: 9999, state: "23000"}, CategoryConstraintViolation},
		{"postgres unique", NewPostgres(), stateErr("23505"), CategoryConstraintViolation},
		{"postgres admin shutdown", NewPostgres(), stateErr("57P01"), CategoryConnectivityLost},
		{"postgres deadlock", NewPostgres(), stateErr("40P01"), CategoryDeadlock},
		{"postgres syntax", NewPostgres(), stateErr("42601"), CategoryUnknown},
		{"h2 duplicate", NewH2(), codedErr{code: 23505}, CategoryConstraintViolation},
		{"h2 connection broken", NewH2(), codedErr{code: 90067}, CategoryConnectivityLost},
		{"bad conn", NewH2(), fmt.Errorf("query: %w", driver.ErrBadConn), CategoryConnectivityLost},
		{"sqlite constraint", NewSQLite(), sqlite3.Error{Code: sqlite3.ErrConstraint}, CategoryConstraintViolation},
		{"sqlite busy", NewSQLite(), sqlite3.Error{Code: sqlite3.ErrBusy}, CategoryDeadlock},
		{"plain error", NewMySQL(), errors.New("boom"), CategoryUnknown},
		{"nil", NewMySQL(), nil, CategoryUnknown},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.strategy.Classify(tc.err))
		})
	}
}

func TestRenderingQuirks(t *testing.T) {
	assert.Equal(t, "$2", NewPostgres().Placeholder(2))
	assert.Equal(t, "?", NewMySQL().Placeholder(2))
	assert.Equal(t, "COALESCE", NewPostgres().CoalesceFunc())
	assert.Equal(t, "IFNULL", NewH2().CoalesceFunc())
	assert.Equal(t, "LIMIT 10", NewSQLite().LimitClause(10, 20, false))
	assert.Equal(t, "LIMIT 10 OFFSET 20", NewSQLite().LimitClause(10, 20, true))
}

func TestColumnType(t *testing.T) {
	multi := schema.Simple("tags", schema.TypeString)
	multi.Multiple = true

	got, err := NewPostgres().ColumnType(multi)
	require.NoError(t, err)
	assert.Equal(t, "JSONB", got)

	got, err = NewSQLite().ColumnType(schema.Simple("price", schema.TypeDecimal))
	require.NoError(t, err)
	assert.Equal(t, "TEXT", got)

	_, err = NewMySQL().ColumnType(schema.Inverse("comments", "comment", "article"))
	assert.Error(t, err)

	assert.Equal(t, binding.TypeClob, NewH2().SQLType(multi))
	assert.Equal(t, binding.TypeBigInt, NewH2().SQLType(schema.Reference("r", "x")))
}

func TestBinderFor(t *testing.T) {
	b, ok := NewMySQL().BinderFor(true, binding.TypeBoolean)
	require.True(t, ok)
	args, err := binding.BindAll(context.Background(), []binding.Binder{b})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, args)

	_, ok = NewMySQL().BinderFor("x", binding.TypeVarchar)
	assert.False(t, ok)

	_, ok = NewPostgres().BinderFor(true, binding.TypeBoolean)
	assert.False(t, ok)
}
