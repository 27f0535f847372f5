package dtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatatypeUpper(t *testing.T) {
	tests := []struct {
		in   Datatype
		want string
	}{
		{"float", "FLOAT"},
		{"double", "DOUBLE"},
		{"int8_t", "INT8"},
		{"int64_t", "INT64"},
		{"uint_tx", "UINT_TX"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Upper())
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	assert.Equal(t, 6, r.Len())
	assert.Equal(t, []Datatype{"float", "double", "int8_t", "int16_t", "int32_t", "int64_t"}, r.Canonical())
	assert.Equal(t, Selection{"float", "double"}, r.DefaultSelection())

	i, ok := r.Index("int16_t")
	require.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = r.Index("half")
	assert.False(t, ok)
}

func TestRegistryIsImmutable(t *testing.T) {
	r := Default()

	c := r.Canonical()
	c[0] = "mutated"
	d := r.DefaultSelection()
	d[0] = "mutated"

	assert.Equal(t, Datatype("float"), r.Canonical()[0])
	assert.Equal(t, Datatype("float"), r.DefaultSelection()[0])
}

func TestNewRegistryErrors(t *testing.T) {
	tests := []struct {
		name      string
		canonical []string
		defaults  []string
		wantErr   string
	}{
		{"empty canonical", nil, nil, "canonical datatype list is empty"},
		{"duplicate", []string{"float", "float"}, nil, "duplicate canonical datatype \"float\""},
		{"blank identifier", []string{"float", " "}, nil, "empty identifier"},
		{"default outside canonical", []string{"float"}, []string{"double"}, "default datatype \"double\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.canonical, tt.defaults)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveDeclared(t *testing.T) {
	r := Default()

	tests := []struct {
		name        string
		tokens      []string
		want        Selection
		wantDropped []string
	}{
		{
			name:   "order preserved",
			tokens: []string{"int32_t", "float"},
			want:   Selection{"int32_t", "float"},
		},
		{
			name:        "unknown tokens dropped",
			tokens:      []string{"float", "half", "double"},
			want:        Selection{"float", "double"},
			wantDropped: []string{"half"},
		},
		{
			name:   "tokens trimmed and blanks ignored",
			tokens: []string{" double ", "", "\tint8_t"},
			want:   Selection{"double", "int8_t"},
		},
		{
			name:   "duplicates keep first position",
			tokens: []string{"double", "float", "double"},
			want:   Selection{"double", "float"},
		},
		{
			name:        "nothing valid",
			tokens:      []string{"complex"},
			want:        Selection{},
			wantDropped: []string{"complex"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, dropped := r.ResolveDeclared(tt.tokens)
			assert.Equal(t, tt.want, sel)
			assert.Equal(t, tt.wantDropped, dropped)
			for _, d := range sel {
				assert.True(t, r.Contains(d))
			}
		})
	}
}

func TestSelectionString(t *testing.T) {
	sel := Selection{"float", "int32_t"}
	assert.Equal(t, "float int32_t", sel.String())
	assert.True(t, sel.Contains("int32_t"))
	assert.False(t, sel.Contains("double"))
}
