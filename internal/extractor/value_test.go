package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONKeepsKeyOrder(t *testing.T) {
	v, err := ParseJSON([]byte(`{"zeta":1,"alpha":"a","mid":[true,null],"zeta":2}`))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, v.Object.Keys())

	zeta, ok := v.Object.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, KindNumber, zeta.Kind)
	assert.Equal(t, "2", zeta.Text)

	mid, _ := v.Object.Get("mid")
	require.Len(t, mid.Items, 2)
	assert.Equal(t, KindBool, mid.Items[0].Kind)
	assert.True(t, mid.Items[0].Bool)
	assert.Equal(t, KindNull, mid.Items[1].Kind)
}

func TestParseJSONScalarsAndEmpty(t *testing.T) {
	testCases := []struct {
		input string
		kind  Kind
	}{
		{`"text"`, KindString},
		{`12.5`, KindNumber},
		{`false`, KindBool},
		{`null`, KindNull},
		{`{}`, KindObject},
		{`[]`, KindArray},
		{"  {\"a\": []}\n", KindObject},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			v, err := ParseJSON([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.kind, v.Kind)
		})
	}
}

func TestParseJSONErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated object", `{"a": 1`},
		{"truncated array", `[1, 2`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"javascript literal", `{a: 1}`},
		{"trailing comma", `{"a": 1,}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestParseJSONDeepNesting(t *testing.T) {
	const depth = 10000
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)

	v, err := ParseJSON([]byte(input))
	require.NoError(t, err)

	levels := 0
	for v != nil && v.Kind == KindArray {
		levels++
		if len(v.Items) == 0 {
			break
		}
		v = v.Items[0]
	}
	assert.Equal(t, depth, levels)
}

func TestScalarText(t *testing.T) {
	assert.Equal(t, "128", scalarText(NumberValue("128.0")))
	assert.Equal(t, "127.5", scalarText(NumberValue("127.5")))
	assert.Equal(t, "Foo", scalarText(StringValue("  Foo ")))
	assert.Equal(t, "", scalarText(&Value{Kind: KindBool, Bool: true}))
	assert.Equal(t, "", scalarText(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
