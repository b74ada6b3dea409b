package metadata

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		json string
	}{
		{"nil", nil, KindNull, "null"},
		{"bool", true, KindBool, "true"},
		{"string", "인천", KindString, `"인천"`},
		{"int", 42, KindInt, "42"},
		{"int64", int64(-7), KindInt, "-7"},
		{"uint8", uint8(9), KindInt, "9"},
		{"huge uint64", uint64(math.MaxUint64), KindFloat, "18446744073709552000"},
		{"integral float", 3.0, KindInt, "3"},
		{"fractional float", 1.5, KindFloat, "1.5"},
		{"float32", float32(0.25), KindFloat, "0.25"},
		{"json int", json.Number("12345678901234567"), KindInt, "12345678901234567"},
		{"json float", json.Number("2.5e3"), KindFloat, "2500"},
		{"NaN", math.NaN(), KindFloat, "null"},
		{"unsupported", struct{ A int }{1}, KindNull, "null"},
		{"channel", make(chan int), KindNull, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromAny(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.json, v.JSON())
		})
	}
}

func TestFromAny_NestedContainers(t *testing.T) {
	// Given: a nested structure with mixed leaves, including an unsupported one
	in := map[string]any{
		"tags":  []any{"airport", 3.0, false, nil},
		"geo":   map[string]any{"lat": 37.46, "lng": 126.44},
		"names": []string{"ICN", "RKSI"},
		"bad":   func() {},
		"typed": []int{1, 2},
	}

	// When: converting
	v := FromAny(in)

	// Then: the structure is preserved and unsupported leaves become null
	require.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"bad", "geo", "names", "tags", "typed"}, v.Keys())

	bad, ok := v.Field("bad")
	require.True(t, ok)
	assert.True(t, bad.IsNull())

	tags, _ := v.Field("tags")
	require.Len(t, tags.Elems(), 4)
	n, ok := tags.Elems()[1].AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)

	assert.JSONEq(t,
		`{"bad":null,"geo":{"lat":37.46,"lng":126.44},"names":["ICN","RKSI"],"tags":["airport",3,false,null],"typed":[1,2]}`,
		v.JSON())
}

func TestValue_JSON_NoHTMLEscaping(t *testing.T) {
	v := Object(map[string]Value{"note": String("<a & b>"), "city": String("東京")})

	assert.Equal(t, `{"city":"東京","note":"<a & b>"}`, v.JSON())
}

func TestValue_JSONRoundTrip(t *testing.T) {
	// Given: JSON with an integer beyond float64 precision
	raw := `{"id":9007199254740993,"ratio":0.5,"ok":true,"list":[1,"two"],"nested":{"x":null}}`

	// When: unmarshalling into a Value and marshalling back
	var v Value
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	out, err := json.Marshal(v)
	require.NoError(t, err)

	// Then: nothing is lost
	assert.JSONEq(t, raw, string(out))
	id, _ := v.Field("id")
	n, ok := id.AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(9007199254740993), n)
}

func TestValue_Accessors(t *testing.T) {
	f, ok := Int(4).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	_, ok = String("x").AsInt()
	assert.False(t, ok)

	assert.Equal(t, 0, Bool(true).Len())
	assert.Nil(t, Bool(true).Elems())
	assert.Nil(t, Bool(true).Keys())
	assert.Equal(t, "[]", Array().JSON())
	assert.Equal(t, "{}", EmptyObject().JSON())
	assert.Equal(t, "object", KindObject.String())
}

func TestValue_Indexable_SpellsBooleans(t *testing.T) {
	v := Normalize(`{"open":true,"gates":[{"id":"A1","staffed":false},2],"name":"인천"}`)

	got := v.Indexable()

	assert.Equal(t, map[string]any{
		"open": "true",
		"gates": []any{
			map[string]any{"id": "A1", "staffed": "false"},
			int64(2),
		},
		"name": "인천",
	}, got)
	assert.Equal(t, true, v.ToAny().(map[string]any)["open"], "ToAny keeps the boolean")
}
