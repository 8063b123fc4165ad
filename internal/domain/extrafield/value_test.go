package extrafield

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestData_RoundTrip(t *testing.T) {
	in := Data{
		"po_number": String("PO-1"),
		"amount":    {kind: KindNumber, text: "12345678901234567890.123456789"},
		"paid":      Bool(true),
		"note":      Null(),
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Data
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out, "round trip changed %s", string(b))
}

func TestData_KeepsNumberLiteral(t *testing.T) {
	var d Data
	require.NoError(t, json.Unmarshal([]byte(`{"n":0.1000000000000000055511151231257827}`), &d))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"n":0.1000000000000000055511151231257827}`, string(b))

	assert.Equal(t, KindNumber, d["n"].Kind())
	assert.Equal(t, "0.1000000000000000055511151231257827", d["n"].Text())
}

func TestData_NullDecodesEmpty(t *testing.T) {
	var d Data
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.NotNil(t, d)
	assert.Empty(t, d)
}

func TestData_RejectsNonObject(t *testing.T) {
	var d Data
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &d))
}

func TestValue_Composite(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`{"a":[1,2]}`), &v))
	assert.Equal(t, KindOther, v.Kind())

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,2]}`, string(b))
}

func TestValue_HugeExponentKeptVerbatim(t *testing.T) {
	var d Data
	require.NoError(t, json.Unmarshal([]byte(`{"n":1e50000000}`), &d))
	assert.Equal(t, "1e50000000", d["n"].Text())

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"n":1e50000000}`, string(b))
}

func TestSchema_RoundTrip(t *testing.T) {
	in := Schema{
		{Key: "po_number", Label: "PO Number", Type: TypeString, Required: true},
		{Key: "tier", Type: TypeEnum, Options: []string{"GOLD", "SILVER"}},
		{Key: "due", Type: TypeDate},
	}

	stored, err := in.Value()
	require.NoError(t, err)

	var out Schema
	require.NoError(t, out.Scan(stored))
	assert.Equal(t, in, out)

	var fromBytes Schema
	require.NoError(t, fromBytes.Scan([]byte(stored.(string))))
	assert.Equal(t, in, fromBytes)
}

func TestSchema_ScanEmpty(t *testing.T) {
	var s Schema
	require.NoError(t, s.Scan(nil))
	assert.NotNil(t, s)
	assert.Empty(t, s)

	require.NoError(t, s.Scan(""))
	assert.Empty(t, s)

	require.NoError(t, s.Scan("null"))
	assert.Empty(t, s)

	v, err := Schema(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestSchema_ScanCorrupt(t *testing.T) {
	var s Schema
	assert.Error(t, s.Scan("{not json"))
	assert.Error(t, s.Scan(42))
}
