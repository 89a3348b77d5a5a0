package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueJSONRoundTrip(t *testing.T) {
	var set ValueSet
	raw := `{"Chest":40.5,"Sleeve":24,"Fit":"loose","Notes":""}`
	require.NoError(t, json.Unmarshal([]byte(raw), &set))

	require.NotNil(t, set["Chest"].Num)
	assert.Equal(t, 40.5, *set["Chest"].Num)
	assert.Equal(t, "loose", set["Fit"].Text)
	assert.Nil(t, set["Fit"].Num)
	assert.True(t, set["Notes"].Blank())

	out, err := json.Marshal(set)
	require.NoError(t, err)

	var again ValueSet
	require.NoError(t, json.Unmarshal(out, &again))
	assert.True(t, set.Equal(again))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "40.5", NumberValue(40.5).String())
	assert.Equal(t, "40", NumberValue(40).String())
	assert.Equal(t, "loose", TextValue("loose").String())
}

func TestValueSetEmpty(t *testing.T) {
	assert.True(t, ValueSet{}.Empty())
	assert.True(t, ValueSet{"a": TextValue("  ")}.Empty())
	assert.False(t, ValueSet{"a": NumberValue(0)}.Empty())
	assert.False(t, ValueSet{"a": TextValue("x")}.Empty())
}

func TestValueSetEqual(t *testing.T) {
	a := ValueSet{"Chest": NumberValue(40), "Fit": TextValue("loose")}
	b := ValueSet{"Chest": NumberValue(40), "Fit": TextValue("loose")}
	assert.True(t, a.Equal(b))

	c := ValueSet{"Chest": NumberValue(41), "Fit": TextValue("loose")}
	assert.False(t, a.Equal(c))

	d := ValueSet{"Chest": NumberValue(40)}
	assert.False(t, a.Equal(d))

	// numeric 40 and text "40" compare equal through String()
	e := ValueSet{"Chest": TextValue("40"), "Fit": TextValue("loose")}
	assert.True(t, a.Equal(e))
}
