package compare

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openprint3d/op3d/internal/profile"
)

func sampleDoc() *profile.Map {
	return profile.NewMap().
		With(profile.SchemaKey, profile.String("filament")).
		With("id", profile.String("Acme/PLA")).
		With("nozzle", profile.NewMap().
			With("min", profile.Int(190)).
			With("max", profile.Int(230))).
		With("tags", profile.NewList(profile.String("a"), profile.String("b"))).
		With("x_cura", profile.NewMap()).
		With("diameter", profile.Float(1.75))
}

func TestFlatten(t *testing.T) {
	flat := Flatten(sampleDoc(), ".")

	assert.Equal(t, []string{"diameter", "id", "nozzle.max", "nozzle.min", "op3d_schema", "tags"}, flat.Keys())
	assert.True(t, profile.Equal(profile.Int(190), flat["nozzle.min"]))
	assert.IsType(t, &profile.List{}, flat["tags"], "lists are opaque leaves")
	_, ok := flat["x_cura"]
	assert.False(t, ok, "empty maps vanish")
}

func TestFlatten_Separator(t *testing.T) {
	flat := Flatten(sampleDoc(), "/")
	_, ok := flat["nozzle/min"]
	assert.True(t, ok)
}

func TestDiff_SelfHasNoDifferences(t *testing.T) {
	flat := Flatten(sampleDoc(), ".")
	r := Diff(flat, flat, true)

	assert.False(t, r.HasDifferences())
	assert.Equal(t, len(flat), r.Stats.Common)
	assert.Equal(t, len(flat), r.Stats.TotalKeys)

	r = Diff(flat, flat, false)
	assert.Empty(t, r.Common)
	assert.Zero(t, r.Stats.Common)
}

func TestDiff_OneLeafChanged(t *testing.T) {
	right := sampleDoc()
	require.NoError(t, profile.Set(right, "nozzle.max", profile.Int(240)))

	r := Diff(Flatten(sampleDoc(), "."), Flatten(right, "."), false)
	require.Len(t, r.Differences, 1)
	assert.Equal(t, Entry{
		Key:    "nozzle.max",
		Left:   profile.Int(230),
		Right:  profile.Int(240),
		Status: Different,
	}, r.Differences[0])
	assert.Equal(t, Stats{TotalKeys: 6, Differences: 1, Modified: 1}, r.Stats)
}

func TestDiff_Classification(t *testing.T) {
	left := Flat{
		"a": profile.Int(50),
		"b": profile.String("x"),
		"c": profile.NewList(profile.Int(1)),
		"d": profile.Null(),
	}
	right := Flat{
		"a": profile.Float(50),
		"c": profile.NewList(profile.Int(1)),
		"d": profile.Null(),
		"e": profile.Bool(true),
	}

	r := Diff(left, right, true)

	var got []string
	for _, e := range r.Differences {
		got = append(got, e.Key+":"+string(e.Status))
	}
	assert.Equal(t, []string{"a:different", "b:only_in_profile1", "e:only_in_profile2"}, got)
	require.Len(t, r.Common, 2)
	assert.Equal(t, "c", r.Common[0].Key)
	assert.Equal(t, "d", r.Common[1].Key)
	assert.Equal(t, Stats{
		TotalKeys: 5, Differences: 3, Common: 2,
		OnlyInLeft: 1, OnlyInRight: 1, Modified: 1,
	}, r.Stats)
}

func TestCompareDocuments(t *testing.T) {
	right := profile.NewMap().With("nozzle", profile.NewMap().With("min", profile.Int(190)))

	r := CompareDocuments(sampleDoc(), right, Options{})
	assert.Equal(t, "filament", r.LeftSchema)
	assert.Equal(t, "unknown", r.RightSchema)
	assert.Equal(t, "Acme/PLA", r.LeftID)
	assert.Equal(t, "unknown", r.RightID)
	assert.Equal(t, 5, r.Result.Stats.OnlyInLeft)
}

func TestFormatValue(t *testing.T) {
	long := profile.NewList()
	for range 20 {
		long.Items = append(long.Items, profile.Int(100))
	}

	tests := []struct {
		name string
		in   profile.Node
		want string
	}{
		{name: "missing", in: nil, want: "<missing>"},
		{name: "null", in: profile.Null(), want: "null"},
		{name: "float", in: profile.Float(50), want: "50.0"},
		{name: "list", in: profile.NewList(profile.Int(1), profile.String("a")), want: `[1,"a"]`},
		{name: "truncated", in: long, want: "[100,100,100,100,100,100,100,100,100,..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	right := sampleDoc()
	require.NoError(t, profile.Set(right, "nozzle.max", profile.Int(240)))
	r := CompareDocuments(sampleDoc(), right, Options{})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r, 2))

	n, err := profile.DecodeJSON(buf.Bytes())
	require.NoError(t, err)
	doc := n.(*profile.Map)
	assert.Equal(t, []string{
		"profile1_schema", "profile2_schema", "profile1_id", "profile2_id",
		"differences", "common", "stats",
	}, doc.Keys())

	status, ok := profile.Get(doc, "differences.0.status")
	require.True(t, ok)
	assert.True(t, profile.Equal(profile.String("different"), status))
	modified, _ := profile.Get(doc, "stats.modified")
	assert.True(t, profile.Equal(profile.Int(1), modified))
}

func TestWriteText(t *testing.T) {
	right := sampleDoc()
	require.NoError(t, profile.Set(right, "nozzle.max", profile.Int(240)))
	r := CompareDocuments(sampleDoc(), right, Options{IncludeCommon: true})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Acme/PLA")
	assert.Contains(t, out, "Differences found:  1")
	assert.Contains(t, out, "nozzle.max")
	assert.Contains(t, out, "COMMON SETTINGS")
	assert.True(t, strings.Contains(out, "230") && strings.Contains(out, "240"))
}

func TestWriteDyff(t *testing.T) {
	right := sampleDoc()
	require.NoError(t, profile.Set(right, "nozzle.max", profile.Int(240)))

	var buf bytes.Buffer
	require.NoError(t, WriteDyff(&buf, "a.json", sampleDoc(), "b.json", right, false))
	assert.Contains(t, buf.String(), "nozzle.max")

	buf.Reset()
	require.NoError(t, WriteDyff(&buf, "a.json", sampleDoc(), "b.json", sampleDoc(), false))
	assert.Empty(t, buf.String())
}

func TestFormat_IsValid(t *testing.T) {
	for _, f := range Formats() {
		assert.True(t, Format(f).IsValid())
	}
	assert.False(t, Format("yaml").IsValid())
}
