package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openprint3d/op3d/internal/profile"
)

func importINI(t *testing.T, text string, kind profile.Kind) *profile.Profile {
	t.Helper()
	src, err := ReadINI([]byte(text))
	require.NoError(t, err)
	p, err := NewImporter(DefaultConfig()).ImportINI(src, kind)
	require.NoError(t, err)
	return p
}

func get(t *testing.T, p *profile.Profile, path string) profile.Node {
	t.Helper()
	n, ok := p.Get(path)
	require.True(t, ok, "missing %s", path)
	return n
}

func TestImport_MinimalPrinter(t *testing.T) {
	p := importINI(t, `[printer]
printer_model = X1
printer_make = Acme
nozzle_diameter = 0.4
bed_shape = 0x0,250x0,250x250,0x250
`, profile.KindPrinter)

	assert.Equal(t, profile.KindPrinter, p.Kind())
	assert.Equal(t, "Acme/X1", p.ID())
	assert.Equal(t, profile.Float(0.4), get(t, p, "extruders.0.nozzle_diameter"))
	assert.Equal(t, 250.0, p.GetFloat("build_volume.x", 0))
	assert.Equal(t, 250.0, p.GetFloat("build_volume.y", 0))
	assert.Equal(t, "X1", p.GetString("model", ""))
	assert.Equal(t, "Acme", p.GetString("manufacturer", ""))
	assert.Equal(t, "Imported from PrusaSlicer", p.GetString("maintainer.name", ""))
	assert.Equal(t, "cartesian", p.GetString("kinematics", ""))
	assert.True(t, p.Extension(profile.DialectPrusaSlicer).IsEmpty(), "every key was mapped")
}

func TestImport_MalformedFieldKeepsDefault(t *testing.T) {
	p := importINI(t, `[printer]
printer_model = X1
printer_make = Acme
nozzle_diameter = wide
max_print_height = 220
machine_max_speed_x = 500
`, profile.KindPrinter)

	assert.Equal(t, profile.Float(0.4), get(t, p, "extruders.0.nozzle_diameter"), "skeleton default kept")
	assert.Equal(t, profile.Float(220), get(t, p, "build_volume.z"))
	assert.Equal(t, profile.Float(500), get(t, p, "axes.x.max_speed"))
	assert.Equal(t, "Acme/X1", p.ID())

	ext := p.Extension(profile.DialectPrusaSlicer)
	_, stashed := ext.Get("nozzle_diameter")
	assert.False(t, stashed, "a mapped key is consumed even when its value is rejected")
}

func TestImport_PrinterStashAndKinematics(t *testing.T) {
	p := importINI(t, `[printer]
printer_model = Voron 2.4
printer_make = LDO
printer_type = CoreXY
thumbnails = 16x16,313x173
`, profile.KindPrinter)

	assert.Equal(t, "LDO/Voron-2.4", p.ID())
	assert.Equal(t, "corexy", p.GetString("kinematics", ""))

	ext := p.Extension(profile.DialectPrusaSlicer)
	assert.Equal(t, 2, ext.Len())
	v, ok := ext.Get("printer_type")
	require.True(t, ok)
	assert.Equal(t, profile.String("CoreXY"), v)
	v, _ = ext.Get("thumbnails")
	assert.Equal(t, profile.String("16x16,313x173"), v, "raw text is stashed unconverted")
}

func TestImport_PrinterWithoutModelKeepsDefaultID(t *testing.T) {
	p := importINI(t, "[printer]\nprinter_make = Acme\n", profile.KindPrinter)
	assert.Equal(t, "Unknown/Unknown", p.ID())
	assert.Equal(t, "Acme", p.GetString("manufacturer", ""))
}

func TestImport_Filament(t *testing.T) {
	p := importINI(t, `[filament]
filament_type = pet
filament_vendor = Prusa Polymers
temperature = 240
bed_temperature = 145
first_layer_temperature = 235
max_fan_speed = 50
filament_settings_id = "Prusament PETG"
`, profile.KindFilament)

	assert.Equal(t, "PETG", p.GetString("material", ""))
	assert.Equal(t, "pet", p.GetString("name", ""), "name falls back to the raw material")
	assert.Equal(t, "Prusa-Polymers/pet", p.ID())

	assert.Equal(t, profile.Float(240), get(t, p, "nozzle.recommended"))
	assert.Equal(t, profile.Float(220), get(t, p, "nozzle.min"))
	assert.Equal(t, profile.Float(260), get(t, p, "nozzle.max"))
	assert.Equal(t, profile.Float(235), get(t, p, "nozzle.first_layer"))

	assert.Equal(t, profile.Float(135), get(t, p, "bed.min"))
	assert.Equal(t, profile.Float(150), get(t, p, "bed.max"), "capped at 150")
	assert.Equal(t, profile.Float(50), get(t, p, "fan.recommended"))

	v, ok := p.Extension(profile.DialectPrusaSlicer).Get("filament_settings_id")
	require.True(t, ok)
	assert.Equal(t, profile.String(`"Prusament PETG"`), v)
}

func TestImport_FilamentNameAndIDSanitized(t *testing.T) {
	p := importINI(t, `[filament]
filament_type = PLA
filament_vendor = Generic
filament_name = "PLA Silk/Matte"
temperature = 160
`, profile.KindFilament)

	assert.Equal(t, "PLA Silk/Matte", p.GetString("name", ""))
	assert.Equal(t, "Generic/PLA-Silk-Matte", p.ID())
	assert.Equal(t, profile.Float(150), get(t, p, "nozzle.min"), "floored at 150")
	assert.Equal(t, profile.Float(180), get(t, p, "nozzle.max"))
}

func TestImport_FilamentDefaultsWithoutTemperature(t *testing.T) {
	p := importINI(t, "[filament]\nfilament_vendor = Acme\n", profile.KindFilament)

	assert.Equal(t, profile.Float(180), get(t, p, "nozzle.min"))
	assert.Equal(t, profile.Float(250), get(t, p, "nozzle.max"))
	assert.Equal(t, "Acme/Unknown", p.ID())
	assert.Equal(t, "PLA", p.GetString("material", ""))
}

func TestImport_Process(t *testing.T) {
	p := importINI(t, `[print]
name = 0.10mm DETAIL
layer_height = 0.1
fill_density = 15%
external_perimeter_speed = 25
perimeter_speed = 45
perimeters = 3
support_material = 1
cooling = 0
gcode_comments = 1
`, profile.KindProcess)

	assert.Equal(t, "Standard/0.1mm-0.10mm-DETAIL", p.ID())
	assert.Equal(t, "0.10mm DETAIL", p.GetString("name", ""))
	assert.Equal(t, "high_detail", p.GetString("intent", ""))
	assert.Equal(t, profile.Float(15), get(t, p, "infill.density_default"))
	assert.Equal(t, profile.Float(45), get(t, p, "speed.outer_wall"), "perimeter_speed wins")
	assert.Equal(t, profile.Int(3), get(t, p, "wall_settings.wall_count"))
	assert.Equal(t, profile.Bool(true), get(t, p, "supports.enabled_default"))
	assert.Equal(t, profile.Bool(false), get(t, p, "cooling.enabled"))

	assert.InDelta(t, 0.05, p.GetFloat("layer_height.min", 0), 1e-9)
	assert.InDelta(t, 0.2, p.GetFloat("layer_height.max", 0), 1e-9)

	v, ok := p.Extension(profile.DialectPrusaSlicer).Get("gcode_comments")
	require.True(t, ok)
	assert.Equal(t, profile.String("1"), v)
}

func TestImport_ProcessFractionDensity(t *testing.T) {
	p := importINI(t, "[print]\nlayer_height = 0.3\nfill_density = 0.15\n", profile.KindProcess)

	assert.InDelta(t, 15.0, p.GetFloat("infill.density_default", 0), 1e-9)
	assert.Equal(t, "draft", p.GetString("intent", ""))
	assert.Equal(t, "Standard/0.3mm-Imported-Profile", p.ID())
}

func TestImport_ProcessDefaults(t *testing.T) {
	p := importINI(t, "[print]\nskirts = 2\n", profile.KindProcess)

	assert.Equal(t, "Standard/0.2mm-Imported-Profile", p.ID())
	assert.Equal(t, "standard", p.GetString("intent", ""))
	assert.Equal(t, profile.Float(20), get(t, p, "infill.density_default"))
	assert.Equal(t, profile.Int(2), get(t, p, "adhesion.skirt_count"))
}

func TestIntentForLayerHeight(t *testing.T) {
	tests := []struct {
		h    float64
		want string
	}{
		{0.05, "high_detail"},
		{0.1, "high_detail"},
		{0.12, "quality"},
		{0.15, "quality"},
		{0.2, "standard"},
		{0.25, "standard"},
		{0.28, "draft"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IntentForLayerHeight(tt.h), "h=%v", tt.h)
	}
}

func TestBedSize(t *testing.T) {
	tests := []struct {
		shape  string
		x, y   float64
		wantOK bool
	}{
		{shape: "0x0,250x0,250x210,0x210", x: 250, y: 210, wantOK: true},
		{shape: "-5x-3,245x-3,245x207,-5x207", x: 250, y: 210, wantOK: true},
		{shape: "0x0, 180x0 ,180x180,0x180", x: 180, y: 180, wantOK: true},
		{shape: "rectangular"},
		{shape: ""},
	}
	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			x, y, ok := BedSize(tt.shape)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestNormalizeMaterial(t *testing.T) {
	tests := map[string]string{
		"pla":    "PLA",
		"PET":    "PETG",
		"Nylon":  "PA6",
		"pa":     "PA6",
		"PC-ABS": "PC-ABS",
		"asa":    "ASA",
		"flex":   "FLEX",
		"":       "PLA",
		"p_e_t":  "PETG",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeMaterial(in), "input %q", in)
	}
}

func TestInferKinematics(t *testing.T) {
	assert.Equal(t, "corexy", InferKinematics("CoreXY", ""))
	assert.Equal(t, "delta", InferKinematics("", "a DELTA machine"))
	assert.Equal(t, "cartesian", InferKinematics("", ""))
	assert.Equal(t, "corexy", InferKinematics("hybrid_corexy", ""), "first match in check order wins")
}

func TestImport_CuraFilamentJSON(t *testing.T) {
	doc, err := ReadDialectJSON([]byte(`{
		"material": "pla",
		"print_temperature": 205,
		"print_temperature_layer_0": 200,
		"material_guid": "506c9f0d",
		"retraction_amounts": [1, 2]
	}`), profile.DialectCura)
	require.NoError(t, err)

	p, err := NewImporter(DefaultConfig()).Import(doc, profile.KindFilament)
	require.NoError(t, err)

	assert.Equal(t, "PLA", p.GetString("material", ""))
	assert.Equal(t, profile.Float(205), get(t, p, "nozzle.recommended"))
	assert.Equal(t, profile.Float(200), get(t, p, "nozzle.min"), "mapped bound is not re-derived")
	assert.Equal(t, profile.Float(225), get(t, p, "nozzle.max"))
	assert.Equal(t, "Imported from Cura", p.GetString("maintainer.name", ""))

	ext := p.Extension(profile.DialectCura)
	assert.Equal(t, 2, ext.Len())
	v, _ := ext.Get("retraction_amounts")
	assert.True(t, profile.Equal(profile.NewList(profile.Int(1), profile.Int(2)), v), "original values are stashed")
}

func TestImport_CuraPrinterNestsExtension(t *testing.T) {
	doc, err := ReadDialectJSON([]byte(`{"machine_width": 220, "heated_bed": false, "machine_start_gcode": "G28"}`), profile.DialectCura)
	require.NoError(t, err)

	p, err := NewImporter(DefaultConfig()).Import(doc, profile.KindPrinter)
	require.NoError(t, err)

	assert.Equal(t, profile.Float(220), get(t, p, "build_volume.x"))
	assert.Equal(t, profile.Bool(false), get(t, p, "bed.heated"))

	v, ok := p.Extension(profile.DialectCura).Lookup("definition_changes.machine_start_gcode")
	require.True(t, ok)
	assert.Equal(t, profile.String("G28"), v)
}

func TestImport_BambuIndexedKeys(t *testing.T) {
	doc, err := ReadDialectJSON([]byte(`{
		"filament_type": ["PETG"],
		"nozzle_temperature": ["230", "260"],
		"drying_time": 8,
		"compatible_printers": ["X1C"]
	}`), profile.DialectBambu)
	require.NoError(t, err)

	p, err := NewImporter(DefaultConfig()).Import(doc, profile.KindFilament)
	require.NoError(t, err)

	assert.Equal(t, "PETG", p.GetString("material", ""))
	assert.Equal(t, profile.Float(230), get(t, p, "nozzle.min"))
	assert.Equal(t, profile.Float(260), get(t, p, "nozzle.max"))

	ext := p.Extension(profile.DialectBambu)
	assert.Equal(t, 1, ext.Len(), "drying_time is derived, not stashed")
	_, ok := ext.Get("compatible_printers")
	assert.True(t, ok)
}

func TestImport_Errors(t *testing.T) {
	imp := NewImporter(DefaultConfig())

	_, err := imp.Import(NewDocument(profile.DialectCura), "spool")
	assert.ErrorIs(t, err, profile.ErrUnknownKind)

	_, err = imp.Import(NewDocument("slic3r"), profile.KindPrinter)
	assert.ErrorIs(t, err, profile.ErrUnknownDialect)

	src, err := ReadINI([]byte("[printer]\nprinter_model = X\n"))
	require.NoError(t, err)
	_, err = imp.ImportINI(src, profile.KindFilament)
	assert.ErrorIs(t, err, ErrSectionMissing)

	empty := NewImporter(Config{Tables: MustTableSet()})
	_, err = empty.Import(NewDocument(profile.DialectOrca), profile.KindPrinter)
	assert.ErrorIs(t, err, ErrNoTable)
}

// Keys the PrusaSlicer exporter writes come back as canonical values and
// stay out of the extension namespace.
func TestImport_PrusaExportedPrinterKeys(t *testing.T) {
	doc := NewDocument(profile.DialectPrusaSlicer)
	doc.Add("vendor", "Acme")
	doc.Add("bed_shape", "rectangular")
	doc.Add("bed_size", "250.0x210.0")
	doc.Add("print_height", "180.0")
	doc.Add("filament_diameter", "1.75")

	p, err := NewImporter(DefaultConfig()).Import(doc, profile.KindPrinter)
	require.NoError(t, err)

	assert.Equal(t, "Acme", p.GetString("manufacturer", ""))
	assert.Equal(t, profile.Float(250), get(t, p, "build_volume.x"))
	assert.Equal(t, profile.Float(210), get(t, p, "build_volume.y"))
	assert.Equal(t, profile.Float(180), get(t, p, "build_volume.z"))
	assert.True(t, p.Extension(profile.DialectPrusaSlicer).IsEmpty())
}

func TestImport_BedShapeOutlineBeatsBedSize(t *testing.T) {
	p := importINI(t, `[printer]
bed_shape = 0x0,300x0,300x300,0x300
bed_size = 120x120
`, profile.KindPrinter)

	assert.Equal(t, profile.Float(300), get(t, p, "build_volume.x"))
	assert.Equal(t, profile.Float(300), get(t, p, "build_volume.y"))
}

func TestImport_DerivedKeysNotStashed(t *testing.T) {
	doc := NewDocument(profile.DialectBambu)
	doc.Add("filament_type_id", "GPLA00")
	doc.Add("drying_time", "4")
	doc.Add("filament_start_gcode", "M104")

	p, err := NewImporter(DefaultConfig()).Import(doc, profile.KindFilament)
	require.NoError(t, err)

	ext := p.Extension(profile.DialectBambu)
	assert.Equal(t, 1, ext.Len())
	_, ok := ext.Get("filament_start_gcode")
	assert.True(t, ok)
}

func TestImport_SubstitutedConfig(t *testing.T) {
	cfg := Config{
		Tables: MustTableSet(&Table{
			Dialect: profile.DialectOrca,
			Kind:    profile.KindPrinter,
			Entries: []Entry{{"width", "build_volume.x", Float}},
		}),
	}
	doc := NewDocument(profile.DialectOrca)
	doc.Add("width", "300")
	doc.Add("printer_model", "ignored")

	p, err := NewImporter(cfg).Import(doc, profile.KindPrinter)
	require.NoError(t, err)

	assert.Equal(t, profile.Float(300), get(t, p, "build_volume.x"))
	assert.Equal(t, "Unknown", p.GetString("model", ""), "no rules or other entries apply")
	v, ok := p.Extension(profile.DialectOrca).Get("printer_model")
	require.True(t, ok)
	assert.Equal(t, profile.String("ignored"), v)
}

func TestImport_FreshProfilePerCall(t *testing.T) {
	imp := NewImporter(DefaultConfig())
	doc := NewDocument(profile.DialectPrusaSlicer)
	doc.Add("printer_model", "A")

	first, err := imp.Import(doc, profile.KindPrinter)
	require.NoError(t, err)
	require.NoError(t, first.Set("build_volume.x", profile.Float(999)))

	second, err := imp.Import(doc, profile.KindPrinter)
	require.NoError(t, err)
	assert.Equal(t, profile.Float(200), get(t, second, "build_volume.x"))
}

func TestDetectINIKinds(t *testing.T) {
	src, err := ReadINI([]byte(bundleINI))
	require.NoError(t, err)

	kinds := NewImporter(DefaultConfig()).DetectINIKinds(src)
	assert.Equal(t, []profile.Kind{profile.KindPrinter, profile.KindFilament, profile.KindProcess}, kinds)

	src, err = ReadINI([]byte("[print]\nlayer_height = 0.2\n"))
	require.NoError(t, err)
	assert.Equal(t, []profile.Kind{profile.KindProcess}, NewImporter(DefaultConfig()).DetectINIKinds(src))
}
