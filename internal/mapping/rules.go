package mapping

import (
	"math"
	"strconv"
	"strings"

	"github.com/openprint3d/op3d/internal/profile"
)

// RuleContext is what a derived rule sees: the profile after raw mapping,
// the source document and the set of paths the mapping wrote.
type RuleContext struct {
	Profile *profile.Profile
	Doc     *Document
	Table   *Table

	written map[string]bool
}

// Wrote reports whether a mapping entry successfully wrote path.
func (c *RuleContext) Wrote(path string) bool {
	return c.written[path]
}

// RawFor returns the raw text of the last present document key mapped to path.
func (c *RuleContext) RawFor(path string) (string, bool) {
	var raw string
	var found bool
	for _, e := range c.Table.EntriesFor(path) {
		if v, ok := c.Doc.Raw(e.Key); ok {
			raw, found = v, true
		}
	}
	return raw, found
}

func (c *RuleContext) set(path string, v profile.Node) error {
	return c.Profile.Set(path, v)
}

// Rule recomputes dependent fields after raw mapping.
type Rule struct {
	Name  string
	Apply func(*RuleContext) error
}

// DefaultRules returns the derived rules per kind, in application order.
func DefaultRules() map[profile.Kind][]Rule {
	return map[profile.Kind][]Rule{
		profile.KindPrinter: {
			{Name: "bed-shape", Apply: ruleBedShape},
			{Name: "kinematics", Apply: ruleKinematics},
			{Name: "printer-id", Apply: rulePrinterID},
		},
		profile.KindFilament: {
			{Name: "filament-name", Apply: ruleFilamentName},
			{Name: "material", Apply: ruleMaterial},
			{Name: "nozzle-window", Apply: ruleWindow("nozzle", 20, 150, 300)},
			{Name: "bed-window", Apply: ruleWindow("bed", 10, 0, 150)},
			{Name: "filament-id", Apply: ruleFilamentID},
		},
		profile.KindProcess: {
			{Name: "infill-density", Apply: ruleInfillDensity},
			{Name: "layer-window", Apply: ruleLayerWindow},
			{Name: "process-id", Apply: ruleProcessID},
			{Name: "intent", Apply: ruleIntent},
		},
	}
}

// BedSize returns the extent of a bed outline written as "XxY" points
// separated by commas, e.g. "0x0,250x0,250x210,0x210".
func BedSize(shape string) (x, y float64, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range strings.Split(shape, ",") {
		px, py, found := strings.Cut(strings.TrimSpace(pt), "x")
		if !found {
			continue
		}
		fx, errX := strconv.ParseFloat(strings.TrimSpace(px), 64)
		fy, errY := strconv.ParseFloat(strings.TrimSpace(py), 64)
		if errX != nil || errY != nil {
			continue
		}
		minX, maxX = math.Min(minX, fx), math.Max(maxX, fx)
		minY, maxY = math.Min(minY, fy), math.Max(maxY, fy)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return maxX - minX, maxY - minY, true
}

// parseBedSize reads the "XxY" extent exporters write as bed_size.
func parseBedSize(raw string) (x, y float64, ok bool) {
	px, py, found := strings.Cut(strings.TrimSpace(raw), "x")
	if !found {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(px), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(py), 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

// ruleBedShape sizes the build volume from the bed outline, falling back to
// bed_size when bed_shape holds a shape name instead of points.
func ruleBedShape(c *RuleContext) error {
	var x, y float64
	var ok bool
	if shape, found := c.Doc.Raw("bed_shape"); found {
		x, y, ok = BedSize(shape)
	}
	if !ok {
		if size, found := c.Doc.Raw("bed_size"); found {
			x, y, ok = parseBedSize(size)
		}
	}
	if !ok {
		return nil
	}
	if err := c.set("build_volume.x", profile.Float(x)); err != nil {
		return err
	}
	return c.set("build_volume.y", profile.Float(y))
}

// kinematicsOrder is checked in sequence; the first substring hit wins.
var kinematicsOrder = []string{"cartesian", "corexy", "corexz", "delta", "hybrid_corexy"}

// InferKinematics picks a motion system from free-form printer text.
func InferKinematics(texts ...string) string {
	for _, k := range kinematicsOrder {
		for _, t := range texts {
			if strings.Contains(strings.ToLower(t), k) {
				return k
			}
		}
	}
	return "cartesian"
}

func ruleKinematics(c *RuleContext) error {
	printerType, _ := c.Doc.Raw("printer_type")
	notes, _ := c.Doc.Raw("printer_notes")
	return c.set("kinematics", profile.String(InferKinematics(printerType, notes)))
}

func rulePrinterID(c *RuleContext) error {
	if !c.Wrote("model") {
		return nil
	}
	maker := c.Profile.GetString("manufacturer", "Unknown")
	model := c.Profile.GetString("model", "Unknown")
	id := strings.ReplaceAll(maker+"/"+model, " ", "-")
	return c.set(profile.IDKey, profile.String(id))
}

func ruleFilamentName(c *RuleContext) error {
	if c.Wrote("name") || !c.Wrote("material") {
		return nil
	}
	material := c.Profile.GetString("material", "")
	if material == "" || material == "Unknown" {
		return nil
	}
	return c.set("name", profile.String(material))
}

var materialAliases = map[string]string{
	"pla":   "PLA",
	"pet":   "PETG",
	"petg":  "PETG",
	"abs":   "ABS",
	"asa":   "ASA",
	"tpu":   "TPU",
	"tpe":   "TPE",
	"pa":    "PA6",
	"nylon": "PA6",
	"pc":    "PC",
	"pp":    "PP",
	"pva":   "PVA",
	"hips":  "HIPS",
	"pvb":   "PVB",
}

// NormalizeMaterial maps a slicer material name onto the canonical
// vocabulary. Unknown names are upper-cased; empty input becomes PLA.
func NormalizeMaterial(material string) string {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(material))
	if m, ok := materialAliases[key]; ok {
		return m
	}
	if material == "" {
		return "PLA"
	}
	return strings.ToUpper(material)
}

func ruleMaterial(c *RuleContext) error {
	if !c.Wrote("material") {
		return nil
	}
	return c.set("material", profile.String(NormalizeMaterial(c.Profile.GetString("material", ""))))
}

// ruleWindow derives section.min and section.max around section.recommended
// when the mapping supplied the recommended value but not the bounds.
func ruleWindow(section string, spread, floor, ceil float64) func(*RuleContext) error {
	return func(c *RuleContext) error {
		rec := section + ".recommended"
		if !c.Wrote(rec) {
			return nil
		}
		t := c.Profile.GetFloat(rec, 0)
		if p := section + ".min"; !c.Wrote(p) {
			if err := c.set(p, profile.Float(math.Max(floor, t-spread))); err != nil {
				return err
			}
		}
		if p := section + ".max"; !c.Wrote(p) {
			if err := c.set(p, profile.Float(math.Min(ceil, t+spread))); err != nil {
				return err
			}
		}
		return nil
	}
}

var idPartReplacer = strings.NewReplacer(" ", "-", "/", "-")

func ruleFilamentID(c *RuleContext) error {
	brand := idPartReplacer.Replace(c.Profile.GetString("brand", "Unknown"))
	name := idPartReplacer.Replace(c.Profile.GetString("name", "Unknown"))
	return c.set(profile.IDKey, profile.String(brand+"/"+name))
}

// ParsePercent parses "15%" or "15". With fraction set, a value without a
// percent sign is read as a 0..1 fraction.
func ParsePercent(raw string, fraction bool) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "%") {
		return strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, "%", "")), 64)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if fraction {
		f *= 100
	}
	return f, nil
}

func ruleInfillDensity(c *RuleContext) error {
	const path = "infill.density_default"
	raw, ok := c.RawFor(path)
	if !ok {
		return nil
	}
	// PrusaSlicer writes plain densities as fractions; other dialects only
	// need help with the percent form.
	fraction := c.Doc.Dialect == profile.DialectPrusaSlicer
	if !fraction && !strings.Contains(raw, "%") {
		return nil
	}
	density, err := ParsePercent(raw, fraction)
	if err != nil {
		return nil
	}
	return c.set(path, profile.Float(density))
}

func ruleLayerWindow(c *RuleContext) error {
	if !c.Wrote("layer_height.default") {
		return nil
	}
	h := c.Profile.GetFloat("layer_height.default", 0.2)
	if !c.Wrote("layer_height.min") {
		if err := c.set("layer_height.min", profile.Float(math.Max(0.05, h*0.25))); err != nil {
			return err
		}
	}
	if !c.Wrote("layer_height.max") {
		if err := c.set("layer_height.max", profile.Float(math.Min(0.4, h*2))); err != nil {
			return err
		}
	}
	return nil
}

func ruleProcessID(c *RuleContext) error {
	height := "0.2"
	if n, ok := c.Profile.Get("layer_height.default"); ok {
		if s, ok := n.(profile.Scalar); ok {
			height = s.String()
		}
	}
	name := c.Profile.GetString("name", "Imported Profile")
	id := strings.ReplaceAll("Standard/"+height+"mm-"+name, " ", "-")
	return c.set(profile.IDKey, profile.String(id))
}

// IntentForLayerHeight classifies a layer height into a quality tier.
func IntentForLayerHeight(h float64) string {
	switch {
	case h <= 0.1:
		return "high_detail"
	case h <= 0.15:
		return "quality"
	case h <= 0.25:
		return "standard"
	}
	return "draft"
}

func ruleIntent(c *RuleContext) error {
	h := c.Profile.GetFloat("layer_height.default", 0.2)
	return c.set("intent", profile.String(IntentForLayerHeight(h)))
}
