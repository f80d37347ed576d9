package profile

import "fmt"

// Document keys shared by every kind.
const (
	// SchemaKey holds the kind discriminator. The name is the project's historical key.
	SchemaKey = "op3d_schema"

	// SchemaVersionKey holds the document schema version.
	SchemaVersionKey = "op3d_schema_version"

	// IDKey holds the profile identifier.
	IDKey = "id"

	// SchemaVersion is written into every new profile.
	SchemaVersion = "0.1.0"
)

// Skeleton returns a fresh default tree for kind. Every section a mapping
// table may write into exists here, even when its leaves are left unset.
// A default leaf has the scalar type the mapping coercions produce for it.
func Skeleton(kind Kind) (*Map, error) {
	var body *Map
	switch kind {
	case KindPrinter:
		body = printerSkeleton()
	case KindFilament:
		body = filamentSkeleton()
	case KindProcess:
		body = processSkeleton()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	root := NewMap().
		With(SchemaKey, String(string(kind))).
		With(SchemaVersionKey, String(SchemaVersion)).
		With(IDKey, String(defaultID(kind))).
		With("maintainer", NewMap().
			With("name", String("Unknown")).
			With("maintainer_type", String("community")))
	body.Range(func(k string, v Node) bool {
		root.Set(k, v)
		return true
	})
	root.
		With("external_ids", NewMap()).
		With("links", NewMap()).
		With("tags", NewList()).
		With("notes", String(""))
	for _, d := range Dialects() {
		root.Set(d.ExtensionKey(), NewMap())
	}
	return root, nil
}

func defaultID(kind Kind) string {
	if kind == KindProcess {
		return "Standard/Imported"
	}
	return "Unknown/Unknown"
}

func axis(speed, accel float64) *Map {
	return NewMap().With("max_speed", Float(speed)).With("max_accel", Float(accel))
}

func printerSkeleton() *Map {
	return NewMap().
		With("manufacturer", String("Unknown")).
		With("model", String("Unknown")).
		With("variant", String("Stock")).
		With("build_volume", NewMap().
			With("x", Float(200)).
			With("y", Float(200)).
			With("z", Float(200)).
			With("shape", String("rectangular")).
			With("origin", String("front_left"))).
		With("kinematics", String("cartesian")).
		With("axes", NewMap().
			With("x", axis(300, 3000)).
			With("y", axis(300, 3000)).
			With("z", axis(12, 500))).
		With("extruders", NewList(NewMap().
			With("id", String("tool0")).
			With("nozzle_diameter", Float(0.4)).
			With("nozzle_material", String("brass")).
			With("max_temp", Int(300)).
			With("min_temp", Int(0)).
			With("retraction_supported", Bool(true)))).
		With("bed", NewMap().
			With("heated", Bool(true)).
			With("max_temp", Int(120))).
		With("chamber", NewMap().
			With("heated", Bool(false)).
			With("passive", Bool(false))).
		With("firmware", NewMap().
			With("flavor", String("other"))).
		With("network", NewMap().
			With("has_wifi", Bool(false)).
			With("has_ethernet", Bool(false)).
			With("supports_lan_api", Bool(false))).
		With("layer_height", NewMap()).
		With("retraction", NewMap()).
		With("speed", NewMap())
}

func window(lo, hi, rec float64) *Map {
	return NewMap().With("min", Float(lo)).With("max", Float(hi)).With("recommended", Float(rec))
}

func filamentSkeleton() *Map {
	return NewMap().
		With("brand", String("Unknown")).
		With("name", String("Unknown")).
		With("material", String("PLA")).
		With("diameter", Float(1.75)).
		With("nozzle", window(180, 250, 200)).
		With("bed", window(0, 100, 50)).
		With("fan", window(0, 100, 100)).
		With("printing_speed", NewMap()).
		With("volumetric_speed", Float(8))
}

func processSkeleton() *Map {
	return NewMap().
		With("name", String("Imported Profile")).
		With("intent", String("standard")).
		With("layer_height", NewMap().
			With("min", Float(0.05)).
			With("max", Float(0.4)).
			With("default", Float(0.2))).
		With("wall_settings", NewMap().
			With("wall_count", Int(2)).
			With("top_layers", Int(3)).
			With("bottom_layers", Int(3))).
		With("infill", NewMap().
			With("density_default", Float(20)).
			With("density_range", NewMap().With("min", Int(0)).With("max", Int(100))).
			With("recommended_patterns", NewList(String("gyroid"), String("grid"), String("cubic")))).
		With("speed", NewMap().
			With("outer_wall", Float(30)).
			With("inner_wall", Float(60)).
			With("infill", Float(60)).
			With("top_bottom", Float(30)).
			With("travel", Float(150))).
		With("accel", NewMap().
			With("default", Float(3000)).
			With("outer_wall", Float(1000)).
			With("infill", Float(3000))).
		With("retraction", NewMap().
			With("distance", Float(0.8)).
			With("speed", Float(35))).
		With("cooling", NewMap().
			With("fan_default", Float(100)).
			With("fan_min_layer_time", Float(10))).
		With("supports", NewMap().
			With("enabled_default", Bool(false)).
			With("overhang_threshold", Float(45))).
		With("adhesion", NewMap().
			With("default_type", String("skirt")).
			With("brim_width", Float(0))).
		With("quality_bias", NewMap().
			With("priority", String("balanced")))
}
