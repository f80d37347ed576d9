package export

import "github.com/openprint3d/op3d/internal/profile"

// FieldTables maps dialect and kind to the ordered fields synthesized when a
// profile carries no vendor block for the dialect.
type FieldTables map[profile.Dialect]map[profile.Kind][]Field

// Fields returns the fields for d and k.
func (t FieldTables) Fields(d profile.Dialect, k profile.Kind) []Field {
	return t[d][k]
}

var (
	num  = profile.Int
	dec  = profile.Float
	str  = profile.String
	flag = profile.Bool
)

// DefaultFieldTables returns the built-in field tables. The literal defaults
// are part of each dialect's export contract and apply only when the
// canonical field is absent.
func DefaultFieldTables() FieldTables {
	return FieldTables{
		profile.DialectCura: {
			profile.KindFilament: {
				shaped("material", Lower, Ref{"material", str("pla")}),
				value("print_temperature", "nozzle.recommended", dec(200)),
				value("print_temperature_layer_0", "nozzle.min", dec(180)),
				value("bed_temperature", "bed.recommended", dec(50)),
				value("bed_temperature_layer_0", "bed.min", dec(40)),
				value("fan_speed", "fan.recommended", dec(100)),
				literal("fan_speed_layer_0", num(0)),
				literal("cooling", str("enabled")),
			},
			profile.KindPrinter: {
				value("machine_width", "build_volume.x", dec(200)),
				value("machine_depth", "build_volume.y", dec(200)),
				value("machine_height", "build_volume.z", dec(200)),
				value("nozzle_size", "extruders.0.nozzle_diameter", dec(0.4)),
				value("heated_bed", "bed.heated", flag(true)),
			},
			profile.KindProcess: {
				value("layer_height", "layer_height.default", dec(0.2)),
				value("wall_line_count", "wall_settings.wall_count", num(2)),
				value("infill_sparse_density", "infill.density_default", dec(20)),
				value("speed_wall_0", "speed.outer_wall", dec(30)),
				value("speed_infill", "speed.infill", dec(60)),
				value("speed_travel", "speed.travel", dec(150)),
				value("retraction_amount", "retraction.distance", dec(0.8)),
				value("retraction_speed", "retraction.speed", dec(35)),
				value("support_enable", "supports.enabled_default", flag(false)),
				value("adhesion_type", "adhesion.default_type", str("skirt")),
			},
		},
		profile.DialectPrusaSlicer: {
			profile.KindFilament: {
				value("filament_type", "material", str("PLA")),
				value("temperature", "nozzle.recommended", dec(200)),
				value("bed_temperature", "bed.recommended", dec(50)),
				value("fan_speed", "fan.recommended", dec(100)),
			},
			profile.KindPrinter: {
				value("printer_model", "model", str("Unknown")),
				value("vendor", "manufacturer", str("Unknown")),
				literal("filament_diameter", dec(1.75)),
				value("nozzle_diameter", "extruders.0.nozzle_diameter", dec(0.4)),
				value("bed_shape", "build_volume.shape", str("rectangular")),
				join("bed_size", "x", Ref{"build_volume.x", dec(200)}, Ref{"build_volume.y", dec(200)}),
				value("print_height", "build_volume.z", dec(200)),
			},
			profile.KindProcess: {
				value("layer_height", "layer_height.default", dec(0.2)),
				value("first_layer_height", "layer_height.first_layer", nil),
				value("perimeters", "wall_settings.wall_count", num(2)),
				value("top_solid_layers", "wall_settings.top_layers", num(3)),
				value("bottom_solid_layers", "wall_settings.bottom_layers", num(3)),
				shaped("fill_density", Percent, Ref{"infill.density_default", dec(20)}),
				value("perimeter_speed", "speed.outer_wall", dec(30)),
				value("infill_speed", "speed.infill", dec(60)),
				value("travel_speed", "speed.travel", dec(150)),
				value("retract_length", "retraction.distance", dec(0.8)),
				value("retract_speed", "retraction.speed", dec(35)),
				value("support_material", "supports.enabled_default", flag(false)),
				value("brim_width", "adhesion.brim_width", dec(0)),
			},
		},
		profile.DialectOrca: {
			profile.KindFilament: {
				value("filament_type", "material", str("PLA")),
				value("nozzle_temperature", "nozzle.recommended", dec(200)),
				value("nozzle_temperature_initial_layer", "nozzle.min", dec(180)),
				value("bed_temperature", "bed.recommended", dec(50)),
				value("bed_temperature_initial_layer", "bed.min", dec(40)),
				value("fan_speed", "fan.recommended", dec(100)),
				literal("fan_speed_initial_layer", num(0)),
			},
			profile.KindPrinter: {
				join("machine_name", " ", Ref{"manufacturer", str("")}, Ref{"model", str("")}),
				value("machine_manufacturer", "manufacturer", str("Unknown")),
				value("printer_model", "model", str("Unknown")),
				value("bed_x", "build_volume.x", dec(200)),
				value("bed_y", "build_volume.y", dec(200)),
				value("height", "build_volume.z", dec(200)),
				value("nozzle_diameter", "extruders.0.nozzle_diameter", dec(0.4)),
				literal("filament_diameter", dec(1.75)),
			},
			profile.KindProcess: orcaProcessFields(),
		},
		profile.DialectBambu: {
			profile.KindFilament: {
				shaped("filament_type_id", BambuMaterialID, Ref{"material", str("PLA")}),
				literal("drying_temperature", num(55)),
				literal("drying_time", num(4)),
				shaped("nozzle_temperature", List, Ref{"nozzle.min", dec(190)}, Ref{"nozzle.max", dec(230)}),
				shaped("bed_temperature", List, Ref{"bed.min", dec(40)}, Ref{"bed.max", dec(60)}),
				shaped("fan_speed", List, Ref{"fan.min", dec(50)}, Ref{"fan.max", dec(100)}),
			},
			profile.KindPrinter: {
				shaped("product_id", BambuProductID, Ref{"manufacturer", str("")}, Ref{"model", str("")}),
				value("series", "model", str("Unknown")),
				literal("support_lidar", flag(false)),
				literal("support_ams", flag(false)),
				literal("support_ams_lite", flag(false)),
			},
			profile.KindProcess: orcaProcessFields(),
		},
	}
}

func orcaProcessFields() []Field {
	return []Field{
		value("layer_height", "layer_height.default", dec(0.2)),
		value("wall_loops", "wall_settings.wall_count", num(2)),
		value("top_shell_layers", "wall_settings.top_layers", num(3)),
		value("bottom_shell_layers", "wall_settings.bottom_layers", num(3)),
		shaped("sparse_infill_density", Percent, Ref{"infill.density_default", dec(20)}),
		value("outer_wall_speed", "speed.outer_wall", dec(30)),
		value("inner_wall_speed", "speed.inner_wall", dec(60)),
		value("sparse_infill_speed", "speed.infill", dec(60)),
		value("travel_speed", "speed.travel", dec(150)),
		value("enable_support", "supports.enabled_default", flag(false)),
		value("brim_width", "adhesion.brim_width", dec(0)),
	}
}
