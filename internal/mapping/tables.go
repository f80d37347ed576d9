package mapping

import "github.com/openprint3d/op3d/internal/profile"

// INI section names per profile kind.
const (
	SectionPrinter  = "printer"
	SectionFilament = "filament"
	SectionProcess  = "print"
)

// DefaultTables returns the built-in mapping tables. Every call returns
// fresh values.
func DefaultTables() []*Table {
	return []*Table{
		prusaPrinterTable(),
		prusaFilamentTable(),
		prusaProcessTable(),
		curaPrinterTable(),
		curaFilamentTable(),
		curaProcessTable(),
		orcaPrinterTable(),
		orcaFilamentTable(),
		orcaProcessTable(profile.DialectOrca),
		bambuPrinterTable(),
		bambuFilamentTable(),
		orcaProcessTable(profile.DialectBambu),
	}
}

func prusaPrinterTable() *Table {
	return &Table{
		Dialect: profile.DialectPrusaSlicer,
		Kind:    profile.KindPrinter,
		Section: SectionPrinter,
		Entries: []Entry{
			{"printer_model", "model", String},
			{"vendor", "manufacturer", String},
			{"printer_make", "manufacturer", String},
			{"printer_variant", "variant", String},
			{"bed_shape", "build_volume.shape", Identity},
			{"print_height", "build_volume.z", Float},
			{"max_print_height", "build_volume.z", Float},
			{"printable_area", "build_volume.dimensions", Identity},
			{"nozzle_diameter", "extruders.0.nozzle_diameter", Float},
			{"min_layer_height", "layer_height.min", Float},
			{"max_layer_height", "layer_height.max", Float},
			{"retract_length", "retraction.distance", Float},
			{"retract_speed", "retraction.speed", Float},
			{"max_print_speed", "speed.max", Float},
			{"machine_max_speed_x", "axes.x.max_speed", Float},
			{"machine_max_speed_y", "axes.y.max_speed", Float},
			{"machine_max_speed_z", "axes.z.max_speed", Float},
			{"machine_max_acceleration_x", "axes.x.max_accel", Float},
			{"machine_max_acceleration_y", "axes.y.max_accel", Float},
			{"machine_max_acceleration_z", "axes.z.max_accel", Float},
			{"printer_notes", "notes", String},
		},
		Derived: []string{"bed_size", "filament_diameter"},
	}
}

func prusaFilamentTable() *Table {
	return &Table{
		Dialect: profile.DialectPrusaSlicer,
		Kind:    profile.KindFilament,
		Section: SectionFilament,
		Entries: []Entry{
			{"filament_type", "material", String},
			{"filament_vendor", "brand", String},
			{"filament_name", "name", String},
			{"filament_colour", "color", String},
			{"filament_diameter", "diameter", Float},
			{"filament_density", "density", Float},
			{"temperature", "nozzle.recommended", Float},
			{"first_layer_temperature", "nozzle.first_layer", Float},
			{"bed_temperature", "bed.recommended", Float},
			{"first_layer_bed_temperature", "bed.first_layer", Float},
			{"fan_min_speed", "fan.min", Float},
			{"fan_max_speed", "fan.max", Float},
			{"fan_speed", "fan.recommended", Float},
			{"max_fan_speed", "fan.recommended", Float},
			{"bridge_fan_speed", "fan.bridge", Float},
			{"disable_fan_first_layers", "fan.disable_first_layers", Int},
			{"min_print_speed", "printing_speed.min", Float},
			{"max_print_speed", "printing_speed.max", Float},
			{"filament_max_volumetric_speed", "volumetric_speed", Float},
			{"filament_notes", "notes", String},
			{"filament_cost", "cost", Float},
			{"filament_spool_weight", "spool_weight", Float},
		},
	}
}

func prusaProcessTable() *Table {
	return &Table{
		Dialect: profile.DialectPrusaSlicer,
		Kind:    profile.KindProcess,
		Section: SectionProcess,
		Entries: []Entry{
			{"name", "name", String},
			{"layer_height", "layer_height.default", Float},
			{"first_layer_height", "layer_height.first_layer", Float},
			{"perimeters", "wall_settings.wall_count", Int},
			{"top_solid_layers", "wall_settings.top_layers", Int},
			{"bottom_solid_layers", "wall_settings.bottom_layers", Int},
			{"fill_density", "infill.density_default", Float},
			{"fill_pattern", "infill.pattern", String},
			{"external_perimeter_speed", "speed.outer_wall", Float},
			{"perimeter_speed", "speed.outer_wall", Float},
			{"infill_speed", "speed.infill", Float},
			{"internal_infills_speed", "speed.infill_internal", Float},
			{"solid_infill_speed", "speed.solid_infill", Float},
			{"top_solid_infill_speed", "speed.top_bottom", Float},
			{"bottom_solid_infill_speed", "speed.top_bottom", Float},
			{"travel_speed", "speed.travel", Float},
			{"first_layer_speed", "speed.first_layer", Float},
			{"bridge_speed", "speed.bridge", Float},
			{"retract_length", "retraction.distance", Float},
			{"retract_speed", "retraction.speed", Float},
			{"retract_before_travel", "retraction.min_travel", Float},
			{"cooling", "cooling.enabled", BoolToken},
			{"fan_below_layer_time", "cooling.fan_min_layer_time", Float},
			{"slow_down_layer_time", "cooling.slow_down_layer_time", Int},
			{"min_fan_speed", "cooling.fan_min", Float},
			{"max_fan_speed", "cooling.fan_max", Float},
			{"bridge_fan_speed", "cooling.fan_bridge", Float},
			{"support_material", "supports.enabled_default", BoolToken},
			{"support_material_angle", "supports.angle", Float},
			{"support_material_threshold", "supports.overhang_threshold", Float},
			{"support_material_pattern", "supports.pattern", String},
			{"raft_layers", "adhesion.raft_layers", Int},
			{"brim_width", "adhesion.brim_width", Float},
			{"skirts", "adhesion.skirt_count", Int},
			{"skirt_distance", "adhesion.skirt_distance", Float},
			{"notes", "notes", String},
		},
	}
}

// Cura machine settings live in the definition_changes container of a
// machine instance, so the printer table nests its extension bag there.
func curaPrinterTable() *Table {
	return &Table{
		Dialect: profile.DialectCura,
		Kind:    profile.KindPrinter,
		Nest:    "definition_changes",
		Entries: []Entry{
			{"machine_width", "build_volume.x", Float},
			{"machine_depth", "build_volume.y", Float},
			{"machine_height", "build_volume.z", Float},
			{"nozzle_size", "extruders.0.nozzle_diameter", Float},
			{"heated_bed", "bed.heated", BoolToken},
			{"machine_heated_build_volume", "chamber.heated", BoolToken},
			{"machine_gcode_flavor", "firmware.flavor", Identity},
		},
	}
}

func curaFilamentTable() *Table {
	return &Table{
		Dialect: profile.DialectCura,
		Kind:    profile.KindFilament,
		Entries: []Entry{
			{"material", "material", Identity},
			{"print_temperature", "nozzle.recommended", Float},
			{"print_temperature_layer_0", "nozzle.min", Float},
			{"bed_temperature", "bed.recommended", Float},
			{"bed_temperature_layer_0", "bed.min", Float},
			{"fan_speed", "fan.recommended", Float},
			{"material_diameter", "diameter", Float},
			{"material_brand", "brand", Identity},
			{"material_name", "name", Identity},
		},
		Derived: []string{"fan_speed_layer_0", "cooling"},
	}
}

func curaProcessTable() *Table {
	return &Table{
		Dialect: profile.DialectCura,
		Kind:    profile.KindProcess,
		Entries: []Entry{
			{"name", "name", Identity},
			{"layer_height", "layer_height.default", Float},
			{"layer_height_0", "layer_height.first_layer", Float},
			{"wall_line_count", "wall_settings.wall_count", Int},
			{"top_layers", "wall_settings.top_layers", Int},
			{"bottom_layers", "wall_settings.bottom_layers", Int},
			{"infill_sparse_density", "infill.density_default", Float},
			{"infill_pattern", "infill.pattern", Identity},
			{"speed_wall_0", "speed.outer_wall", Float},
			{"speed_wall_x", "speed.inner_wall", Float},
			{"speed_infill", "speed.infill", Float},
			{"speed_topbottom", "speed.top_bottom", Float},
			{"speed_travel", "speed.travel", Float},
			{"retraction_amount", "retraction.distance", Float},
			{"retraction_speed", "retraction.speed", Float},
			{"cool_fan_speed", "cooling.fan_default", Float},
			{"cool_min_layer_time", "cooling.fan_min_layer_time", Float},
			{"support_enable", "supports.enabled_default", BoolToken},
			{"support_angle", "supports.overhang_threshold", Float},
			{"adhesion_type", "adhesion.default_type", Identity},
			{"brim_width", "adhesion.brim_width", Float},
		},
	}
}

func orcaPrinterTable() *Table {
	return &Table{
		Dialect: profile.DialectOrca,
		Kind:    profile.KindPrinter,
		Entries: []Entry{
			{"printer_model", "model", Identity},
			{"machine_manufacturer", "manufacturer", Identity},
			{"printer_variant", "variant", Identity},
			{"bed_x", "build_volume.x", Float},
			{"bed_y", "build_volume.y", Float},
			{"height", "build_volume.z", Float},
			{"nozzle_diameter", "extruders.0.nozzle_diameter", Float},
			{"machine_max_speed_x", "axes.x.max_speed", Float},
			{"machine_max_speed_y", "axes.y.max_speed", Float},
			{"machine_max_speed_z", "axes.z.max_speed", Float},
			{"machine_max_acceleration_x", "axes.x.max_accel", Float},
			{"machine_max_acceleration_y", "axes.y.max_accel", Float},
			{"machine_max_acceleration_z", "axes.z.max_accel", Float},
			{"retraction_length", "retraction.distance", Float},
			{"retraction_speed", "retraction.speed", Float},
			{"gcode_flavor", "firmware.flavor", Identity},
		},
		Derived: []string{"machine_name", "filament_diameter"},
	}
}

func orcaFilamentTable() *Table {
	return &Table{
		Dialect: profile.DialectOrca,
		Kind:    profile.KindFilament,
		Entries: []Entry{
			{"filament_type", "material", Identity},
			{"filament_vendor", "brand", Identity},
			{"nozzle_temperature", "nozzle.recommended", Float},
			{"nozzle_temperature_initial_layer", "nozzle.min", Float},
			{"nozzle_temperature_range_low", "nozzle.range_low", Float},
			{"nozzle_temperature_range_high", "nozzle.range_high", Float},
			{"bed_temperature", "bed.recommended", Float},
			{"bed_temperature_initial_layer", "bed.min", Float},
			{"fan_speed", "fan.recommended", Float},
			{"fan_min_speed", "fan.min", Float},
			{"fan_max_speed", "fan.max", Float},
			{"filament_diameter", "diameter", Float},
			{"filament_density", "density", Float},
			{"filament_cost", "cost", Float},
			{"filament_max_volumetric_speed", "volumetric_speed", Float},
		},
		Derived: []string{"fan_speed_initial_layer"},
	}
}

// OrcaSlicer and Bambu Studio share the process key vocabulary.
func orcaProcessTable(d profile.Dialect) *Table {
	return &Table{
		Dialect: d,
		Kind:    profile.KindProcess,
		Entries: []Entry{
			{"name", "name", Identity},
			{"layer_height", "layer_height.default", Float},
			{"initial_layer_print_height", "layer_height.first_layer", Float},
			{"wall_loops", "wall_settings.wall_count", Int},
			{"top_shell_layers", "wall_settings.top_layers", Int},
			{"bottom_shell_layers", "wall_settings.bottom_layers", Int},
			{"sparse_infill_density", "infill.density_default", Float},
			{"sparse_infill_pattern", "infill.pattern", Identity},
			{"outer_wall_speed", "speed.outer_wall", Float},
			{"inner_wall_speed", "speed.inner_wall", Float},
			{"sparse_infill_speed", "speed.infill", Float},
			{"top_surface_speed", "speed.top_bottom", Float},
			{"travel_speed", "speed.travel", Float},
			{"default_acceleration", "accel.default", Float},
			{"outer_wall_acceleration", "accel.outer_wall", Float},
			{"enable_support", "supports.enabled_default", BoolToken},
			{"support_threshold_angle", "supports.overhang_threshold", Float},
			{"brim_width", "adhesion.brim_width", Float},
			{"skirt_loops", "adhesion.skirt_count", Int},
		},
	}
}

func bambuPrinterTable() *Table {
	return &Table{
		Dialect: profile.DialectBambu,
		Kind:    profile.KindPrinter,
		Entries: []Entry{
			{"series", "model", Identity},
			{"printer_variant", "variant", Identity},
			{"printable_height", "build_volume.z", Float},
			{"nozzle_diameter.0", "extruders.0.nozzle_diameter", Float},
			{"support_chamber_temp_control", "chamber.heated", BoolToken},
		},
		Derived: []string{"product_id", "support_lidar", "support_ams", "support_ams_lite"},
	}
}

func bambuFilamentTable() *Table {
	return &Table{
		Dialect: profile.DialectBambu,
		Kind:    profile.KindFilament,
		Entries: []Entry{
			{"filament_type", "material", Identity},
			{"filament_vendor", "brand", Identity},
			{"nozzle_temperature.0", "nozzle.min", Float},
			{"nozzle_temperature.1", "nozzle.max", Float},
			{"bed_temperature.0", "bed.min", Float},
			{"bed_temperature.1", "bed.max", Float},
			{"fan_speed.0", "fan.min", Float},
			{"fan_speed.1", "fan.max", Float},
			{"filament_diameter", "diameter", Float},
			{"filament_max_volumetric_speed", "volumetric_speed", Float},
		},
		Derived: []string{"filament_type_id", "drying_temperature", "drying_time"},
	}
}
