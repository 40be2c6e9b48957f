// Package formats decodes the chunks of FFT map resource files into
// polygons, palettes, lights, terrain and textures.
//
// Decoders are pure functions over byte slices. They never retain or
// modify their input beyond the lifetime of the returned values.
package formats

// Slots of the resource table used by the map decoders. The format
// documentation usually names them by their byte offset within the table
// (slot*4), e.g. 0x40 for polygons.
const (
	SlotPolygons      = 0x40 / 4
	SlotColorPalettes = 0x44 / 4
	SlotLights        = 0x64 / 4
	SlotTerrain       = 0x68 / 4
	SlotGrayPalettes  = 0x7C / 4
	SlotVisibility    = 0xB0 / 4
)
