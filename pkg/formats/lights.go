package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/ganesha/pkg/resource"
)

// Light chunk layout. Directional light colors are stored channel-major:
// the red values of all three lights come first, then green, then blue.
const (
	DirectionalLightCount = 3

	lightRedOffset       = 0
	lightGreenOffset     = 6
	lightBlueOffset      = 12
	lightNormalOffset    = 18
	lightAmbientOffset   = 36
	lightBackgroundStart = 39
	lightChunkMinSize    = lightBackgroundStart + 6
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// DirectionalLight is a colored light shining along Direction.
// Color channels are signed; 2048 is roughly full intensity.
type DirectionalLight struct {
	R, G, B   int16
	Direction Normal
}

// Background is the vertical gradient behind the map.
type Background struct {
	Top    RGB
	Bottom RGB
}

// Lighting holds everything decoded from the light chunk.
type Lighting struct {
	Directional [DirectionalLightCount]DirectionalLight
	Ambient     RGB
	Background  Background
}

// ParseLighting decodes the light chunk.
func ParseLighting(data []byte) (*Lighting, error) {
	if len(data) < lightChunkMinSize {
		return nil, fmt.Errorf("%w: light chunk is %d bytes, need %d",
			resource.ErrMalformedRecord, len(data), lightChunkMinSize)
	}

	l := &Lighting{}
	channel := func(base, i int) int16 {
		return int16(binary.LittleEndian.Uint16(data[base+i*2:]))
	}
	for i := range l.Directional {
		l.Directional[i] = DirectionalLight{
			R:         channel(lightRedOffset, i),
			G:         channel(lightGreenOffset, i),
			B:         channel(lightBlueOffset, i),
			Direction: parseNormal(data[lightNormalOffset+i*6:]),
		}
	}
	l.Ambient = parseRGB(data[lightAmbientOffset:])
	l.Background = Background{
		Top:    parseRGB(data[lightBackgroundStart:]),
		Bottom: parseRGB(data[lightBackgroundStart+3:]),
	}
	return l, nil
}

func parseRGB(b []byte) RGB {
	return RGB{R: b[0], G: b[1], B: b[2]}
}
