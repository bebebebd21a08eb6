package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// SRTM errors.
var (
	ErrInvalidSRTMSize = errors.New("invalid SRTM tile size")
	ErrInvalidSRTMName = errors.New("invalid SRTM tile name")
)

// SRTMVoid marks a missing sample in an SRTM tile.
const SRTMVoid = -32768

// ParseSRTM parses a square SRTM .hgt tile of big-endian int16 samples.
// Tiles store the northern row first; void samples become 0.
func ParseSRTM(data []byte) (*Heightmap[int16], error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte count %d", ErrInvalidSRTMSize, len(data))
	}
	n := len(data) / 2
	side := int(math.Sqrt(float64(n)))
	for side*side < n {
		side++
	}
	if side*side != n || side < 2 {
		return nil, fmt.Errorf("%w: %d samples is not a square of side >= 2", ErrInvalidSRTMSize, n)
	}

	hm := &Heightmap[int16]{Width: side, Height: side, Heights: make([]int16, n)}
	for i := range hm.Heights {
		v := int16(binary.BigEndian.Uint16(data[2*i:]))
		if v == SRTMVoid {
			v = 0
		}
		hm.Heights[i] = v
	}
	flipRows(hm.Heights, side, side)
	return hm, nil
}

// ParseSRTMFile parses an SRTM tile from disk.
func ParseSRTMFile(path string) (*Heightmap[int16], error) {
	data, err := readFile("SRTM", path)
	if err != nil {
		return nil, err
	}
	return ParseSRTM(data)
}

// ParseSRTMName extracts the south-west corner of a tile from a name
// such as "N60E024.hgt". Southern and western coordinates are negative.
func ParseSRTMName(path string) (lat, lon int, err error) {
	name := strings.ToUpper(filepath.Base(path))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) != 7 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSRTMName, path)
	}

	lat, err = strconv.Atoi(name[1:3])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude in %q", ErrInvalidSRTMName, path)
	}
	lon, err = strconv.Atoi(name[4:7])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude in %q", ErrInvalidSRTMName, path)
	}

	switch name[0] {
	case 'N':
	case 'S':
		lat = -lat
	default:
		return 0, 0, fmt.Errorf("%w: hemisphere %q", ErrInvalidSRTMName, name[0])
	}
	switch name[3] {
	case 'E':
	case 'W':
		lon = -lon
	default:
		return 0, 0, fmt.Errorf("%w: hemisphere %q", ErrInvalidSRTMName, name[3])
	}

	if lat < -90 || lat >= 90 || lon < -180 || lon >= 180 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidSRTMName, path)
	}
	return lat, lon, nil
}
