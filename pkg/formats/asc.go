package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ASCII grid errors.
var (
	ErrInvalidASCIIHeader = errors.New("invalid ASCII grid header")
	ErrTruncatedASCIIData = errors.New("truncated ASCII grid data")
)

// ASCIIGrid is a parsed ESRI ASCII grid. Heights are south-first.
type ASCIIGrid struct {
	Heightmap[float32]
	XLLCorner float64
	YLLCorner float64
	CellSize  float64
	NoData    *float64 // nil when the header has no NODATA_value
}

// ParseASCIIGrid parses an ESRI ASCII grid:
//
//	ncols 4
//	nrows 3
//	xllcorner 0
//	yllcorner 0
//	cellsize 30
//	NODATA_value -9999
//	<nrows lines of ncols values, northern row first>
//
// NODATA samples become 0.
func ParseASCIIGrid(data []byte) (*ASCIIGrid, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	grid := &ASCIIGrid{}
	var pending string
	haveCols, haveRows, haveSize := false, false, false

	// Header lines are "key value" pairs; the first numeric token ends them.
	for sc.Scan() {
		key := sc.Text()
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			pending = key
			break
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: %s has no value", ErrInvalidASCIIHeader, key)
		}
		value := sc.Text()

		switch strings.ToLower(key) {
		case "ncols":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: ncols %q", ErrInvalidASCIIHeader, value)
			}
			grid.Width, haveCols = n, true
		case "nrows":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: nrows %q", ErrInvalidASCIIHeader, value)
			}
			grid.Height, haveRows = n, true
		case "xllcorner", "xllcenter":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidASCIIHeader, key, value)
			}
			grid.XLLCorner = v
		case "yllcorner", "yllcenter":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidASCIIHeader, key, value)
			}
			grid.YLLCorner = v
		case "cellsize":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("%w: cellsize %q", ErrInvalidASCIIHeader, value)
			}
			grid.CellSize, haveSize = v, true
		case "nodata_value":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: NODATA_value %q", ErrInvalidASCIIHeader, value)
			}
			grid.NoData = &v
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidASCIIHeader, key)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning ASCII grid: %w", err)
	}

	if !haveCols || !haveRows || !haveSize {
		return nil, fmt.Errorf("%w: ncols, nrows and cellsize are required", ErrInvalidASCIIHeader)
	}
	if grid.Width <= 0 || grid.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidASCIIHeader, grid.Width, grid.Height)
	}
	if grid.Width > math.MaxInt32/grid.Height {
		return nil, fmt.Errorf("%w: dimensions %dx%d too large", ErrInvalidASCIIHeader, grid.Width, grid.Height)
	}

	count := grid.Width * grid.Height
	// Every sample takes at least two bytes, so the data bounds the capacity.
	grid.Heights = make([]float32, 0, min(count, len(data)/2+1))
	next := func() (string, bool) {
		if pending != "" {
			tok := pending
			pending = ""
			return tok, true
		}
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	for len(grid.Heights) < count {
		tok, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: %d of %d samples", ErrTruncatedASCIIData, len(grid.Heights), count)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing sample %d: %w", len(grid.Heights), err)
		}
		if grid.NoData != nil && v == *grid.NoData {
			v = 0
		}
		grid.Heights = append(grid.Heights, float32(v))
	}

	flipRows(grid.Heights, grid.Width, grid.Height)
	return grid, nil
}

// ParseASCIIGridFile parses an ASCII grid file from disk.
func ParseASCIIGridFile(path string) (*ASCIIGrid, error) {
	data, err := readFile("ASCII grid", path)
	if err != nil {
		return nil, err
	}
	return ParseASCIIGrid(data)
}
