package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Ошибки формата ввода: флаги, манифест, .dat
	InputInfo            Code = 1000
	FlagMissing          Code = 1001
	FlagInvalidValue     Code = 1002
	ManifestInvalid      Code = 1003
	ManifestUnknownKey   Code = 1004
	NacaBadCode          Code = 1005
	UnitsUnknown         Code = 1006
	FlagIgnored          Code = 1007
	DatEmptyHeader       Code = 1100
	DatMalformedLine     Code = 1101
	DatPointCount        Code = 1102
	DatMisplacedBreak    Code = 1103
	DatDuplicateBreak    Code = 1104
	DatDuplicateQuantity Code = 1105
	DatQuantityMismatch  Code = 1106
	DatDegenerateChord   Code = 1107
	DatQuantityNotWhole  Code = 1108

	// Геометрия
	GeoInfo          Code = 2000
	GeoNonPositive   Code = 2001
	GeoSweepRange    Code = 2002
	GeoChordPoints   Code = 2003
	GeoStations      Code = 2004
	GeoTipOverlap    Code = 2005
	GeoAspectRatio   Code = 2006
	GeoZeroThickness Code = 2007
	GeoPointOrder    Code = 2008

	// Ошибки I/O и ресурсов
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003
	ResAllocation    Code = 4100

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Нарушения внутренних инвариантов (дефекты, не пользовательские ошибки)
	InternalTriangleCount Code = 9001
	InternalIndexRange    Code = 9002
	InternalVertexCount   Code = 9003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		InputInfo:             "Input information",
		FlagMissing:           "Required value missing",
		FlagInvalidValue:      "Invalid flag value",
		ManifestInvalid:       "Invalid wingstl.toml",
		ManifestUnknownKey:    "Unknown key in wingstl.toml",
		NacaBadCode:           "Invalid NACA 4-digit code",
		UnitsUnknown:          "Unknown units",
		FlagIgnored:           "Option has no effect",
		DatEmptyHeader:        "Missing airfoil header",
		DatMalformedLine:      "Malformed airfoil data line",
		DatPointCount:         "Airfoil point count out of range",
		DatMisplacedBreak:     "Blank line outside the dialect break position",
		DatDuplicateBreak:     "More than one blank line",
		DatDuplicateQuantity:  "More than one point-quantity line",
		DatQuantityMismatch:   "Point-quantity line disagrees with the points",
		DatDegenerateChord:    "Airfoil has zero chord",
		DatQuantityNotWhole:   "Point quantities must be whole numbers",
		GeoInfo:               "Geometry information",
		GeoNonPositive:        "Length must be positive",
		GeoSweepRange:         "Sweep angle out of range",
		GeoChordPoints:        "Chordwise point count out of range",
		GeoStations:           "Spanwise station count out of range",
		GeoTipOverlap:         "Wing tip overlap",
		GeoAspectRatio:        "Extreme aspect ratio",
		GeoZeroThickness:      "Zero thickness airfoil",
		GeoPointOrder:         "Airfoil points out of order",
		IOLoadFileError:       "I/O load file error",
		IOWriteFileError:      "I/O write file error",
		IOCacheError:          "Mesh cache error",
		ResAllocation:         "Mesh exceeds buffer capacity",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
		InternalTriangleCount: "Emitted triangle count differs from closed form",
		InternalIndexRange:    "Triangle index out of range",
		InternalVertexCount:   "Vertex count differs from closed form",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("INP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("GEO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Category groups codes by how the run must react to them.
type Category uint8

const (
	CatUnknown Category = iota
	// CatInputFormat covers malformed flags, manifest values and .dat grammar violations.
	CatInputFormat
	// CatGeometry covers physically invalid wings and misordered airfoil points.
	CatGeometry
	// CatResource covers allocation limits and file open/write failures.
	CatResource
	// CatInternal marks defects: violated invariants that validation should have made unreachable.
	CatInternal
	CatInfo
)

func (c Category) String() string {
	switch c {
	case CatInputFormat:
		return "input format"
	case CatGeometry:
		return "geometry validation"
	case CatResource:
		return "resource"
	case CatInternal:
		return "internal invariant"
	case CatInfo:
		return "info"
	}
	return "unknown"
}

// Category classifies the code by its numeric range.
func (c Code) Category() Category {
	switch ic := int(c); {
	case ic == int(InputInfo) || ic == int(GeoInfo) || ic >= 6000 && ic < 7000:
		return CatInfo
	case ic > 1000 && ic < 2000:
		return CatInputFormat
	case ic > 2000 && ic < 3000:
		return CatGeometry
	case ic >= 4000 && ic < 5000:
		return CatResource
	case ic >= 9000 && ic < 10000:
		return CatInternal
	}
	return CatUnknown
}
