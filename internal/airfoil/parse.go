package airfoil

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"wingstl/internal/diag"
	"wingstl/internal/source"
)

const (
	MinPoints = 5
	MaxPoints = 1000
)

// datScan is the grammar-level view of a .dat file before dialect detection.
type datScan struct {
	label    string
	points   []Point
	spans    []source.Span
	lednicer bool
	quantity [2]float64
	hasQty   bool
	qtySpan  source.Span
	firstErr error
	reporter diag.Reporter
}

func (s *datScan) fail(code diag.Code, sp source.Span, msg, hint string) {
	err := diag.ReportError(s.reporter, code, sp, msg).WithHint(hint).Err()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

// ParseDat parses a digitized airfoil. Grammar violations are reported line by
// line to r; the first one is returned once the whole file has been scanned.
func ParseDat(f *source.File, r diag.Reporter) (Section, error) {
	scan := datScan{reporter: r}
	if err := scan.run(f); err != nil {
		return nil, err
	}
	if scan.firstErr != nil {
		return nil, scan.firstErr
	}
	return scan.build(f)
}

// Load reads path into fs and parses it.
func Load(fs *source.FileSet, path string, r diag.Reporter) (Section, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, diag.Wrap(diag.IOLoadFileError, err, fmt.Sprintf("unable to open %s for reading", path))
	}
	return ParseDat(fs.Get(id), r)
}

// LooksLikeFile decides whether an --airfoil argument names a .dat file rather than a NACA code.
func LooksLikeFile(arg string) bool {
	if strings.EqualFold(filepath.Ext(arg), ".dat") || strings.ContainsRune(arg, '/') || strings.ContainsRune(arg, filepath.Separator) {
		return true
	}
	if _, err := os.Stat(arg); err == nil {
		return true
	}
	return false
}

func (s *datScan) run(f *source.File) error {
	lines := f.LineCount()
	header := ""
	if lines > 0 {
		header = strings.TrimSpace(f.GetLine(1))
	}
	if header == "" {
		return diag.ReportError(s.reporter, diag.DatEmptyHeader, f.LineSpan(1),
			"airfoil file must start with a non-empty label line").Err()
	}
	s.label = norm.NFC.String(header)

	var pending []source.Span
	breakSeen := false
	for ln := uint32(2); ln <= lines; ln++ {
		sp := f.LineSpan(ln)
		text := strings.TrimSpace(f.GetLine(ln))
		if text == "" {
			pending = append(pending, sp)
			continue
		}

		x, y, ok := parsePair(text)
		if !ok {
			s.fail(diag.DatMalformedLine, sp, fmt.Sprintf("expected two numbers, got %q", text),
				"each data line holds one x y pair separated by whitespace")
			pending = pending[:0]
			continue
		}
		isQty := x > 1 && y > 1 && len(s.points) == 0

		for k, bsp := range pending {
			switch {
			case breakSeen || k > 0:
				s.fail(diag.DatDuplicateBreak, bsp, "more than one blank line in airfoil data", "")
			case len(s.points) > 0 || isQty:
				s.fail(diag.DatMisplacedBreak, bsp, "blank line is only allowed directly before the first point",
					"a single blank line before the points marks the Lednicer format")
			}
			breakSeen = true
		}
		if len(pending) > 0 && len(s.points) == 0 && !isQty {
			s.lednicer = true
		}
		pending = pending[:0]

		if isQty {
			switch {
			case s.hasQty:
				s.fail(diag.DatDuplicateQuantity, sp, "more than one point-quantity line", "")
			case x != math.Trunc(x) || y != math.Trunc(y):
				s.fail(diag.DatQuantityNotWhole, sp, fmt.Sprintf("point quantities must be whole numbers, got %q", text), "")
			default:
				s.hasQty = true
				s.quantity = [2]float64{x, y}
				s.qtySpan = sp
			}
			continue
		}
		s.points = append(s.points, Point{X: x, Y: y})
		s.spans = append(s.spans, sp)
	}

	if n := len(s.points); n < MinPoints || n > MaxPoints {
		sp := f.LineSpan(1)
		if n > 0 {
			sp = s.spans[n-1]
		}
		s.fail(diag.DatPointCount, sp, fmt.Sprintf("airfoil has %d points, expected between %d and %d", n, MinPoints, MaxPoints), "")
	}
	return nil
}

func parsePair(text string) (float64, float64, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, false
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, 0, false
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	return x, y, true
}

func (s *datScan) build(f *source.File) (Section, error) {
	pts, n := s.points, len(s.points)

	split := 0
	if s.lednicer {
		var err error
		if split, err = s.lednicerSplit(); err != nil {
			return nil, err
		}
	} else if s.hasQty {
		total := int(s.quantity[0]) + int(s.quantity[1])
		if total != n && total != n+1 {
			return nil, s.reportErr(diag.DatQuantityMismatch, s.qtySpan,
				fmt.Sprintf("point-quantity line declares %d points, file has %d", total, n))
		}
	}

	if !normalize(pts) {
		return nil, s.reportErr(diag.DatDegenerateChord, f.LineSpan(1), "all airfoil points share one x coordinate")
	}

	var err error
	if s.lednicer {
		if err = validateLednicer(pts, split, s.spans); err != nil {
			return nil, s.reported(err)
		}
		closed := coincident(pts[split-1], pts[n-1])
		return newLednicer(s.label, pts, split, closed), nil
	}
	le, err := validateSelig(pts, s.spans)
	if err != nil {
		return nil, s.reported(err)
	}
	return newSelig(s.label, pts, le, coincident(pts[0], pts[n-1])), nil
}

func (s *datScan) lednicerSplit() (int, error) {
	n := len(s.points)
	if s.hasQty {
		upper, lower := int(s.quantity[0]), int(s.quantity[1])
		// the lower run restarts at the leading edge, so x must drop at the declared boundary
		if upper+lower != n || upper < 2 || lower < 2 || s.points[upper].X >= s.points[upper-1].X {
			return 0, s.reportErr(diag.DatQuantityMismatch, s.qtySpan,
				fmt.Sprintf("point-quantity line declares %d upper and %d lower points, which does not match the %d points in the file", upper, lower, n))
		}
		return upper, nil
	}
	for i := 1; i < n; i++ {
		if s.points[i].X < s.points[i-1].X {
			if i < 2 || n-i < 2 {
				break
			}
			return i, nil
		}
	}
	return 0, s.reported(orderError(s.spans[n-1], "lednicer file has no lower surface run (x never decreases back to the leading edge)"))
}

func (s *datScan) reportErr(code diag.Code, sp source.Span, msg string) error {
	return diag.ReportError(s.reporter, code, sp, msg).Err()
}

// reported forwards an already built *diag.Error to the reporter.
func (s *datScan) reported(err error) error {
	var de *diag.Error
	if errors.As(err, &de) && s.reporter != nil {
		d := de.Diag
		s.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Hint)
	}
	return err
}
