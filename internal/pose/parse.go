package pose

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/num/quat"
)

// FieldsPerRecord is the number of values on a pose-log line:
// index tx ty tz qx qy qz qw.
const FieldsPerRecord = 8

// maxLineBytes bounds a single pose-log line.
const maxLineBytes = 1 << 20

// Record is one retained pose-log line.
type Record struct {
	// Line is the 1-based physical line number in the source.
	Line int
	// Index is the leading field. It is kept for diagnostics only and
	// never used to name frames.
	Index       float64
	Translation [3]float64
	Orientation quat.Number
}

// ParseLog reads every record from a pose log. Blank lines and lines whose
// first non-space character is '#' are skipped. The first bad line aborts
// parsing with a *MalformedRecordError.
func ParseLog(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := ParseRecord(line, lineNo)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pose log after line %d: %w", lineNo, err)
	}
	return records, nil
}

// ParseRecord parses a single non-comment pose-log line.
func ParseRecord(line string, lineNo int) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != FieldsPerRecord {
		return Record{}, &MalformedRecordError{
			Line:   lineNo,
			Reason: fmt.Sprintf("got %d fields, want %d", len(fields), FieldsPerRecord),
		}
	}

	var v [FieldsPerRecord]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Record{}, &MalformedRecordError{
				Line:   lineNo,
				Reason: fmt.Sprintf("field %d %q is not a number", i+1, f),
			}
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Record{}, &MalformedRecordError{
				Line:   lineNo,
				Reason: fmt.Sprintf("field %d %q is not finite", i+1, f),
			}
		}
		v[i] = x
	}

	return Record{
		Line:        lineNo,
		Index:       v[0],
		Translation: [3]float64{v[1], v[2], v[3]},
		Orientation: QuaternionFromXYZW(v[4], v[5], v[6], v[7]),
	}, nil
}

// Transform converts the record to a homogeneous transform in the pose-log
// camera convention. Quaternion problems are reported as a
// *MalformedRecordError carrying the record's line.
func (rec Record) Transform(policy QuaternionPolicy) (Transform, error) {
	q, err := Prepare(rec.Orientation, policy)
	if err != nil {
		return Transform{}, &MalformedRecordError{Line: rec.Line, Reason: "invalid orientation", Err: err}
	}
	return NewTransform(RotationFromQuaternion(q), rec.Translation), nil
}
