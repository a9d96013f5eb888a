package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// LabelEncoding selects how a position is written in one label segment.
type LabelEncoding string

const (
	EncodingDecimal LabelEncoding = "decimal" // 1, 2, 3, ...
	EncodingAlpha   LabelEncoding = "alpha"   // a .. z, aa, ab, ...
)

// Depths of the synthetic nodes and the first user-visible level.
const (
	RootDepth      = 0
	ModeDepth      = 1
	FirstTaskDepth = 2
)

// LabelSeparator terminates every label segment.
const LabelSeparator = "."

// maxAlphaLen bounds letter segments so parsing cannot overflow.
const maxAlphaLen = 6

// LabelScheme maps tree depth to a label encoding.
// The first encoding applies to top-level tasks, the second to their
// children, and so on; the last encoding repeats for deeper levels.
type LabelScheme struct {
	encodings []LabelEncoding
}

// DefaultLabelScheme numbers top-level tasks, letters their children,
// and numbers everything below that ("2.b.3.").
func DefaultLabelScheme() LabelScheme {
	return LabelScheme{encodings: []LabelEncoding{EncodingDecimal, EncodingAlpha, EncodingDecimal}}
}

// NewLabelScheme builds a scheme from encoding names.
// An empty list yields the default scheme.
func NewLabelScheme(names []string) (LabelScheme, error) {
	if len(names) == 0 {
		return DefaultLabelScheme(), nil
	}
	encodings := make([]LabelEncoding, 0, len(names))
	for _, name := range names {
		enc := LabelEncoding(strings.ToLower(strings.TrimSpace(name)))
		if enc != EncodingDecimal && enc != EncodingAlpha {
			return LabelScheme{}, fmt.Errorf("%w: %q", ErrInvalidLabelEncoding, name)
		}
		encodings = append(encodings, enc)
	}
	return LabelScheme{encodings: encodings}, nil
}

// Names returns the encoding names of the scheme.
func (s LabelScheme) Names() []string {
	names := make([]string, len(s.encodings))
	for i, enc := range s.encodings {
		names[i] = string(enc)
	}
	return names
}

// EncodingForDepth returns the encoding used for nodes at depth.
func (s LabelScheme) EncodingForDepth(depth int) LabelEncoding {
	if len(s.encodings) == 0 {
		s = DefaultLabelScheme()
	}
	idx := depth - FirstTaskDepth
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.encodings) {
		idx = len(s.encodings) - 1
	}
	return s.encodings[idx]
}

// Segment formats a single label segment for a node at depth.
func (s LabelScheme) Segment(depth, position int) string {
	if s.EncodingForDepth(depth) == EncodingAlpha {
		return FormatAlpha(position) + LabelSeparator
	}
	return strconv.Itoa(position) + LabelSeparator
}

// Parse converts a label such as "2.b.3." into its position path [2 2 3].
// The trailing separator is optional and letters are case-insensitive.
func (s LabelScheme) Parse(label string) ([]int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(label))
	trimmed = strings.TrimSuffix(trimmed, LabelSeparator)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	segments := strings.Split(trimmed, LabelSeparator)
	path := make([]int, 0, len(segments))
	for i, seg := range segments {
		depth := FirstTaskDepth + i
		var (
			pos int
			err error
		)
		if s.EncodingForDepth(depth) == EncodingAlpha {
			pos, err = ParseAlpha(seg)
		} else {
			pos, err = parseDecimal(seg)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLabel, label, err)
		}
		path = append(path, pos)
	}
	return path, nil
}

// FormatAlpha writes a 1-based position in bijective base 26:
// 1 -> "a", 26 -> "z", 27 -> "aa".
func FormatAlpha(position int) string {
	if position < 1 {
		return ""
	}
	var b []byte
	for n := position; n > 0; n /= 26 {
		n--
		b = append(b, byte('a'+n%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// ParseAlpha is the inverse of FormatAlpha.
func ParseAlpha(seg string) (int, error) {
	if seg == "" || len(seg) > maxAlphaLen {
		return 0, fmt.Errorf("bad letter segment %q", seg)
	}
	n := 0
	for _, c := range seg {
		if c < 'a' || c > 'z' {
			return 0, fmt.Errorf("bad letter segment %q", seg)
		}
		n = n*26 + int(c-'a') + 1
	}
	return n, nil
}

func parseDecimal(seg string) (int, error) {
	n, err := strconv.Atoi(seg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad number segment %q", seg)
	}
	return n, nil
}
