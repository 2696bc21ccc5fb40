package world

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ReadMap parses the line-oriented map format:
//
//	# comment
//	cities <n>
//	name <city> <display name...>
//	road <a> <b> <length>
//
// The cities line must come before any name or road line. A name is taken
// verbatim up to the end of the line, or unquoted when it starts with '"'.
func ReadMap(r io.Reader) (*Map, error) {
	var m *Map
	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if fields[0] != "cities" && m == nil {
			return nil, fmt.Errorf("%w: line %d: %q before cities", ErrSyntax, lineNo, fields[0])
		}

		switch fields[0] {
		case "cities":
			if m != nil {
				return nil, fmt.Errorf("%w: line %d: duplicate cities line", ErrSyntax, lineNo)
			}
			nums, err := ints(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
			}
			if m, err = NewMap(nums[0]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "name":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%w: line %d: name needs a city and a name", ErrSyntax, lineNo)
			}
			nums, err := ints(fields[1:2], 1)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
			}
			name, err := nameField(line, fields)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
			}
			if err := m.SetName(CityID(nums[0]), name); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "road":
			nums, err := ints(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNo, err)
			}
			if _, err := m.InsertRoad(CityID(nums[0]), CityID(nums[1]), nums[2]); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return nil, fmt.Errorf("%w: line %d: unknown directive %q", ErrSyntax, lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: missing cities line", ErrSyntax)
	}
	return m, nil
}

// WriteMap writes m in the format read by ReadMap.
func WriteMap(w io.Writer, m *Map) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "cities %d\n", m.NumCities())
	for c := 0; c < m.NumCities(); c++ {
		// Blank names cannot be read back and are left unnamed.
		if m.named[c] && strings.TrimSpace(m.names[c]) != "" {
			fmt.Fprintf(bw, "name %d %s\n", c, quoteName(m.names[c]))
		}
	}
	for _, r := range m.Roads() {
		fmt.Fprintf(bw, "road %d %d %d\n", r.From, r.To, r.Length)
	}
	return bw.Flush()
}

// nameField returns the text after the city id of a name line.
func nameField(line string, fields []string) (string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
	if !strings.HasPrefix(rest, `"`) {
		return rest, nil
	}
	name, err := strconv.Unquote(rest)
	if err != nil {
		return "", fmt.Errorf("bad quoted name %s", rest)
	}
	return name, nil
}

// quoteName quotes names that would not survive a plain write: control
// characters, outer spaces or a leading quote.
func quoteName(name string) string {
	if name != strings.TrimSpace(name) || strings.HasPrefix(name, `"`) ||
		strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return strconv.Quote(name)
	}
	return name
}

// ints parses exactly n integer fields.
func ints(fields []string, n int) ([]int, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}
