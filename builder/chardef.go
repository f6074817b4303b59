package builder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
)

// ParseCharDef reads a character definition file:
//
//	# category definitions: NAME INVOKE GROUP LENGTH
//	DEFAULT      0 1 0
//	KANJI        0 0 2
//	# code point ranges: 0xLOW[..0xHIGH] CATEGORY [COMPATIBLE CATEGORIES...]
//	0x4E00..0x9FFF KANJI
//	0x3007         SYMBOL KANJINUMERIC
//
// Comments start with '#'. Categories must be defined before they are
// referenced.
func ParseCharDef(r io.Reader) (*dict.CharacterDefinitions, error) {
	var (
		categories []dict.CharacterCategory
		ranges     []dict.CharRange
		ids        = map[string]dict.CategoryID{}
	)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if !strings.HasPrefix(fields[0], "0x") {
			c, err := parseCategory(fields)
			if err != nil {
				return nil, charDefError(lineno, err)
			}
			if _, dup := ids[c.Name]; dup {
				return nil, charDefError(lineno, fmt.Errorf("category %s defined twice", c.Name))
			}
			ids[c.Name] = dict.CategoryID(len(categories))
			categories = append(categories, c)
			continue
		}
		rg, err := parseRange(fields, ids)
		if err != nil {
			return nil, charDefError(lineno, err)
		}
		ranges = append(ranges, rg)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Resource(errs.IO, "char.def", err)
	}
	cd, err := dict.NewCharacterDefinitions(categories, ranges)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, "char.def", err)
	}
	tracer().Infof("char.def: %d categories, %d ranges", len(categories), len(ranges))
	return cd, nil
}

func charDefError(lineno int, err error) error {
	return errs.Resource(errs.Deserialize, "char.def", fmt.Errorf("line %d: %w", lineno, err))
}

func parseCategory(fields []string) (dict.CharacterCategory, error) {
	if len(fields) != 4 {
		return dict.CharacterCategory{}, fmt.Errorf("category definition needs 4 fields, has %d", len(fields))
	}
	flag := func(s string) (bool, error) {
		switch s {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
		return false, fmt.Errorf("invalid flag %q", s)
	}
	invoke, err := flag(fields[1])
	if err != nil {
		return dict.CharacterCategory{}, err
	}
	group, err := flag(fields[2])
	if err != nil {
		return dict.CharacterCategory{}, err
	}
	length, err := strconv.Atoi(fields[3])
	if err != nil || length < 0 {
		return dict.CharacterCategory{}, fmt.Errorf("invalid length %q", fields[3])
	}
	return dict.CharacterCategory{Name: fields[0], Invoke: invoke, Group: group, Length: length}, nil
}

func parseRange(fields []string, ids map[string]dict.CategoryID) (dict.CharRange, error) {
	var rg dict.CharRange
	if len(fields) < 2 {
		return rg, fmt.Errorf("code point range without category")
	}
	low, high, found := strings.Cut(fields[0], "..")
	if !found {
		high = low
	}
	lo, err := strconv.ParseUint(low, 0, 32)
	if err != nil {
		return rg, fmt.Errorf("invalid code point %q", low)
	}
	hi, err := strconv.ParseUint(high, 0, 32)
	if err != nil {
		return rg, fmt.Errorf("invalid code point %q", high)
	}
	rg.Low, rg.High = rune(lo), rune(hi)
	for _, name := range fields[1:] {
		id, ok := ids[name]
		if !ok {
			return rg, fmt.Errorf("undefined category %s", name)
		}
		rg.Categories = append(rg.Categories, id)
	}
	return rg, nil
}
