package main

import (
	"fmt"
	"strconv"
	"strings"

	"spector/hw"
	"spector/snap"
)

// parseNum accepts decimal, 0x-prefixed and $-prefixed values.
func parseNum(s string) (int, error) {
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	}
	v, err := strconv.ParseInt(s, base, 32)
	return int(v), err
}

// applyRegSpecs applies name=value register overrides.
func applyRegSpecs(r *hw.Registers, specs []string) error {
	for _, spec := range specs {
		name, val, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid register spec: %s", spec)
		}
		v, err := parseNum(val)
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		if err := r.SetByName(name, v); err != nil {
			return err
		}
	}
	return nil
}

// applyStateSpecs applies border/iff/im overrides to the final snapshot.
func applyStateSpecs(s *snap.Snapshot, specs []string) error {
	for _, spec := range specs {
		name, val, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid state spec: %s", spec)
		}
		v, err := parseNum(val)
		if err != nil {
			return fmt.Errorf("state %s: %w", name, err)
		}
		switch name {
		case "border":
			if v < 0 || v > 7 {
				return fmt.Errorf("state border: value %d out of range", v)
			}
			s.Border = uint8(v)
		case "iff":
			s.Reg.IFF1 = v != 0
			s.Reg.IFF2 = v != 0
		case "im":
			if v < 0 || v > 2 {
				return fmt.Errorf("state im: value %d out of range", v)
			}
			s.Reg.IM = uint8(v)
		default:
			return fmt.Errorf("invalid state name: %s", name)
		}
	}
	return nil
}
